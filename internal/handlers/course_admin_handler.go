package handlers

import (
	"log/slog"
	"net/http"

	"go_5_training_keep/internal/middleware"
	"go_5_training_keep/internal/model"
	"go_5_training_keep/internal/service"
	"go_5_training_keep/internal/webutil"

	"github.com/google/uuid"
)

// CourseAdminHandler は管理者向けのコンテンツ管理ハンドラ
type CourseAdminHandler struct {
	course  service.CourseService
	catalog service.CatalogService
	logger  *slog.Logger
}

func NewCourseAdminHandler(course service.CourseService, catalog service.CatalogService, logger *slog.Logger) *CourseAdminHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CourseAdminHandler{
		course:  course,
		catalog: catalog,
		logger:  logger,
	}
}

// --- コース ---

// ListCourses は未公開を含む全コースの一覧を返すハンドラ
func (h *CourseAdminHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "AdminListCourses"))

	courses, err := h.course.ListAllCourses(r.Context())
	if err != nil {
		logger.Error("Error listing courses in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, courses, logger)
}

// GetCourse は未公開レッスンも含むコース階層を返すハンドラ
func (h *CourseAdminHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "AdminGetCourse"))

	courseID, ok := parseUUIDParam(w, r, logger, "course_id")
	if !ok {
		return
	}

	course, err := h.catalog.GetCourseWithContent(r.Context(), courseID, true)
	if err != nil {
		logger.Warn("Error getting course in service", slog.Any("error", err), slog.String("course_id", courseID.String()))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, course, logger)
}

// CreateCourse は新規コース (下書き) を作成するハンドラ
func (h *CourseAdminHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "CreateCourse"))

	var req model.CreateCourseRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}

	// 作成者を講師として紐付ける (取れない場合は未設定のまま)
	var instructorID *uuid.UUID
	if userID, err := middleware.GetUserIDFromContext(r.Context()); err == nil {
		instructorID = &userID
	}

	course, err := h.course.CreateCourse(r.Context(), instructorID, &req)
	if err != nil {
		logger.Error("Error creating course in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Course created", slog.String("course_id", course.CourseID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, course, logger)
}

// UpdateCourse はコースの部分更新 (公開状態・カテゴリ差し替え含む) を行うハンドラ
func (h *CourseAdminHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "UpdateCourse"))

	courseID, ok := parseUUIDParam(w, r, logger, "course_id")
	if !ok {
		return
	}

	var req model.UpdateCourseRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}

	course, err := h.course.UpdateCourse(r.Context(), courseID, &req)
	if err != nil {
		logger.Error("Error updating course in service", slog.Any("error", err), slog.String("course_id", courseID.String()))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, course, logger)
}

// DeleteCourse はコースを削除 (論理削除) するハンドラ
func (h *CourseAdminHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteCourse"))

	courseID, ok := parseUUIDParam(w, r, logger, "course_id")
	if !ok {
		return
	}

	if err := h.course.DeleteCourse(r.Context(), courseID); err != nil {
		logger.Error("Error deleting course in service", slog.Any("error", err), slog.String("course_id", courseID.String()))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Course deleted", slog.String("course_id", courseID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// --- モジュール ---

func (h *CourseAdminHandler) CreateModule(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "CreateModule"))

	courseID, ok := parseUUIDParam(w, r, logger, "course_id")
	if !ok {
		return
	}

	var req model.CreateModuleRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}

	module, err := h.course.CreateModule(r.Context(), courseID, &req)
	if err != nil {
		logger.Error("Error creating module in service", slog.Any("error", err), slog.String("course_id", courseID.String()))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Module created", slog.String("module_id", module.ModuleID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, module, logger)
}

func (h *CourseAdminHandler) UpdateModule(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "UpdateModule"))

	moduleID, ok := parseUUIDParam(w, r, logger, "module_id")
	if !ok {
		return
	}

	var req model.UpdateModuleRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}

	module, err := h.course.UpdateModule(r.Context(), moduleID, &req)
	if err != nil {
		logger.Error("Error updating module in service", slog.Any("error", err), slog.String("module_id", moduleID.String()))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, module, logger)
}

func (h *CourseAdminHandler) DeleteModule(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteModule"))

	moduleID, ok := parseUUIDParam(w, r, logger, "module_id")
	if !ok {
		return
	}

	if err := h.course.DeleteModule(r.Context(), moduleID); err != nil {
		logger.Error("Error deleting module in service", slog.Any("error", err), slog.String("module_id", moduleID.String()))
		webutil.HandleError(w, logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReorderModules はコース内モジュールの並び替えを受け付けるハンドラ
func (h *CourseAdminHandler) ReorderModules(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ReorderModules"))

	courseID, ok := parseUUIDParam(w, r, logger, "course_id")
	if !ok {
		return
	}

	var req model.ReorderRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}

	if err := h.course.ReorderModules(r.Context(), courseID, req.OrderedIDs); err != nil {
		logger.Warn("Error reordering modules in service", slog.Any("error", err), slog.String("course_id", courseID.String()))
		webutil.HandleError(w, logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- レッスン ---

func (h *CourseAdminHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "CreateLesson"))

	moduleID, ok := parseUUIDParam(w, r, logger, "module_id")
	if !ok {
		return
	}

	var req model.CreateLessonRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}

	lesson, err := h.course.CreateLesson(r.Context(), moduleID, &req)
	if err != nil {
		logger.Error("Error creating lesson in service", slog.Any("error", err), slog.String("module_id", moduleID.String()))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Lesson created", slog.String("lesson_id", lesson.LessonID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, lesson, logger)
}

func (h *CourseAdminHandler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "UpdateLesson"))

	lessonID, ok := parseUUIDParam(w, r, logger, "lesson_id")
	if !ok {
		return
	}

	var req model.UpdateLessonRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}

	lesson, err := h.course.UpdateLesson(r.Context(), lessonID, &req)
	if err != nil {
		logger.Error("Error updating lesson in service", slog.Any("error", err), slog.String("lesson_id", lessonID.String()))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, lesson, logger)
}

func (h *CourseAdminHandler) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteLesson"))

	lessonID, ok := parseUUIDParam(w, r, logger, "lesson_id")
	if !ok {
		return
	}

	if err := h.course.DeleteLesson(r.Context(), lessonID); err != nil {
		logger.Error("Error deleting lesson in service", slog.Any("error", err), slog.String("lesson_id", lessonID.String()))
		webutil.HandleError(w, logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReorderLessons はモジュール内レッスンの並び替えを受け付けるハンドラ
func (h *CourseAdminHandler) ReorderLessons(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ReorderLessons"))

	moduleID, ok := parseUUIDParam(w, r, logger, "module_id")
	if !ok {
		return
	}

	var req model.ReorderRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}

	if err := h.course.ReorderLessons(r.Context(), moduleID, req.OrderedIDs); err != nil {
		logger.Warn("Error reordering lessons in service", slog.Any("error", err), slog.String("module_id", moduleID.String()))
		webutil.HandleError(w, logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
