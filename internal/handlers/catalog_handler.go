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

// CatalogHandler は受講者向けのコースカタログと学習画面を提供します
type CatalogHandler struct {
	catalog  service.CatalogService
	progress service.ProgressService
	logger   *slog.Logger
}

func NewCatalogHandler(catalog service.CatalogService, progress service.ProgressService, logger *slog.Logger) *CatalogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogHandler{
		catalog:  catalog,
		progress: progress,
		logger:   logger,
	}
}

// ListCourses は公開済みコースの一覧を返すハンドラ
func (h *CatalogHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListCourses"))

	courses, err := h.catalog.ListPublishedCourses(r.Context())
	if err != nil {
		logger.Error("Error listing courses in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, courses, logger)
}

// GetCourse は公開コースのモジュール・レッスン階層を返すハンドラ
func (h *CatalogHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetCourse"))

	courseID, ok := parseUUIDParam(w, r, logger, "course_id")
	if !ok {
		return
	}

	course, err := h.catalog.GetCourseWithContent(r.Context(), courseID, false)
	if err != nil {
		logger.Warn("Error getting course in service", slog.Any("error", err), slog.String("course_id", courseID.String()))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, course, logger)
}

// GetCoursePage は学習画面1ページ分を返すハンドラ。
// コースを開いた時点で受講レコードが upsert される。
// lesson_id クエリパラメータで現在レッスンを指定する (省略時は先頭レッスン)。
func (h *CatalogHandler) GetCoursePage(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetCoursePage"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrUnauthorized)
		webutil.HandleError(w, logger, appErr)
		return
	}

	courseID, ok := parseUUIDParam(w, r, logger, "course_id")
	if !ok {
		return
	}

	var currentLessonID *uuid.UUID
	if raw := r.URL.Query().Get("lesson_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			logger.Warn("Invalid lesson_id query parameter", slog.String("value", raw))
			appErr := model.NewAppError("INVALID_QUERY_PARAM", "lesson_idの形式が正しくありません。", "lesson_id", model.ErrInvalidInput)
			webutil.HandleError(w, logger, appErr)
			return
		}
		currentLessonID = &id
	}

	page, err := h.progress.GetCoursePage(r.Context(), userID, courseID, currentLessonID)
	if err != nil {
		logger.Warn("Error building course page in service", slog.Any("error", err), slog.String("course_id", courseID.String()))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, page, logger)
}
