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

// ProgressHandler は受講登録・進捗記録・学習者ダッシュボードを提供します
type ProgressHandler struct {
	progress service.ProgressService
	stats    service.StatsService
	logger   *slog.Logger
}

func NewProgressHandler(progress service.ProgressService, stats service.StatsService, logger *slog.Logger) *ProgressHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressHandler{
		progress: progress,
		stats:    stats,
		logger:   logger,
	}
}

func (h *ProgressHandler) userIDFromContext(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (uuid.UUID, bool) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrUnauthorized)
		webutil.HandleError(w, logger, appErr)
		return uuid.Nil, false
	}
	return userID, true
}

// Enroll はコースの受講登録 (upsert) を受け付けるハンドラ
func (h *ProgressHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Enroll"))

	userID, ok := h.userIDFromContext(w, r, logger)
	if !ok {
		return
	}
	courseID, ok := parseUUIDParam(w, r, logger, "course_id")
	if !ok {
		return
	}

	enrollment, err := h.progress.EnsureEnrolled(r.Context(), userID, courseID)
	if err != nil {
		logger.Warn("Error enrolling in service", slog.Any("error", err), slog.String("course_id", courseID.String()))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Enrollment ensured", slog.String("enrollment_id", enrollment.EnrollmentID.String()))
	webutil.RespondWithJSON(w, http.StatusOK, enrollment, logger)
}

// ListEnrollments は自分の受講一覧を返すハンドラ
func (h *ProgressHandler) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListEnrollments"))

	userID, ok := h.userIDFromContext(w, r, logger)
	if !ok {
		return
	}

	enrollments, err := h.progress.ListEnrollments(r.Context(), userID)
	if err != nil {
		logger.Error("Error listing enrollments in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, enrollments, logger)
}

// RecordProgress はレッスン進捗の記録 (完了マーク / 再生位置保存) を受け付けるハンドラ
func (h *ProgressHandler) RecordProgress(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "RecordProgress"))

	userID, ok := h.userIDFromContext(w, r, logger)
	if !ok {
		return
	}
	lessonID, ok := parseUUIDParam(w, r, logger, "lesson_id")
	if !ok {
		return
	}

	var req model.RecordProgressRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}

	progress, err := h.progress.RecordLessonProgress(r.Context(), userID, lessonID, &req)
	if err != nil {
		logger.Warn("Error recording progress in service", slog.Any("error", err), slog.String("lesson_id", lessonID.String()))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, progress, logger)
}

// GetMyCourses は学習者ダッシュボードのコースカード一覧を返すハンドラ
func (h *ProgressHandler) GetMyCourses(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetMyCourses"))

	userID, ok := h.userIDFromContext(w, r, logger)
	if !ok {
		return
	}

	courses, err := h.stats.GetCoursesWithProgress(r.Context(), userID)
	if err != nil {
		logger.Error("Error getting courses with progress in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, courses, logger)
}

// GetMyStats は自分の受講統計を返すハンドラ
func (h *ProgressHandler) GetMyStats(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetMyStats"))

	userID, ok := h.userIDFromContext(w, r, logger)
	if !ok {
		return
	}

	stats, err := h.stats.GetUserStats(r.Context(), userID)
	if err != nil {
		logger.Error("Error getting user stats in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, stats, logger)
}
