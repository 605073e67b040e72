package handlers

import (
	"log/slog"
	"net/http"

	"go_5_training_keep/internal/service"
	"go_5_training_keep/internal/webutil"
)

// StatsHandler は管理ダッシュボード向けの集計APIを提供します
type StatsHandler struct {
	service service.StatsService
	logger  *slog.Logger
}

func NewStatsHandler(s service.StatsService, logger *slog.Logger) *StatsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsHandler{
		service: s,
		logger:  logger,
	}
}

// GetOverview はプラットフォーム全体のロールアップを返すハンドラ
func (h *StatsHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetOverview"))

	overview, err := h.service.GetPlatformOverview(r.Context())
	if err != nil {
		logger.Error("Error getting platform overview in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, overview, logger)
}

// GetCourseStats は全コースの受講統計を返すハンドラ
func (h *StatsHandler) GetCourseStats(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetCourseStats"))

	stats, err := h.service.GetCourseStats(r.Context())
	if err != nil {
		logger.Error("Error getting course stats in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, stats, logger)
}
