package handlers

import (
	"log/slog"
	"net/http"

	"go_5_training_keep/internal/model"
	"go_5_training_keep/internal/service"
	"go_5_training_keep/internal/webutil"
)

type CategoryHandler struct {
	service service.CategoryService
	logger  *slog.Logger
}

func NewCategoryHandler(s service.CategoryService, logger *slog.Logger) *CategoryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CategoryHandler{
		service: s,
		logger:  logger,
	}
}

// ListCategories は有効なカテゴリの一覧を表示順で返すハンドラ
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListCategories"))

	// 管理画面では all=true で無効カテゴリも取得できる
	activeOnly := r.URL.Query().Get("all") != "true"

	categories, err := h.service.ListCategories(r.Context(), activeOnly)
	if err != nil {
		logger.Error("Error listing categories in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, categories, logger)
}

func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetCategory"))

	categoryID, ok := parseUUIDParam(w, r, logger, "category_id")
	if !ok {
		return
	}

	category, err := h.service.GetCategory(r.Context(), categoryID)
	if err != nil {
		logger.Warn("Error getting category in service", slog.Any("error", err), slog.String("category_id", categoryID.String()))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, category, logger)
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "CreateCategory"))

	var req model.CreateCategoryRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}

	category, err := h.service.CreateCategory(r.Context(), &req)
	if err != nil {
		logger.Warn("Error creating category in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Category created", slog.String("category_id", category.CategoryID.String()), slog.String("slug", category.Slug))
	webutil.RespondWithJSON(w, http.StatusCreated, category, logger)
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "UpdateCategory"))

	categoryID, ok := parseUUIDParam(w, r, logger, "category_id")
	if !ok {
		return
	}

	var req model.UpdateCategoryRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), categoryID, &req)
	if err != nil {
		logger.Warn("Error updating category in service", slog.Any("error", err), slog.String("category_id", categoryID.String()))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, category, logger)
}

// DeleteCategory はカテゴリ削除を受け付けるハンドラ。
// コースから参照中の場合は409と参照件数入りメッセージを返す。
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteCategory"))

	categoryID, ok := parseUUIDParam(w, r, logger, "category_id")
	if !ok {
		return
	}

	if err := h.service.DeleteCategory(r.Context(), categoryID); err != nil {
		logger.Warn("Error deleting category in service", slog.Any("error", err), slog.String("category_id", categoryID.String()))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Category deleted", slog.String("category_id", categoryID.String()))
	w.WriteHeader(http.StatusNoContent)
}
