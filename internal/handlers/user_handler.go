package handlers

import (
	"log/slog"
	"net/http"

	"go_5_training_keep/internal/model"
	"go_5_training_keep/internal/service"
	"go_5_training_keep/internal/webutil"
)

// UserHandler は管理者向けのユーザー管理ハンドラ
type UserHandler struct {
	service service.AuthService
	logger  *slog.Logger
}

func NewUserHandler(s service.AuthService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		service: s,
		logger:  logger,
	}
}

// CreateUser は管理者によるユーザー作成を受け付けるハンドラ
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "CreateUser"))

	var req model.CreateUserRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}

	user, err := h.service.CreateUser(r.Context(), &req)
	if err != nil {
		logger.Error("Error creating user in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("User created by admin", slog.String("user_id", user.UserID.String()), slog.String("role", string(user.Role)))
	webutil.RespondWithJSON(w, http.StatusCreated, user.ToResponse(), logger)
}
