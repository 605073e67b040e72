// internal/middleware/dev_auth.go
package middleware

import (
	"context"
	"net/http"

	"go_5_training_keep/internal/model"
	"go_5_training_keep/internal/webutil"

	"github.com/google/uuid"
)

// DevUserContextMiddleware は開発時用ミドルウェアです。
// X-User-ID / X-User-Role ヘッダーをそのままコンテキストに設定します。
// トークン検証は行いません。
func DevUserContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLogger(r.Context())

		userIDStr := r.Header.Get("X-User-ID")
		if userIDStr == "" {
			// 開発時でも User ID は必須とする (API利用のために)
			logger.Warn("[DEV AUTH] Failed: X-User-ID header missing")
			appErr := model.NewAppError("UNAUTHORIZED", "[DEV] X-User-ID ヘッダーが必要です。", "", model.ErrUnauthorized)
			webutil.HandleError(w, logger, appErr)
			return
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			logger.Warn("[DEV AUTH] Failed: Invalid X-User-ID format", "value", userIDStr)
			appErr := model.NewAppError("UNAUTHORIZED", "[DEV] X-User-ID の形式が正しくありません。", "", model.ErrUnauthorized)
			webutil.HandleError(w, logger, appErr)
			return
		}

		role := model.Role(r.Header.Get("X-User-Role"))
		if !role.IsValid() {
			role = model.RoleStudent
		}

		ctx := context.WithValue(r.Context(), model.UserIDKey, userID)
		ctx = context.WithValue(ctx, model.RoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
