// internal/model/auth.go
package model

import (
	"github.com/golang-jwt/jwt/v5"
)

type ContextKey string

const (
	UserIDKey ContextKey = "userID"
	RoleKey   ContextKey = "role"
)

// RegisterRequest は自己登録APIのリクエストボディ (student / instructor のみ)
type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     Role   `json:"role" validate:"required,oneof=student instructor"`
}

// LoginRequest はログインAPIのリクエストボディ
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse はログイン成功時のレスポンス
type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	User        *UserResponse `json:"user"`
}

// SetupAdminRequest は初回管理者作成APIのリクエストボディ
type SetupAdminRequest struct {
	FullName string `json:"full_name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// CreateUserRequest は管理者によるユーザー作成APIのリクエストボディ
type CreateUserRequest struct {
	FullName string `json:"full_name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     Role   `json:"role" validate:"required,oneof=student instructor admin"`
}

// JWTCustomClaims はJWTに含めるカスタムクレーム（ペイロード）
// sub にユーザーID、role に権限を載せる
type JWTCustomClaims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}
