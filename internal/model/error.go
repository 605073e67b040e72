// internal/model/error.go
package model

import "errors"

// アプリケーション固有のエラー
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInternalServer = errors.New("internal server error")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("resource conflict") // 重複エラー用
)

// ErrorDetail はクライアントに返すエラーの詳細情報
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"` // バリデーションエラーの対象フィールド (jsonタグ名)
}

// APIErrorResponse はAPIエラーレスポンスの構造体
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// AppError はエラーコード・メッセージと原因エラーをまとめたアプリケーションエラーです。
// webutil.HandleError が Unwrap した原因エラーでHTTPステータスを決定します。
type AppError struct {
	Detail ErrorDetail
	cause  error
}

func NewAppError(code, message, field string, cause error) *AppError {
	return &AppError{
		Detail: ErrorDetail{
			Code:    code,
			Message: message,
			Field:   field,
		},
		cause: cause,
	}
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return e.Detail.Code + ": " + e.Detail.Message + " (" + e.cause.Error() + ")"
	}
	return e.Detail.Code + ": " + e.Detail.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}
