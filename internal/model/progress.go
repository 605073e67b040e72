// internal/model/progress.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// LessonProgress はユーザーのレッスン単位の進捗を表します。
// (user_id, lesson_id) で一意の upsert セマンティクス。
type LessonProgress struct {
	ProgressID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"progress_id"`
	UserID              uuid.UUID  `gorm:"type:uuid;not null;index:idx_user_lesson,unique" json:"user_id"`
	LessonID            uuid.UUID  `gorm:"type:uuid;not null;index:idx_user_lesson,unique" json:"lesson_id"`
	Completed           bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"` // Completed=true のとき必ず非nil
	LastPositionSeconds int        `gorm:"not null;default:0" json:"last_position_seconds"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}

// 進捗記録リクエストDTO。completed / position_seconds のどちらか一方は必須。
type RecordProgressRequest struct {
	Completed       *bool `json:"completed,omitempty"`
	PositionSeconds *int  `json:"position_seconds,omitempty" validate:"omitempty,min=0"`
}

// LessonProgressResponse はナビゲーション描画用の進捗スナップショット
type LessonProgressResponse struct {
	LessonID            uuid.UUID  `json:"lesson_id"`
	Completed           bool       `json:"completed"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
	LastPositionSeconds int        `json:"last_position_seconds"`
}
