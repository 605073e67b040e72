// internal/model/lesson.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// LessonType はレッスンコンテンツの種別
type LessonType string

const (
	LessonTypeYouTube LessonType = "youtube" // 外部動画リンク
	LessonTypeVideo   LessonType = "video"   // アップロード済み動画のURL
	LessonTypePDF     LessonType = "pdf"     // 資料ドキュメントのURL
	LessonTypeText    LessonType = "text"    // インラインテキスト
)

// RequiresURL はコンテンツURLが必須の種別かどうかを返します
func (t LessonType) RequiresURL() bool {
	switch t {
	case LessonTypeYouTube, LessonTypeVideo, LessonTypePDF:
		return true
	}
	return false
}

func (t LessonType) IsValid() bool {
	switch t {
	case LessonTypeYouTube, LessonTypeVideo, LessonTypePDF, LessonTypeText:
		return true
	}
	return false
}

// Lesson はモジュール内の1レッスンを表します。
// コンテンツはタグ付きユニオン: リンク種別 (youtube/video/pdf) は ContentURL、
// text は Content (インライン本文) を使う。
type Lesson struct {
	LessonID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"lesson_id"`
	ModuleID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"module_id"`
	Title           string     `gorm:"not null" json:"title"`
	Description     string     `json:"description"`
	Type            LessonType `gorm:"type:varchar(20);not null" json:"type"`
	ContentURL      string     `json:"content_url,omitempty"`
	Content         string     `json:"content,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	OrderIndex      int        `gorm:"not null;default:1" json:"order_index"` // モジュール内の表示順 (max+1 で採番)
	IsPublished     bool       `gorm:"default:false;index" json:"is_published"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// レッスン作成リクエストDTO
type CreateLessonRequest struct {
	Title           string     `json:"title" validate:"required,min=1,max=200"`
	Description     string     `json:"description" validate:"max=2000"`
	Type            LessonType `json:"type" validate:"required,oneof=youtube video pdf text"`
	ContentURL      string     `json:"content_url" validate:"omitempty,url"`
	Content         string     `json:"content"`
	DurationMinutes *int       `json:"duration_minutes" validate:"omitempty,min=0"`
	IsPublished     bool       `json:"is_published"`
}

// レッスン更新（部分）リクエストDTO
type UpdateLessonRequest struct {
	Title           *string     `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description     *string     `json:"description,omitempty" validate:"omitempty,max=2000"`
	Type            *LessonType `json:"type,omitempty" validate:"omitempty,oneof=youtube video pdf text"`
	ContentURL      *string     `json:"content_url,omitempty" validate:"omitempty,url"`
	Content         *string     `json:"content,omitempty"`
	DurationMinutes *int        `json:"duration_minutes,omitempty" validate:"omitempty,min=0"`
	IsPublished     *bool       `json:"is_published,omitempty"`
}
