// internal/model/course.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Course は研修コースを表します
type Course struct {
	CourseID     uuid.UUID      `gorm:"type:uuid;primaryKey" json:"course_id"`
	Title        string         `gorm:"not null" json:"title"`
	Description  string         `json:"description"`
	ThumbnailURL string         `json:"thumbnail_url,omitempty"`
	InstructorID *uuid.UUID     `gorm:"type:uuid;index" json:"instructor_id,omitempty"`
	IsPublished  bool           `gorm:"default:false;index" json:"is_published"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"` // 学習者向けフローでは物理削除しない

	// 関連 (Preload用)
	Instructor *User      `gorm:"foreignKey:InstructorID;references:UserID" json:"instructor,omitempty"`
	Categories []Category `gorm:"many2many:course_categories;foreignKey:CourseID;joinForeignKey:CourseID;references:CategoryID;joinReferences:CategoryID" json:"categories,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// CourseCategory はコースとカテゴリの中間テーブル
type CourseCategory struct {
	CourseID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	CategoryID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (CourseCategory) TableName() string {
	return "course_categories"
}

// CourseWithContent はモジュール・レッスンを含むコースの読み取りモデル
type CourseWithContent struct {
	Course
	ContentModules []*ModuleWithLessons `json:"modules"`
}

// ModuleWithLessons は順序付きレッスンを含むモジュール
type ModuleWithLessons struct {
	CourseModule
	Lessons []*Lesson `json:"lessons"`
}

// コース作成リクエストDTO
// カテゴリは最低1つ必須 (後期スキーマの制約に合わせる)
type CreateCourseRequest struct {
	Title        string      `json:"title" validate:"required,min=1,max=200"`
	Description  string      `json:"description" validate:"max=2000"`
	ThumbnailURL string      `json:"thumbnail_url" validate:"omitempty,url"`
	CategoryIDs  []uuid.UUID `json:"category_ids" validate:"required,min=1"`
}

// コース更新（部分）リクエストDTO
type UpdateCourseRequest struct {
	Title        *string     `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description  *string     `json:"description,omitempty" validate:"omitempty,max=2000"`
	ThumbnailURL *string     `json:"thumbnail_url,omitempty" validate:"omitempty,url"`
	IsPublished  *bool       `json:"is_published,omitempty"`
	CategoryIDs  []uuid.UUID `json:"category_ids,omitempty" validate:"omitempty,min=1"`
}
