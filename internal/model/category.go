// internal/model/category.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Category はコースの分類を表します
type Category struct {
	CategoryID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"category_id"`
	Name        string    `gorm:"unique;not null" json:"name"`
	Slug        string    `gorm:"unique;not null" json:"slug"` // 名前から正規化して生成
	Description string    `json:"description"`
	Icon        string    `json:"icon,omitempty"`
	Color       string    `json:"color,omitempty"`
	OrderIndex  int       `gorm:"not null;default:1" json:"order_index"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

// カテゴリ作成リクエストDTO (slug未指定なら名前から生成)
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Slug        string `json:"slug" validate:"omitempty,min=1,max=100"`
	Description string `json:"description" validate:"max=1000"`
	Icon        string `json:"icon" validate:"max=100"`
	Color       string `json:"color" validate:"max=30"`
}

// カテゴリ更新（部分）リクエストDTO
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Slug        *string `json:"slug,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Icon        *string `json:"icon,omitempty" validate:"omitempty,max=100"`
	Color       *string `json:"color,omitempty" validate:"omitempty,max=30"`
	IsActive    *bool   `json:"is_active,omitempty"`
}
