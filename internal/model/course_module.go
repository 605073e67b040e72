// internal/model/course_module.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// CourseModule はコース内の章（モジュール）を表します
type CourseModule struct {
	ModuleID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"module_id"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	OrderIndex  int       `gorm:"not null;default:1" json:"order_index"` // コース内の表示順 (max+1 で採番)
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}

// モジュール作成リクエストDTO
type CreateModuleRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// モジュール更新（部分）リクエストDTO
type UpdateModuleRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// 並び替えリクエストDTO (親配下の全IDを並べ替え後の順で送る)
type ReorderRequest struct {
	OrderedIDs []uuid.UUID `json:"ordered_ids" validate:"required,min=1"`
}
