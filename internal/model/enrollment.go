// internal/model/enrollment.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment はユーザーとコースの受講関係を表します。
// レコードの存在が「受講開始済み」の唯一のシグナルで、
// 初回アクセス時に upsert で暗黙に作成される。
type Enrollment struct {
	EnrollmentID   uuid.UUID  `gorm:"type:uuid;primaryKey" json:"enrollment_id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_user_course,unique" json:"user_id"`
	CourseID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_user_course,unique" json:"course_id"`
	EnrolledAt     time.Time  `gorm:"not null" json:"enrolled_at"`
	LastAccessedAt time.Time  `gorm:"not null" json:"last_accessed_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"` // 全公開レッスン完了時に一度だけ記録

	// 関連 (Preload用)
	User   *User   `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
