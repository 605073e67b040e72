// internal/model/stats.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// CourseStats はコース単位の受講統計
type CourseStats struct {
	CourseID        uuid.UUID `json:"course_id"`
	Title           string    `json:"title"`
	EnrollmentCount int       `json:"enrollment_count"`
	CompletedCount  int       `json:"completed_count"` // Enrollment.CompletedAt 非null の数
	CompletionRate  float64   `json:"completion_rate"` // 受講者0なら0
}

// UserStats はユーザー単位の受講統計
type UserStats struct {
	UserID          uuid.UUID `json:"user_id"`
	EnrolledCount   int       `json:"enrolled_count"`
	CompletedCount  int       `json:"completed_count"`
	LessonsComplete int       `json:"lessons_completed"`
}

// RecentEnrollment は管理ダッシュボードの直近受講一覧の1行
type RecentEnrollment struct {
	EnrollmentID uuid.UUID `json:"enrollment_id"`
	UserName     string    `json:"user_name"`
	CourseTitle  string    `json:"course_title"`
	EnrolledAt   time.Time `json:"enrolled_at"`
}

// PlatformOverview は管理ダッシュボードの全体ロールアップ。
// 合計値はコース別集計の1パスを合算して求める (別クエリでの再集計はしない)。
type PlatformOverview struct {
	TotalUsers            int                 `json:"total_users"`
	TotalCourses          int                 `json:"total_courses"`
	PublishedCourses      int                 `json:"published_courses"`
	TotalEnrollments      int                 `json:"total_enrollments"`
	TotalCompletions      int                 `json:"total_completions"`
	OverallCompletionRate float64             `json:"overall_completion_rate"` // 受講0なら0
	TopCourses            []*CourseStats      `json:"top_courses"`
	RecentEnrollments     []*RecentEnrollment `json:"recent_enrollments"`
}

// LessonRef は公開レッスンとその所属コースの対応 (集計用の軽量読み取りモデル)
type LessonRef struct {
	LessonID uuid.UUID `json:"lesson_id"`
	CourseID uuid.UUID `json:"course_id"`
}

// CourseProgressSummary は学習者ダッシュボードのコースカード1枚分
type CourseProgressSummary struct {
	Course
	TotalLessons       int        `json:"total_lessons"`
	CompletedLessons   int        `json:"completed_lessons"`
	ProgressPercentage float64    `json:"progress_percentage"`
	EnrolledAt         *time.Time `json:"enrolled_at,omitempty"`
}
