//go:generate mockery --name EnrollmentRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go_5_training_keep/internal/middleware"
	"go_5_training_keep/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EnrollmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, enrollment *model.Enrollment) error
	FindByUserAndCourse(ctx context.Context, db *gorm.DB, userID, courseID uuid.UUID) (*model.Enrollment, error)
	FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.Enrollment, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]*model.Enrollment, error)
	FindRecent(ctx context.Context, db *gorm.DB, limit int) ([]*model.Enrollment, error)
	TouchLastAccessed(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, accessedAt time.Time) error
	MarkCompleted(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, completedAt time.Time) error
}

type gormEnrollmentRepository struct{}

func NewGormEnrollmentRepository() EnrollmentRepository {
	return &gormEnrollmentRepository{}
}

func (r *gormEnrollmentRepository) Create(ctx context.Context, tx *gorm.DB, enrollment *model.Enrollment) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(enrollment)
	if result.Error != nil {
		// (user_id, course_id) の複合ユニーク制約違反は並行upsertのレース
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return model.ErrConflict
		}
		logger.Error("Error creating enrollment in DB",
			"error", result.Error,
			"user_id", enrollment.UserID.String(),
			"course_id", enrollment.CourseID.String(),
		)
		return fmt.Errorf("gormEnrollmentRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormEnrollmentRepository) FindByUserAndCourse(ctx context.Context, db *gorm.DB, userID, courseID uuid.UUID) (*model.Enrollment, error) {
	logger := middleware.GetLogger(ctx)
	var enrollment model.Enrollment
	result := db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding enrollment in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"course_id", courseID.String(),
		)
		return nil, fmt.Errorf("gormEnrollmentRepository.FindByUserAndCourse: %w", result.Error)
	}
	return &enrollment, nil
}

func (r *gormEnrollmentRepository) FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.Enrollment, error) {
	logger := middleware.GetLogger(ctx)
	var enrollments []*model.Enrollment
	result := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_accessed_at DESC").
		Find(&enrollments)
	if result.Error != nil {
		logger.Error("Error finding enrollments by user in DB",
			"error", result.Error,
			"user_id", userID.String(),
		)
		return nil, fmt.Errorf("gormEnrollmentRepository.FindByUser: %w", result.Error)
	}
	return enrollments, nil
}

// FindAll は全コースの受講レコードを1回のクエリで取得します。
// コース別集計はサービス層のメモリ内リダクションで行う (コースごとのCOUNTクエリは発行しない)。
func (r *gormEnrollmentRepository) FindAll(ctx context.Context, db *gorm.DB) ([]*model.Enrollment, error) {
	logger := middleware.GetLogger(ctx)
	var enrollments []*model.Enrollment
	result := db.WithContext(ctx).Find(&enrollments)
	if result.Error != nil {
		logger.Error("Error finding all enrollments in DB", "error", result.Error)
		return nil, fmt.Errorf("gormEnrollmentRepository.FindAll: %w", result.Error)
	}
	return enrollments, nil
}

func (r *gormEnrollmentRepository) FindRecent(ctx context.Context, db *gorm.DB, limit int) ([]*model.Enrollment, error) {
	logger := middleware.GetLogger(ctx)
	var enrollments []*model.Enrollment
	result := db.WithContext(ctx).
		Preload("User").
		Preload("Course").
		Order("enrolled_at DESC").
		Limit(limit).
		Find(&enrollments)
	if result.Error != nil {
		logger.Error("Error finding recent enrollments in DB", "error", result.Error)
		return nil, fmt.Errorf("gormEnrollmentRepository.FindRecent: %w", result.Error)
	}
	return enrollments, nil
}

// TouchLastAccessed は last_accessed_at のみ更新します (enrolled_at は変更しない)
func (r *gormEnrollmentRepository) TouchLastAccessed(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, accessedAt time.Time) error {
	result := tx.WithContext(ctx).Model(&model.Enrollment{}).
		Where("enrollment_id = ?", enrollmentID).
		Update("last_accessed_at", accessedAt)
	if result.Error != nil {
		return fmt.Errorf("gormEnrollmentRepository.TouchLastAccessed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// MarkCompleted は completed_at が未設定の場合のみ記録します (初回完了が勝つ)
func (r *gormEnrollmentRepository) MarkCompleted(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, completedAt time.Time) error {
	result := tx.WithContext(ctx).Model(&model.Enrollment{}).
		Where("enrollment_id = ? AND completed_at IS NULL", enrollmentID).
		Update("completed_at", completedAt)
	if result.Error != nil {
		return fmt.Errorf("gormEnrollmentRepository.MarkCompleted: %w", result.Error)
	}
	// RowsAffected == 0 は既に完了済みの場合なのでエラーにしない
	return nil
}
