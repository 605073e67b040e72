//go:generate mockery --name CourseRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_5_training_keep/internal/middleware"
	"go_5_training_keep/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, course *model.Course) error
	FindByID(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (*model.Course, error)
	FindPublished(ctx context.Context, db *gorm.DB) ([]*model.Course, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]*model.Course, error)
	Update(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) error
	ReplaceCategories(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, categoryIDs []uuid.UUID) error
	CountByCategory(ctx context.Context, db *gorm.DB, categoryID uuid.UUID) (int64, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	CountPublished(ctx context.Context, db *gorm.DB) (int64, error)
}

type gormCourseRepository struct{}

func NewGormCourseRepository() CourseRepository {
	return &gormCourseRepository{}
}

func (r *gormCourseRepository) Create(ctx context.Context, tx *gorm.DB, course *model.Course) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(course)
	if result.Error != nil {
		logger.Error("Error creating course in DB",
			"error", result.Error,
			"title", course.Title,
		)
		return fmt.Errorf("gormCourseRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormCourseRepository) FindByID(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (*model.Course, error) {
	logger := middleware.GetLogger(ctx)
	var course model.Course
	result := db.WithContext(ctx).
		Preload("Instructor").
		Preload("Categories").
		Where("course_id = ?", courseID).
		First(&course)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding course by ID in DB",
			"error", result.Error,
			"course_id", courseID.String(),
		)
		return nil, fmt.Errorf("gormCourseRepository.FindByID: %w", result.Error)
	}
	return &course, nil
}

func (r *gormCourseRepository) FindPublished(ctx context.Context, db *gorm.DB) ([]*model.Course, error) {
	logger := middleware.GetLogger(ctx)
	var courses []*model.Course
	result := db.WithContext(ctx).
		Preload("Instructor").
		Preload("Categories").
		Where("is_published = ?", true).
		Order("created_at DESC").
		Find(&courses)
	if result.Error != nil {
		logger.Error("Error finding published courses in DB", "error", result.Error)
		return nil, fmt.Errorf("gormCourseRepository.FindPublished: %w", result.Error)
	}
	return courses, nil
}

func (r *gormCourseRepository) FindAll(ctx context.Context, db *gorm.DB) ([]*model.Course, error) {
	logger := middleware.GetLogger(ctx)
	var courses []*model.Course
	result := db.WithContext(ctx).
		Preload("Instructor").
		Preload("Categories").
		Order("created_at DESC").
		Find(&courses)
	if result.Error != nil {
		logger.Error("Error finding all courses in DB", "error", result.Error)
		return nil, fmt.Errorf("gormCourseRepository.FindAll: %w", result.Error)
	}
	return courses, nil
}

func (r *gormCourseRepository) Update(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.Course{}).Where("course_id = ?", courseID).Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating course in DB",
			"error", result.Error,
			"course_id", courseID.String(),
		)
		return fmt.Errorf("gormCourseRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormCourseRepository) Delete(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	// GORMのDeletedAtにより論理削除になる
	result := tx.WithContext(ctx).Where("course_id = ?", courseID).Delete(&model.Course{})
	if result.Error != nil {
		logger.Error("Error deleting course in DB",
			"error", result.Error,
			"course_id", courseID.String(),
		)
		return fmt.Errorf("gormCourseRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// ReplaceCategories はコースのカテゴリ割り当てを丸ごと入れ替えます。
// 削除と挿入の2段階になるため、呼び出し側でトランザクション内から呼ぶこと。
func (r *gormCourseRepository) ReplaceCategories(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, categoryIDs []uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	if err := tx.WithContext(ctx).Where("course_id = ?", courseID).Delete(&model.CourseCategory{}).Error; err != nil {
		logger.Error("Error deleting course categories in DB",
			"error", err,
			"course_id", courseID.String(),
		)
		return fmt.Errorf("gormCourseRepository.ReplaceCategories: %w", err)
	}

	if len(categoryIDs) == 0 {
		return nil
	}

	rows := make([]model.CourseCategory, 0, len(categoryIDs))
	for _, categoryID := range categoryIDs {
		rows = append(rows, model.CourseCategory{CourseID: courseID, CategoryID: categoryID})
	}
	if err := tx.WithContext(ctx).Create(&rows).Error; err != nil {
		logger.Error("Error inserting course categories in DB",
			"error", err,
			"course_id", courseID.String(),
		)
		return fmt.Errorf("gormCourseRepository.ReplaceCategories: %w", err)
	}
	return nil
}

func (r *gormCourseRepository) CountByCategory(ctx context.Context, db *gorm.DB, categoryID uuid.UUID) (int64, error) {
	var count int64
	result := db.WithContext(ctx).Model(&model.CourseCategory{}).Where("category_id = ?", categoryID).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("gormCourseRepository.CountByCategory: %w", result.Error)
	}
	return count, nil
}

func (r *gormCourseRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	result := db.WithContext(ctx).Model(&model.Course{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("gormCourseRepository.Count: %w", result.Error)
	}
	return count, nil
}

func (r *gormCourseRepository) CountPublished(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	result := db.WithContext(ctx).Model(&model.Course{}).Where("is_published = ?", true).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("gormCourseRepository.CountPublished: %w", result.Error)
	}
	return count, nil
}
