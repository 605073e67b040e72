//go:generate mockery --name ProgressRepository --output ./mocks --outpkg mocks --case=underscore
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

type ProgressRepository interface {
	Create(ctx context.Context, tx *gorm.DB, progress *model.LessonProgress) error
	Update(ctx context.Context, tx *gorm.DB, progress *model.LessonProgress) error
	FindByUserAndLesson(ctx context.Context, db *gorm.DB, userID, lessonID uuid.UUID) (*model.LessonProgress, error)
	FindByUserAndLessons(ctx context.Context, db *gorm.DB, userID uuid.UUID, lessonIDs []uuid.UUID) ([]*model.LessonProgress, error)
	FindCompletedByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.LessonProgress, error)
	CountCompletedInCourse(ctx context.Context, db *gorm.DB, userID, courseID uuid.UUID) (int64, error)
}

type gormProgressRepository struct{}

func NewGormProgressRepository() ProgressRepository {
	return &gormProgressRepository{}
}

func (r *gormProgressRepository) Create(ctx context.Context, tx *gorm.DB, progress *model.LessonProgress) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(progress)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return model.ErrConflict
		}
		logger.Error("Error creating lesson progress in DB",
			"error", result.Error,
			"user_id", progress.UserID.String(),
			"lesson_id", progress.LessonID.String(),
		)
		return fmt.Errorf("gormProgressRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormProgressRepository) Update(ctx context.Context, tx *gorm.DB, progress *model.LessonProgress) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Save(progress)
	if result.Error != nil {
		logger.Error("Error updating lesson progress in DB",
			"error", result.Error,
			"progress_id", progress.ProgressID.String(),
		)
		return fmt.Errorf("gormProgressRepository.Update: %w", result.Error)
	}
	return nil
}

func (r *gormProgressRepository) FindByUserAndLesson(ctx context.Context, db *gorm.DB, userID, lessonID uuid.UUID) (*model.LessonProgress, error) {
	logger := middleware.GetLogger(ctx)
	var progress model.LessonProgress
	result := db.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&progress)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding lesson progress in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"lesson_id", lessonID.String(),
		)
		return nil, fmt.Errorf("gormProgressRepository.FindByUserAndLesson: %w", result.Error)
	}
	return &progress, nil
}

// FindByUserAndLessons はコースページ表示用に複数レッスンの進捗をIN句でまとめて取得します。
func (r *gormProgressRepository) FindByUserAndLessons(ctx context.Context, db *gorm.DB, userID uuid.UUID, lessonIDs []uuid.UUID) ([]*model.LessonProgress, error) {
	logger := middleware.GetLogger(ctx)
	if len(lessonIDs) == 0 {
		return []*model.LessonProgress{}, nil
	}
	var progresses []*model.LessonProgress
	result := db.WithContext(ctx).
		Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).
		Find(&progresses)
	if result.Error != nil {
		logger.Error("Error finding lesson progresses in DB",
			"error", result.Error,
			"user_id", userID.String(),
		)
		return nil, fmt.Errorf("gormProgressRepository.FindByUserAndLessons: %w", result.Error)
	}
	return progresses, nil
}

func (r *gormProgressRepository) FindCompletedByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.LessonProgress, error) {
	logger := middleware.GetLogger(ctx)
	var progresses []*model.LessonProgress
	result := db.WithContext(ctx).
		Where("user_id = ? AND completed = ?", userID, true).
		Find(&progresses)
	if result.Error != nil {
		logger.Error("Error finding completed progresses in DB",
			"error", result.Error,
			"user_id", userID.String(),
		)
		return nil, fmt.Errorf("gormProgressRepository.FindCompletedByUser: %w", result.Error)
	}
	return progresses, nil
}

// CountCompletedInCourse はコース完了判定用に、対象コースの公開レッスンのうち
// 完了済みの件数を数えます。
func (r *gormProgressRepository) CountCompletedInCourse(ctx context.Context, db *gorm.DB, userID, courseID uuid.UUID) (int64, error) {
	logger := middleware.GetLogger(ctx)
	var count int64
	result := db.WithContext(ctx).
		Model(&model.LessonProgress{}).
		Joins("JOIN lessons ON lessons.lesson_id = lesson_progress.lesson_id").
		Joins("JOIN course_modules ON course_modules.module_id = lessons.module_id").
		Where("lesson_progress.user_id = ? AND lesson_progress.completed = ? AND course_modules.course_id = ? AND lessons.is_published = ?",
			userID, true, courseID, true).
		Count(&count)
	if result.Error != nil {
		logger.Error("Error counting completed lessons in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"course_id", courseID.String(),
		)
		return 0, fmt.Errorf("gormProgressRepository.CountCompletedInCourse: %w", result.Error)
	}
	return count, nil
}
