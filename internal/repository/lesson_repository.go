//go:generate mockery --name LessonRepository --output ./mocks --outpkg mocks --case=underscore
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

type LessonRepository interface {
	Create(ctx context.Context, tx *gorm.DB, lesson *model.Lesson) error
	FindByID(ctx context.Context, db *gorm.DB, lessonID uuid.UUID) (*model.Lesson, error)
	FindByModules(ctx context.Context, db *gorm.DB, moduleIDs []uuid.UUID, publishedOnly bool) ([]*model.Lesson, error)
	MaxOrderIndex(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) (int, error)
	Update(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, updates map[string]interface{}) error
	UpdateOrder(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, orderIndex int) error
	Delete(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) error
	CountPublishedByCourse(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (int64, error)
	FindPublishedRefs(ctx context.Context, db *gorm.DB) ([]*model.LessonRef, error)
	FindCourseIDByLesson(ctx context.Context, db *gorm.DB, lessonID uuid.UUID) (uuid.UUID, error)
}

type gormLessonRepository struct{}

func NewGormLessonRepository() LessonRepository {
	return &gormLessonRepository{}
}

func (r *gormLessonRepository) Create(ctx context.Context, tx *gorm.DB, lesson *model.Lesson) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(lesson)
	if result.Error != nil {
		logger.Error("Error creating lesson in DB",
			"error", result.Error,
			"module_id", lesson.ModuleID.String(),
		)
		return fmt.Errorf("gormLessonRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormLessonRepository) FindByID(ctx context.Context, db *gorm.DB, lessonID uuid.UUID) (*model.Lesson, error) {
	logger := middleware.GetLogger(ctx)
	var lesson model.Lesson
	result := db.WithContext(ctx).Where("lesson_id = ?", lessonID).First(&lesson)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding lesson by ID in DB",
			"error", result.Error,
			"lesson_id", lessonID.String(),
		)
		return nil, fmt.Errorf("gormLessonRepository.FindByID: %w", result.Error)
	}
	return &lesson, nil
}

// FindByModules は複数モジュールのレッスンを1回のクエリでまとめて取得します。
// モジュールごとの分割は呼び出し側 (サービス層) で行う。
func (r *gormLessonRepository) FindByModules(ctx context.Context, db *gorm.DB, moduleIDs []uuid.UUID, publishedOnly bool) ([]*model.Lesson, error) {
	logger := middleware.GetLogger(ctx)
	if len(moduleIDs) == 0 {
		return []*model.Lesson{}, nil
	}

	query := db.WithContext(ctx).Where("module_id IN ?", moduleIDs)
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var lessons []*model.Lesson
	result := query.Order("order_index ASC").Find(&lessons)
	if result.Error != nil {
		logger.Error("Error finding lessons by modules in DB", "error", result.Error)
		return nil, fmt.Errorf("gormLessonRepository.FindByModules: %w", result.Error)
	}
	return lessons, nil
}

// MaxOrderIndex は指定モジュール内の最大 order_index を返します (存在しなければ0)。
// 採番のレース条件を避けるため、作成と同じトランザクション内で呼ぶこと。
func (r *gormLessonRepository) MaxOrderIndex(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) (int, error) {
	var maxOrder int
	result := tx.WithContext(ctx).Model(&model.Lesson{}).
		Where("module_id = ?", moduleID).
		Select("COALESCE(MAX(order_index), 0)").
		Scan(&maxOrder)
	if result.Error != nil {
		return 0, fmt.Errorf("gormLessonRepository.MaxOrderIndex: %w", result.Error)
	}
	return maxOrder, nil
}

func (r *gormLessonRepository) Update(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.Lesson{}).Where("lesson_id = ?", lessonID).Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating lesson in DB",
			"error", result.Error,
			"lesson_id", lessonID.String(),
		)
		return fmt.Errorf("gormLessonRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormLessonRepository) UpdateOrder(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, orderIndex int) error {
	result := tx.WithContext(ctx).Model(&model.Lesson{}).
		Where("lesson_id = ?", lessonID).
		Update("order_index", orderIndex)
	if result.Error != nil {
		return fmt.Errorf("gormLessonRepository.UpdateOrder: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormLessonRepository) Delete(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Where("lesson_id = ?", lessonID).Delete(&model.Lesson{})
	if result.Error != nil {
		logger.Error("Error deleting lesson in DB",
			"error", result.Error,
			"lesson_id", lessonID.String(),
		)
		return fmt.Errorf("gormLessonRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// CountPublishedByCourse はコース内の公開レッスン数をモジュール経由のJOINで数えます
func (r *gormLessonRepository) CountPublishedByCourse(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (int64, error) {
	var count int64
	result := db.WithContext(ctx).Model(&model.Lesson{}).
		Joins("JOIN course_modules ON course_modules.module_id = lessons.module_id").
		Where("course_modules.course_id = ? AND lessons.is_published = ?", courseID, true).
		Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("gormLessonRepository.CountPublishedByCourse: %w", result.Error)
	}
	return count, nil
}

// FindPublishedRefs は全公開レッスンの (lesson_id, course_id) を1回のJOINで取得します。
// ダッシュボード集計がN+1クエリにならないようにするための読み取りモデル。
func (r *gormLessonRepository) FindPublishedRefs(ctx context.Context, db *gorm.DB) ([]*model.LessonRef, error) {
	logger := middleware.GetLogger(ctx)
	var refs []*model.LessonRef
	result := db.WithContext(ctx).Model(&model.Lesson{}).
		Select("lessons.lesson_id AS lesson_id, course_modules.course_id AS course_id").
		Joins("JOIN course_modules ON course_modules.module_id = lessons.module_id").
		Where("lessons.is_published = ?", true).
		Scan(&refs)
	if result.Error != nil {
		logger.Error("Error finding published lesson refs in DB", "error", result.Error)
		return nil, fmt.Errorf("gormLessonRepository.FindPublishedRefs: %w", result.Error)
	}
	return refs, nil
}

// FindCourseIDByLesson はレッスンの所属コースIDを解決します
func (r *gormLessonRepository) FindCourseIDByLesson(ctx context.Context, db *gorm.DB, lessonID uuid.UUID) (uuid.UUID, error) {
	var courseID uuid.UUID
	result := db.WithContext(ctx).Model(&model.Lesson{}).
		Select("course_modules.course_id").
		Joins("JOIN course_modules ON course_modules.module_id = lessons.module_id").
		Where("lessons.lesson_id = ?", lessonID).
		Scan(&courseID)
	if result.Error != nil {
		return uuid.Nil, fmt.Errorf("gormLessonRepository.FindCourseIDByLesson: %w", result.Error)
	}
	if courseID == uuid.Nil {
		return uuid.Nil, model.ErrNotFound
	}
	return courseID, nil
}
