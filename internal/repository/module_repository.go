//go:generate mockery --name ModuleRepository --output ./mocks --outpkg mocks --case=underscore
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

type ModuleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, module *model.CourseModule) error
	FindByID(ctx context.Context, db *gorm.DB, moduleID uuid.UUID) (*model.CourseModule, error)
	FindByCourse(ctx context.Context, db *gorm.DB, courseID uuid.UUID) ([]*model.CourseModule, error)
	MaxOrderIndex(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int, error)
	Update(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, updates map[string]interface{}) error
	UpdateOrder(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, orderIndex int) error
	Delete(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) error
}

type gormModuleRepository struct{}

func NewGormModuleRepository() ModuleRepository {
	return &gormModuleRepository{}
}

func (r *gormModuleRepository) Create(ctx context.Context, tx *gorm.DB, module *model.CourseModule) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(module)
	if result.Error != nil {
		logger.Error("Error creating module in DB",
			"error", result.Error,
			"course_id", module.CourseID.String(),
		)
		return fmt.Errorf("gormModuleRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormModuleRepository) FindByID(ctx context.Context, db *gorm.DB, moduleID uuid.UUID) (*model.CourseModule, error) {
	logger := middleware.GetLogger(ctx)
	var module model.CourseModule
	result := db.WithContext(ctx).Where("module_id = ?", moduleID).First(&module)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding module by ID in DB",
			"error", result.Error,
			"module_id", moduleID.String(),
		)
		return nil, fmt.Errorf("gormModuleRepository.FindByID: %w", result.Error)
	}
	return &module, nil
}

func (r *gormModuleRepository) FindByCourse(ctx context.Context, db *gorm.DB, courseID uuid.UUID) ([]*model.CourseModule, error) {
	logger := middleware.GetLogger(ctx)
	var modules []*model.CourseModule
	result := db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("order_index ASC").
		Find(&modules)
	if result.Error != nil {
		logger.Error("Error finding modules by course in DB",
			"error", result.Error,
			"course_id", courseID.String(),
		)
		return nil, fmt.Errorf("gormModuleRepository.FindByCourse: %w", result.Error)
	}
	return modules, nil
}

// MaxOrderIndex は指定コース内の最大 order_index を返します (存在しなければ0)。
// 採番のレース条件を避けるため、作成と同じトランザクション内で呼ぶこと。
func (r *gormModuleRepository) MaxOrderIndex(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int, error) {
	var maxOrder int
	result := tx.WithContext(ctx).Model(&model.CourseModule{}).
		Where("course_id = ?", courseID).
		Select("COALESCE(MAX(order_index), 0)").
		Scan(&maxOrder)
	if result.Error != nil {
		return 0, fmt.Errorf("gormModuleRepository.MaxOrderIndex: %w", result.Error)
	}
	return maxOrder, nil
}

func (r *gormModuleRepository) Update(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.CourseModule{}).Where("module_id = ?", moduleID).Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating module in DB",
			"error", result.Error,
			"module_id", moduleID.String(),
		)
		return fmt.Errorf("gormModuleRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormModuleRepository) UpdateOrder(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, orderIndex int) error {
	result := tx.WithContext(ctx).Model(&model.CourseModule{}).
		Where("module_id = ?", moduleID).
		Update("order_index", orderIndex)
	if result.Error != nil {
		return fmt.Errorf("gormModuleRepository.UpdateOrder: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormModuleRepository) Delete(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Where("module_id = ?", moduleID).Delete(&model.CourseModule{})
	if result.Error != nil {
		logger.Error("Error deleting module in DB",
			"error", result.Error,
			"module_id", moduleID.String(),
		)
		return fmt.Errorf("gormModuleRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
