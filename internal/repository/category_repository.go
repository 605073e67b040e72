//go:generate mockery --name CategoryRepository --output ./mocks --outpkg mocks --case=underscore
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

type CategoryRepository interface {
	Create(ctx context.Context, tx *gorm.DB, category *model.Category) error
	FindByID(ctx context.Context, db *gorm.DB, categoryID uuid.UUID) (*model.Category, error)
	FindAll(ctx context.Context, db *gorm.DB, activeOnly bool) ([]*model.Category, error)
	FindByIDs(ctx context.Context, db *gorm.DB, categoryIDs []uuid.UUID) ([]*model.Category, error)
	Update(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) error
	MaxOrderIndex(ctx context.Context, tx *gorm.DB) (int, error)
	ExistsByNameOrSlug(ctx context.Context, db *gorm.DB, name, slug string, excludeID *uuid.UUID) (bool, error)
}

type gormCategoryRepository struct{}

func NewGormCategoryRepository() CategoryRepository {
	return &gormCategoryRepository{}
}

func (r *gormCategoryRepository) Create(ctx context.Context, tx *gorm.DB, category *model.Category) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(category)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return model.ErrConflict
		}
		logger.Error("Error creating category in DB",
			"error", result.Error,
			"name", category.Name,
		)
		return fmt.Errorf("gormCategoryRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormCategoryRepository) FindByID(ctx context.Context, db *gorm.DB, categoryID uuid.UUID) (*model.Category, error) {
	logger := middleware.GetLogger(ctx)
	var category model.Category
	result := db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		First(&category)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding category in DB",
			"error", result.Error,
			"category_id", categoryID.String(),
		)
		return nil, fmt.Errorf("gormCategoryRepository.FindByID: %w", result.Error)
	}
	return &category, nil
}

func (r *gormCategoryRepository) FindAll(ctx context.Context, db *gorm.DB, activeOnly bool) ([]*model.Category, error) {
	logger := middleware.GetLogger(ctx)
	query := db.WithContext(ctx).Order("order_index ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var categories []*model.Category
	result := query.Find(&categories)
	if result.Error != nil {
		logger.Error("Error finding categories in DB", "error", result.Error)
		return nil, fmt.Errorf("gormCategoryRepository.FindAll: %w", result.Error)
	}
	return categories, nil
}

func (r *gormCategoryRepository) FindByIDs(ctx context.Context, db *gorm.DB, categoryIDs []uuid.UUID) ([]*model.Category, error) {
	logger := middleware.GetLogger(ctx)
	if len(categoryIDs) == 0 {
		return []*model.Category{}, nil
	}
	var categories []*model.Category
	result := db.WithContext(ctx).
		Where("category_id IN ?", categoryIDs).
		Find(&categories)
	if result.Error != nil {
		logger.Error("Error finding categories by IDs in DB", "error", result.Error)
		return nil, fmt.Errorf("gormCategoryRepository.FindByIDs: %w", result.Error)
	}
	return categories, nil
}

func (r *gormCategoryRepository) Update(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Model(&model.Category{}).
		Where("category_id = ?", categoryID).
		Updates(updates)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return model.ErrConflict
		}
		logger.Error("Error updating category in DB",
			"error", result.Error,
			"category_id", categoryID.String(),
		)
		return fmt.Errorf("gormCategoryRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Delete はカテゴリを物理削除します。参照中コースの有無はサービス層で事前確認すること。
func (r *gormCategoryRepository) Delete(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) error {
	result := tx.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Delete(&model.Category{})
	if result.Error != nil {
		return fmt.Errorf("gormCategoryRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormCategoryRepository) MaxOrderIndex(ctx context.Context, tx *gorm.DB) (int, error) {
	var max int
	result := tx.WithContext(ctx).
		Model(&model.Category{}).
		Select("COALESCE(MAX(order_index), 0)").
		Scan(&max)
	if result.Error != nil {
		return 0, fmt.Errorf("gormCategoryRepository.MaxOrderIndex: %w", result.Error)
	}
	return max, nil
}

// ExistsByNameOrSlug は名前またはスラッグの重複チェックを行います。
// excludeID を指定した場合は更新時の自分自身を除外します。
func (r *gormCategoryRepository) ExistsByNameOrSlug(ctx context.Context, db *gorm.DB, name, slug string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := db.WithContext(ctx).Model(&model.Category{}).
		Where("name = ? OR slug = ?", name, slug)
	if excludeID != nil {
		query = query.Where("category_id != ?", *excludeID)
	}
	result := query.Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("gormCategoryRepository.ExistsByNameOrSlug: %w", result.Error)
	}
	return count > 0, nil
}
