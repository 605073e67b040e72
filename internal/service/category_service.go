package service

import (
	"context"
	"fmt"

	"go_5_training_keep/internal/middleware"
	"go_5_training_keep/internal/model"
	"go_5_training_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryService interface {
	ListCategories(ctx context.Context, activeOnly bool) ([]*model.Category, error)
	GetCategory(ctx context.Context, categoryID uuid.UUID) (*model.Category, error)
	CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error)
	UpdateCategory(ctx context.Context, categoryID uuid.UUID, req *model.UpdateCategoryRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) error
}

type categoryService struct {
	db           *gorm.DB
	categoryRepo repository.CategoryRepository
	courseRepo   repository.CourseRepository
}

func NewCategoryService(db *gorm.DB, categoryRepo repository.CategoryRepository, courseRepo repository.CourseRepository) CategoryService {
	return &categoryService{
		db:           db,
		categoryRepo: categoryRepo,
		courseRepo:   courseRepo,
	}
}

func (s *categoryService) ListCategories(ctx context.Context, activeOnly bool) ([]*model.Category, error) {
	categories, err := s.categoryRepo.FindAll(ctx, s.db, activeOnly)
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *categoryService) GetCategory(ctx context.Context, categoryID uuid.UUID) (*model.Category, error) {
	return s.categoryRepo.FindByID(ctx, s.db, categoryID)
}

func (s *categoryService) CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error) {
	logger := middleware.GetLogger(ctx)
	if req.Name == "" {
		return nil, model.ErrInvalidInput
	}

	// slug未指定なら名前から生成。明示指定されたslugも同じ正規化を通す
	slug := GenerateSlug(req.Slug)
	if slug == "" {
		slug = GenerateSlug(req.Name)
	}
	if slug == "" {
		return nil, model.NewAppError("INVALID_INPUT", "カテゴリ名からスラッグを生成できません", "name", model.ErrInvalidInput)
	}

	var created *model.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.categoryRepo.ExistsByNameOrSlug(ctx, tx, req.Name, slug, nil)
		if err != nil {
			logger.Error("Error checking category existence in transaction", "error", err)
			return model.ErrInternalServer
		}
		if exists {
			return model.NewAppError("CONFLICT", "同じ名前またはスラッグのカテゴリが既に存在します", "name", model.ErrConflict)
		}

		// 表示順は末尾に追加 (既存最大+1)
		maxOrder, err := s.categoryRepo.MaxOrderIndex(ctx, tx)
		if err != nil {
			logger.Error("Error getting max order index in transaction", "error", err)
			return model.ErrInternalServer
		}

		category := &model.Category{
			CategoryID:  uuid.New(),
			Name:        req.Name,
			Slug:        slug,
			Description: req.Description,
			Icon:        req.Icon,
			Color:       req.Color,
			OrderIndex:  maxOrder + 1,
			IsActive:    true,
		}
		if err := s.categoryRepo.Create(ctx, tx, category); err != nil {
			return err
		}

		created = category
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, categoryID uuid.UUID, req *model.UpdateCategoryRequest) (*model.Category, error) {
	logger := middleware.GetLogger(ctx)

	var updated *model.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.categoryRepo.FindByID(ctx, tx, categoryID)
		if err != nil {
			return err
		}

		updates := make(map[string]interface{})
		name := current.Name
		slug := current.Slug
		if req.Name != nil && *req.Name != current.Name {
			name = *req.Name
			// 名前変更に追従してスラッグも再生成 (slug明示指定がある場合はそちらを優先)
			slug = GenerateSlug(*req.Name)
		}
		if req.Slug != nil {
			slug = GenerateSlug(*req.Slug)
		}
		if name != current.Name || slug != current.Slug {
			if slug == "" {
				return model.NewAppError("INVALID_INPUT", "カテゴリ名からスラッグを生成できません", "name", model.ErrInvalidInput)
			}
			exists, err := s.categoryRepo.ExistsByNameOrSlug(ctx, tx, name, slug, &categoryID)
			if err != nil {
				logger.Error("Error checking category existence in transaction", "error", err)
				return model.ErrInternalServer
			}
			if exists {
				return model.NewAppError("CONFLICT", "同じ名前またはスラッグのカテゴリが既に存在します", "name", model.ErrConflict)
			}
			updates["name"] = name
			updates["slug"] = slug
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Icon != nil {
			updates["icon"] = *req.Icon
		}
		if req.Color != nil {
			updates["color"] = *req.Color
		}
		if req.IsActive != nil {
			updates["is_active"] = *req.IsActive
		}

		if len(updates) > 0 {
			if err := s.categoryRepo.Update(ctx, tx, categoryID, updates); err != nil {
				return err
			}
		}

		updated, err = s.categoryRepo.FindByID(ctx, tx, categoryID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteCategory はカテゴリを削除します。
// コースから参照されている場合は削除せず、参照件数を含むConflictエラーを返します。
func (s *categoryService) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.categoryRepo.FindByID(ctx, tx, categoryID); err != nil {
			return err
		}

		count, err := s.courseRepo.CountByCategory(ctx, tx, categoryID)
		if err != nil {
			logger.Error("Error counting courses by category in transaction", "error", err)
			return model.ErrInternalServer
		}
		if count > 0 {
			return model.NewAppError(
				"CONFLICT",
				fmt.Sprintf("このカテゴリは%d件のコースで使用されているため削除できません", count),
				"",
				model.ErrConflict,
			)
		}

		return s.categoryRepo.Delete(ctx, tx, categoryID)
	})
}
