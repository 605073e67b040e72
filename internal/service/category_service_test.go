package service

import (
	"context"
	"errors"
	"testing"

	"go_5_training_keep/internal/model"
	"go_5_training_keep/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDBCategory() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect database for testing: " + err.Error())
	}
	return db
}

func Test_categoryService_CreateCategory(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBCategory()

	tests := []struct {
		name      string
		req       *model.CreateCategoryRequest
		setupMock func(catRepo *mocks.CategoryRepository)
		wantErr   error
		check     func(t *testing.T, got *model.Category)
	}{
		{
			name: "正常系: スラッグ生成と末尾への採番",
			req:  &model.CreateCategoryRequest{Name: "Web Development"},
			setupMock: func(catRepo *mocks.CategoryRepository) {
				catRepo.On("ExistsByNameOrSlug", ctx, mock.AnythingOfType("*gorm.DB"), "Web Development", "web-development", (*uuid.UUID)(nil)).
					Return(false, nil).Once()
				catRepo.On("MaxOrderIndex", ctx, mock.AnythingOfType("*gorm.DB")).
					Return(2, nil).Once()
				catRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.Category")).
					Return(nil).Once()
			},
			check: func(t *testing.T, got *model.Category) {
				assert.Equal(t, "web-development", got.Slug)
				assert.Equal(t, 3, got.OrderIndex)
				assert.True(t, got.IsActive)
			},
		},
		{
			name: "正常系: カテゴリが空なら採番は1",
			req:  &model.CreateCategoryRequest{Name: "Onboarding"},
			setupMock: func(catRepo *mocks.CategoryRepository) {
				catRepo.On("ExistsByNameOrSlug", ctx, mock.AnythingOfType("*gorm.DB"), "Onboarding", "onboarding", (*uuid.UUID)(nil)).
					Return(false, nil).Once()
				catRepo.On("MaxOrderIndex", ctx, mock.AnythingOfType("*gorm.DB")).
					Return(0, nil).Once()
				catRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.Category")).
					Return(nil).Once()
			},
			check: func(t *testing.T, got *model.Category) {
				assert.Equal(t, 1, got.OrderIndex)
			},
		},
		{
			name: "異常系: 名前またはスラッグが重複",
			req:  &model.CreateCategoryRequest{Name: "Security"},
			setupMock: func(catRepo *mocks.CategoryRepository) {
				catRepo.On("ExistsByNameOrSlug", ctx, mock.AnythingOfType("*gorm.DB"), "Security", "security", (*uuid.UUID)(nil)).
					Return(true, nil).Once()
			},
			wantErr: model.ErrConflict,
		},
		{
			name:      "異常系: 名前が空",
			req:       &model.CreateCategoryRequest{Name: ""},
			setupMock: func(catRepo *mocks.CategoryRepository) {},
			wantErr:   model.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCatRepo := new(mocks.CategoryRepository)
			mockCourseRepo := new(mocks.CourseRepository)
			tt.setupMock(mockCatRepo)

			svc := NewCategoryService(db, mockCatRepo, mockCourseRepo)
			got, err := svc.CreateCategory(ctx, tt.req)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				require.NotNil(t, got)
				tt.check(t, got)
			}
			mockCatRepo.AssertExpectations(t)
		})
	}
}

func Test_categoryService_DeleteCategory(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBCategory()
	categoryID := uuid.New()

	t.Run("正常系: 未参照のカテゴリは削除できる", func(t *testing.T) {
		mockCatRepo := new(mocks.CategoryRepository)
		mockCourseRepo := new(mocks.CourseRepository)

		mockCatRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), categoryID).
			Return(&model.Category{CategoryID: categoryID, Name: "Old"}, nil).Once()
		mockCourseRepo.On("CountByCategory", ctx, mock.AnythingOfType("*gorm.DB"), categoryID).
			Return(int64(0), nil).Once()
		mockCatRepo.On("Delete", ctx, mock.AnythingOfType("*gorm.DB"), categoryID).
			Return(nil).Once()

		svc := NewCategoryService(db, mockCatRepo, mockCourseRepo)
		err := svc.DeleteCategory(ctx, categoryID)

		require.NoError(t, err)
		mockCatRepo.AssertExpectations(t)
		mockCourseRepo.AssertExpectations(t)
	})

	t.Run("異常系: コースから参照中なら件数入りのConflict", func(t *testing.T) {
		mockCatRepo := new(mocks.CategoryRepository)
		mockCourseRepo := new(mocks.CourseRepository)

		mockCatRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), categoryID).
			Return(&model.Category{CategoryID: categoryID, Name: "Busy"}, nil).Once()
		mockCourseRepo.On("CountByCategory", ctx, mock.AnythingOfType("*gorm.DB"), categoryID).
			Return(int64(3), nil).Once()

		svc := NewCategoryService(db, mockCatRepo, mockCourseRepo)
		err := svc.DeleteCategory(ctx, categoryID)

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrConflict)

		var appErr *model.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Contains(t, appErr.Detail.Message, "3件")

		mockCatRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("異常系: 存在しないカテゴリはNotFound", func(t *testing.T) {
		mockCatRepo := new(mocks.CategoryRepository)
		mockCourseRepo := new(mocks.CourseRepository)

		mockCatRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), categoryID).
			Return(nil, model.ErrNotFound).Once()

		svc := NewCategoryService(db, mockCatRepo, mockCourseRepo)
		err := svc.DeleteCategory(ctx, categoryID)

		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}
