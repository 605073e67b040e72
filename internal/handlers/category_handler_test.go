package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go_5_training_keep/internal/handlers"
	"go_5_training_keep/internal/model"
	"go_5_training_keep/internal/service/mocks"
)

// newCategoryRouter はカテゴリAPIだけを載せたテスト用ルーターを組み立てます。
func newCategoryRouter(svc *mocks.MockCategoryService) *chi.Mux {
	h := handlers.NewCategoryHandler(svc, nil)
	router := chi.NewRouter()
	router.Get("/api/v1/categories", h.ListCategories)
	router.Post("/api/v1/admin/categories", h.CreateCategory)
	router.Delete("/api/v1/admin/categories/{category_id}", h.DeleteCategory)
	return router
}

func decodeErrorResponse(t *testing.T, body *bytes.Buffer) model.APIErrorResponse {
	t.Helper()
	var resp model.APIErrorResponse
	require.NoError(t, json.Unmarshal(body.Bytes(), &resp))
	return resp
}

func TestCategoryHandler_ListCategories(t *testing.T) {
	categories := []*model.Category{
		{CategoryID: uuid.New(), Name: "コンプライアンス", Slug: "compliance", OrderIndex: 1, IsActive: true},
		{CategoryID: uuid.New(), Name: "技術研修", Slug: "tech", OrderIndex: 2, IsActive: true},
	}

	tests := []struct {
		name           string
		path           string
		setupMock      func(svc *mocks.MockCategoryService)
		expectedStatus int
		expectedLen    int
	}{
		{
			name: "正常系: 既定では有効カテゴリのみ",
			path: "/api/v1/categories",
			setupMock: func(svc *mocks.MockCategoryService) {
				svc.On("ListCategories", mock.Anything, true).Return(categories, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedLen:    2,
		},
		{
			name: "正常系: all=trueで無効カテゴリも含む",
			path: "/api/v1/categories?all=true",
			setupMock: func(svc *mocks.MockCategoryService) {
				svc.On("ListCategories", mock.Anything, false).Return(categories, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedLen:    2,
		},
		{
			name: "異常系: サービスがエラーを返す",
			path: "/api/v1/categories",
			setupMock: func(svc *mocks.MockCategoryService) {
				svc.On("ListCategories", mock.Anything, true).Return(nil, model.ErrInternalServer).Once()
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := mocks.NewMockCategoryService(t)
			tc.setupMock(svc)
			router := newCategoryRouter(svc)

			req := httptest.NewRequest("GET", tc.path, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedStatus == http.StatusOK {
				var got []*model.Category
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
				assert.Len(t, got, tc.expectedLen)
			}
		})
	}
}

func TestCategoryHandler_CreateCategory(t *testing.T) {
	validReq := model.CreateCategoryRequest{
		Name:        "安全衛生",
		Description: "労働安全衛生に関する研修",
	}
	created := &model.Category{
		CategoryID: uuid.New(),
		Name:       validReq.Name,
		Slug:       "anzen-eisei",
		OrderIndex: 3,
		IsActive:   true,
	}

	t.Run("正常系: 201と作成済みカテゴリを返す", func(t *testing.T) {
		svc := mocks.NewMockCategoryService(t)
		svc.On("CreateCategory", mock.Anything, &validReq).Return(created, nil).Once()
		router := newCategoryRouter(svc)

		body, _ := json.Marshal(validReq)
		req := httptest.NewRequest("POST", "/api/v1/admin/categories", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		var got model.Category
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, created.CategoryID, got.CategoryID)
		assert.Equal(t, "anzen-eisei", got.Slug)
	})

	t.Run("異常系: nameがないと400でサービスは呼ばれない", func(t *testing.T) {
		svc := mocks.NewMockCategoryService(t)
		router := newCategoryRouter(svc)

		req := httptest.NewRequest("POST", "/api/v1/admin/categories", bytes.NewReader([]byte(`{"description":"only"}`)))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decodeErrorResponse(t, rr.Body)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		svc.AssertNotCalled(t, "CreateCategory", mock.Anything, mock.Anything)
	})

	t.Run("異常系: 重複するとサービスの409が透過する", func(t *testing.T) {
		svc := mocks.NewMockCategoryService(t)
		svc.On("CreateCategory", mock.Anything, &validReq).
			Return(nil, model.NewAppError("CONFLICT", "同じ名前またはスラッグのカテゴリが既に存在します。", "name", model.ErrConflict)).Once()
		router := newCategoryRouter(svc)

		body, _ := json.Marshal(validReq)
		req := httptest.NewRequest("POST", "/api/v1/admin/categories", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestCategoryHandler_DeleteCategory(t *testing.T) {
	categoryID := uuid.New()

	t.Run("正常系: 204を返す", func(t *testing.T) {
		svc := mocks.NewMockCategoryService(t)
		svc.On("DeleteCategory", mock.Anything, categoryID).Return(nil).Once()
		router := newCategoryRouter(svc)

		req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/v1/admin/categories/%s", categoryID), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.Bytes())
	})

	t.Run("異常系: 参照中カテゴリは409と件数入りメッセージ", func(t *testing.T) {
		svc := mocks.NewMockCategoryService(t)
		svc.On("DeleteCategory", mock.Anything, categoryID).
			Return(model.NewAppError("CONFLICT", "このカテゴリは3件のコースで使用されているため削除できません", "", model.ErrConflict)).Once()
		router := newCategoryRouter(svc)

		req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/v1/admin/categories/%s", categoryID), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusConflict, rr.Code)
		resp := decodeErrorResponse(t, rr.Body)
		assert.Contains(t, resp.Error.Message, "3件")
	})

	t.Run("異常系: 不正なUUIDは400", func(t *testing.T) {
		svc := mocks.NewMockCategoryService(t)
		router := newCategoryRouter(svc)

		req := httptest.NewRequest("DELETE", "/api/v1/admin/categories/not-a-uuid", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "DeleteCategory", mock.Anything, mock.Anything)
	})
}
