package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go_5_training_keep/internal/config"
	"go_5_training_keep/internal/model"
	"go_5_training_keep/internal/repository/mocks"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDBAuth() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect database for testing: " + err.Error())
	}
	return db
}

func testAuthConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.SecretKey = "test-secret-key"
	cfg.JWT.AccessTokenTTL = time.Hour
	cfg.App.FrontendURL = "http://localhost:3000"
	return cfg
}

// recordingMailer は送信内容を記録するテスト用メーラー
type recordingMailer struct {
	sent    []string
	sendErr error
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, to)
	return nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func Test_authService_Register(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBAuth()

	t.Run("正常系: 学習者として登録できる", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := NewAuthService(db, userRepo, &recordingMailer{}, testAuthConfig())
		userRepo.On("FindByEmail", ctx, mock.AnythingOfType("*gorm.DB"), "taro@example.com").
			Return(nil, model.ErrNotFound).Once()
		userRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.User")).
			Return(nil).Once()

		got, err := svc.Register(ctx, &model.RegisterRequest{
			FullName: "山田 太郎",
			Email:    "taro@example.com",
			Password: "password123",
			Role:     model.RoleStudent,
		})

		require.NoError(t, err)
		assert.Equal(t, model.RoleStudent, got.Role)
		assert.True(t, got.IsActive)
		assert.NotEqual(t, "password123", got.PasswordHash)
		userRepo.AssertExpectations(t)
	})

	t.Run("異常系: 管理者ロールでは自己登録できない", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := NewAuthService(db, userRepo, &recordingMailer{}, testAuthConfig())

		_, err := svc.Register(ctx, &model.RegisterRequest{
			FullName: "攻撃者",
			Email:    "evil@example.com",
			Password: "password123",
			Role:     model.RoleAdmin,
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("異常系: メールアドレスが重複している", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := NewAuthService(db, userRepo, &recordingMailer{}, testAuthConfig())
		userRepo.On("FindByEmail", ctx, mock.AnythingOfType("*gorm.DB"), "taken@example.com").
			Return(&model.User{UserID: uuid.New(), Email: "taken@example.com"}, nil).Once()

		_, err := svc.Register(ctx, &model.RegisterRequest{
			FullName: "山田 太郎",
			Email:    "taken@example.com",
			Password: "password123",
			Role:     model.RoleStudent,
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrConflict)
		var appErr *model.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "DUPLICATE_EMAIL", appErr.Detail.Code)
	})
}

func Test_authService_Login(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBAuth()
	userID := uuid.New()

	activeUser := func(t *testing.T) *model.User {
		return &model.User{
			UserID:       userID,
			Email:        "taro@example.com",
			FullName:     "山田 太郎",
			PasswordHash: mustHash(t, "password123"),
			Role:         model.RoleStudent,
			IsActive:     true,
		}
	}

	t.Run("正常系: トークンにユーザーIDとロールが入る", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		cfg := testAuthConfig()
		svc := NewAuthService(db, userRepo, &recordingMailer{}, cfg)
		userRepo.On("FindByEmail", ctx, mock.AnythingOfType("*gorm.DB"), "taro@example.com").
			Return(activeUser(t), nil).Once()

		got, err := svc.Login(ctx, &model.LoginRequest{Email: "taro@example.com", Password: "password123"})

		require.NoError(t, err)
		require.NotEmpty(t, got.AccessToken)
		assert.Equal(t, userID, got.User.UserID)

		claims := &model.JWTCustomClaims{}
		_, err = jwt.ParseWithClaims(got.AccessToken, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWT.SecretKey), nil
		})
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.Subject)
		assert.Equal(t, model.RoleStudent, claims.Role)
	})

	t.Run("異常系: パスワードが一致しない", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := NewAuthService(db, userRepo, &recordingMailer{}, testAuthConfig())
		userRepo.On("FindByEmail", ctx, mock.AnythingOfType("*gorm.DB"), "taro@example.com").
			Return(activeUser(t), nil).Once()

		_, err := svc.Login(ctx, &model.LoginRequest{Email: "taro@example.com", Password: "wrong-password"})

		assert.ErrorIs(t, err, model.ErrUnauthorized)
	})

	t.Run("異常系: 存在しないメールアドレスでも同じエラーを返す", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := NewAuthService(db, userRepo, &recordingMailer{}, testAuthConfig())
		userRepo.On("FindByEmail", ctx, mock.AnythingOfType("*gorm.DB"), "nobody@example.com").
			Return(nil, model.ErrNotFound).Once()

		_, err := svc.Login(ctx, &model.LoginRequest{Email: "nobody@example.com", Password: "password123"})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrUnauthorized)
		var appErr *model.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "INVALID_CREDENTIALS", appErr.Detail.Code)
	})

	t.Run("異常系: 無効化されたアカウント", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := NewAuthService(db, userRepo, &recordingMailer{}, testAuthConfig())
		inactive := activeUser(t)
		inactive.IsActive = false
		userRepo.On("FindByEmail", ctx, mock.AnythingOfType("*gorm.DB"), "taro@example.com").
			Return(inactive, nil).Once()

		_, err := svc.Login(ctx, &model.LoginRequest{Email: "taro@example.com", Password: "password123"})

		assert.ErrorIs(t, err, model.ErrForbidden)
	})
}

func Test_authService_SetupAdmin(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBAuth()
	req := &model.SetupAdminRequest{
		FullName: "管理者",
		Email:    "admin@example.com",
		Password: "password123",
	}

	t.Run("正常系: 管理者が未作成なら作成できる", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := NewAuthService(db, userRepo, &recordingMailer{}, testAuthConfig())
		userRepo.On("HasUserTable", mock.AnythingOfType("*gorm.DB")).Return(true).Once()
		userRepo.On("CountByRole", ctx, mock.AnythingOfType("*gorm.DB"), model.RoleAdmin).
			Return(int64(0), nil).Once()
		userRepo.On("FindByEmail", ctx, mock.AnythingOfType("*gorm.DB"), req.Email).
			Return(nil, model.ErrNotFound).Once()
		userRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.User")).
			Return(nil).Once()

		got, err := svc.SetupAdmin(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, got.Role)
		userRepo.AssertExpectations(t)
	})

	t.Run("異常系: 管理者が既に存在する", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := NewAuthService(db, userRepo, &recordingMailer{}, testAuthConfig())
		userRepo.On("HasUserTable", mock.AnythingOfType("*gorm.DB")).Return(true).Once()
		userRepo.On("CountByRole", ctx, mock.AnythingOfType("*gorm.DB"), model.RoleAdmin).
			Return(int64(1), nil).Once()

		_, err := svc.SetupAdmin(ctx, req)

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrConflict)
		var appErr *model.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "ALREADY_INITIALIZED", appErr.Detail.Code)
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("異常系: usersテーブルが存在しない", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := NewAuthService(db, userRepo, &recordingMailer{}, testAuthConfig())
		userRepo.On("HasUserTable", mock.AnythingOfType("*gorm.DB")).Return(false).Once()

		_, err := svc.SetupAdmin(ctx, req)

		require.Error(t, err)
		var appErr *model.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "SETUP_NOT_READY", appErr.Detail.Code)
	})
}

func Test_authService_CreateUser(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBAuth()
	req := &model.CreateUserRequest{
		FullName: "鈴木 花子",
		Email:    "hanako@example.com",
		Password: "password123",
		Role:     model.RoleInstructor,
	}

	t.Run("正常系: 作成後に通知メールが送られる", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		mailer := &recordingMailer{}
		svc := NewAuthService(db, userRepo, mailer, testAuthConfig())
		userRepo.On("FindByEmail", ctx, mock.AnythingOfType("*gorm.DB"), req.Email).
			Return(nil, model.ErrNotFound).Once()
		userRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.User")).
			Return(nil).Once()

		got, err := svc.CreateUser(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, model.RoleInstructor, got.Role)
		require.Len(t, mailer.sent, 1)
		assert.Equal(t, req.Email, mailer.sent[0])
	})

	t.Run("正常系: メール送信が失敗してもユーザーは作成される", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		mailer := &recordingMailer{sendErr: errors.New("smtp connection refused")}
		svc := NewAuthService(db, userRepo, mailer, testAuthConfig())
		userRepo.On("FindByEmail", ctx, mock.AnythingOfType("*gorm.DB"), req.Email).
			Return(nil, model.ErrNotFound).Once()
		userRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.User")).
			Return(nil).Once()

		got, err := svc.CreateUser(ctx, req)

		require.NoError(t, err)
		assert.NotNil(t, got)
	})

	t.Run("異常系: 不正なロール", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := NewAuthService(db, userRepo, &recordingMailer{}, testAuthConfig())

		_, err := svc.CreateUser(ctx, &model.CreateUserRequest{
			FullName: "不明",
			Email:    "x@example.com",
			Password: "password123",
			Role:     model.Role("superuser"),
		})

		assert.ErrorIs(t, err, model.ErrInvalidInput)
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}
