package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go_5_training_keep/internal/config"
	"go_5_training_keep/internal/middleware"
	"go_5_training_keep/internal/model"
	"go_5_training_keep/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
	SetupAdmin(ctx context.Context, req *model.SetupAdminRequest) (*model.User, error)
	CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.User, error)
}

type authService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	mailer   Mailer
	cfg      *config.Config
}

func NewAuthService(db *gorm.DB, userRepo repository.UserRepository, mailer Mailer, cfg *config.Config) AuthService {
	return &authService{
		db:       db,
		userRepo: userRepo,
		mailer:   mailer,
		cfg:      cfg,
	}
}

// Register は学習者の自己登録を処理します。管理者の自己登録は許可しません。
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if req.Role == model.RoleAdmin {
		return nil, model.NewAppError("FORBIDDEN_ROLE", "このロールでは登録できません。", "role", model.ErrInvalidInput)
	}

	var newUser *model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.buildUser(ctx, tx, req.FullName, req.Email, req.Password, req.Role)
		if err != nil {
			return err
		}
		newUser = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newUser, nil
}

func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	logger := middleware.GetLogger(ctx).With("email", req.Email)

	user, err := s.userRepo.FindByEmail(ctx, s.db, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Login attempt for non-existent email")
			// ユーザーの存在は漏らさない
			return nil, model.NewAppError("INVALID_CREDENTIALS", "メールアドレスまたはパスワードが正しくありません。", "", model.ErrUnauthorized)
		}
		logger.Error("Failed to find user by email", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
	}

	if !user.IsActive {
		logger.Warn("Login attempt for inactive user", "user_id", user.UserID)
		return nil, model.NewAppError("ACCOUNT_INACTIVE", "このアカウントは無効化されています。", "", model.ErrForbidden)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.Warn("Password mismatch", "user_id", user.UserID)
		return nil, model.NewAppError("INVALID_CREDENTIALS", "メールアドレスまたはパスワードが正しくありません。", "", model.ErrUnauthorized)
	}

	signedToken, err := s.generateAccessToken(user)
	if err != nil {
		logger.Error("Failed to sign JWT", "error", err, "user_id", user.UserID)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "トークンの生成に失敗しました。", "", err)
	}

	return &model.LoginResponse{
		AccessToken: signedToken,
		User:        user.ToResponse(),
	}, nil
}

func (s *authService) GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.userRepo.FindByID(ctx, s.db, userID)
}

// SetupAdmin は初回セットアップ時の管理者作成です。
// 既に管理者が存在する場合は Conflict を返し、二度目以降の実行を拒否します。
// usersテーブル未作成 (マイグレーション未実行) の場合も失敗させます。
func (s *authService) SetupAdmin(ctx context.Context, req *model.SetupAdminRequest) (*model.User, error) {
	logger := middleware.GetLogger(ctx)

	if !s.userRepo.HasUserTable(s.db) {
		logger.Error("users table does not exist, migrations have not been run")
		return nil, model.NewAppError("SETUP_NOT_READY", "データベースのセットアップが完了していません。マイグレーションを実行してください。", "", model.ErrInternalServer)
	}

	var newUser *model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		adminCount, err := s.userRepo.CountByRole(ctx, tx, model.RoleAdmin)
		if err != nil {
			logger.Error("Failed to count admin users", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
		}
		if adminCount > 0 {
			logger.Warn("Setup attempted but admin already exists")
			return model.NewAppError("ALREADY_INITIALIZED", "管理者は既に作成されています。", "", model.ErrConflict)
		}

		user, err := s.buildUser(ctx, tx, req.FullName, req.Email, req.Password, model.RoleAdmin)
		if err != nil {
			return err
		}
		newUser = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Initial admin user created", "user_id", newUser.UserID, "email", newUser.Email)
	return newUser, nil
}

// CreateUser は管理者によるユーザー作成です。作成後に通知メールを送信します
// (メール送信の失敗でユーザー作成は取り消さない)。
func (s *authService) CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	logger := middleware.GetLogger(ctx)

	if !req.Role.IsValid() {
		return nil, model.ErrInvalidInput
	}

	var newUser *model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.buildUser(ctx, tx, req.FullName, req.Email, req.Password, req.Role)
		if err != nil {
			return err
		}
		newUser = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	subject := fmt.Sprintf("【%s】アカウントが作成されました", config.AppName)
	body := fmt.Sprintf(
		"%s 様\n\n%s のアカウントが作成されました。\nメールアドレス: %s\n\nログインしてパスワードを変更してください。\n%s",
		newUser.FullName, config.AppName, newUser.Email, s.cfg.App.FrontendURL,
	)
	if err := s.mailer.Send(ctx, newUser.Email, subject, body); err != nil {
		// 通知の失敗は作成結果に影響させない
		logger.Warn("Failed to send account notification email", "error", err, "user_id", newUser.UserID)
	}

	return newUser, nil
}

// buildUser は重複チェック・ハッシュ化・INSERTをまとめた共通処理です。呼び出し側のトランザクション内で使うこと。
func (s *authService) buildUser(ctx context.Context, tx *gorm.DB, fullName, email, password string, role model.Role) (*model.User, error) {
	logger := middleware.GetLogger(ctx)

	_, err := s.userRepo.FindByEmail(ctx, tx, email)
	if err == nil {
		logger.Warn("Email already exists", "email", email)
		return nil, model.NewAppError("DUPLICATE_EMAIL", "このメールアドレスは既に使用されています。", "email", model.ErrConflict)
	}
	if !errors.Is(err, model.ErrNotFound) {
		logger.Error("Failed to check email existence", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Failed to hash password", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "パスワードの処理中にエラーが発生しました。", "", err)
	}

	user := &model.User{
		UserID:       uuid.New(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hashedPassword),
		Role:         role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, tx, user); err != nil {
		if errors.Is(err, model.ErrConflict) {
			// レースコンディションでのユニーク制約違反
			logger.Warn("Conflict during user creation (race condition)", "email", email)
			return nil, model.NewAppError("DUPLICATE_EMAIL", "このメールアドレスは既に使用されています。", "email", model.ErrConflict)
		}
		logger.Error("Failed to create user in DB", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "ユーザーの作成に失敗しました。", "", err)
	}
	return user, nil
}

func (s *authService) generateAccessToken(user *model.User) (string, error) {
	claims := model.JWTCustomClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.cfg.JWT.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWT.SecretKey))
}
