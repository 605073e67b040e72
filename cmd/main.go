// cmd/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
	"github.com/rs/cors"

	"go_5_training_keep/internal/config"
	"go_5_training_keep/internal/handlers"
	"go_5_training_keep/internal/middleware"
	"go_5_training_keep/internal/model"
	"go_5_training_keep/internal/repository"
	"go_5_training_keep/internal/service"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	// 設定ファイル読み込み用の一時的なロガー設定
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)
	log.Println("Log Config Loading...")

	if err := config.LoadConfig("configs"); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// === 設定に基づいて slog ロガーを初期化 ===
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(config.Cfg.Log.Level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		slog.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", config.Cfg.Log.Level))
	}

	var handler slog.Handler
	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" {
		// 開発環境ではtintの色付きログのほうが読みやすい
		tintOpts := &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		}
		handler = tint.NewHandler(os.Stderr, tintOpts)
		tempLogger.Info("Using TINT log handler", slog.String("APP_ENV", appEnv))
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}
		handler = slog.NewJSONHandler(os.Stderr, jsonOpts)
		tempLogger.Info("Using JSON log handler", slog.String("APP_ENV", appEnv))
	}
	logger := slog.New(handler)
	log.Println("Log Config Loaded...")

	slog.SetDefault(logger)

	slog.Info("Application starting...", slog.String("app", config.AppName), slog.String("version", config.AppVersion))

	// データベース接続 (GORM)
	db, err := repository.NewDB(config.Cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()

	// 開発環境ではスキーマを自動作成する。本番はマイグレーションを別途実行すること
	if strings.ToLower(appEnv) == "dev" {
		if err := db.AutoMigrate(
			&model.User{},
			&model.Category{},
			&model.Course{},
			&model.CourseCategory{},
			&model.CourseModule{},
			&model.Lesson{},
			&model.Enrollment{},
			&model.LessonProgress{},
		); err != nil {
			slog.Error("Error running auto migration", slog.Any("error", err))
			os.Exit(1)
		}
		slog.Info("Auto migration completed (dev only)")
	}

	// Dependency Injection
	userRepo := repository.NewGormUserRepository()
	courseRepo := repository.NewGormCourseRepository()
	moduleRepo := repository.NewGormModuleRepository()
	lessonRepo := repository.NewGormLessonRepository()
	enrollmentRepo := repository.NewGormEnrollmentRepository()
	progressRepo := repository.NewGormProgressRepository()
	categoryRepo := repository.NewGormCategoryRepository()

	mailer := service.NewMailer(&config.Cfg)

	authService := service.NewAuthService(db, userRepo, mailer, &config.Cfg)
	catalogService := service.NewCatalogService(db, courseRepo, moduleRepo, lessonRepo)
	courseService := service.NewCourseService(db, courseRepo, moduleRepo, lessonRepo, categoryRepo)
	categoryService := service.NewCategoryService(db, categoryRepo, courseRepo)
	progressService := service.NewProgressService(db, catalogService, courseRepo, lessonRepo, enrollmentRepo, progressRepo, config.Cfg.App.PositionSaveThresholdSeconds)
	statsService := service.NewStatsService(db, userRepo, courseRepo, moduleRepo, lessonRepo, enrollmentRepo, progressRepo, config.Cfg.App.TopCoursesLimit)

	authHandler := handlers.NewAuthHandler(authService, logger)
	userHandler := handlers.NewUserHandler(authService, logger)
	catalogHandler := handlers.NewCatalogHandler(catalogService, progressService, logger)
	courseAdminHandler := handlers.NewCourseAdminHandler(courseService, catalogService, logger)
	categoryHandler := handlers.NewCategoryHandler(categoryService, logger)
	progressHandler := handlers.NewProgressHandler(progressService, statsService, logger)
	statsHandler := handlers.NewStatsHandler(statsService, logger)

	// Router
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	corsOptions := cors.Options{
		AllowedOrigins:   config.Cfg.CORS.AllowedOrigins,
		AllowedMethods:   config.Cfg.CORS.AllowedMethods,
		AllowedHeaders:   config.Cfg.CORS.AllowedHeaders,
		ExposedHeaders:   config.Cfg.CORS.ExposedHeaders,
		AllowCredentials: config.Cfg.CORS.AllowCredentials,
		MaxAge:           config.Cfg.CORS.MaxAge,
		Debug:            false,
	}
	corsHandler := cors.New(corsOptions)
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// 認証ミドルウェアの選択。無効時はヘッダーでユーザーを指定できる開発用を使う
	var authMiddleware func(http.Handler) http.Handler
	if config.Cfg.Auth.Enabled {
		slog.Info("Applying JWT authentication middleware")
		authMiddleware = middleware.JWTAuthMiddleware(&config.Cfg)
	} else {
		slog.Warn("Authentication is DISABLED, using dev user context middleware")
		authMiddleware = middleware.DevUserContextMiddleware
	}

	// API Routes
	r.Route("/api/v1", func(r chi.Router) {
		// --- Public routes ---
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		// 初回セットアップ。管理者作成後は409を返すだけになる
		r.Post("/setup", authHandler.SetupAdmin)

		// --- Protected routes (学習者) ---
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Get("/auth/me", authHandler.GetMe)

			r.Route("/courses", func(r chi.Router) {
				r.Get("/", catalogHandler.ListCourses)
				r.Get("/{course_id}", catalogHandler.GetCourse)
				r.Get("/{course_id}/page", catalogHandler.GetCoursePage)
				r.Post("/{course_id}/enroll", progressHandler.Enroll)
			})

			r.Get("/categories", categoryHandler.ListCategories)

			r.Route("/me", func(r chi.Router) {
				r.Get("/enrollments", progressHandler.ListEnrollments)
				r.Get("/courses", progressHandler.GetMyCourses)
				r.Get("/stats", progressHandler.GetMyStats)
			})

			r.Post("/lessons/{lesson_id}/progress", progressHandler.RecordProgress)
		})

		// --- Admin routes ---
		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RequireRole(model.RoleAdmin))

			r.Post("/users", userHandler.CreateUser)

			r.Route("/courses", func(r chi.Router) {
				r.Get("/", courseAdminHandler.ListCourses)
				r.Post("/", courseAdminHandler.CreateCourse)
				r.Get("/{course_id}", courseAdminHandler.GetCourse)
				r.Patch("/{course_id}", courseAdminHandler.UpdateCourse)
				r.Delete("/{course_id}", courseAdminHandler.DeleteCourse)
				r.Post("/{course_id}/modules", courseAdminHandler.CreateModule)
				r.Put("/{course_id}/modules/order", courseAdminHandler.ReorderModules)
			})

			r.Route("/modules", func(r chi.Router) {
				r.Patch("/{module_id}", courseAdminHandler.UpdateModule)
				r.Delete("/{module_id}", courseAdminHandler.DeleteModule)
				r.Post("/{module_id}/lessons", courseAdminHandler.CreateLesson)
				r.Put("/{module_id}/lessons/order", courseAdminHandler.ReorderLessons)
			})

			r.Route("/lessons", func(r chi.Router) {
				r.Patch("/{lesson_id}", courseAdminHandler.UpdateLesson)
				r.Delete("/{lesson_id}", courseAdminHandler.DeleteLesson)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", categoryHandler.ListCategories)
				r.Post("/", categoryHandler.CreateCategory)
				r.Get("/{category_id}", categoryHandler.GetCategory)
				r.Patch("/{category_id}", categoryHandler.UpdateCategory)
				r.Delete("/{category_id}", categoryHandler.DeleteCategory)
			})

			r.Route("/stats", func(r chi.Router) {
				r.Get("/overview", statsHandler.GetOverview)
				r.Get("/courses", statsHandler.GetCourseStats)
			})
		})
	})

	// Health Check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sqlDB, err := db.DB()
		if err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not get DB object", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Start Server
	server := &http.Server{
		Addr:         config.Cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", config.Cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", config.Cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}
