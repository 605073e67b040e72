package service

import (
	"context"

	"go_5_training_keep/internal/middleware"
	"go_5_training_keep/internal/model"
	"go_5_training_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourseService は管理者向けのコンテンツ管理 (コース/モジュール/レッスンのCRUDと並び替え) を提供します
type CourseService interface {
	ListAllCourses(ctx context.Context) ([]*model.Course, error)
	CreateCourse(ctx context.Context, instructorID *uuid.UUID, req *model.CreateCourseRequest) (*model.Course, error)
	UpdateCourse(ctx context.Context, courseID uuid.UUID, req *model.UpdateCourseRequest) (*model.Course, error)
	DeleteCourse(ctx context.Context, courseID uuid.UUID) error

	CreateModule(ctx context.Context, courseID uuid.UUID, req *model.CreateModuleRequest) (*model.CourseModule, error)
	UpdateModule(ctx context.Context, moduleID uuid.UUID, req *model.UpdateModuleRequest) (*model.CourseModule, error)
	DeleteModule(ctx context.Context, moduleID uuid.UUID) error
	ReorderModules(ctx context.Context, courseID uuid.UUID, orderedIDs []uuid.UUID) error

	CreateLesson(ctx context.Context, moduleID uuid.UUID, req *model.CreateLessonRequest) (*model.Lesson, error)
	UpdateLesson(ctx context.Context, lessonID uuid.UUID, req *model.UpdateLessonRequest) (*model.Lesson, error)
	DeleteLesson(ctx context.Context, lessonID uuid.UUID) error
	ReorderLessons(ctx context.Context, moduleID uuid.UUID, orderedIDs []uuid.UUID) error
}

type courseService struct {
	db           *gorm.DB
	courseRepo   repository.CourseRepository
	moduleRepo   repository.ModuleRepository
	lessonRepo   repository.LessonRepository
	categoryRepo repository.CategoryRepository
}

func NewCourseService(db *gorm.DB, courseRepo repository.CourseRepository, moduleRepo repository.ModuleRepository, lessonRepo repository.LessonRepository, categoryRepo repository.CategoryRepository) CourseService {
	return &courseService{
		db:           db,
		courseRepo:   courseRepo,
		moduleRepo:   moduleRepo,
		lessonRepo:   lessonRepo,
		categoryRepo: categoryRepo,
	}
}

// --- コース ---

func (s *courseService) ListAllCourses(ctx context.Context) ([]*model.Course, error) {
	return s.courseRepo.FindAll(ctx, s.db)
}

func (s *courseService) CreateCourse(ctx context.Context, instructorID *uuid.UUID, req *model.CreateCourseRequest) (*model.Course, error) {
	logger := middleware.GetLogger(ctx)
	if req.Title == "" || len(req.CategoryIDs) == 0 {
		return nil, model.ErrInvalidInput
	}

	var created *model.Course
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 指定カテゴリがすべて実在することを確認
		categories, err := s.categoryRepo.FindByIDs(ctx, tx, req.CategoryIDs)
		if err != nil {
			logger.Error("Error finding categories in transaction", "error", err)
			return model.ErrInternalServer
		}
		if len(categories) != len(req.CategoryIDs) {
			return model.NewAppError("INVALID_INPUT", "存在しないカテゴリが指定されています", "category_ids", model.ErrInvalidInput)
		}

		course := &model.Course{
			CourseID:     uuid.New(),
			Title:        req.Title,
			Description:  req.Description,
			ThumbnailURL: req.ThumbnailURL,
			InstructorID: instructorID,
			IsPublished:  false, // 新規コースは下書きから始める
		}
		if err := s.courseRepo.Create(ctx, tx, course); err != nil {
			return err
		}
		if err := s.courseRepo.ReplaceCategories(ctx, tx, course.CourseID, req.CategoryIDs); err != nil {
			return err
		}

		created = course
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.courseRepo.FindByID(ctx, s.db, created.CourseID)
}

func (s *courseService) UpdateCourse(ctx context.Context, courseID uuid.UUID, req *model.UpdateCourseRequest) (*model.Course, error) {
	logger := middleware.GetLogger(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.courseRepo.FindByID(ctx, tx, courseID); err != nil {
			return err
		}

		updates := make(map[string]interface{})
		if req.Title != nil {
			updates["title"] = *req.Title
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.ThumbnailURL != nil {
			updates["thumbnail_url"] = *req.ThumbnailURL
		}
		if req.IsPublished != nil {
			updates["is_published"] = *req.IsPublished
		}
		if len(updates) > 0 {
			if err := s.courseRepo.Update(ctx, tx, courseID, updates); err != nil {
				return err
			}
		}

		// カテゴリ指定があれば同一トランザクション内で全置換する
		if req.CategoryIDs != nil {
			categories, err := s.categoryRepo.FindByIDs(ctx, tx, req.CategoryIDs)
			if err != nil {
				logger.Error("Error finding categories in transaction", "error", err)
				return model.ErrInternalServer
			}
			if len(categories) != len(req.CategoryIDs) {
				return model.NewAppError("INVALID_INPUT", "存在しないカテゴリが指定されています", "category_ids", model.ErrInvalidInput)
			}
			if err := s.courseRepo.ReplaceCategories(ctx, tx, courseID, req.CategoryIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.courseRepo.FindByID(ctx, s.db, courseID)
}

func (s *courseService) DeleteCourse(ctx context.Context, courseID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.courseRepo.Delete(ctx, tx, courseID)
	})
}

// --- モジュール ---

func (s *courseService) CreateModule(ctx context.Context, courseID uuid.UUID, req *model.CreateModuleRequest) (*model.CourseModule, error) {
	logger := middleware.GetLogger(ctx)
	if req.Title == "" {
		return nil, model.ErrInvalidInput
	}

	var created *model.CourseModule
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.courseRepo.FindByID(ctx, tx, courseID); err != nil {
			return err
		}

		// 採番はトランザクション内で行い、同時作成による重複を防ぐ
		maxOrder, err := s.moduleRepo.MaxOrderIndex(ctx, tx, courseID)
		if err != nil {
			logger.Error("Error getting max order index in transaction", "error", err)
			return model.ErrInternalServer
		}

		module := &model.CourseModule{
			ModuleID:    uuid.New(),
			CourseID:    courseID,
			Title:       req.Title,
			Description: req.Description,
			OrderIndex:  maxOrder + 1,
		}
		if err := s.moduleRepo.Create(ctx, tx, module); err != nil {
			return err
		}

		created = module
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *courseService) UpdateModule(ctx context.Context, moduleID uuid.UUID, req *model.UpdateModuleRequest) (*model.CourseModule, error) {
	var updated *model.CourseModule
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := make(map[string]interface{})
		if req.Title != nil {
			updates["title"] = *req.Title
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if len(updates) > 0 {
			if err := s.moduleRepo.Update(ctx, tx, moduleID, updates); err != nil {
				return err
			}
		}
		var err error
		updated, err = s.moduleRepo.FindByID(ctx, tx, moduleID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *courseService) DeleteModule(ctx context.Context, moduleID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.moduleRepo.Delete(ctx, tx, moduleID)
	})
}

// ReorderModules はコース内モジュールの表示順を並び替えます。
// orderedIDs はコースの全モジュールを過不足なく含む必要があり、
// 全件の order_index を 1..n で書き直します (部分的な並び替えは受け付けない)。
func (s *courseService) ReorderModules(ctx context.Context, courseID uuid.UUID, orderedIDs []uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		modules, err := s.moduleRepo.FindByCourse(ctx, tx, courseID)
		if err != nil {
			return err
		}
		if err := validateReorderIDs(moduleIDSet(modules), orderedIDs); err != nil {
			return err
		}
		for i, id := range orderedIDs {
			if err := s.moduleRepo.UpdateOrder(ctx, tx, id, i+1); err != nil {
				return err
			}
		}
		return nil
	})
}

// --- レッスン ---

func (s *courseService) CreateLesson(ctx context.Context, moduleID uuid.UUID, req *model.CreateLessonRequest) (*model.Lesson, error) {
	logger := middleware.GetLogger(ctx)
	if req.Title == "" || !req.Type.IsValid() {
		return nil, model.ErrInvalidInput
	}
	if err := validateLessonContent(req.Type, req.ContentURL, req.Content); err != nil {
		return nil, err
	}

	var created *model.Lesson
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.moduleRepo.FindByID(ctx, tx, moduleID); err != nil {
			return err
		}

		maxOrder, err := s.lessonRepo.MaxOrderIndex(ctx, tx, moduleID)
		if err != nil {
			logger.Error("Error getting max order index in transaction", "error", err)
			return model.ErrInternalServer
		}

		lesson := &model.Lesson{
			LessonID:        uuid.New(),
			ModuleID:        moduleID,
			Title:           req.Title,
			Description:     req.Description,
			Type:            req.Type,
			ContentURL:      req.ContentURL,
			Content:         req.Content,
			DurationMinutes: req.DurationMinutes,
			OrderIndex:      maxOrder + 1,
			IsPublished:     req.IsPublished,
		}
		if err := s.lessonRepo.Create(ctx, tx, lesson); err != nil {
			return err
		}

		created = lesson
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *courseService) UpdateLesson(ctx context.Context, lessonID uuid.UUID, req *model.UpdateLessonRequest) (*model.Lesson, error) {
	var updated *model.Lesson
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.lessonRepo.FindByID(ctx, tx, lessonID)
		if err != nil {
			return err
		}

		// 更新後のタイプ/コンテンツの組で整合性を検証する
		newType := current.Type
		if req.Type != nil {
			newType = *req.Type
		}
		newURL := current.ContentURL
		if req.ContentURL != nil {
			newURL = *req.ContentURL
		}
		newContent := current.Content
		if req.Content != nil {
			newContent = *req.Content
		}
		if !newType.IsValid() {
			return model.ErrInvalidInput
		}
		if err := validateLessonContent(newType, newURL, newContent); err != nil {
			return err
		}

		updates := make(map[string]interface{})
		if req.Title != nil {
			updates["title"] = *req.Title
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Type != nil {
			updates["type"] = *req.Type
		}
		if req.ContentURL != nil {
			updates["content_url"] = *req.ContentURL
		}
		if req.Content != nil {
			updates["content"] = *req.Content
		}
		if req.DurationMinutes != nil {
			updates["duration_minutes"] = *req.DurationMinutes
		}
		if req.IsPublished != nil {
			updates["is_published"] = *req.IsPublished
		}
		if len(updates) > 0 {
			if err := s.lessonRepo.Update(ctx, tx, lessonID, updates); err != nil {
				return err
			}
		}

		updated, err = s.lessonRepo.FindByID(ctx, tx, lessonID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *courseService) DeleteLesson(ctx context.Context, lessonID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.lessonRepo.Delete(ctx, tx, lessonID)
	})
}

func (s *courseService) ReorderLessons(ctx context.Context, moduleID uuid.UUID, orderedIDs []uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.moduleRepo.FindByID(ctx, tx, moduleID); err != nil {
			return err
		}
		lessons, err := s.lessonRepo.FindByModules(ctx, tx, []uuid.UUID{moduleID}, false)
		if err != nil {
			return err
		}
		if err := validateReorderIDs(lessonIDSet(lessons), orderedIDs); err != nil {
			return err
		}
		for i, id := range orderedIDs {
			if err := s.lessonRepo.UpdateOrder(ctx, tx, id, i+1); err != nil {
				return err
			}
		}
		return nil
	})
}

// --- ヘルパー ---

// validateLessonContent はレッスンタイプとコンテンツの組を検証します。
// youtube/video/pdf は content_url が必須、text は content が必須。
func validateLessonContent(t model.LessonType, contentURL, content string) error {
	if t.RequiresURL() {
		if contentURL == "" {
			return model.NewAppError("INVALID_INPUT", "このレッスンタイプにはcontent_urlが必要です", "content_url", model.ErrInvalidInput)
		}
		return nil
	}
	if content == "" {
		return model.NewAppError("INVALID_INPUT", "テキストレッスンにはcontentが必要です", "content", model.ErrInvalidInput)
	}
	return nil
}

// validateReorderIDs は並び替え指定が既存IDの集合と過不足なく一致するか検証します
func validateReorderIDs(existing map[uuid.UUID]struct{}, orderedIDs []uuid.UUID) error {
	if len(orderedIDs) != len(existing) {
		return model.NewAppError("INVALID_INPUT", "並び替え対象のIDリストが全件と一致しません", "ordered_ids", model.ErrInvalidInput)
	}
	seen := make(map[uuid.UUID]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, ok := existing[id]; !ok {
			return model.NewAppError("INVALID_INPUT", "並び替え対象に存在しないIDが含まれています", "ordered_ids", model.ErrInvalidInput)
		}
		if _, dup := seen[id]; dup {
			return model.NewAppError("INVALID_INPUT", "並び替え対象に重複したIDが含まれています", "ordered_ids", model.ErrInvalidInput)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func moduleIDSet(modules []*model.CourseModule) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(modules))
	for _, m := range modules {
		set[m.ModuleID] = struct{}{}
	}
	return set
}

func lessonIDSet(lessons []*model.Lesson) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(lessons))
	for _, l := range lessons {
		set[l.LessonID] = struct{}{}
	}
	return set
}
