package service

import (
	"context"

	"go_5_training_keep/internal/model"
	"go_5_training_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CatalogService interface {
	ListPublishedCourses(ctx context.Context) ([]*model.Course, error)
	GetCourseWithContent(ctx context.Context, courseID uuid.UUID, includeUnpublished bool) (*model.CourseWithContent, error)
}

type catalogService struct {
	db         *gorm.DB
	courseRepo repository.CourseRepository
	moduleRepo repository.ModuleRepository
	lessonRepo repository.LessonRepository
}

func NewCatalogService(db *gorm.DB, courseRepo repository.CourseRepository, moduleRepo repository.ModuleRepository, lessonRepo repository.LessonRepository) CatalogService {
	return &catalogService{
		db:         db,
		courseRepo: courseRepo,
		moduleRepo: moduleRepo,
		lessonRepo: lessonRepo,
	}
}

func (s *catalogService) ListPublishedCourses(ctx context.Context) ([]*model.Course, error) {
	return s.courseRepo.FindPublished(ctx, s.db)
}

// GetCourseWithContent はコースとそのモジュール・レッスンの階層を組み立てて返します。
// 受講者向け(includeUnpublished=false)では未公開コースはNotFound、未公開レッスンは除外。
// レッスンの取得はモジュールIDのIN句1回で行い、モジュールごとのクエリは発行しません。
func (s *catalogService) GetCourseWithContent(ctx context.Context, courseID uuid.UUID, includeUnpublished bool) (*model.CourseWithContent, error) {
	course, err := s.courseRepo.FindByID(ctx, s.db, courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsPublished && !includeUnpublished {
		// 未公開コースの存在は受講者には見せない
		return nil, model.ErrNotFound
	}

	modules, err := s.moduleRepo.FindByCourse(ctx, s.db, courseID)
	if err != nil {
		return nil, err
	}

	moduleIDs := make([]uuid.UUID, 0, len(modules))
	for _, m := range modules {
		moduleIDs = append(moduleIDs, m.ModuleID)
	}

	lessons, err := s.lessonRepo.FindByModules(ctx, s.db, moduleIDs, !includeUnpublished)
	if err != nil {
		return nil, err
	}

	lessonsByModule := make(map[uuid.UUID][]*model.Lesson, len(modules))
	for _, l := range lessons {
		lessonsByModule[l.ModuleID] = append(lessonsByModule[l.ModuleID], l)
	}

	content := make([]*model.ModuleWithLessons, 0, len(modules))
	for _, m := range modules {
		mls := lessonsByModule[m.ModuleID]
		if mls == nil {
			mls = []*model.Lesson{}
		}
		content = append(content, &model.ModuleWithLessons{
			CourseModule: *m,
			Lessons:      mls,
		})
	}

	return &model.CourseWithContent{
		Course:         *course,
		ContentModules: content,
	}, nil
}
