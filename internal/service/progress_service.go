package service

import (
	"context"
	"errors"
	"time"

	"go_5_training_keep/internal/middleware"
	"go_5_training_keep/internal/model"
	"go_5_training_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgressService は受講登録とレッスン進捗の記録を提供します
type ProgressService interface {
	EnsureEnrolled(ctx context.Context, userID, courseID uuid.UUID) (*model.Enrollment, error)
	RecordLessonProgress(ctx context.Context, userID, lessonID uuid.UUID, req *model.RecordProgressRequest) (*model.LessonProgress, error)
	GetCoursePage(ctx context.Context, userID, courseID uuid.UUID, currentLessonID *uuid.UUID) (*model.CoursePageResponse, error)
	ListEnrollments(ctx context.Context, userID uuid.UUID) ([]*model.Enrollment, error)
}

type progressService struct {
	db             *gorm.DB
	catalog        CatalogService
	courseRepo     repository.CourseRepository
	lessonRepo     repository.LessonRepository
	enrollmentRepo repository.EnrollmentRepository
	progressRepo   repository.ProgressRepository

	// 再生位置の保存間隔 (秒)。前回保存位置との差がこれ未満なら書き込みを省略する
	positionSaveThreshold int
}

func NewProgressService(
	db *gorm.DB,
	catalog CatalogService,
	courseRepo repository.CourseRepository,
	lessonRepo repository.LessonRepository,
	enrollmentRepo repository.EnrollmentRepository,
	progressRepo repository.ProgressRepository,
	positionSaveThreshold int,
) ProgressService {
	return &progressService{
		db:                    db,
		catalog:               catalog,
		courseRepo:            courseRepo,
		lessonRepo:            lessonRepo,
		enrollmentRepo:        enrollmentRepo,
		progressRepo:          progressRepo,
		positionSaveThreshold: positionSaveThreshold,
	}
}

// EnsureEnrolled はコースを開いたユーザーの受講レコードを upsert します。
//   - 未登録なら enrolled_at = last_accessed_at = now で新規作成
//   - 登録済みなら last_accessed_at のみ更新 (enrolled_at は保持)
//
// 未公開コースへの登録は許可しません。
func (s *progressService) EnsureEnrolled(ctx context.Context, userID, courseID uuid.UUID) (*model.Enrollment, error) {
	logger := middleware.GetLogger(ctx)

	course, err := s.courseRepo.FindByID(ctx, s.db, courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsPublished {
		return nil, model.ErrNotFound
	}

	var enrollment *model.Enrollment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		existing, err := s.enrollmentRepo.FindByUserAndCourse(ctx, tx, userID, courseID)
		if err == nil {
			if err := s.enrollmentRepo.TouchLastAccessed(ctx, tx, existing.EnrollmentID, now); err != nil {
				return err
			}
			existing.LastAccessedAt = now
			enrollment = existing
			return nil
		}
		if !errors.Is(err, model.ErrNotFound) {
			return err
		}

		created := &model.Enrollment{
			EnrollmentID:   uuid.New(),
			UserID:         userID,
			CourseID:       courseID,
			EnrolledAt:     now,
			LastAccessedAt: now,
		}
		if err := s.enrollmentRepo.Create(ctx, tx, created); err != nil {
			// 並行リクエストとのレースで一意制約に負けた場合は既存行を拾い直す
			if errors.Is(err, model.ErrConflict) {
				existing, ferr := s.enrollmentRepo.FindByUserAndCourse(ctx, tx, userID, courseID)
				if ferr != nil {
					return ferr
				}
				enrollment = existing
				return nil
			}
			logger.Error("Error creating enrollment in transaction", "error", err)
			return err
		}
		enrollment = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

// RecordLessonProgress はレッスン進捗を upsert します。
//
// completed=true の場合:
//   - completed / completed_at を設定し、再生位置は0にリセットする
//   - 既に完了済みなら completed_at は更新しない (初回完了の時刻が残る)
//   - このレッスンの完了でコースの全公開レッスンが完了済みになったら、
//     受講レコードに completed_at を刻む
//
// position_seconds のみの場合:
//   - 前回保存位置との差が閾値未満なら書き込みを省略する (頻繁な保存の抑制)
func (s *progressService) RecordLessonProgress(ctx context.Context, userID, lessonID uuid.UUID, req *model.RecordProgressRequest) (*model.LessonProgress, error) {
	logger := middleware.GetLogger(ctx)

	if req.Completed == nil && req.PositionSeconds == nil {
		return nil, model.ErrInvalidInput
	}
	if req.PositionSeconds != nil && *req.PositionSeconds < 0 {
		return nil, model.ErrInvalidInput
	}

	lesson, err := s.lessonRepo.FindByID(ctx, s.db, lessonID)
	if err != nil {
		return nil, err
	}
	if !lesson.IsPublished {
		return nil, model.ErrNotFound
	}

	courseID, err := s.lessonRepo.FindCourseIDByLesson(ctx, s.db, lessonID)
	if err != nil {
		return nil, err
	}

	// 受講していないコースのレッスンには進捗を記録できない
	enrollment, err := s.enrollmentRepo.FindByUserAndCourse(ctx, s.db, userID, courseID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrForbidden
		}
		return nil, err
	}

	var result *model.LessonProgress
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		progress, err := s.progressRepo.FindByUserAndLesson(ctx, tx, userID, lessonID)
		if err != nil {
			if !errors.Is(err, model.ErrNotFound) {
				return err
			}
			progress = &model.LessonProgress{
				ProgressID: uuid.New(),
				UserID:     userID,
				LessonID:   lessonID,
			}
			if err := s.progressRepo.Create(ctx, tx, progress); err != nil {
				logger.Error("Error creating lesson progress in transaction", "error", err)
				return err
			}
		}

		if req.Completed != nil && *req.Completed {
			if !progress.Completed {
				progress.Completed = true
				progress.CompletedAt = &now
			}
			progress.LastPositionSeconds = 0
			if err := s.progressRepo.Update(ctx, tx, progress); err != nil {
				return err
			}

			if err := s.maybeCompleteCourse(ctx, tx, userID, courseID, enrollment, now); err != nil {
				return err
			}
		} else if req.PositionSeconds != nil {
			newPos := *req.PositionSeconds
			diff := newPos - progress.LastPositionSeconds
			if diff < 0 {
				diff = -diff
			}
			if diff >= s.positionSaveThreshold || newPos == 0 {
				progress.LastPositionSeconds = newPos
				if err := s.progressRepo.Update(ctx, tx, progress); err != nil {
					return err
				}
			}
		}

		result = progress
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// maybeCompleteCourse は全公開レッスン完了時に受講レコードの completed_at を刻みます。
// 既に完了済みの受講レコードには何もしない (初回完了が勝つ)。
func (s *progressService) maybeCompleteCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID, enrollment *model.Enrollment, now time.Time) error {
	if enrollment.CompletedAt != nil {
		return nil
	}

	total, err := s.lessonRepo.CountPublishedByCourse(ctx, tx, courseID)
	if err != nil {
		return err
	}
	if total == 0 {
		return nil
	}
	completed, err := s.progressRepo.CountCompletedInCourse(ctx, tx, userID, courseID)
	if err != nil {
		return err
	}
	if completed < total {
		return nil
	}
	return s.enrollmentRepo.MarkCompleted(ctx, tx, enrollment.EnrollmentID, now)
}

// GetCoursePage は学習画面1ページ分 (コース階層 + ナビゲーション + 進捗) を組み立てます。
// コースを開いた時点で受講レコードを upsert するため、この操作は読み取り専用ではありません。
func (s *progressService) GetCoursePage(ctx context.Context, userID, courseID uuid.UUID, currentLessonID *uuid.UUID) (*model.CoursePageResponse, error) {
	if _, err := s.EnsureEnrolled(ctx, userID, courseID); err != nil {
		return nil, err
	}

	course, err := s.catalog.GetCourseWithContent(ctx, courseID, false)
	if err != nil {
		return nil, err
	}

	flat := FlattenLessons(course.ContentModules)
	nav := ResolveNavigation(flat, currentLessonID)

	lessonIDs := make([]uuid.UUID, 0, len(flat))
	for _, l := range flat {
		lessonIDs = append(lessonIDs, l.LessonID)
	}
	progresses, err := s.progressRepo.FindByUserAndLessons(ctx, s.db, userID, lessonIDs)
	if err != nil {
		return nil, err
	}

	progressResponses := make([]*model.LessonProgressResponse, 0, len(progresses))
	for _, p := range progresses {
		progressResponses = append(progressResponses, &model.LessonProgressResponse{
			LessonID:            p.LessonID,
			Completed:           p.Completed,
			CompletedAt:         p.CompletedAt,
			LastPositionSeconds: p.LastPositionSeconds,
		})
	}

	return &model.CoursePageResponse{
		Course:     course,
		Navigation: nav,
		Progress:   progressResponses,
	}, nil
}

func (s *progressService) ListEnrollments(ctx context.Context, userID uuid.UUID) ([]*model.Enrollment, error) {
	return s.enrollmentRepo.FindByUser(ctx, s.db, userID)
}
