package service

import (
	"context"
	"testing"
	"time"

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

func setupTestDBProgress() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect database for testing: " + err.Error())
	}
	return db
}

type progressServiceMocks struct {
	courseRepo     *mocks.CourseRepository
	lessonRepo     *mocks.LessonRepository
	enrollmentRepo *mocks.EnrollmentRepository
	progressRepo   *mocks.ProgressRepository
}

func newProgressServiceWithMocks(db *gorm.DB, threshold int) (ProgressService, *progressServiceMocks) {
	m := &progressServiceMocks{
		courseRepo:     new(mocks.CourseRepository),
		lessonRepo:     new(mocks.LessonRepository),
		enrollmentRepo: new(mocks.EnrollmentRepository),
		progressRepo:   new(mocks.ProgressRepository),
	}
	svc := NewProgressService(db, nil, m.courseRepo, m.lessonRepo, m.enrollmentRepo, m.progressRepo, threshold)
	return svc, m
}

func (m *progressServiceMocks) assertExpectations(t *testing.T) {
	m.courseRepo.AssertExpectations(t)
	m.lessonRepo.AssertExpectations(t)
	m.enrollmentRepo.AssertExpectations(t)
	m.progressRepo.AssertExpectations(t)
}

func Test_progressService_EnsureEnrolled(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBProgress()
	userID := uuid.New()
	courseID := uuid.New()
	publishedCourse := &model.Course{CourseID: courseID, Title: "研修A", IsPublished: true}

	t.Run("正常系: 未登録なら新規作成される", func(t *testing.T) {
		svc, m := newProgressServiceWithMocks(db, 10)
		m.courseRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), courseID).
			Return(publishedCourse, nil).Once()
		m.enrollmentRepo.On("FindByUserAndCourse", ctx, mock.AnythingOfType("*gorm.DB"), userID, courseID).
			Return(nil, model.ErrNotFound).Once()
		m.enrollmentRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.Enrollment")).
			Return(nil).Once()

		got, err := svc.EnsureEnrolled(ctx, userID, courseID)

		require.NoError(t, err)
		assert.Equal(t, userID, got.UserID)
		assert.Equal(t, courseID, got.CourseID)
		assert.Equal(t, got.EnrolledAt, got.LastAccessedAt)
		m.assertExpectations(t)
	})

	t.Run("正常系: 登録済みならlast_accessed_atのみ更新される", func(t *testing.T) {
		svc, m := newProgressServiceWithMocks(db, 10)
		enrolledAt := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
		existing := &model.Enrollment{
			EnrollmentID:   uuid.New(),
			UserID:         userID,
			CourseID:       courseID,
			EnrolledAt:     enrolledAt,
			LastAccessedAt: enrolledAt,
		}
		m.courseRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), courseID).
			Return(publishedCourse, nil).Once()
		m.enrollmentRepo.On("FindByUserAndCourse", ctx, mock.AnythingOfType("*gorm.DB"), userID, courseID).
			Return(existing, nil).Once()
		m.enrollmentRepo.On("TouchLastAccessed", ctx, mock.AnythingOfType("*gorm.DB"), existing.EnrollmentID, mock.AnythingOfType("time.Time")).
			Return(nil).Once()

		got, err := svc.EnsureEnrolled(ctx, userID, courseID)

		require.NoError(t, err)
		assert.Equal(t, enrolledAt, got.EnrolledAt) // 初回登録日時は保持される
		assert.True(t, got.LastAccessedAt.After(enrolledAt))
		m.enrollmentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})

	t.Run("正常系: 並行登録のレースに負けたら既存行を返す", func(t *testing.T) {
		svc, m := newProgressServiceWithMocks(db, 10)
		winner := &model.Enrollment{EnrollmentID: uuid.New(), UserID: userID, CourseID: courseID}
		m.courseRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), courseID).
			Return(publishedCourse, nil).Once()
		m.enrollmentRepo.On("FindByUserAndCourse", ctx, mock.AnythingOfType("*gorm.DB"), userID, courseID).
			Return(nil, model.ErrNotFound).Once()
		m.enrollmentRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.Enrollment")).
			Return(model.ErrConflict).Once()
		m.enrollmentRepo.On("FindByUserAndCourse", ctx, mock.AnythingOfType("*gorm.DB"), userID, courseID).
			Return(winner, nil).Once()

		got, err := svc.EnsureEnrolled(ctx, userID, courseID)

		require.NoError(t, err)
		assert.Equal(t, winner.EnrollmentID, got.EnrollmentID)
		m.assertExpectations(t)
	})

	t.Run("異常系: 未公開コースには登録できない", func(t *testing.T) {
		svc, m := newProgressServiceWithMocks(db, 10)
		m.courseRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), courseID).
			Return(&model.Course{CourseID: courseID, IsPublished: false}, nil).Once()

		_, err := svc.EnsureEnrolled(ctx, userID, courseID)

		assert.ErrorIs(t, err, model.ErrNotFound)
		m.enrollmentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}

func Test_progressService_RecordLessonProgress(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBProgress()
	userID := uuid.New()
	courseID := uuid.New()
	lessonID := uuid.New()
	publishedLesson := &model.Lesson{LessonID: lessonID, Title: "動画1", Type: model.LessonTypeYouTube, IsPublished: true}
	enrollment := &model.Enrollment{EnrollmentID: uuid.New(), UserID: userID, CourseID: courseID}

	boolPtr := func(b bool) *bool { return &b }
	intPtr := func(n int) *int { return &n }

	// 公開済みレッスン・受講済みコースまでの前段をまとめて設定する
	setupLookups := func(m *progressServiceMocks) {
		m.lessonRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), lessonID).
			Return(publishedLesson, nil).Once()
		m.lessonRepo.On("FindCourseIDByLesson", ctx, mock.AnythingOfType("*gorm.DB"), lessonID).
			Return(courseID, nil).Once()
		m.enrollmentRepo.On("FindByUserAndCourse", ctx, mock.AnythingOfType("*gorm.DB"), userID, courseID).
			Return(enrollment, nil).Once()
	}

	t.Run("正常系: 初回完了でcompleted_atが刻まれ位置は0になる", func(t *testing.T) {
		svc, m := newProgressServiceWithMocks(db, 10)
		setupLookups(m)
		m.progressRepo.On("FindByUserAndLesson", ctx, mock.AnythingOfType("*gorm.DB"), userID, lessonID).
			Return(&model.LessonProgress{ProgressID: uuid.New(), UserID: userID, LessonID: lessonID, LastPositionSeconds: 95}, nil).Once()
		m.progressRepo.On("Update", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.LessonProgress")).
			Return(nil).Once()
		// コース完了判定: まだ未完了レッスンが残っている
		m.lessonRepo.On("CountPublishedByCourse", ctx, mock.AnythingOfType("*gorm.DB"), courseID).
			Return(int64(5), nil).Once()
		m.progressRepo.On("CountCompletedInCourse", ctx, mock.AnythingOfType("*gorm.DB"), userID, courseID).
			Return(int64(3), nil).Once()

		got, err := svc.RecordLessonProgress(ctx, userID, lessonID, &model.RecordProgressRequest{Completed: boolPtr(true)})

		require.NoError(t, err)
		assert.True(t, got.Completed)
		require.NotNil(t, got.CompletedAt)
		assert.Equal(t, 0, got.LastPositionSeconds)
		m.enrollmentRepo.AssertNotCalled(t, "MarkCompleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})

	t.Run("正常系: 完了済みレッスンの再完了でcompleted_atは変わらない", func(t *testing.T) {
		svc, m := newProgressServiceWithMocks(db, 10)
		setupLookups(m)
		firstCompletion := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
		m.progressRepo.On("FindByUserAndLesson", ctx, mock.AnythingOfType("*gorm.DB"), userID, lessonID).
			Return(&model.LessonProgress{
				ProgressID:  uuid.New(),
				UserID:      userID,
				LessonID:    lessonID,
				Completed:   true,
				CompletedAt: &firstCompletion,
			}, nil).Once()
		m.progressRepo.On("Update", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.LessonProgress")).
			Return(nil).Once()
		m.lessonRepo.On("CountPublishedByCourse", ctx, mock.AnythingOfType("*gorm.DB"), courseID).
			Return(int64(1), nil).Once()
		m.progressRepo.On("CountCompletedInCourse", ctx, mock.AnythingOfType("*gorm.DB"), userID, courseID).
			Return(int64(1), nil).Once()
		m.enrollmentRepo.On("MarkCompleted", ctx, mock.AnythingOfType("*gorm.DB"), enrollment.EnrollmentID, mock.AnythingOfType("time.Time")).
			Return(nil).Once()

		got, err := svc.RecordLessonProgress(ctx, userID, lessonID, &model.RecordProgressRequest{Completed: boolPtr(true)})

		require.NoError(t, err)
		assert.Equal(t, firstCompletion, *got.CompletedAt)
		m.assertExpectations(t)
	})

	t.Run("正常系: 最後のレッスン完了でコースのcompleted_atが刻まれる", func(t *testing.T) {
		svc, m := newProgressServiceWithMocks(db, 10)
		setupLookups(m)
		m.progressRepo.On("FindByUserAndLesson", ctx, mock.AnythingOfType("*gorm.DB"), userID, lessonID).
			Return(nil, model.ErrNotFound).Once()
		m.progressRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.LessonProgress")).
			Return(nil).Once()
		m.progressRepo.On("Update", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.LessonProgress")).
			Return(nil).Once()
		m.lessonRepo.On("CountPublishedByCourse", ctx, mock.AnythingOfType("*gorm.DB"), courseID).
			Return(int64(3), nil).Once()
		m.progressRepo.On("CountCompletedInCourse", ctx, mock.AnythingOfType("*gorm.DB"), userID, courseID).
			Return(int64(3), nil).Once()
		m.enrollmentRepo.On("MarkCompleted", ctx, mock.AnythingOfType("*gorm.DB"), enrollment.EnrollmentID, mock.AnythingOfType("time.Time")).
			Return(nil).Once()

		_, err := svc.RecordLessonProgress(ctx, userID, lessonID, &model.RecordProgressRequest{Completed: boolPtr(true)})

		require.NoError(t, err)
		m.assertExpectations(t)
	})

	t.Run("正常系: 受講レコードが完了済みならコース完了判定を行わない", func(t *testing.T) {
		svc, m := newProgressServiceWithMocks(db, 10)
		completedAt := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
		done := &model.Enrollment{EnrollmentID: enrollment.EnrollmentID, UserID: userID, CourseID: courseID, CompletedAt: &completedAt}
		m.lessonRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), lessonID).
			Return(publishedLesson, nil).Once()
		m.lessonRepo.On("FindCourseIDByLesson", ctx, mock.AnythingOfType("*gorm.DB"), lessonID).
			Return(courseID, nil).Once()
		m.enrollmentRepo.On("FindByUserAndCourse", ctx, mock.AnythingOfType("*gorm.DB"), userID, courseID).
			Return(done, nil).Once()
		m.progressRepo.On("FindByUserAndLesson", ctx, mock.AnythingOfType("*gorm.DB"), userID, lessonID).
			Return(&model.LessonProgress{ProgressID: uuid.New(), UserID: userID, LessonID: lessonID}, nil).Once()
		m.progressRepo.On("Update", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.LessonProgress")).
			Return(nil).Once()

		_, err := svc.RecordLessonProgress(ctx, userID, lessonID, &model.RecordProgressRequest{Completed: boolPtr(true)})

		require.NoError(t, err)
		m.lessonRepo.AssertNotCalled(t, "CountPublishedByCourse", mock.Anything, mock.Anything, mock.Anything)
		m.enrollmentRepo.AssertNotCalled(t, "MarkCompleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})

	t.Run("正常系: 前回位置との差が閾値以上なら保存される", func(t *testing.T) {
		svc, m := newProgressServiceWithMocks(db, 10)
		setupLookups(m)
		m.progressRepo.On("FindByUserAndLesson", ctx, mock.AnythingOfType("*gorm.DB"), userID, lessonID).
			Return(&model.LessonProgress{ProgressID: uuid.New(), UserID: userID, LessonID: lessonID, LastPositionSeconds: 30}, nil).Once()
		m.progressRepo.On("Update", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.LessonProgress")).
			Return(nil).Once()

		got, err := svc.RecordLessonProgress(ctx, userID, lessonID, &model.RecordProgressRequest{PositionSeconds: intPtr(45)})

		require.NoError(t, err)
		assert.Equal(t, 45, got.LastPositionSeconds)
		m.assertExpectations(t)
	})

	t.Run("正常系: 前回位置との差が閾値未満なら書き込みを省略する", func(t *testing.T) {
		svc, m := newProgressServiceWithMocks(db, 10)
		setupLookups(m)
		m.progressRepo.On("FindByUserAndLesson", ctx, mock.AnythingOfType("*gorm.DB"), userID, lessonID).
			Return(&model.LessonProgress{ProgressID: uuid.New(), UserID: userID, LessonID: lessonID, LastPositionSeconds: 30}, nil).Once()

		got, err := svc.RecordLessonProgress(ctx, userID, lessonID, &model.RecordProgressRequest{PositionSeconds: intPtr(35)})

		require.NoError(t, err)
		assert.Equal(t, 30, got.LastPositionSeconds)
		m.progressRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})

	t.Run("正常系: 位置0へのリセットは閾値に関係なく保存される", func(t *testing.T) {
		svc, m := newProgressServiceWithMocks(db, 100)
		setupLookups(m)
		m.progressRepo.On("FindByUserAndLesson", ctx, mock.AnythingOfType("*gorm.DB"), userID, lessonID).
			Return(&model.LessonProgress{ProgressID: uuid.New(), UserID: userID, LessonID: lessonID, LastPositionSeconds: 50}, nil).Once()
		m.progressRepo.On("Update", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.LessonProgress")).
			Return(nil).Once()

		got, err := svc.RecordLessonProgress(ctx, userID, lessonID, &model.RecordProgressRequest{PositionSeconds: intPtr(0)})

		require.NoError(t, err)
		assert.Equal(t, 0, got.LastPositionSeconds)
		m.assertExpectations(t)
	})

	t.Run("異常系: completedもposition_secondsもない", func(t *testing.T) {
		svc, m := newProgressServiceWithMocks(db, 10)

		_, err := svc.RecordLessonProgress(ctx, userID, lessonID, &model.RecordProgressRequest{})

		assert.ErrorIs(t, err, model.ErrInvalidInput)
		m.lessonRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("異常系: 負の再生位置", func(t *testing.T) {
		svc, _ := newProgressServiceWithMocks(db, 10)

		_, err := svc.RecordLessonProgress(ctx, userID, lessonID, &model.RecordProgressRequest{PositionSeconds: intPtr(-1)})

		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("異常系: 未受講コースのレッスンには記録できない", func(t *testing.T) {
		svc, m := newProgressServiceWithMocks(db, 10)
		m.lessonRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), lessonID).
			Return(publishedLesson, nil).Once()
		m.lessonRepo.On("FindCourseIDByLesson", ctx, mock.AnythingOfType("*gorm.DB"), lessonID).
			Return(courseID, nil).Once()
		m.enrollmentRepo.On("FindByUserAndCourse", ctx, mock.AnythingOfType("*gorm.DB"), userID, courseID).
			Return(nil, model.ErrNotFound).Once()

		_, err := svc.RecordLessonProgress(ctx, userID, lessonID, &model.RecordProgressRequest{Completed: boolPtr(true)})

		assert.ErrorIs(t, err, model.ErrForbidden)
		m.assertExpectations(t)
	})

	t.Run("異常系: 未公開レッスン", func(t *testing.T) {
		svc, m := newProgressServiceWithMocks(db, 10)
		m.lessonRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), lessonID).
			Return(&model.Lesson{LessonID: lessonID, IsPublished: false}, nil).Once()

		_, err := svc.RecordLessonProgress(ctx, userID, lessonID, &model.RecordProgressRequest{Completed: boolPtr(true)})

		assert.ErrorIs(t, err, model.ErrNotFound)
		m.assertExpectations(t)
	})
}
