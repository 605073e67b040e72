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

func setupTestDBStats() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect database for testing: " + err.Error())
	}
	return db
}

func makeCourse(title string) *model.Course {
	return &model.Course{CourseID: uuid.New(), Title: title, IsPublished: true}
}

func makeEnrollments(courseID uuid.UUID, total, completed int) []*model.Enrollment {
	now := time.Now()
	var result []*model.Enrollment
	for i := 0; i < total; i++ {
		e := &model.Enrollment{
			EnrollmentID: uuid.New(),
			UserID:       uuid.New(),
			CourseID:     courseID,
			EnrolledAt:   now,
		}
		if i < completed {
			e.CompletedAt = &now
		}
		result = append(result, e)
	}
	return result
}

func Test_buildCourseStats(t *testing.T) {
	t.Run("正常系: 受講数・完了数・完了率を1パスで集計する", func(t *testing.T) {
		courseA := makeCourse("A")
		courseB := makeCourse("B")
		courses := []*model.Course{courseA, courseB}

		var enrollments []*model.Enrollment
		enrollments = append(enrollments, makeEnrollments(courseA.CourseID, 4, 1)...)
		enrollments = append(enrollments, makeEnrollments(courseB.CourseID, 2, 2)...)

		stats := buildCourseStats(courses, enrollments)

		require.Len(t, stats, 2)
		assert.Equal(t, 4, stats[0].EnrollmentCount)
		assert.Equal(t, 1, stats[0].CompletedCount)
		assert.InDelta(t, 25.0, stats[0].CompletionRate, 0.001)
		assert.Equal(t, 2, stats[1].EnrollmentCount)
		assert.InDelta(t, 100.0, stats[1].CompletionRate, 0.001)
	})

	t.Run("正常系: 受講者0のコースは完了率0", func(t *testing.T) {
		course := makeCourse("empty")

		stats := buildCourseStats([]*model.Course{course}, nil)

		require.Len(t, stats, 1)
		assert.Equal(t, 0, stats[0].EnrollmentCount)
		assert.Equal(t, 0.0, stats[0].CompletionRate)
	})

	t.Run("正常系: 削除済みコースへの受講レコードは無視する", func(t *testing.T) {
		course := makeCourse("kept")
		orphan := makeEnrollments(uuid.New(), 3, 0)

		stats := buildCourseStats([]*model.Course{course}, orphan)

		require.Len(t, stats, 1)
		assert.Equal(t, 0, stats[0].EnrollmentCount)
	})
}

func Test_topNByEnrollment(t *testing.T) {
	// 受講数: [10, 50, 5, 50, 0]
	counts := []int{10, 50, 5, 50, 0}
	var stats []*model.CourseStats
	for i, c := range counts {
		stats = append(stats, &model.CourseStats{
			CourseID:        uuid.New(),
			Title:           string(rune('A' + i)),
			EnrollmentCount: c,
		})
	}

	t.Run("正常系: 受講数降順で上位N件、同数は元の並びを保つ", func(t *testing.T) {
		top := topNByEnrollment(stats, 3)

		require.Len(t, top, 3)
		// 50(B) が 50(D) より先に来る (安定ソート)
		assert.Equal(t, "B", top[0].Title)
		assert.Equal(t, "D", top[1].Title)
		assert.Equal(t, "A", top[2].Title)
	})

	t.Run("正常系: コース数がN未満なら全件返す", func(t *testing.T) {
		top := topNByEnrollment(stats[:2], 5)
		assert.Len(t, top, 2)
	})

	t.Run("正常系: 元のスライスは並び替えない", func(t *testing.T) {
		_ = topNByEnrollment(stats, 3)
		assert.Equal(t, "A", stats[0].Title)
		assert.Equal(t, 10, stats[0].EnrollmentCount)
	})
}

func Test_statsService_GetUserStats(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBStats()
	userID := uuid.New()
	now := time.Now()

	mockUserRepo := new(mocks.UserRepository)
	mockCourseRepo := new(mocks.CourseRepository)
	mockModuleRepo := new(mocks.ModuleRepository)
	mockLessonRepo := new(mocks.LessonRepository)
	mockEnrollmentRepo := new(mocks.EnrollmentRepository)
	mockProgressRepo := new(mocks.ProgressRepository)

	svc := NewStatsService(db, mockUserRepo, mockCourseRepo, mockModuleRepo, mockLessonRepo, mockEnrollmentRepo, mockProgressRepo, 5)

	mockEnrollmentRepo.On("FindByUser", ctx, mock.AnythingOfType("*gorm.DB"), userID).
		Return([]*model.Enrollment{
			{EnrollmentID: uuid.New(), UserID: userID, CourseID: uuid.New(), CompletedAt: &now},
			{EnrollmentID: uuid.New(), UserID: userID, CourseID: uuid.New()},
		}, nil).Once()
	mockProgressRepo.On("FindCompletedByUser", ctx, mock.AnythingOfType("*gorm.DB"), userID).
		Return([]*model.LessonProgress{
			{ProgressID: uuid.New(), UserID: userID, LessonID: uuid.New(), Completed: true},
			{ProgressID: uuid.New(), UserID: userID, LessonID: uuid.New(), Completed: true},
			{ProgressID: uuid.New(), UserID: userID, LessonID: uuid.New(), Completed: true},
		}, nil).Once()

	stats, err := svc.GetUserStats(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, 2, stats.EnrolledCount)
	assert.Equal(t, 1, stats.CompletedCount)
	assert.Equal(t, 3, stats.LessonsComplete)
	mockEnrollmentRepo.AssertExpectations(t)
	mockProgressRepo.AssertExpectations(t)
}
