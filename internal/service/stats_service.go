package service

import (
	"context"
	"sort"

	"go_5_training_keep/internal/model"
	"go_5_training_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatsService は管理ダッシュボードと学習者ダッシュボードの集計を提供します
type StatsService interface {
	GetCourseStats(ctx context.Context) ([]*model.CourseStats, error)
	GetUserStats(ctx context.Context, userID uuid.UUID) (*model.UserStats, error)
	GetPlatformOverview(ctx context.Context) (*model.PlatformOverview, error)
	GetCoursesWithProgress(ctx context.Context, userID uuid.UUID) ([]*model.CourseProgressSummary, error)
}

type statsService struct {
	db             *gorm.DB
	userRepo       repository.UserRepository
	courseRepo     repository.CourseRepository
	moduleRepo     repository.ModuleRepository
	lessonRepo     repository.LessonRepository
	enrollmentRepo repository.EnrollmentRepository
	progressRepo   repository.ProgressRepository

	topCoursesLimit int
}

func NewStatsService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	courseRepo repository.CourseRepository,
	moduleRepo repository.ModuleRepository,
	lessonRepo repository.LessonRepository,
	enrollmentRepo repository.EnrollmentRepository,
	progressRepo repository.ProgressRepository,
	topCoursesLimit int,
) StatsService {
	return &statsService{
		db:              db,
		userRepo:        userRepo,
		courseRepo:      courseRepo,
		moduleRepo:      moduleRepo,
		lessonRepo:      lessonRepo,
		enrollmentRepo:  enrollmentRepo,
		progressRepo:    progressRepo,
		topCoursesLimit: topCoursesLimit,
	}
}

// GetCourseStats は全コースの受講数・完了数・完了率を集計します。
// 受講レコード全件を1回で取得してメモリ内で畳み込む (コースごとのCOUNTは発行しない)。
// 完了の判定は Enrollment.CompletedAt の有無のみで行う。
func (s *statsService) GetCourseStats(ctx context.Context) ([]*model.CourseStats, error) {
	courses, err := s.courseRepo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	enrollments, err := s.enrollmentRepo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}

	return buildCourseStats(courses, enrollments), nil
}

// buildCourseStats は取得済みデータからコース別統計を組み立てる純粋関数です。
// 結果はコース一覧の並び順を保つ。
func buildCourseStats(courses []*model.Course, enrollments []*model.Enrollment) []*model.CourseStats {
	statsByCourse := make(map[uuid.UUID]*model.CourseStats, len(courses))
	result := make([]*model.CourseStats, 0, len(courses))
	for _, c := range courses {
		st := &model.CourseStats{
			CourseID: c.CourseID,
			Title:    c.Title,
		}
		statsByCourse[c.CourseID] = st
		result = append(result, st)
	}

	for _, e := range enrollments {
		st, ok := statsByCourse[e.CourseID]
		if !ok {
			// 削除済みコースへの古い受講レコードは集計から除外する
			continue
		}
		st.EnrollmentCount++
		if e.CompletedAt != nil {
			st.CompletedCount++
		}
	}

	for _, st := range result {
		if st.EnrollmentCount > 0 {
			st.CompletionRate = float64(st.CompletedCount) / float64(st.EnrollmentCount) * 100
		}
	}
	return result
}

// topNByEnrollment は受講数の降順で上位n件を返します。
// 同数のコースは元の並び順を保つ (安定ソート)。
func topNByEnrollment(stats []*model.CourseStats, n int) []*model.CourseStats {
	sorted := make([]*model.CourseStats, len(stats))
	copy(sorted, stats)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EnrollmentCount > sorted[j].EnrollmentCount
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func (s *statsService) GetUserStats(ctx context.Context, userID uuid.UUID) (*model.UserStats, error) {
	enrollments, err := s.enrollmentRepo.FindByUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	completedLessons, err := s.progressRepo.FindCompletedByUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	stats := &model.UserStats{
		UserID:          userID,
		EnrolledCount:   len(enrollments),
		LessonsComplete: len(completedLessons),
	}
	for _, e := range enrollments {
		if e.CompletedAt != nil {
			stats.CompletedCount++
		}
	}
	return stats, nil
}

// GetPlatformOverview は管理ダッシュボード1画面分のロールアップを組み立てます
func (s *statsService) GetPlatformOverview(ctx context.Context) (*model.PlatformOverview, error) {
	totalUsers, err := s.userRepo.Count(ctx, s.db)
	if err != nil {
		return nil, err
	}
	publishedCourses, err := s.courseRepo.CountPublished(ctx, s.db)
	if err != nil {
		return nil, err
	}

	courseStats, err := s.GetCourseStats(ctx)
	if err != nil {
		return nil, err
	}

	overview := &model.PlatformOverview{
		TotalUsers:       int(totalUsers),
		TotalCourses:     len(courseStats),
		PublishedCourses: int(publishedCourses),
		TopCourses:       topNByEnrollment(courseStats, s.topCoursesLimit),
	}
	// 合計はコース別集計の合算で求める
	for _, st := range courseStats {
		overview.TotalEnrollments += st.EnrollmentCount
		overview.TotalCompletions += st.CompletedCount
	}
	if overview.TotalEnrollments > 0 {
		overview.OverallCompletionRate = float64(overview.TotalCompletions) / float64(overview.TotalEnrollments) * 100
	}

	recent, err := s.enrollmentRepo.FindRecent(ctx, s.db, s.topCoursesLimit)
	if err != nil {
		return nil, err
	}
	overview.RecentEnrollments = make([]*model.RecentEnrollment, 0, len(recent))
	for _, e := range recent {
		row := &model.RecentEnrollment{
			EnrollmentID: e.EnrollmentID,
			EnrolledAt:   e.EnrolledAt,
		}
		if e.User != nil {
			row.UserName = e.User.FullName
		}
		if e.Course != nil {
			row.CourseTitle = e.Course.Title
		}
		overview.RecentEnrollments = append(overview.RecentEnrollments, row)
	}

	return overview, nil
}

// GetCoursesWithProgress は学習者ダッシュボードのコースカード一覧を組み立てます。
// 公開レッスン数と完了済みレッスンの対応は全件まとめて取得し、
// コースごとのクエリは発行しない。
func (s *statsService) GetCoursesWithProgress(ctx context.Context, userID uuid.UUID) ([]*model.CourseProgressSummary, error) {
	courses, err := s.courseRepo.FindPublished(ctx, s.db)
	if err != nil {
		return nil, err
	}
	enrollments, err := s.enrollmentRepo.FindByUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	lessonRefs, err := s.lessonRepo.FindPublishedRefs(ctx, s.db)
	if err != nil {
		return nil, err
	}
	completed, err := s.progressRepo.FindCompletedByUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	enrollmentByCourse := make(map[uuid.UUID]*model.Enrollment, len(enrollments))
	for _, e := range enrollments {
		enrollmentByCourse[e.CourseID] = e
	}

	courseByLesson := make(map[uuid.UUID]uuid.UUID, len(lessonRefs))
	totalByCourse := make(map[uuid.UUID]int, len(courses))
	for _, ref := range lessonRefs {
		courseByLesson[ref.LessonID] = ref.CourseID
		totalByCourse[ref.CourseID]++
	}

	completedByCourse := make(map[uuid.UUID]int)
	for _, p := range completed {
		if courseID, ok := courseByLesson[p.LessonID]; ok {
			completedByCourse[courseID]++
		}
	}

	result := make([]*model.CourseProgressSummary, 0, len(courses))
	for _, c := range courses {
		summary := &model.CourseProgressSummary{
			Course:           *c,
			TotalLessons:     totalByCourse[c.CourseID],
			CompletedLessons: completedByCourse[c.CourseID],
		}
		if summary.TotalLessons > 0 {
			summary.ProgressPercentage = float64(summary.CompletedLessons) / float64(summary.TotalLessons) * 100
		}
		if e, ok := enrollmentByCourse[c.CourseID]; ok {
			enrolledAt := e.EnrolledAt
			summary.EnrolledAt = &enrolledAt
		}
		result = append(result, summary)
	}
	return result, nil
}
