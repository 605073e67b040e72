package service

import (
	"testing"

	"go_5_training_keep/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildModules(lessonsPerModule ...int) ([]*model.ModuleWithLessons, []*model.Lesson) {
	var modules []*model.ModuleWithLessons
	var all []*model.Lesson
	for i, n := range lessonsPerModule {
		m := &model.ModuleWithLessons{
			CourseModule: model.CourseModule{
				ModuleID:   uuid.New(),
				OrderIndex: i + 1,
			},
		}
		for j := 0; j < n; j++ {
			l := &model.Lesson{
				LessonID:   uuid.New(),
				ModuleID:   m.ModuleID,
				Type:       model.LessonTypeText,
				OrderIndex: j + 1,
			}
			m.Lessons = append(m.Lessons, l)
			all = append(all, l)
		}
		modules = append(modules, m)
	}
	return modules, all
}

func TestFlattenLessons(t *testing.T) {
	t.Run("正常系: モジュール順・レッスン順を保って一列になる", func(t *testing.T) {
		modules, all := buildModules(2, 1, 3)

		flat := FlattenLessons(modules)

		require.Len(t, flat, 6)
		for i, l := range flat {
			assert.Equal(t, all[i].LessonID, l.LessonID, "index %d", i)
		}
	})

	t.Run("正常系: 空モジュールを挟んでも欠落しない", func(t *testing.T) {
		modules, all := buildModules(1, 0, 2)

		flat := FlattenLessons(modules)

		require.Len(t, flat, 3)
		assert.Equal(t, all[0].LessonID, flat[0].LessonID)
		assert.Equal(t, all[2].LessonID, flat[2].LessonID)
	})

	t.Run("正常系: モジュールなしなら空", func(t *testing.T) {
		assert.Empty(t, FlattenLessons(nil))
	})
}

func TestResolveNavigation(t *testing.T) {
	modules, all := buildModules(2, 1) // [A, B] + [C]
	flat := FlattenLessons(modules)
	lessonA, lessonB, lessonC := all[0], all[1], all[2]

	tests := []struct {
		name            string
		currentLessonID *uuid.UUID
		wantCurrent     *model.Lesson
		wantNext        *model.Lesson
	}{
		{
			name:            "正常系: 指定なしなら先頭が現在、2番目が次",
			currentLessonID: nil,
			wantCurrent:     lessonA,
			wantNext:        lessonB,
		},
		{
			name:            "正常系: モジュール境界をまたいで次を解決する",
			currentLessonID: &lessonB.LessonID,
			wantCurrent:     lessonB,
			wantNext:        lessonC,
		},
		{
			name:            "正常系: 最終レッスンでは次がnil",
			currentLessonID: &lessonC.LessonID,
			wantCurrent:     lessonC,
			wantNext:        nil,
		},
		{
			name: "正常系: 存在しないIDは先頭にフォールバック",
			currentLessonID: func() *uuid.UUID {
				id := uuid.New()
				return &id
			}(),
			wantCurrent: lessonA,
			wantNext:    lessonB,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav := ResolveNavigation(flat, tt.currentLessonID)

			require.NotNil(t, nav.Current)
			assert.Equal(t, tt.wantCurrent.LessonID, nav.Current.LessonID)
			if tt.wantNext == nil {
				assert.Nil(t, nav.Next)
			} else {
				require.NotNil(t, nav.Next)
				assert.Equal(t, tt.wantNext.LessonID, nav.Next.LessonID)
			}
		})
	}

	t.Run("正常系: レッスンが1件もなければ両方nil", func(t *testing.T) {
		nav := ResolveNavigation(nil, nil)
		assert.Nil(t, nav.Current)
		assert.Nil(t, nav.Next)
	})
}
