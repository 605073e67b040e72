package service

import (
	"go_5_training_keep/internal/model"

	"github.com/google/uuid"
)

// FlattenLessons はモジュール順(order_index昇順)にレッスンを一列に並べます。
// モジュール境界をまたぐ「次のレッスン」解決はこのフラットな列に対して行います。
func FlattenLessons(modules []*model.ModuleWithLessons) []*model.Lesson {
	var flat []*model.Lesson
	for _, m := range modules {
		flat = append(flat, m.Lessons...)
	}
	return flat
}

// ResolveNavigation は現在レッスンと次レッスンを決定します。
//   - currentLessonID が nil または列に存在しない場合は先頭レッスンを現在とする
//   - 次レッスンは列上の直後の1件 (最終レッスンなら nil)
//   - レッスンが1件もなければ両方 nil
func ResolveNavigation(flat []*model.Lesson, currentLessonID *uuid.UUID) model.CourseNavigation {
	nav := model.CourseNavigation{}
	if len(flat) == 0 {
		return nav
	}

	currentIdx := 0
	if currentLessonID != nil {
		for i, lesson := range flat {
			if lesson.LessonID == *currentLessonID {
				currentIdx = i
				break
			}
		}
	}

	nav.Current = flat[currentIdx]
	if currentIdx+1 < len(flat) {
		nav.Next = flat[currentIdx+1]
	}
	return nav
}
