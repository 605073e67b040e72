// internal/model/navigation.go
package model

// CourseNavigation は「今のレッスン」と「次のレッスン」の解決結果。
// 公開レッスンが1件もないコースでは Current / Next とも nil になり、
// 呼び出し側は「コンテンツなし」として描画する (エラーではない)。
type CourseNavigation struct {
	Current *Lesson `json:"current_lesson"`
	Next    *Lesson `json:"next_lesson,omitempty"`
}

// CoursePageResponse は学習画面1ページ分の読み取りモデル
type CoursePageResponse struct {
	Course     *CourseWithContent        `json:"course"`
	Navigation CourseNavigation          `json:"navigation"`
	Progress   []*LessonProgressResponse `json:"progress"`
}
