package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "正常系: 小文字化とハイフン区切り", in: "Web Development", want: "web-development"},
		{name: "正常系: アクセント記号は基底文字に変換", in: "Técnico Avanzado!", want: "tecnico-avanzado"},
		{name: "正常系: 記号の連続は1つのハイフンにまとめる", in: "Go & SQL --- 入門", want: "go-sql"},
		{name: "正常系: 先頭末尾のハイフンは落とす", in: "  (New) Onboarding  ", want: "new-onboarding"},
		{name: "正常系: 数字は保持", in: "Security 101", want: "security-101"},
		{name: "異常系: 変換可能な文字がなければ空文字", in: "研修", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSlug(tt.in))
		})
	}
}
