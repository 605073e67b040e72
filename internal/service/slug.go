package service

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)
	slugEdgeHyphens  = regexp.MustCompile(`^-+|-+$`)
)

// GenerateSlug はカテゴリ名からURLセーフなスラッグを生成します。
// アクセント記号付き文字は基底文字に変換してから処理します
// (例: "Técnico Avanzado!" -> "tecnico-avanzado")。
func GenerateSlug(name string) string {
	// NFD分解で結合文字(アクセント記号)を分離して除去する
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	normalized, _, err := transform.String(t, name)
	if err != nil {
		normalized = name
	}

	slug := strings.ToLower(normalized)
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	slug = slugEdgeHyphens.ReplaceAllString(slug, "")
	return slug
}
