package service

import (
	"strings"
	"unicode"
)

// Slugify 将标题转换为 URL 友好的 slug：小写、ASCII 字母数字，其余折叠为连字符。
func Slugify(title string) string {
	var b strings.Builder
	lastDash := true

	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}
