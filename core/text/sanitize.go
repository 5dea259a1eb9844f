package text

import "strings"

// SanitizeFilename 把Windows/Unix都不允许的字符替换成下划线
func SanitizeFilename(name string) string {
	const bad = `<>:"/\|?*`
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if strings.ContainsRune(bad, r) {
			b.WriteRune('_')
		} else {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
