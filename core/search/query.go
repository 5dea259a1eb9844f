package search

import (
	"strings"

	"github.com/loictrobas/discogs-tool/model"
)

// BuildQuery 主查询：厂牌 + 曲目艺术家 + 曲目标题。
// 空的部分直接丢掉，不留多余分隔符。
func BuildQuery(r *model.Release, t model.Track) string {
	label := ""
	if len(r.Labels) > 0 {
		label = r.Labels[0]
	}

	artist := ""
	if len(t.Artists) > 0 {
		artist = strings.Join(t.Artists, ", ")
	} else if len(r.Artists) > 0 {
		artist = r.Artists[0]
	}

	return joinNonEmpty(label, artist, t.Title)
}

// BuildFallbackQuery 主查询无结果时的简化查询：release标题 + 曲目标题
func BuildFallbackQuery(r *model.Release, t model.Track) string {
	return joinNonEmpty(r.Title, t.Title)
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
