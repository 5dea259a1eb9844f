package model

import (
	"fmt"
	"strings"
)

// Track 表示release中的一条曲目
type Track struct {
	Position string   `json:"position"`
	Title    string   `json:"title"`
	Duration string   `json:"duration,omitempty"` // 形如 "4:32"，可能缺失
	Artists  []string `json:"artists,omitempty"`  // 曲目级艺术家，缺省时用release的
}

// DisplayArtists 返回用于展示和搜索的曲目艺术家。
// 曲目自己没有艺术家时回退到release的第一个艺术家。
func (t Track) DisplayArtists(releaseArtists []string) string {
	if len(t.Artists) > 0 {
		return strings.Join(t.Artists, ", ")
	}
	if len(releaseArtists) > 0 {
		return releaseArtists[0]
	}
	return ""
}

// ReleaseImage 封面图，uri150是低分辨率备选
type ReleaseImage struct {
	URI    string `json:"uri"`
	URI150 string `json:"uri150,omitempty"`
}

// PriceStats Discogs marketplace价格统计
type PriceStats struct {
	Min      *float64 `json:"min,omitempty"`
	Median   *float64 `json:"median,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Currency string   `json:"currency,omitempty"`
}

// Empty 三个价格都缺失时返回true
func (p PriceStats) Empty() bool {
	return p.Min == nil && p.Median == nil && p.Max == nil
}

// Release Discogs release的结构化元数据，抓取后不再修改
type Release struct {
	ID      int64          `json:"id"`
	Title   string         `json:"title"`
	Artists []string       `json:"artists"`
	Year    int            `json:"year,omitempty"`
	Country string         `json:"country,omitempty"`
	Labels  []string       `json:"labels,omitempty"`
	Tracks  []Track        `json:"tracks"`
	Images  []ReleaseImage `json:"images,omitempty"`
	Prices  PriceStats     `json:"prices"`
}

// PriceString 返回视频文件名里用的价格串。
// 用中位数价格，缺失时为 "NA"。
func (r Release) PriceString() string {
	if r.Prices.Median == nil {
		return "NA"
	}
	price := formatPrice(*r.Prices.Median)
	if r.Prices.Currency != "" {
		return price + " " + r.Prices.Currency
	}
	return price
}

// formatPrice 保留两位小数，去掉多余的尾零
func formatPrice(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
