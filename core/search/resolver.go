package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/loictrobas/discogs-tool/logger"
	"github.com/loictrobas/discogs-tool/model"
)

// Resolver 用yt-dlp做YouTube搜索，只拿元数据不下载
type Resolver struct {
	ytdlpPath string
	topN      int
}

// NewResolver 创建搜索解析器，topN<=0时取5
func NewResolver(ytdlpPath string, topN int) *Resolver {
	if ytdlpPath == "" {
		ytdlpPath = "yt-dlp"
	}
	if topN <= 0 {
		topN = 5
	}
	return &Resolver{ytdlpPath: ytdlpPath, topN: topN}
}

// Search 执行一次搜索，返回排好序的候选列表。
// yt-dlp执行失败或解析失败返回错误，结果为空不算错误。
func (r *Resolver) Search(ctx context.Context, query string) ([]model.Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("搜索词为空")
	}

	args := []string{
		"-J",
		fmt.Sprintf("ytsearch%d:%s", r.topN, query),
		"--no-warnings",
		"--no-playlist",
		"--skip-download",
	}

	cmd := exec.CommandContext(ctx, r.ytdlpPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("执行yt-dlp搜索", logger.String("query", query))
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("yt-dlp搜索失败: %w\nstderr: %s", err, stderr.String())
	}

	cands, err := ParseSearchJSON(stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("解析yt-dlp输出失败: %w", err)
	}
	return cands, nil
}

// SearchWithFallback 先用主查询，零结果时用fallback查询再试一次
func (r *Resolver) SearchWithFallback(ctx context.Context, primary, fallback string) ([]model.Candidate, error) {
	cands, err := r.Search(ctx, primary)
	if err != nil {
		return nil, err
	}
	if len(cands) > 0 {
		return cands, nil
	}

	logger.Info("主查询无结果，使用fallback查询",
		logger.String("primary", primary),
		logger.String("fallback", fallback))
	return r.Search(ctx, fallback)
}

type ytThumbnail struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
}

type ytEntry struct {
	Title      string        `json:"title"`
	WebpageURL string        `json:"webpage_url"`
	URL        string        `json:"url"`
	Duration   *float64      `json:"duration"`
	Channel    string        `json:"channel"`
	Uploader   string        `json:"uploader"`
	Thumbnails []ytThumbnail `json:"thumbnails"`
}

// ParseSearchJSON 解析yt-dlp -J的搜索输出。
// 字段都按可缺失处理；缩略图取分辨率最高的一张。
func ParseSearchJSON(data []byte) ([]model.Candidate, error) {
	var payload struct {
		Entries []ytEntry `json:"entries"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	var out []model.Candidate
	for _, e := range payload.Entries {
		url := e.WebpageURL
		if url == "" {
			url = e.URL
		}
		if url == "" {
			continue
		}

		title := e.Title
		if title == "" {
			title = "(sin título)"
		}

		channel := e.Channel
		if channel == "" {
			channel = e.Uploader
		}

		c := model.Candidate{
			Title:     title,
			URL:       url,
			Channel:   channel,
			Thumbnail: bestThumbnail(e.Thumbnails),
		}
		if e.Duration != nil {
			sec := int(*e.Duration)
			c.Duration = &sec
		}
		out = append(out, c)
	}
	return out, nil
}

func bestThumbnail(thumbs []ytThumbnail) string {
	if len(thumbs) == 0 {
		return ""
	}
	sorted := append([]ytThumbnail(nil), thumbs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Height > sorted[j].Height
	})
	return sorted[0].URL
}
