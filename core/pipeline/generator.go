package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/loictrobas/discogs-tool/cache"
	"github.com/loictrobas/discogs-tool/config"
	"github.com/loictrobas/discogs-tool/core/audio"
	"github.com/loictrobas/discogs-tool/core/discogs"
	"github.com/loictrobas/discogs-tool/core/search"
	"github.com/loictrobas/discogs-tool/core/text"
	"github.com/loictrobas/discogs-tool/core/utils"
	"github.com/loictrobas/discogs-tool/core/video"
	"github.com/loictrobas/discogs-tool/logger"
	"github.com/loictrobas/discogs-tool/model"
)

// Generator release到视频的生成流水线
type Generator struct {
	cfg       *config.Config
	discogs   *discogs.Client
	resolver  *search.Resolver
	extractor *audio.Extractor
	composer  *video.Composer
	UseCache  bool
}

// NewGenerator 创建生成流水线
func NewGenerator(cfg *config.Config) *Generator {
	return &Generator{
		cfg:       cfg,
		discogs:   discogs.NewClient(cfg.DiscogsBaseURL, cfg.DiscogsToken, cfg.DiscogsUserAgent, cfg.DiscogsCurrency),
		resolver:  search.NewResolver(cfg.YtdlpPath, 5),
		extractor: audio.NewExtractor(cfg.YtdlpPath, cfg.FFmpegPath),
		composer:  video.NewComposer(cfg.FFmpegPath),
		UseCache:  true,
	}
}

// LoadRelease 加载release并准备好输出目录：txt、封面。
// 封面下载不下来不在这里报错，生成阶段才是硬前置条件。
func (g *Generator) LoadRelease(ctx context.Context, rawURL string) (*Session, error) {
	var rel *model.Release
	if g.UseCache {
		rel = cache.GetRelease(ctx, rawURL)
	}
	if rel == nil {
		var err error
		rel, err = g.discogs.FetchRelease(rawURL)
		if err != nil {
			return nil, err
		}
		cache.SetRelease(ctx, rawURL, rel)
	} else {
		logger.Info("release命中缓存", logger.String("title", rel.Title))
	}

	sess := NewSession(rel)
	sess.Folder = filepath.Join(g.cfg.OutputDir, text.SanitizeFilename(rel.Title))
	if err := os.MkdirAll(sess.Folder, 0755); err != nil {
		return nil, fmt.Errorf("创建release目录失败: %w", err)
	}

	txtPath, err := text.WriteReleaseTxt(rel, sess.Folder)
	if err != nil {
		return nil, err
	}
	sess.TxtPath = txtPath

	coverPath := filepath.Join(sess.Folder, "cover.jpg")
	if _, err := os.Stat(coverPath); err == nil {
		sess.CoverAt = coverPath
	} else if len(rel.Images) > 0 {
		img := rel.Images[0]
		if err := utils.DownloadCover(img.URI, img.URI150, coverPath, g.cfg.DiscogsUserAgent); err != nil {
			logger.Warn("封面下载失败", logger.ErrorField(err))
		} else {
			sess.CoverAt = coverPath
		}
	} else {
		logger.Warn("release没有封面图", logger.String("title", rel.Title))
	}

	return sess, nil
}

// ResolveTrack 给一条曲目跑搜索（带fallback），结果写进会话
func (g *Generator) ResolveTrack(ctx context.Context, sess *Session, idx int) ([]model.Candidate, error) {
	if sess.HasResults(idx) {
		return sess.Results(idx), nil
	}

	t := sess.Release.Tracks[idx]
	primary := search.BuildQuery(sess.Release, t)
	fallback := search.BuildFallbackQuery(sess.Release, t)

	if g.UseCache {
		if cands := cache.GetSearch(ctx, primary); cands != nil {
			sess.SetResults(idx, cands)
			return cands, nil
		}
	}

	cands, err := g.resolver.SearchWithFallback(ctx, primary, fallback)
	if err != nil {
		return nil, err
	}

	sess.SetResults(idx, cands)
	cache.SetSearch(ctx, primary, cands)
	return cands, nil
}

// Generate 按会话里的选择生成所有曲目的视频，返回逐条日志。
// 单曲失败只记日志不中断；没有封面直接报错，什么也不生成。
func (g *Generator) Generate(ctx context.Context, sess *Session) ([]string, error) {
	if sess.CoverAt == "" {
		return nil, fmt.Errorf("没有可用的封面图，无法生成视频")
	}

	rel := sess.Release
	priceStr := rel.PriceString()
	total := len(rel.Tracks)
	var logs []string

	for idx, t := range rel.Tracks {
		done := idx + 1
		if t.Title == "" {
			logger.Info("进度", logger.Int("done", done), logger.Int("total", total))
			continue
		}

		sel, ok := sess.Selection(idx)
		if !ok {
			// 没有显式选择时用第一个搜索候选
			cands, err := g.ResolveTrack(ctx, sess, idx)
			if err != nil || len(cands) == 0 {
				logs = append(logs, fmt.Sprintf("SKIP (sin selección): %s", t.Title))
				logger.Info("进度", logger.Int("done", done), logger.Int("total", total))
				continue
			}
			sel = model.AutoSelection(cands[0])
			sess.Select(idx, sel)
		}

		if err := g.generateTrack(ctx, sess, idx, t, sel, priceStr); err != nil {
			logs = append(logs, fmt.Sprintf("ERROR %s: %v", t.Title, err))
		} else {
			logs = append(logs, fmt.Sprintf("OK: %s", artifactName(t, priceStr)))
		}
		logger.Info("进度", logger.Int("done", done), logger.Int("total", total))
	}

	return logs, nil
}

// generateTrack 单曲流程：取音源→截片段→打标签→合成视频。
// 无论合成成败，临时音频片段一定清掉。
func (g *Generator) generateTrack(ctx context.Context, sess *Session, idx int, t model.Track, sel model.Selection, priceStr string) error {
	baseName := trackBaseName(t)
	dstNoExt := filepath.Join(sess.Folder, baseName)

	clipPath, err := g.extractor.ExtractClip(ctx, sel, dstNoExt, g.cfg.ClipStartSec, g.cfg.ClipDurationSec)
	if err != nil {
		return fmt.Errorf("音频提取失败: %w", err)
	}
	// 片段只为合成而存在，成功失败都不留
	defer os.Remove(clipPath)

	if err := audio.TagClip(clipPath, t.Title, t.DisplayArtists(sess.Release.Artists), sess.Release.Title); err != nil {
		logger.Warn("片段打标签失败", logger.ErrorField(err))
	}

	outPath := filepath.Join(sess.Folder, artifactName(t, priceStr))
	if err := g.composer.Compose(ctx, sess.CoverAt, clipPath, outPath, g.cfg.ClipDurationSec); err != nil {
		return fmt.Errorf("视频合成失败: %w", err)
	}
	return nil
}

// trackBaseName 曲目文件基名：<位置> <标题>，净化过
func trackBaseName(t model.Track) string {
	name := t.Title
	if t.Position != "" {
		name = t.Position + " " + t.Title
	}
	return text.SanitizeFilename(strings.TrimSpace(name))
}

// artifactName 成品视频文件名：<位置> <标题> - <价格 货币>.mp4
func artifactName(t model.Track, priceStr string) string {
	return text.SanitizeFilename(fmt.Sprintf("%s - %s", trackBaseName(t), priceStr)) + ".mp4"
}
