package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/loictrobas/discogs-tool/logger"
	"github.com/loictrobas/discogs-tool/model"
)

// ShortTrackThresholdSec 低于这个总长的算短曲目，起点改成居中
const ShortTrackThresholdSec = 150.0

// Extractor 负责拿到音源并截出固定长度的片段
type Extractor struct {
	ytdlpPath  string
	ffmpegPath string
}

// NewExtractor 创建音频提取器
func NewExtractor(ytdlpPath, ffmpegPath string) *Extractor {
	if ytdlpPath == "" {
		ytdlpPath = "yt-dlp"
	}
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Extractor{ytdlpPath: ytdlpPath, ffmpegPath: ffmpegPath}
}

// EffectiveStart 计算实际截取起点（秒）。
// 短曲目(<150s)起点重定位到 (total-duration)/2，最小为0，
// 避免截到结尾；总长不够配置的起点时从0开始截。
// 总长未知(<=0)时只能按配置起点来。
func EffectiveStart(totalSec, startSec, durationSec float64) float64 {
	if totalSec <= 0 {
		return startSec
	}
	if totalSec < ShortTrackThresholdSec {
		start := (totalSec - durationSec) / 2
		if start < 0 {
			start = 0
		}
		return start
	}
	if totalSec <= startSec {
		return 0
	}
	return startSec
}

// ExtractClip 按选择的音源产出一段mp3片段，返回片段路径。
// dstNoExt是不带扩展名的目标路径；失败时不留输出文件。
// 调用方要把缺失的输出当成单曲跳过，不要让整批中断。
func (e *Extractor) ExtractClip(ctx context.Context, sel model.Selection, dstNoExt string, startSec, durationSec int) (string, error) {
	var srcPath string
	var err error

	switch sel.Kind {
	case model.SelectionLocal:
		srcPath, err = e.copyLocal(sel.LocalPath, dstNoExt)
	default:
		url := sel.SourceURL()
		if url == "" {
			return "", fmt.Errorf("选择里没有可用的音源")
		}
		srcPath, err = e.download(ctx, url, dstNoExt)
	}
	if err != nil {
		return "", err
	}

	clipPath, err := e.trim(ctx, srcPath, float64(startSec), float64(durationSec))
	if err != nil {
		// 截取失败时把下载产物也清掉
		os.Remove(srcPath)
		return "", err
	}
	return clipPath, nil
}

// download 用yt-dlp下载音频并转成mp3
func (e *Extractor) download(ctx context.Context, url, dstNoExt string) (string, error) {
	outTemplate := dstNoExt + ".%(ext)s"
	args := []string{
		url,
		"-x", "--audio-format", "mp3",
		"-o", outTemplate,
		"--no-playlist",
		"--no-warnings",
		"--quiet",
	}

	cmd := exec.CommandContext(ctx, e.ytdlpPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logger.Debug("执行yt-dlp下载", logger.String("url", url))
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("yt-dlp下载失败: %w\nstderr: %s", err, stderr.String())
	}

	mp3Path := dstNoExt + ".mp3"
	if _, err := os.Stat(mp3Path); err == nil {
		return mp3Path, nil
	}

	// 偶尔音频格式转换没生效，找同名的其他扩展名
	return findDownloaded(dstNoExt)
}

// findDownloaded 在目录里按文件名前缀找下载产物。
// 曲目标题可能带 [ ] 这类glob元字符，不能用filepath.Glob匹配。
func findDownloaded(dstNoExt string) (string, error) {
	dir := filepath.Dir(dstNoExt)
	prefix := filepath.Base(dstNoExt) + "."

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("读取输出目录失败: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		switch filepath.Ext(name) {
		case ".txt", ".mp4":
			continue
		}
		return filepath.Join(dir, name), nil
	}
	return "", fmt.Errorf("yt-dlp没有产出音频文件: %s", dstNoExt)
}

// copyLocal 把本地音源拷进release目录，保持和下载路径一致的处理流程
func (e *Extractor) copyLocal(srcPath, dstNoExt string) (string, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("打开本地音频失败: %w", err)
	}
	defer src.Close()

	ext := filepath.Ext(srcPath)
	if ext == "" {
		ext = ".mp3"
	}
	dstPath := dstNoExt + ext

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("创建目标文件失败: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return "", fmt.Errorf("拷贝本地音频失败: %w", err)
	}
	return dstPath, nil
}

// trim 按有效起点截取durationSec长度，输出mp3，删掉原始音源。
// 产出零长度文件按失败处理。
func (e *Extractor) trim(ctx context.Context, srcPath string, startSec, durationSec float64) (string, error) {
	total, err := ProbeDuration(e.ffmpegPath, srcPath)
	if err != nil {
		logger.Warn("无法探测音频时长，按配置起点截取", logger.String("src", srcPath), logger.ErrorField(err))
		total = 0
	}

	start := EffectiveStart(total, startSec, durationSec)
	if start != startSec {
		logger.Info("起点已调整",
			logger.Float64("total", total),
			logger.Float64("configured", startSec),
			logger.Float64("effective", start))
	}

	clipPath := trimOutputPath(srcPath)
	args := []string{
		"-y",
		"-ss", strconv.FormatFloat(start, 'f', 3, 64),
		"-i", srcPath,
		"-t", strconv.FormatFloat(durationSec, 'f', 3, 64),
		"-vn",
		"-c:a", "libmp3lame",
		"-q:a", "2",
		clipPath,
	}

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(clipPath)
		return "", fmt.Errorf("ffmpeg截取失败: %w\nFFmpeg Error: %s", err, stderr.String())
	}

	info, err := os.Stat(clipPath)
	if err != nil || info.Size() == 0 {
		os.Remove(clipPath)
		return "", fmt.Errorf("截取产物为空: %s", clipPath)
	}

	// 原始完整音源用不到了
	if srcPath != clipPath {
		os.Remove(srcPath)
	}
	return clipPath, nil
}

// trimOutputPath 片段输出路径，固定mp3后缀
func trimOutputPath(srcPath string) string {
	ext := filepath.Ext(srcPath)
	return srcPath[:len(srcPath)-len(ext)] + ".clip.mp3"
}
