package video

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/loictrobas/discogs-tool/core/audio"
	"github.com/loictrobas/discogs-tool/logger"
)

const (
	// durationEpsilonSec 留一点余量，避免读到音频流末尾之外
	durationEpsilonSec = 0.10
	// fallbackDurationSec 音频时长探测不出来时的保底时长
	fallbackDurationSec = 5.0
)

// Composer 静态封面 + 音频片段 → mp4
type Composer struct {
	ffmpegPath string
}

// NewComposer 创建视频合成器
func NewComposer(ffmpegPath string) *Composer {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Composer{ffmpegPath: ffmpegPath}
}

// SafeDuration 计算输出视频时长：min(请求时长, 音频时长-0.10s)。
// 算出来<=0时：音频时长已知用音频全长，未知用5秒保底。
func SafeDuration(requestedSec, audioSec float64) float64 {
	safeAudio := audioSec - durationEpsilonSec
	if safeAudio < 0 {
		safeAudio = 0
	}

	if safeAudio > 0 {
		if requestedSec < safeAudio {
			return requestedSec
		}
		return safeAudio
	}

	// epsilon扣完没剩：音频本身有长度就全用，否则保底
	if audioSec > 0 {
		return audioSec
	}
	return fallbackDurationSec
}

// Compose 把封面图和音频片段合成一个方形mp4。
// 封面先在进程内规整成1080x1080（fit+pad），临时文件在所有路径上都会清掉。
func (c *Composer) Compose(ctx context.Context, coverPath, clipPath, outPath string, durationSec int) error {
	coverData, err := os.ReadFile(coverPath)
	if err != nil {
		return fmt.Errorf("读取封面失败: %w", err)
	}

	square, err := SquareCover(coverData)
	if err != nil {
		return err
	}

	// 规整后的封面落成临时文件给ffmpeg
	tmpCover := filepath.Join(os.TempDir(), fmt.Sprintf("cover-%s.jpg", uuid.NewString()))
	if err := os.WriteFile(tmpCover, square, 0644); err != nil {
		return fmt.Errorf("写入临时封面失败: %w", err)
	}
	defer os.Remove(tmpCover)

	audioDur, err := audio.ProbeDuration(c.ffmpegPath, clipPath)
	if err != nil {
		logger.Warn("无法探测片段时长", logger.String("clip", clipPath), logger.ErrorField(err))
		audioDur = 0
	}
	effective := SafeDuration(float64(durationSec), audioDur)

	args := []string{
		"-y",
		"-loop", "1",
		"-i", tmpCover,
		"-i", clipPath,
		"-c:v", "libx264",
		"-preset", "medium",
		"-r", "24",
		"-t", strconv.FormatFloat(effective, 'f', 3, 64),
		"-pix_fmt", "yuv420p", // IG要求的像素格式
		"-c:a", "aac",
		"-shortest",
		outPath,
	}

	cmd := exec.CommandContext(ctx, c.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logger.Debug("执行ffmpeg合成",
		logger.String("out", outPath),
		logger.Float64("duration", effective))

	if err := cmd.Run(); err != nil {
		os.Remove(outPath)
		return fmt.Errorf("ffmpeg合成失败: %w\nFFmpeg Error: %s", err, stderr.String())
	}

	info, err := os.Stat(outPath)
	if err != nil || info.Size() == 0 {
		os.Remove(outPath)
		return fmt.Errorf("合成产物为空: %s", outPath)
	}

	logger.Info("视频合成完成", logger.String("video", filepath.Base(outPath)))
	return nil
}
