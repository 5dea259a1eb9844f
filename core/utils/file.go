package utils

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/loictrobas/discogs-tool/logger"
)

var imageClient = &http.Client{Timeout: 30 * time.Second}

// DownloadCover 下载Discogs封面图。
// 图片CDN会校验Referer；全尺寸失败时退到uri150缩略图。
func DownloadCover(uri, uri150, outPath, userAgent string) error {
	headers := map[string]string{
		"User-Agent": userAgent,
		"Referer":    "https://www.discogs.com/",
		"Accept":     "image/*,*/*;q=0.8",
	}

	if err := downloadWithHeaders(uri, outPath, headers); err != nil {
		logger.Warn("全尺寸封面下载失败", logger.ErrorField(err))
		if uri150 == "" {
			return err
		}
		if err2 := downloadWithHeaders(uri150, outPath, headers); err2 != nil {
			return fmt.Errorf("缩略图也下载失败: %w", err2)
		}
	}
	return nil
}

func downloadWithHeaders(url, filepath string, headers map[string]string) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := imageClient.Do(req)
	if err != nil {
		return fmt.Errorf("下载文件失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("下载文件失败，状态码: %d", resp.StatusCode)
	}

	out, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("创建文件失败: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(filepath)
		return fmt.Errorf("保存文件失败: %w", err)
	}
	return nil
}
