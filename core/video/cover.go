package video

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png" // PNG解码注册

	"golang.org/x/image/draw"
)

// CanvasSize 输出画布固定1080x1080，IG方图
const CanvasSize = 1080

// FitRect 计算图片等比缩放后在方形画布上的位置。
// 窄图按高缩放、左右留边；宽图按宽缩放、上下留边；结果永远正方形。
func FitRect(srcW, srcH, canvas int) image.Rectangle {
	if srcW <= 0 || srcH <= 0 {
		return image.Rect(0, 0, canvas, canvas)
	}

	var w, h int
	if srcW >= srcH {
		// 宽图：按宽缩放
		w = canvas
		h = srcH * canvas / srcW
	} else {
		// 窄图：按高缩放
		h = canvas
		w = srcW * canvas / srcH
	}

	x0 := (canvas - w) / 2
	y0 := (canvas - h) / 2
	return image.Rect(x0, y0, x0+w, y0+h)
}

// SquareCover 把封面规整成canvas x canvas的方图，黑底居中，JPEG输出。
// 不拉伸，fit+pad。
func SquareCover(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("解码封面失败: %w", err)
	}

	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, CanvasSize, CanvasSize))

	// 黑色背景
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	target := FitRect(bounds.Dx(), bounds.Dy(), CanvasSize)
	draw.CatmullRom.Scale(dst, target, img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("编码封面失败: %w", err)
	}
	return buf.Bytes(), nil
}
