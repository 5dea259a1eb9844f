package video

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

func TestFitRect(t *testing.T) {
	tests := []struct {
		name       string
		srcW, srcH int
		want       image.Rectangle
	}{
		{"square fills canvas", 500, 500, image.Rect(0, 0, 1080, 1080)},
		{"wide pads vertically", 2160, 1080, image.Rect(0, 270, 1080, 810)},
		{"tall pads horizontally", 540, 1080, image.Rect(270, 0, 810, 1080)},
		{"degenerate falls back to full canvas", 0, 100, image.Rect(0, 0, 1080, 1080)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FitRect(tc.srcW, tc.srcH, CanvasSize)
			if got != tc.want {
				t.Errorf("FitRect(%d, %d) = %v, want %v", tc.srcW, tc.srcH, got, tc.want)
			}
		})
	}
}

func TestFitRectNeverOverflows(t *testing.T) {
	cases := [][2]int{{1, 3000}, {3000, 1}, {1079, 1081}, {4000, 3000}}
	canvas := image.Rect(0, 0, CanvasSize, CanvasSize)
	for _, c := range cases {
		r := FitRect(c[0], c[1], CanvasSize)
		if !r.In(canvas) {
			t.Errorf("FitRect(%d, %d) = %v escapes the canvas", c[0], c[1], r)
		}
	}
}

func TestSquareCover(t *testing.T) {
	// 宽图，缩放后上下应有黑边
	src := image.NewRGBA(image.Rect(0, 0, 400, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 400; x++ {
			src.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, nil); err != nil {
		t.Fatal(err)
	}

	out, err := SquareCover(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}

	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != CanvasSize || img.Bounds().Dy() != CanvasSize {
		t.Fatalf("output is %v, want %dx%d", img.Bounds(), CanvasSize, CanvasSize)
	}

	// 顶部是黑边，中线是图片内容
	r, g, b, _ := img.At(CanvasSize/2, 10).RGBA()
	if r>>8 > 40 || g>>8 > 40 || b>>8 > 40 {
		t.Errorf("top padding not black: %d %d %d", r>>8, g>>8, b>>8)
	}
	r, _, _, _ = img.At(CanvasSize/2, CanvasSize/2).RGBA()
	if r>>8 < 200 {
		t.Errorf("center should be red content, got r=%d", r>>8)
	}
}

func TestSquareCoverBadData(t *testing.T) {
	if _, err := SquareCover([]byte("not an image")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSafeDuration(t *testing.T) {
	tests := []struct {
		name      string
		requested float64
		audio     float64
		want      float64
	}{
		{"requested shorter than audio", 30, 45, 30},
		{"audio caps the duration", 30, 12, 11.9},
		{"tiny audio uses its full length", 30, 0.05, 0.05},
		{"unknown audio uses floor", 30, 0, 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SafeDuration(tc.requested, tc.audio)
			if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("SafeDuration(%v, %v) = %v, want %v", tc.requested, tc.audio, got, tc.want)
			}
		})
	}
}
