package text

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/loictrobas/discogs-tool/model"
)

// BuildReleaseTxt 生成release的文字描述，也是之后发布用的caption底稿。
// 内容格式沿用运营同学习惯的西语模板，不要改字段名。
func BuildReleaseTxt(r *model.Release) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("Release: %s", r.Title))
	if len(r.Artists) > 0 {
		lines = append(lines, fmt.Sprintf("Artista(s): %s", strings.Join(r.Artists, ", ")))
	}
	if r.Year != 0 {
		lines = append(lines, fmt.Sprintf("Año: %d", r.Year))
	}
	if r.Country != "" {
		lines = append(lines, fmt.Sprintf("País: %s", r.Country))
	}

	lines = append(lines, "", "Precios (Discogs Marketplace):")
	if !r.Prices.Empty() {
		cur := r.Prices.Currency
		lines = append(lines, fmt.Sprintf("  Mínimo: %s %s", priceOrDash(r.Prices.Min), cur))
		lines = append(lines, fmt.Sprintf("  Mediana: %s %s", priceOrDash(r.Prices.Median), cur))
		lines = append(lines, fmt.Sprintf("  Máximo: %s %s", priceOrDash(r.Prices.Max), cur))
	} else {
		lines = append(lines, "  No disponible")
	}

	lines = append(lines, "", "Tracklist:")
	for _, t := range r.Tracks {
		pos := ""
		if t.Position != "" {
			pos = t.Position + " - "
		}
		dur := ""
		if t.Duration != "" {
			dur = fmt.Sprintf(" (%s)", t.Duration)
		}
		lines = append(lines, fmt.Sprintf("%s%s%s", pos, t.Title, dur))
	}

	return strings.Join(lines, "\n") + "\n"
}

func priceOrDash(v *float64) string {
	if v == nil {
		return "—"
	}
	s := fmt.Sprintf("%.2f", *v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// WriteReleaseTxt 把release txt写进目录，文件名用净化过的标题
func WriteReleaseTxt(r *model.Release, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}

	title := SanitizeFilename(r.Title)
	if title == "" {
		title = "release"
	}
	txtPath := filepath.Join(outDir, title+".txt")

	if err := os.WriteFile(txtPath, []byte(BuildReleaseTxt(r)), 0644); err != nil {
		return "", fmt.Errorf("写入release txt失败: %w", err)
	}
	return txtPath, nil
}
