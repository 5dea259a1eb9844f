package text

import (
	"os"
	"regexp"
	"strings"
)

// 价格行的宽松匹配，caption默认不带价格信息
var priceLinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*Precios.*$`),
	regexp.MustCompile(`(?i)^\s*Precio.*$`),
	regexp.MustCompile(`(?i)^\s*M[ií]n(:|imo)\s*:?\s*.*$`),
	regexp.MustCompile(`(?i)^\s*Mediana\s*:?\s*.*$`),
	regexp.MustCompile(`(?i)^\s*M[aá]x(:|imo)\s*:?\s*.*$`),
}

// StripPriceLines 把价格行从文本里摘出来，返回(去掉价格的正文, 价格块)
func StripPriceLines(raw string) (string, string) {
	lines := strings.Split(raw, "\n")
	var kept, prices []string
	for _, ln := range lines {
		matched := false
		for _, pat := range priceLinePatterns {
			if pat.MatchString(ln) {
				matched = true
				break
			}
		}
		if matched {
			prices = append(prices, ln)
		} else {
			kept = append(kept, ln)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n")), strings.TrimSpace(strings.Join(prices, "\n"))
}

// BuildCaptionFromTxt 用release txt原文做caption，但默认去掉价格行。
// 不自动加hashtag。读不到文件时返回空串。
func BuildCaptionFromTxt(txtPath string) (caption string, priceBlock string) {
	raw, err := os.ReadFile(txtPath)
	if err != nil {
		return "", ""
	}
	body, prices := StripPriceLines(string(raw))
	return strings.TrimSpace(body), prices
}

// AppendPrice 发布时把运营填的价格追加到caption末尾
func AppendPrice(caption, price string) string {
	price = strings.TrimSpace(price)
	if price == "" {
		return caption
	}
	return caption + "\n\n💲 Precio: " + price
}

// ReleaseHeader release txt头部解析出来的字段，用于sheets登记
type ReleaseHeader struct {
	Title   string
	Artists string
	Country string
	Year    string
}

var (
	reTitle   = regexp.MustCompile(`(?im)^\s*Release\s*:\s*(.+)$`)
	reArtists = regexp.MustCompile(`(?im)^\s*Artista\(s\)\s*:\s*(.+)$`)
	reYear    = regexp.MustCompile(`(?im)^\s*Año\s*:\s*(.+)$`)
	reCountry = regexp.MustCompile(`(?im)^\s*Pa[ií]s\s*:\s*(.+)$`)
)

// ParseReleaseHeader 从release txt里解析标题、艺术家、国家、年份。
// 解析不到的字段保持空串。
func ParseReleaseHeader(txtPath string) ReleaseHeader {
	var h ReleaseHeader
	raw, err := os.ReadFile(txtPath)
	if err != nil {
		return h
	}
	content := string(raw)

	if m := reTitle.FindStringSubmatch(content); m != nil {
		h.Title = strings.TrimSpace(m[1])
	}
	if m := reArtists.FindStringSubmatch(content); m != nil {
		h.Artists = strings.TrimSpace(m[1])
	}
	if m := reYear.FindStringSubmatch(content); m != nil {
		h.Year = strings.TrimSpace(m[1])
	}
	if m := reCountry.FindStringSubmatch(content); m != nil {
		h.Country = strings.TrimSpace(m[1])
	}
	return h
}
