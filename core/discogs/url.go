package discogs

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// RefKind Discogs URL指向的对象类型
type RefKind string

const (
	KindRelease RefKind = "release"
	KindMaster  RefKind = "master"
)

var idPrefix = regexp.MustCompile(`^(\d+)`)

// ParseReleaseURL 从Discogs网页URL解析出release/master的id。
// 支持两种形状：/release/<id>-slug 和 /master/<id>-slug，
// 路径前面可能带两位的语言前缀（/fr/、/es/等）。
func ParseReleaseURL(raw string) (RefKind, int64, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", 0, fmt.Errorf("无法解析URL: %w", err)
	}

	var parts []string
	for _, p := range strings.Split(parsed.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}

	// 丢弃语言前缀
	if len(parts) >= 2 && len(parts[0]) == 2 {
		parts = parts[1:]
	}

	if len(parts) >= 2 && (parts[0] == "release" || parts[0] == "master") {
		if m := idPrefix.FindString(parts[1]); m != "" {
			id, err := strconv.ParseInt(m, 10, 64)
			if err == nil {
				return RefKind(parts[0]), id, nil
			}
		}
	}

	return "", 0, fmt.Errorf("无法识别的Discogs URL，需要指向 /release/... 或 /master/...")
}
