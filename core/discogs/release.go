package discogs

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/loictrobas/discogs-tool/logger"
	"github.com/loictrobas/discogs-tool/model"
)

// tracklist里混进来的面标题，没时长又命中这些就跳过
var headingTitles = map[string]bool{
	"that side":  true,
	"this side":  true,
	"logo side":  true,
	"info side":  true,
	"other side": true,
	"both sides": true,
	"this-side":  true,
	"that-side":  true,
	"side a":     true,
	"side b":     true,
}

type apiArtist struct {
	Name string `json:"name"`
}

type apiLabel struct {
	Name string `json:"name"`
}

type apiTrack struct {
	Position string      `json:"position"`
	Title    string      `json:"title"`
	Duration string      `json:"duration"`
	Type     string      `json:"type_"`
	Artists  []apiArtist `json:"artists"`
}

type apiImage struct {
	URI    string `json:"uri"`
	URI150 string `json:"uri150"`
}

type apiRelease struct {
	ID        int64       `json:"id"`
	Title     string      `json:"title"`
	Artists   []apiArtist `json:"artists"`
	Year      int         `json:"year"`
	Country   string      `json:"country"`
	Labels    []apiLabel  `json:"labels"`
	Tracklist []apiTrack  `json:"tracklist"`
	Images    []apiImage  `json:"images"`
}

// FetchRelease 把Discogs URL解析成结构化release元数据。
// master URL先解析main_release再抓release本体；价格统计单独补齐。
func (c *Client) FetchRelease(rawURL string) (*model.Release, error) {
	kind, id, err := ParseReleaseURL(rawURL)
	if err != nil {
		return nil, err
	}

	releaseID := id
	if kind == KindMaster {
		releaseID, err = c.resolveMainRelease(id)
		if err != nil {
			return nil, err
		}
	}

	logger.Info("开始获取release元数据",
		logger.String("kind", string(kind)),
		logger.Int64("releaseId", releaseID))

	var ar apiRelease
	if err := c.getJSON(fmt.Sprintf("%s/releases/%d?curr_abbr=%s", c.BaseURL, releaseID, c.Currency), &ar); err != nil {
		return nil, fmt.Errorf("获取release失败: %w", err)
	}

	rel := &model.Release{
		ID:      ar.ID,
		Title:   strings.TrimSpace(ar.Title),
		Year:    ar.Year,
		Country: ar.Country,
	}

	for _, a := range ar.Artists {
		if a.Name != "" {
			rel.Artists = append(rel.Artists, a.Name)
		}
	}
	for _, l := range ar.Labels {
		if l.Name != "" {
			rel.Labels = append(rel.Labels, l.Name)
		}
	}
	for _, img := range ar.Images {
		if img.URI != "" {
			rel.Images = append(rel.Images, model.ReleaseImage{URI: img.URI, URI150: img.URI150})
		}
	}

	for _, t := range ar.Tracklist {
		// Discogs标成非track的条目直接跳过
		if t.Type != "" && strings.ToLower(t.Type) != "track" {
			continue
		}
		title := strings.TrimSpace(t.Title)
		// 兜底：典型的面标题且没有时长
		if t.Duration == "" && headingTitles[normTitle(title)] {
			continue
		}

		track := model.Track{
			Position: strings.TrimSpace(t.Position),
			Title:    title,
			Duration: strings.TrimSpace(t.Duration),
		}
		for _, ta := range t.Artists {
			if ta.Name != "" {
				track.Artists = append(track.Artists, ta.Name)
			}
		}
		rel.Tracks = append(rel.Tracks, track)
	}

	rel.Prices = c.FetchPriceStats(releaseID)

	logger.Info("release元数据获取完成",
		logger.String("title", rel.Title),
		logger.Int("tracks", len(rel.Tracks)))
	return rel, nil
}

// resolveMainRelease master要先取main_release的id
func (c *Client) resolveMainRelease(masterID int64) (int64, error) {
	var master struct {
		MainRelease int64 `json:"main_release"`
	}
	if err := c.getJSON(fmt.Sprintf("%s/masters/%d", c.BaseURL, masterID), &master); err != nil {
		return 0, fmt.Errorf("获取master失败: %w", err)
	}
	if master.MainRelease == 0 {
		return 0, fmt.Errorf("master %d 没有main_release", masterID)
	}
	return master.MainRelease, nil
}

// getJSON 发送GET请求并解析JSON响应
func (c *Client) getJSON(url string, out interface{}) error {
	req, err := c.createRequest(http.MethodGet, url)
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("API返回错误状态码: %d (%s)", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("解析响应失败: %w", err)
	}
	return nil
}

func normTitle(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
