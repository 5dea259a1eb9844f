package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client Instagram Graph API客户端
type Client struct {
	BaseURL    string // 形如 https://graph.facebook.com/v20.0
	UserID     string
	Token      string
	HTTPClient *http.Client
}

// NewClient 创建Graph API客户端
func NewClient(baseURL, userID, token string) *Client {
	if baseURL == "" {
		baseURL = "https://graph.facebook.com/v20.0"
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		UserID:  userID,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: time.Second * 180, // 容器创建可能很慢
		},
	}
}

// postForm 发送表单POST并解析JSON，非200一律报错并带上响应体
func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values, out interface{}) error {
	form.Set("access_token", c.Token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取响应失败: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("IG API返回错误: %d %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("解析响应失败: %w", err)
		}
	}
	return nil
}

// getJSON 带token的GET请求
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	params.Set("access_token", c.Token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取响应失败: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("IG API返回错误: %d %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("解析响应失败: %w", err)
	}
	return nil
}
