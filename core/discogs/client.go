package discogs

import (
	"fmt"
	"net/http"
	"time"
)

// Client Discogs API客户端
type Client struct {
	BaseURL    string
	Token      string
	UserAgent  string
	Currency   string
	HTTPClient *http.Client
}

// NewClient 创建新的API客户端
func NewClient(baseURL, token, userAgent, currency string) *Client {
	if baseURL == "" {
		baseURL = "https://api.discogs.com"
	}
	if currency == "" {
		currency = "USD"
	}
	return &Client{
		BaseURL:   baseURL,
		Token:     token,
		UserAgent: userAgent,
		Currency:  currency,
		HTTPClient: &http.Client{
			Timeout: time.Second * 30,
		},
	}
}

// SetTimeout 设置请求超时时间
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// createRequest 构建带认证头的请求
func (c *Client) createRequest(method, url string) (*http.Request, error) {
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/vnd.discogs.v2+json")
	if c.Token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Discogs token=%s", c.Token))
	}
	return req, nil
}
