package sheets

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/loictrobas/discogs-tool/logger"
)

const (
	sheetsAPIBase = "https://sheets.googleapis.com/v4/spreadsheets"
	sheetsScope   = "https://www.googleapis.com/auth/spreadsheets"
)

// serviceAccount Google service account JSON里用得到的字段
type serviceAccount struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

// Client Google Sheets追加行客户端。
// 用GCS同一份service account JSON换OAuth token，不引SDK。
type Client struct {
	sheetID    string
	sheetRange string
	apiBase    string
	tokenURI   string
	email      string
	key        *rsa.PrivateKey
	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient 从service account JSON文件创建客户端
func NewClient(credentialsPath, sheetID, sheetRange string) (*Client, error) {
	raw, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("读取service account文件失败: %w", err)
	}

	var sa serviceAccount
	if err := json.Unmarshal(raw, &sa); err != nil {
		return nil, fmt.Errorf("解析service account文件失败: %w", err)
	}
	if sa.ClientEmail == "" || sa.PrivateKey == "" {
		return nil, fmt.Errorf("service account文件缺少client_email或private_key")
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(sa.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("解析private_key失败: %w", err)
	}

	tokenURI := sa.TokenURI
	if tokenURI == "" {
		tokenURI = "https://oauth2.googleapis.com/token"
	}

	return &Client{
		sheetID:    sheetID,
		sheetRange: sheetRange,
		apiBase:    sheetsAPIBase,
		tokenURI:   tokenURI,
		email:      sa.ClientEmail,
		key:        key,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// SetAPIBase 测试用
func (c *Client) SetAPIBase(base string) {
	c.apiBase = strings.TrimSuffix(base, "/")
}

// token 返回有效的access token，过期前5分钟就换新的
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Until(c.tokenExpiry) > 5*time.Minute {
		return c.accessToken, nil
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   c.email,
		"scope": sheetsScope,
		"aud":   c.tokenURI,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}

	assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("签名JWT失败: %w", err)
	}

	form := url.Values{}
	form.Set("grant_type", "urn:ietf:params:oauth:grant-type:jwt-bearer")
	form.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURI, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("创建token请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("读取token响应失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token端点返回错误: %d %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tr struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("解析token响应失败: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token响应缺少access_token")
	}

	c.accessToken = tr.AccessToken
	c.tokenExpiry = now.Add(time.Duration(tr.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

// AppendRow 往表末尾追加一行，列顺序A:H固定：
// 名称、艺术家、国家、年份、价格、是否已售、是否已发IG、归属人
func (c *Client) AppendRow(ctx context.Context, row []string) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}
	payload, err := json.Marshal(map[string]interface{}{
		"values": [][]interface{}{values},
	})
	if err != nil {
		return fmt.Errorf("编码请求体失败: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/values/%s:append?valueInputOption=USER_ENTERED&insertDataOption=INSERT_ROWS",
		c.apiBase, c.sheetID, url.PathEscape(c.sheetRange))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("创建append请求失败: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("append请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("Sheets API返回错误: %d %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	logger.Info("Sheets已登记", logger.String("sheet", c.sheetID))
	return nil
}
