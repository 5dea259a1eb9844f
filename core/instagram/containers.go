package instagram

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/loictrobas/discogs-tool/logger"
)

type idResponse struct {
	ID string `json:"id"`
}

// CreateCarouselChild 创建carousel的video child容器。
// media_type必须是VIDEO，否则API会要求image_url。
func (c *Client) CreateCarouselChild(ctx context.Context, videoURL string) (string, error) {
	form := url.Values{}
	form.Set("media_type", "VIDEO")
	form.Set("video_url", videoURL)
	form.Set("is_carousel_item", "true")

	var out idResponse
	if err := c.postForm(ctx, fmt.Sprintf("%s/%s/media", c.BaseURL, c.UserID), form, &out); err != nil {
		return "", fmt.Errorf("创建child容器失败: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("child容器响应缺少id")
	}

	logger.Info("child容器已创建", logger.String("creationId", out.ID))
	return out.ID, nil
}

// CreateReel 创建单条REELS容器（单视频发布用，不走carousel）
func (c *Client) CreateReel(ctx context.Context, videoURL, caption string, thumbOffsetSec int) (string, error) {
	form := url.Values{}
	form.Set("media_type", "REELS")
	form.Set("video_url", videoURL)
	form.Set("caption", caption)
	form.Set("thumb_offset", fmt.Sprintf("%d", thumbOffsetSec))

	var out idResponse
	if err := c.postForm(ctx, fmt.Sprintf("%s/%s/media", c.BaseURL, c.UserID), form, &out); err != nil {
		return "", fmt.Errorf("创建REELS容器失败: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("REELS容器响应缺少id")
	}
	return out.ID, nil
}

// CreateCarouselParent 创建carousel parent容器，children是已就绪的child id列表
func (c *Client) CreateCarouselParent(ctx context.Context, childrenIDs []string, caption string) (string, error) {
	if len(childrenIDs) == 0 {
		return "", fmt.Errorf("children列表为空")
	}

	form := url.Values{}
	form.Set("media_type", "CAROUSEL")
	form.Set("children", strings.Join(childrenIDs, ","))
	form.Set("caption", caption)

	var out idResponse
	if err := c.postForm(ctx, fmt.Sprintf("%s/%s/media", c.BaseURL, c.UserID), form, &out); err != nil {
		return "", fmt.Errorf("创建parent容器失败: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("parent容器响应缺少id")
	}

	logger.Info("parent容器已创建",
		logger.String("creationId", out.ID),
		logger.Int("children", len(childrenIDs)))
	return out.ID, nil
}

// Publish 发布容器。这是整个流程里唯一不可回退的一步。
func (c *Client) Publish(ctx context.Context, creationID string) (string, error) {
	form := url.Values{}
	form.Set("creation_id", creationID)

	var out idResponse
	if err := c.postForm(ctx, fmt.Sprintf("%s/%s/media_publish", c.BaseURL, c.UserID), form, &out); err != nil {
		return "", fmt.Errorf("发布失败: %w", err)
	}

	logger.Info("发布成功",
		logger.String("creationId", creationID),
		logger.String("mediaId", out.ID))
	return out.ID, nil
}
