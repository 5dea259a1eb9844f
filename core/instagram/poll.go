package instagram

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/loictrobas/discogs-tool/logger"
	"github.com/loictrobas/discogs-tool/model"
)

// ProcessingError 容器进了ERROR/EXPIRED终态，和超时是两种失败
type ProcessingError struct {
	CreationID string
	Status     model.ContainerStatus
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("容器 %s 处理失败，状态 %s", e.CreationID, e.Status)
}

// ErrWaitTimeout 等待超时。容器可能还在处理，调用方可以选择乐观记账。
var ErrWaitTimeout = errors.New("等待容器就绪超时")

// PollConfig 轮询参数
type PollConfig struct {
	Interval time.Duration // 轮询间隔，默认5s
	Timeout  time.Duration // 总预算，默认300s
}

func (p PollConfig) withDefaults() PollConfig {
	if p.Interval <= 0 {
		p.Interval = 5 * time.Second
	}
	if p.Timeout <= 0 {
		p.Timeout = 300 * time.Second
	}
	return p
}

// ContainerStatus 查一次容器状态。查询本身出错不算终态，返回UNKNOWN。
func (c *Client) ContainerStatus(ctx context.Context, creationID string) (model.ContainerStatus, error) {
	params := url.Values{}
	params.Set("fields", "status_code")

	var out struct {
		StatusCode string `json:"status_code"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("%s/%s", c.BaseURL, creationID), params, &out); err != nil {
		return model.StatusUnknown, err
	}
	if out.StatusCode == "" {
		return model.StatusUnknown, nil
	}
	return model.ContainerStatus(out.StatusCode), nil
}

// WaitReady 轮询容器直到就绪、终态失败或超时。
// 状态机：IN_PROGRESS/UNKNOWN继续等；FINISHED/PUBLISHED返回；
// ERROR/EXPIRED返回*ProcessingError；预算耗尽返回ErrWaitTimeout。
// 单次查询出错只记日志，不中断等待。
func (c *Client) WaitReady(ctx context.Context, creationID string, cfg PollConfig) (model.ContainerStatus, error) {
	cfg = cfg.withDefaults()

	deadline := time.Now().Add(cfg.Timeout)
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	var last model.ContainerStatus
	attempt := 0

	for {
		attempt++
		status, err := c.ContainerStatus(ctx, creationID)
		if err != nil {
			logger.Warn("查询容器状态失败",
				logger.String("creationId", creationID),
				logger.Int("attempt", attempt),
				logger.ErrorField(err))
			status = model.StatusUnknown
		}

		if status != last {
			logger.Info("容器状态变化",
				logger.String("creationId", creationID),
				logger.String("status", string(status)),
				logger.Int("attempt", attempt))
			last = status
		}

		if status.Ready() {
			return status, nil
		}
		if status.Failed() {
			return status, &ProcessingError{CreationID: creationID, Status: status}
		}

		if time.Now().After(deadline) {
			return last, fmt.Errorf("%w: %s (最后状态 %s)", ErrWaitTimeout, creationID, last)
		}

		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-ticker.C:
		}
	}
}
