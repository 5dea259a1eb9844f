package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/loictrobas/discogs-tool/logger"
	"github.com/loictrobas/discogs-tool/model"
)

const (
	releaseKeyPrefix = "discogs:release:"
	searchKeyPrefix  = "discogs:search:"

	// release元数据变化很慢，搜索结果变化快一点
	releaseTTL = 24 * time.Hour
	searchTTL  = 6 * time.Hour
)

// GetRelease 按URL取缓存的release，未命中返回nil
func GetRelease(ctx context.Context, rawURL string) *model.Release {
	if !Enabled() {
		return nil
	}

	data, err := RedisClient.Get(ctx, releaseKeyPrefix+rawURL).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("读取release缓存失败", logger.ErrorField(err))
		}
		return nil
	}

	var rel model.Release
	if err := json.Unmarshal(data, &rel); err != nil {
		logger.Warn("release缓存解析失败，忽略", logger.ErrorField(err))
		return nil
	}
	return &rel
}

// SetRelease 写入release缓存，失败只记日志
func SetRelease(ctx context.Context, rawURL string, rel *model.Release) {
	if !Enabled() || rel == nil {
		return
	}

	data, err := json.Marshal(rel)
	if err != nil {
		return
	}
	if err := RedisClient.Set(ctx, releaseKeyPrefix+rawURL, data, releaseTTL).Err(); err != nil {
		logger.Warn("写入release缓存失败", logger.ErrorField(err))
	}
}

// GetSearch 按查询词取缓存的候选列表
func GetSearch(ctx context.Context, query string) []model.Candidate {
	if !Enabled() {
		return nil
	}

	data, err := RedisClient.Get(ctx, searchKeyPrefix+query).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("读取搜索缓存失败", logger.ErrorField(err))
		}
		return nil
	}

	var cands []model.Candidate
	if err := json.Unmarshal(data, &cands); err != nil {
		return nil
	}
	return cands
}

// SetSearch 写入搜索缓存
func SetSearch(ctx context.Context, query string, cands []model.Candidate) {
	if !Enabled() || len(cands) == 0 {
		return
	}

	data, err := json.Marshal(cands)
	if err != nil {
		return
	}
	if err := RedisClient.Set(ctx, searchKeyPrefix+query, data, searchTTL).Err(); err != nil {
		logger.Warn("写入搜索缓存失败", logger.ErrorField(err))
	}
}

// TestRedis 测试Redis连接和基本操作，cache子命令用
func TestRedis() error {
	if RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	ctx := context.Background()
	key := "discogs:test_key"

	if err := RedisClient.Set(ctx, key, "ok", time.Minute).Err(); err != nil {
		return fmt.Errorf("failed to set Redis key: %w", err)
	}
	val, err := RedisClient.Get(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to get Redis key: %w", err)
	}
	if val != "ok" {
		return fmt.Errorf("unexpected value from Redis: got %s", val)
	}
	if _, err := RedisClient.Del(ctx, key).Result(); err != nil {
		return fmt.Errorf("failed to delete Redis key: %w", err)
	}
	return nil
}
