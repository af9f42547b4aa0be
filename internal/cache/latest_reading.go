package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Shellect/greenhouse-server/internal/models"
)

const (
	latestReadingKey    = "greenhouse:reading:latest"
	latestReadingPrefix = "greenhouse:reading:latest:"
	latestReadingTTL    = 10 * time.Minute
)

// LatestReadingCache 最新读数的热缓存
// 只做加速，不做数据源：写失败打日志后放过，读失败按未命中处理
type LatestReadingCache struct {
	kv     KVStore
	logger *zap.Logger
}

// NewLatestReadingCache 创建最新读数缓存
func NewLatestReadingCache(kv KVStore, logger *zap.Logger) *LatestReadingCache {
	return &LatestReadingCache{kv: kv, logger: logger}
}

// Store 写入全局键和控制器键，失败只记日志
func (c *LatestReadingCache) Store(ctx context.Context, reading *models.SensorReading) {
	payload, err := json.Marshal(reading)
	if err != nil {
		c.logger.Warn("Failed to marshal reading for cache", zap.Error(err))
		return
	}
	keys := []string{latestReadingKey, latestReadingPrefix + reading.DeviceID}
	for _, key := range keys {
		if err := c.kv.Set(ctx, key, string(payload), latestReadingTTL); err != nil {
			c.logger.Warn("Failed to cache latest reading",
				zap.String("key", key), zap.Error(err))
		}
	}
}

// Load 取缓存的最新读数，controllerID 为空取全局键；未命中返回 (nil, nil)
func (c *LatestReadingCache) Load(ctx context.Context, controllerID string) (*models.SensorReading, error) {
	key := latestReadingKey
	if controllerID != "" {
		key = latestReadingPrefix + controllerID
	}

	val, err := c.kv.Get(ctx, key)
	if err == ErrCacheMiss {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read latest reading cache: %w", err)
	}

	var reading models.SensorReading
	if err := json.Unmarshal([]byte(val), &reading); err != nil {
		return nil, fmt.Errorf("failed to decode cached reading: %w", err)
	}
	return &reading, nil
}
