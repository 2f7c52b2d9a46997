package registration

import (
	"context"
	"encoding/json"
	"time"

	"sailsmart/models"
	"sailsmart/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisScoreCache stores score responses as JSON with a fixed TTL.
type RedisScoreCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisScoreCache(client *redis.Client, ttl time.Duration) *RedisScoreCache {
	return &RedisScoreCache{client: client, ttl: ttl}
}

func (c *RedisScoreCache) Get(ctx context.Context, key string) (*models.ScoreResponse, bool) {
	raw, err := c.client.Get(ctx, utils.ScoreCachePrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		utils.GetLogger().Warn("Score cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	var score models.ScoreResponse
	if err := json.Unmarshal(raw, &score); err != nil {
		utils.GetLogger().Warn("Discarding unreadable cached score", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &score, true
}

func (c *RedisScoreCache) Put(ctx context.Context, key string, score models.ScoreResponse) {
	raw, err := json.Marshal(score)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, utils.ScoreCachePrefix+key, raw, c.ttl).Err(); err != nil {
		utils.GetLogger().Warn("Score cache write failed", zap.String("key", key), zap.Error(err))
	}
}
