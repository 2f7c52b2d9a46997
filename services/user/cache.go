package user

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"sailsmart/models"
	"sailsmart/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ProfileCache holds recently read profiles. Get reports whether the entry is still fresh;
// a stale entry may still be returned for fallback use.
type ProfileCache interface {
	Get(ctx context.Context, key string) (*models.User, bool)
	Put(ctx context.Context, key string, u *models.User)
	Invalidate(ctx context.Context, key string)
}

// RedisProfileCache expires entries through Redis TTLs, so it never returns stale entries.
type RedisProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProfileCache(client *redis.Client, ttl time.Duration) *RedisProfileCache {
	return &RedisProfileCache{client: client, ttl: ttl}
}

func (c *RedisProfileCache) Get(ctx context.Context, key string) (*models.User, bool) {
	data, err := c.client.Get(ctx, utils.ProfileCachePrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			utils.GetLogger().Warn("Profile cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var u models.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, false
	}
	return &u, true
}

func (c *RedisProfileCache) Put(ctx context.Context, key string, u *models.User) {
	data, err := json.Marshal(u)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, utils.ProfileCachePrefix+key, data, c.ttl).Err(); err != nil {
		utils.GetLogger().Warn("Profile cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *RedisProfileCache) Invalidate(ctx context.Context, key string) {
	if err := c.client.Del(ctx, utils.ProfileCachePrefix+key).Err(); err != nil {
		utils.GetLogger().Warn("Profile cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}

type memoryEntry struct {
	user    models.User
	expires time.Time
}

// MemoryProfileCache is a process-local TTL map. Expired entries are kept until replaced
// or invalidated and are reported as stale.
type MemoryProfileCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryProfileCache(ttl time.Duration) *MemoryProfileCache {
	return &MemoryProfileCache{ttl: ttl, entries: map[string]memoryEntry{}, now: time.Now}
}

func (c *MemoryProfileCache) Get(ctx context.Context, key string) (*models.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	u := e.user
	return &u, c.now().Before(e.expires)
}

func (c *MemoryProfileCache) Put(ctx context.Context, key string, u *models.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{user: *u, expires: c.now().Add(c.ttl)}
}

func (c *MemoryProfileCache) Invalidate(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
