package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"food_share/internal/domain/model"
	"food_share/internal/platform/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const FoodPostListKey = "foodshare:food_posts:list"

// FoodPostCache is a read-through cache for the public food post listing.
// Redis failures are logged and treated as misses.
type FoodPostCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewFoodPostCache(rdb redis.Cmdable, ttl time.Duration) *FoodPostCache {
	return &FoodPostCache{rdb: rdb, ttl: ttl}
}

func (c *FoodPostCache) GetList(ctx context.Context) ([]model.FoodPost, bool) {
	raw, err := c.rdb.Get(ctx, FoodPostListKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			logger.Sugar.Debugw("food post cache miss", "key", FoodPostListKey)
		} else {
			logger.Log.Warn("food post cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var posts []model.FoodPost
	if err := json.Unmarshal(raw, &posts); err != nil {
		logger.Log.Warn("food post cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return posts, true
}

func (c *FoodPostCache) SetList(ctx context.Context, posts []model.FoodPost) {
	raw, err := json.Marshal(posts)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, FoodPostListKey, raw, c.ttl).Err(); err != nil {
		logger.Log.Warn("food post cache write failed", zap.Error(err))
	}
}

func (c *FoodPostCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, FoodPostListKey).Err(); err != nil {
		logger.Log.Warn("food post cache invalidate failed", zap.Error(err))
	}
}
