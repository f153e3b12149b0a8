package cache

import (
	"context"
	"time"

	"food_share/internal/platform/config"
	"food_share/internal/platform/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var RDB *redis.Client

// ConnectRedis opens the shared client. It returns false and leaves RDB nil when
// no address is configured or the server does not answer; callers then run uncached.
func ConnectRedis() bool {
	if !config.AppConfig.CacheEnabled() {
		logger.Log.Info("Redis disabled, food list cache off")
		return false
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Log.Warn("Could not connect to Redis, continuing without cache", zap.Error(err))
		client.Close()
		return false
	}
	RDB = client
	logger.Log.Info("Connected to Redis", zap.String("addr", config.AppConfig.RedisAddr))
	return true
}

func CloseRedis() {
	if RDB != nil {
		RDB.Close()
		logger.Log.Info("Redis connection closed")
	}
}
