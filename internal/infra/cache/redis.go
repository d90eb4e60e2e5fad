package cache

import (
	"github.com/redis/go-redis/v9"

	"yallashop/internal/config"
)

// NewClient はRedisクライアントを作る。
func NewClient(cfg config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}
