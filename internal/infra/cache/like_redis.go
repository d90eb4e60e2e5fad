package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// セッションごとの「いいね済み」商品ID集合。
type LikeSetRedis struct {
	client *redis.Client
}

func NewLikeSetRedis(client *redis.Client) *LikeSetRedis {
	return &LikeSetRedis{client: client}
}

func (r *LikeSetRedis) IsLiked(ctx context.Context, sessionID string, productID string) (bool, error) {
	ok, err := r.client.SIsMember(ctx, likeKey(sessionID), productID).Result()
	if err != nil {
		return false, fmt.Errorf("redis sismember failed: %w", err)
	}
	return ok, nil
}

func (r *LikeSetRedis) Add(ctx context.Context, sessionID string, productID string) error {
	if err := r.client.SAdd(ctx, likeKey(sessionID), productID).Err(); err != nil {
		return fmt.Errorf("redis sadd failed: %w", err)
	}
	return nil
}

func (r *LikeSetRedis) Remove(ctx context.Context, sessionID string, productID string) error {
	if err := r.client.SRem(ctx, likeKey(sessionID), productID).Err(); err != nil {
		return fmt.Errorf("redis srem failed: %w", err)
	}
	return nil
}

func likeKey(sessionID string) string {
	return fmt.Sprintf("likedproducts:%s", sessionID)
}
