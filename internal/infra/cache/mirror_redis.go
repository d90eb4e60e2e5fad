package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// 注文のミラー書き込み先。commands:{userId}:{orderId} に1回だけ書く。
// 冗長化目的なのでTTLは付けない。
type OrderMirrorRedis struct {
	client *redis.Client
}

func NewOrderMirrorRedis(client *redis.Client) *OrderMirrorRedis {
	return &OrderMirrorRedis{client: client}
}

func (r *OrderMirrorRedis) Write(ctx context.Context, userID string, orderID string, doc any) error {
	if userID == "" {
		userID = "anonymous"
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal order mirror failed: %w", err)
	}

	key := fmt.Sprintf("commands:%s:%s", userID, orderID)
	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
