package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"yallashop/internal/domain/model"
	repo "yallashop/internal/repository"
)

// カートのスナップショットをJSON配列としてまるごと保存する。
// 毎回全体を上書きし、差分は取らない（セッション内はlast-writer-wins）。
type CartSnapshotRedis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartSnapshotRedis(client *redis.Client) *CartSnapshotRedis {
	return &CartSnapshotRedis{
		client: client,
		ttl:    30 * 24 * time.Hour,
	}
}

func (r *CartSnapshotRedis) Load(ctx context.Context, sessionID string) ([]model.CartItem, error) {
	data, err := r.client.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		//スナップショット無し＝空カート
		return []model.CartItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var items []model.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return []model.CartItem{}, repo.ErrCorruptSnapshot
	}

	return items, nil
}

func (r *CartSnapshotRedis) Save(ctx context.Context, sessionID string, items []model.CartItem) error {
	if items == nil {
		items = []model.CartItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	if err := r.client.Set(ctx, cartKey(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *CartSnapshotRedis) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cartItems:%s", sessionID)
}
