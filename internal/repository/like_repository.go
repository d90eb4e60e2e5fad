package repository

import "context"

// セッションごとの「いいね済み」集合。
type LikeRepository interface {
	IsLiked(ctx context.Context, sessionID string, productID string) (bool, error)
	Add(ctx context.Context, sessionID string, productID string) error
	Remove(ctx context.Context, sessionID string, productID string) error
}
