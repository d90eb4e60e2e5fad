package repository

import (
	"context"
	"errors"

	"yallashop/internal/domain/model"
)

// スナップショットが壊れている（JSONとして読めない）。
// 呼び出し側は空カート扱いにしてよい。
var ErrCorruptSnapshot = errors.New("corrupt cart snapshot")

// カートの永続化。毎回リスト全体を上書き保存する（差分更新はしない）。
type CartSnapshotRepository interface {
	// キーが無ければ空スライスを返す。壊れていれば ErrCorruptSnapshot。
	Load(ctx context.Context, sessionID string) ([]model.CartItem, error)
	Save(ctx context.Context, sessionID string, items []model.CartItem) error
	Delete(ctx context.Context, sessionID string) error
}
