package repository

import "context"

// 注文のミラー保存。commands/{userId}/{orderId} 相当のキーに1回だけ書く。
// ベストエフォートであり、主ストアとのトランザクションは組まない。
type OrderMirrorRepository interface {
	Write(ctx context.Context, userID string, orderID string, doc any) error
}
