package model

import "time"

// 注文明細。商品名は確定時点のスナップショット。
// 価格は注文のTotalAmountにだけ使い、明細には持たせない。
type OrderItem struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderID             string    `gorm:"type:varchar(36);not null;index" json:"-"`
	ProductID           string    `gorm:"type:varchar(36);not null;index" json:"productId"`
	ProductNameSnapshot string    `gorm:"type:varchar(255);not null" json:"productName"`
	Quantity            int64     `gorm:"not null" json:"quantity"`
	CreatedAt           time.Time `gorm:"not null;autoCreateTime" json:"-"`
}
