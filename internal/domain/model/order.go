package model

import "time"

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusPaid     OrderStatus = "PAID"
	OrderStatusShipped  OrderStatus = "SHIPPED"
	OrderStatusCanceled OrderStatus = "CANCELED"
)

type PaymentMethod string

const (
	PaymentMethodOnline PaymentMethod = "online"
	PaymentMethodCOD    PaymentMethod = "cod"
)

// 注文は確定後に変更しない（statusの遷移だけ）。
// UserIDが空ならゲスト注文。
type Order struct {
	ID            string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID        string        `gorm:"type:varchar(36);index" json:"user_id,omitempty"`
	FirstName     string        `gorm:"type:varchar(100);not null" json:"firstName"`
	LastName      string        `gorm:"type:varchar(100);not null" json:"lastName"`
	Email         string        `gorm:"type:varchar(255);not null" json:"email"`
	Phone         string        `gorm:"type:varchar(20);not null" json:"phone"`
	Address       string        `gorm:"type:text;not null" json:"address"`
	City          string        `gorm:"type:varchar(100);not null" json:"city"`
	PostalCode    string        `gorm:"type:varchar(10);not null" json:"postalCode"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(10);not null" json:"paymentMethod"`
	Status        OrderStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalAmount   float64       `gorm:"not null" json:"totalAmount"`
	CreatedAt     time.Time     `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time     `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
