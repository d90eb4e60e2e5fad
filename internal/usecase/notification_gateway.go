package usecase

import (
	"context"

	"yallashop/internal/domain/model"
)

// 注文確認メールの送信依頼（代引き確定時）。
// JSONのキーはメール送信サービス側の契約に合わせる。
type OrderConfirmation struct {
	To          string            `json:"to"`
	FirstName   string            `json:"firstName"`
	OrderID     string            `json:"orderId"`
	TotalAmount float64           `json:"totalAmount"`
	CartItems   []model.OrderItem `json:"cartItems"`
	Address     string            `json:"address"`
	City        string            `json:"city"`
	PostalCode  string            `json:"postalCode"`
}

// オンライン決済完了メールの送信依頼。
type PaymentReceipt struct {
	Email          string            `json:"email"`
	OrderID        string            `json:"orderId"`
	Total          float64           `json:"total"`
	CartItems      []model.OrderItem `json:"cartItems"`
	PaymentDetails PaymentDetails    `json:"paymentDetails"`
}

// カード番号はマスク済みのものだけを渡す。
type PaymentDetails struct {
	CardNumber string `json:"cardNumber"`
}

// 確認メールを送る外部サービス。送信失敗しても注文は取り消さない。
type NotificationGateway interface {
	SendOrderConfirmation(ctx context.Context, msg OrderConfirmation) error
	SendPaymentReceipt(ctx context.Context, msg PaymentReceipt) error
}
