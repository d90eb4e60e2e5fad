package usecase

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/gommon/log"

	"yallashop/internal/domain/model"
	repo "yallashop/internal/repository"
)

var (
	cardNumberRe = regexp.MustCompile(`^\d{13,19}$`)
	cardExpiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cardCVVRe    = regexp.MustCompile(`^\d{3,4}$`)
)

// オンライン決済の完了処理。注文をPAIDにして領収メールを依頼する。
type PaymentUsecase struct {
	orderRepo     repo.OrderRepository
	orderItemRepo repo.OrderItemRepository
	gateway       NotificationGateway
}

func NewPaymentUsecase(
	orderRepo repo.OrderRepository,
	orderItemRepo repo.OrderItemRepository,
	gateway NotificationGateway,
) *PaymentUsecase {
	return &PaymentUsecase{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		gateway:       gateway,
	}
}

type PaymentInput struct {
	OrderID    string
	CardNumber string
	CardHolder string
	Expiry     string // MM/YY
	CVV        string
}

type PaymentOutput struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Warning string `json:"warning,omitempty"`
}

func (u *PaymentUsecase) CompletePayment(ctx context.Context, in PaymentInput) (PaymentOutput, error) {
	if in.OrderID == "" {
		return PaymentOutput{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	if !cardNumberRe.MatchString(in.CardNumber) {
		return PaymentOutput{}, NewHTTPError(http.StatusBadRequest, "Invalid card number")
	}
	if strings.TrimSpace(in.CardHolder) == "" {
		return PaymentOutput{}, NewHTTPError(http.StatusBadRequest, "Card holder is required")
	}
	if !cardExpiryRe.MatchString(in.Expiry) {
		return PaymentOutput{}, NewHTTPError(http.StatusBadRequest, "Invalid expiry date")
	}
	if !cardCVVRe.MatchString(in.CVV) {
		return PaymentOutput{}, NewHTTPError(http.StatusBadRequest, "Invalid CVV")
	}

	order, err := u.orderRepo.FindByID(ctx, in.OrderID)
	if err == repo.ErrNotFound {
		return PaymentOutput{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return PaymentOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if order.PaymentMethod != model.PaymentMethodOnline {
		return PaymentOutput{}, NewHTTPError(http.StatusBadRequest, "order is not online payment")
	}
	if order.Status == model.OrderStatusPaid {
		return PaymentOutput{}, NewHTTPError(http.StatusConflict, "order already paid")
	}

	items, err := u.orderItemRepo.ListByOrderID(ctx, in.OrderID)
	if err != nil {
		return PaymentOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//先に決済確定（メール失敗でPAIDが取り消されることはない）
	if err := u.orderRepo.UpdateStatus(ctx, in.OrderID, model.OrderStatusPaid); err != nil {
		return PaymentOutput{}, NewHTTPError(http.StatusInternalServerError, "failed to complete payment")
	}

	out := PaymentOutput{
		OrderID: in.OrderID,
		Status:  string(model.OrderStatusPaid),
		Message: "Payment processed successfully",
	}

	receipt := PaymentReceipt{
		Email:     order.Email,
		OrderID:   in.OrderID,
		Total:     order.TotalAmount,
		CartItems: items,
		PaymentDetails: PaymentDetails{
			CardNumber: maskCardNumber(in.CardNumber),
		},
	}
	if err := u.gateway.SendPaymentReceipt(ctx, receipt); err != nil {
		log.Warnf("payment receipt email failed for order %s: %v", in.OrderID, err)
		out.Warning = "Payment completed, but the receipt email could not be sent"
	}

	return out, nil
}

// 末尾3桁以外を伏せる
func maskCardNumber(num string) string {
	if len(num) <= 3 {
		return num
	}
	return strings.Repeat("*", len(num)-3) + num[len(num)-3:]
}
