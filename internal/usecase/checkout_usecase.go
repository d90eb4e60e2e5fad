package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/gommon/log"

	"yallashop/internal/domain/model"
	repo "yallashop/internal/repository"
)

// Clock は現在時刻を差し替え可能にする。
type Clock interface {
	Now() time.Time
}

// 配送先フォーム。全項目必須。
type CheckoutForm struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// フォーム検証。実装は internal/validator。
type CheckoutValidator interface {
	// 未入力の必須項目名（入力順）
	MissingFields(form CheckoutForm) []string
	// 形式エラー（email/phone/postalCode）
	ValidateForm(form CheckoutForm) []FieldError
}

type CheckoutInput struct {
	Form          CheckoutForm
	PaymentMethod model.PaymentMethod
}

type CheckoutOutput struct {
	OrderID       string              `json:"orderId"`
	TotalAmount   float64             `json:"totalAmount"`
	PaymentMethod model.PaymentMethod `json:"paymentMethod"`
	Message       string              `json:"message"`
	// メール送信失敗など、注文自体は成立している場合の注意書き
	Warning string `json:"warning,omitempty"`
}

// ミラーストアへ書く注文ドキュメント（タイムスタンプはISO形式）。
type orderMirrorDoc struct {
	CheckoutForm
	CartItems     []model.OrderItem   `json:"cartItems"`
	PaymentMethod model.PaymentMethod `json:"paymentMethod"`
	TotalAmount   float64             `json:"totalAmount"`
	CreatedAt     string              `json:"createdAt"`
	UserID        string              `json:"userId,omitempty"`
}

// CheckoutUsecase は配送先を検証し、注文を確定してカートを空にする。
type CheckoutUsecase struct {
	tx        repo.TransactionManager
	cartRepo  repo.CartSnapshotRepository
	mirror    repo.OrderMirrorRepository
	gateway   NotificationGateway
	validator CheckoutValidator
	idGen     IDGenerator
	clock     Clock
}

func NewCheckoutUsecase(
	tx repo.TransactionManager,
	cartRepo repo.CartSnapshotRepository,
	mirror repo.OrderMirrorRepository,
	gateway NotificationGateway,
	validator CheckoutValidator,
	idGen IDGenerator,
	clock Clock,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		tx:        tx,
		cartRepo:  cartRepo,
		mirror:    mirror,
		gateway:   gateway,
		validator: validator,
		idGen:     idGen,
		clock:     clock,
	}
}

// ValidateForm は項目ごとの形式チェック結果を返す（入力中の逐次検証用）。
func (u *CheckoutUsecase) ValidateForm(form CheckoutForm) []FieldError {
	errs := u.validator.ValidateForm(form)
	for _, name := range u.validator.MissingFields(form) {
		errs = append(errs, FieldError{Field: name, Message: fmt.Sprintf("%s is required", name)})
	}
	return errs
}

// PlaceOrder は注文確定。
//  1. フォーム検証（未入力はまとめて弾く。部分的な注文は作らない）
//  2. カートのスナップショットを縮約（価格は明細に持たせない）
//  3. 主ストアへ注文＋明細をトランザクションで書く
//  4. カートを空にする（支払い方法に関わらず、主ストア書き込み直後）
//  5. ミラーストアへベストエフォートで複製
//  6. 代引きなら確認メール（失敗しても注文は成立）
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, sessionID string, userID string, in CheckoutInput) (CheckoutOutput, error) {
	if sessionID == "" {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "missing session")
	}

	switch in.PaymentMethod {
	case model.PaymentMethodOnline, model.PaymentMethodCOD:
	default:
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment method")
	}

	//必須チェック（足りない項目はまとめて返す）
	if missing := u.validator.MissingFields(in.Form); len(missing) > 0 {
		msg := "Please fill in the following fields: " + strings.Join(missing, ", ")
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, msg)
	}

	//形式チェック
	if errs := u.validator.ValidateForm(in.Form); len(errs) > 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, errs[0].Message)
	}

	//カート読み込み（壊れたスナップショットは空扱い）
	items, err := u.cartRepo.Load(ctx, sessionID)
	if errors.Is(err, repo.ErrCorruptSnapshot) {
		items = nil
	} else if err != nil {
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "failed to place order")
	}
	if len(items) == 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	//合計は縮約前のカートから計算する
	total := cartTotal(items)

	now := u.clock.Now()
	orderID := u.idGen.NewID()

	//スナップショットを縮約（id/名前/数量だけ）
	orderItems := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		orderItems = append(orderItems, model.OrderItem{
			ProductID:           it.ProductID,
			ProductNameSnapshot: it.ProductName,
			Quantity:            it.Quantity,
			CreatedAt:           now,
		})
	}

	order := model.Order{
		ID:            orderID,
		UserID:        userID,
		FirstName:     in.Form.FirstName,
		LastName:      in.Form.LastName,
		Email:         in.Form.Email,
		Phone:         in.Form.Phone,
		Address:       in.Form.Address,
		City:          in.Form.City,
		PostalCode:    in.Form.PostalCode,
		PaymentMethod: in.PaymentMethod,
		Status:        model.OrderStatusPending,
		TotalAmount:   total,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	//注文＋明細はトランザクション
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Orders().Create(ctx, order); err != nil {
			return err
		}
		return r.OrderItems().CreateBulk(ctx, orderID, orderItems)
	})
	if err != nil {
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "failed to place order")
	}

	//どちらの支払い方法でも、注文が書けた時点でカートを空にする
	if err := u.cartRepo.Delete(ctx, sessionID); err != nil {
		log.Warnf("cart clear failed after order %s: %v", orderID, err)
	}

	//ミラーはベストエフォート。失敗しても主ストアの注文は取り消さない。
	mirrorDoc := orderMirrorDoc{
		CheckoutForm:  in.Form,
		CartItems:     orderItems,
		PaymentMethod: in.PaymentMethod,
		TotalAmount:   total,
		CreatedAt:     now.Format(time.RFC3339),
		UserID:        userID,
	}
	if err := u.mirror.Write(ctx, userID, orderID, mirrorDoc); err != nil {
		log.Warnf("order mirror write failed for %s: %v", orderID, err)
	}

	out := CheckoutOutput{
		OrderID:       orderID,
		TotalAmount:   total,
		PaymentMethod: in.PaymentMethod,
		Message:       fmt.Sprintf("Order placed successfully! Order ID: %s", orderID),
	}

	//代引きは確認メールまで送る。送信失敗は注意書きに落とす。
	if in.PaymentMethod == model.PaymentMethodCOD {
		msg := OrderConfirmation{
			To:          in.Form.Email,
			FirstName:   in.Form.FirstName,
			OrderID:     orderID,
			TotalAmount: total,
			CartItems:   orderItems,
			Address:     in.Form.Address,
			City:        in.Form.City,
			PostalCode:  in.Form.PostalCode,
		}
		if err := u.gateway.SendOrderConfirmation(ctx, msg); err != nil {
			log.Warnf("confirmation email failed for order %s: %v", orderID, err)
			out.Warning = "Order placed, but the confirmation email could not be sent"
		}
	}

	return out, nil
}
