package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"yallashop/internal/domain/model"
	repo "yallashop/internal/repository"
	"yallashop/internal/usecase"
)

func onlineOrder(id string) model.Order {
	return model.Order{
		ID:            id,
		Email:         "sami@example.com",
		PaymentMethod: model.PaymentMethodOnline,
		Status:        model.OrderStatusPending,
		TotalAmount:   25.0,
	}
}

func validPayment(orderID string) usecase.PaymentInput {
	return usecase.PaymentInput{
		OrderID:    orderID,
		CardNumber: "4242424242424242",
		CardHolder: "Sami Trabelsi",
		Expiry:     "12/27",
		CVV:        "123",
	}
}

func TestPaymentUsecase_Success(t *testing.T) {
	orders := new(OrderRepoMock)
	items := new(OrderItemRepoMock)
	gateway := new(GatewayMock)
	uc := usecase.NewPaymentUsecase(orders, items, gateway)

	orders.On("FindByID", mock.Anything, "o1").Return(onlineOrder("o1"), nil)
	items.On("ListByOrderID", mock.Anything, "o1").
		Return([]model.OrderItem{{ProductID: "A", Quantity: 2}}, nil)
	orders.On("UpdateStatus", mock.Anything, "o1", model.OrderStatusPaid).Return(nil)

	//メールにはマスク済み番号だけが載る
	gateway.On("SendPaymentReceipt", mock.Anything, mock.MatchedBy(func(r usecase.PaymentReceipt) bool {
		return r.Email == "sami@example.com" &&
			r.Total == 25.0 &&
			r.PaymentDetails.CardNumber == "*************242"
	})).Return(nil)

	out, err := uc.CompletePayment(context.Background(), validPayment("o1"))
	require.NoError(t, err)

	assert.Equal(t, "o1", out.OrderID)
	assert.Equal(t, string(model.OrderStatusPaid), out.Status)
	assert.Empty(t, out.Warning)

	orders.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestPaymentUsecase_CardValidation(t *testing.T) {
	uc := usecase.NewPaymentUsecase(new(OrderRepoMock), new(OrderItemRepoMock), new(GatewayMock))

	tests := []struct {
		name   string
		mutate func(in *usecase.PaymentInput)
		msg    string
	}{
		{"short card number", func(in *usecase.PaymentInput) { in.CardNumber = "1234" }, "Invalid card number"},
		{"letters in card number", func(in *usecase.PaymentInput) { in.CardNumber = "4242abcd42424242" }, "Invalid card number"},
		{"empty holder", func(in *usecase.PaymentInput) { in.CardHolder = "  " }, "Card holder is required"},
		{"bad expiry month", func(in *usecase.PaymentInput) { in.Expiry = "13/27" }, "Invalid expiry date"},
		{"expiry without slash", func(in *usecase.PaymentInput) { in.Expiry = "1227" }, "Invalid expiry date"},
		{"cvv too long", func(in *usecase.PaymentInput) { in.CVV = "12345" }, "Invalid CVV"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validPayment("o1")
			tt.mutate(&in)

			_, err := uc.CompletePayment(context.Background(), in)
			require.Error(t, err)
			he, ok := usecase.AsHTTPError(err)
			require.True(t, ok)
			assert.Equal(t, 400, he.Status)
			assert.Equal(t, tt.msg, he.Message)
		})
	}
}

func TestPaymentUsecase_OrderNotFound(t *testing.T) {
	orders := new(OrderRepoMock)
	orders.On("FindByID", mock.Anything, "missing").Return(model.Order{}, repo.ErrNotFound)
	uc := usecase.NewPaymentUsecase(orders, new(OrderItemRepoMock), new(GatewayMock))

	_, err := uc.CompletePayment(context.Background(), validPayment("missing"))
	require.Error(t, err)
	he, _ := usecase.AsHTTPError(err)
	assert.Equal(t, 404, he.Status)
}

func TestPaymentUsecase_CODOrderRejected(t *testing.T) {
	o := onlineOrder("o1")
	o.PaymentMethod = model.PaymentMethodCOD

	orders := new(OrderRepoMock)
	orders.On("FindByID", mock.Anything, "o1").Return(o, nil)
	uc := usecase.NewPaymentUsecase(orders, new(OrderItemRepoMock), new(GatewayMock))

	_, err := uc.CompletePayment(context.Background(), validPayment("o1"))
	require.Error(t, err)
	he, _ := usecase.AsHTTPError(err)
	assert.Equal(t, 400, he.Status)

	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentUsecase_AlreadyPaid(t *testing.T) {
	o := onlineOrder("o1")
	o.Status = model.OrderStatusPaid

	orders := new(OrderRepoMock)
	orders.On("FindByID", mock.Anything, "o1").Return(o, nil)
	uc := usecase.NewPaymentUsecase(orders, new(OrderItemRepoMock), new(GatewayMock))

	_, err := uc.CompletePayment(context.Background(), validPayment("o1"))
	require.Error(t, err)
	he, _ := usecase.AsHTTPError(err)
	//二重決済は409
	assert.Equal(t, 409, he.Status)
}

// 領収メール失敗でもPAIDは維持、warningだけ付く
func TestPaymentUsecase_ReceiptEmailFailure(t *testing.T) {
	orders := new(OrderRepoMock)
	items := new(OrderItemRepoMock)
	gateway := new(GatewayMock)
	uc := usecase.NewPaymentUsecase(orders, items, gateway)

	orders.On("FindByID", mock.Anything, "o1").Return(onlineOrder("o1"), nil)
	items.On("ListByOrderID", mock.Anything, "o1").Return([]model.OrderItem{}, nil)
	orders.On("UpdateStatus", mock.Anything, "o1", model.OrderStatusPaid).Return(nil)
	gateway.On("SendPaymentReceipt", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	out, err := uc.CompletePayment(context.Background(), validPayment("o1"))
	require.NoError(t, err)
	assert.Equal(t, string(model.OrderStatusPaid), out.Status)
	assert.NotEmpty(t, out.Warning)

	orders.AssertExpectations(t)
}
