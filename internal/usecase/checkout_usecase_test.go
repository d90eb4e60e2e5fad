package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"yallashop/internal/domain/model"
	repo "yallashop/internal/repository"
	"yallashop/internal/usecase"
	"yallashop/internal/validator"
)

// =====================
// Mocks / Fakes
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID string, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type txReposFake struct {
	orders     *OrderRepoMock
	orderItems *OrderItemRepoMock
}

func (r *txReposFake) Orders() repo.OrderRepository         { return r.orders }
func (r *txReposFake) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *txReposFake) Products() repo.ProductRepository     { return new(CartProductRepoMock) }

type txManagerFake struct {
	repos repo.TxRepos
	err   error
}

func (m *txManagerFake) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	if m.err != nil {
		return m.err
	}
	return fn(m.repos)
}

type mirrorFake struct {
	userID  string
	orderID string
	writes  int
	err     error
}

func (m *mirrorFake) Write(ctx context.Context, userID string, orderID string, doc any) error {
	if m.err != nil {
		return m.err
	}
	m.userID = userID
	m.orderID = orderID
	m.writes++
	return nil
}

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) SendOrderConfirmation(ctx context.Context, msg usecase.OrderConfirmation) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *GatewayMock) SendPaymentReceipt(ctx context.Context, msg usecase.PaymentReceipt) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type fixedIDGen struct{ id string }

func (g *fixedIDGen) NewID() string { return g.id }

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

// =====================
// Helpers
// =====================

func validForm() usecase.CheckoutForm {
	return usecase.CheckoutForm{
		FirstName:  "Sami",
		LastName:   "Trabelsi",
		Email:      "sami@example.com",
		Phone:      "0123456789",
		Address:    "5 Rue de la Mer",
		City:       "Tunis",
		PostalCode: "10115",
	}
}

type checkoutDeps struct {
	orders  *OrderRepoMock
	items   *OrderItemRepoMock
	cart    *memCartRepo
	mirror  *mirrorFake
	gateway *GatewayMock
	uc      *usecase.CheckoutUsecase
}

func newCheckoutDeps(t *testing.T) *checkoutDeps {
	t.Helper()

	orders := new(OrderRepoMock)
	items := new(OrderItemRepoMock)
	cart := newMemCartRepo()
	mirror := &mirrorFake{}
	gateway := new(GatewayMock)

	tx := &txManagerFake{repos: &txReposFake{orders: orders, orderItems: items}}

	uc := usecase.NewCheckoutUsecase(
		tx,
		cart,
		mirror,
		gateway,
		validator.NewCheckoutValidator(),
		&fixedIDGen{id: "order-1"},
		&fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	)

	return &checkoutDeps{orders: orders, items: items, cart: cart, mirror: mirror, gateway: gateway, uc: uc}
}

func seedCart(d *checkoutDeps) {
	d.cart.snapshots["s1"] = []model.CartItem{
		{ProductID: "A", ProductName: "Mask", ProductPrice: 10, Quantity: 2},
		{ProductID: "B", ProductName: "Snorkel", ProductPrice: 5, Quantity: 1},
	}
}

// =====================
// Validation
// =====================

func TestCheckoutUsecase_MissingFieldsAborted(t *testing.T) {
	d := newCheckoutDeps(t)
	seedCart(d)

	form := validForm()
	form.City = ""
	form.PostalCode = ""

	_, err := d.uc.PlaceOrder(context.Background(), "s1", "", usecase.CheckoutInput{
		Form:          form,
		PaymentMethod: model.PaymentMethodCOD,
	})
	require.Error(t, err)

	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, 400, he.Status)
	//不足項目はまとめて報告される
	assert.Contains(t, he.Message, "city")
	assert.Contains(t, he.Message, "postalCode")

	//部分的な注文は作られない
	d.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Equal(t, 0, d.mirror.writes)
}

func TestCheckoutUsecase_InvalidEmail(t *testing.T) {
	d := newCheckoutDeps(t)
	seedCart(d)

	form := validForm()
	form.Email = "not-an-email"

	_, err := d.uc.PlaceOrder(context.Background(), "s1", "", usecase.CheckoutInput{
		Form:          form,
		PaymentMethod: model.PaymentMethodCOD,
	})
	require.Error(t, err)

	he, _ := usecase.AsHTTPError(err)
	assert.Equal(t, "Invalid email address", he.Message)
	d.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_InvalidPaymentMethod(t *testing.T) {
	d := newCheckoutDeps(t)
	seedCart(d)

	_, err := d.uc.PlaceOrder(context.Background(), "s1", "", usecase.CheckoutInput{
		Form:          validForm(),
		PaymentMethod: "bitcoin",
	})
	require.Error(t, err)
}

func TestCheckoutUsecase_EmptyCart(t *testing.T) {
	d := newCheckoutDeps(t)

	_, err := d.uc.PlaceOrder(context.Background(), "s1", "", usecase.CheckoutInput{
		Form:          validForm(),
		PaymentMethod: model.PaymentMethodCOD,
	})
	require.Error(t, err)

	he, _ := usecase.AsHTTPError(err)
	assert.Equal(t, "cart empty", he.Message)
}

// =====================
// Happy paths
// =====================

func TestCheckoutUsecase_CODSuccess(t *testing.T) {
	d := newCheckoutDeps(t)
	seedCart(d)

	d.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.ID == "order-1" &&
			o.TotalAmount == 25.0 &&
			o.Status == model.OrderStatusPending &&
			o.PaymentMethod == model.PaymentMethodCOD &&
			o.City == "Tunis"
	})).Return(nil)

	d.items.On("CreateBulk", mock.Anything, "order-1", mock.MatchedBy(func(items []model.OrderItem) bool {
		//価格は明細に落とさない（id/名前/数量のみ）
		return len(items) == 2 &&
			items[0].ProductID == "A" && items[0].ProductNameSnapshot == "Mask" && items[0].Quantity == 2 &&
			items[1].ProductID == "B" && items[1].Quantity == 1
	})).Return(nil)

	d.gateway.On("SendOrderConfirmation", mock.Anything, mock.MatchedBy(func(msg usecase.OrderConfirmation) bool {
		return msg.To == "sami@example.com" && msg.OrderID == "order-1" && msg.TotalAmount == 25.0
	})).Return(nil)

	out, err := d.uc.PlaceOrder(context.Background(), "s1", "user-9", usecase.CheckoutInput{
		Form:          validForm(),
		PaymentMethod: model.PaymentMethodCOD,
	})
	require.NoError(t, err)

	assert.Equal(t, "order-1", out.OrderID)
	assert.Equal(t, 25.0, out.TotalAmount)
	assert.Contains(t, out.Message, "order-1")
	assert.Empty(t, out.Warning)

	//主ストア確定後、カートは消えている
	_, ok := d.cart.snapshots["s1"]
	assert.False(t, ok, "cart snapshot should be deleted")

	//ミラーにも書かれている
	assert.Equal(t, 1, d.mirror.writes)
	assert.Equal(t, "user-9", d.mirror.userID)
	assert.Equal(t, "order-1", d.mirror.orderID)

	d.orders.AssertExpectations(t)
	d.items.AssertExpectations(t)
	d.gateway.AssertExpectations(t)
}

func TestCheckoutUsecase_OnlineClearsCartAndSkipsEmail(t *testing.T) {
	d := newCheckoutDeps(t)
	seedCart(d)

	d.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	d.items.On("CreateBulk", mock.Anything, "order-1", mock.Anything).Return(nil)

	out, err := d.uc.PlaceOrder(context.Background(), "s1", "", usecase.CheckoutInput{
		Form:          validForm(),
		PaymentMethod: model.PaymentMethodOnline,
	})
	require.NoError(t, err)

	assert.Equal(t, model.PaymentMethodOnline, out.PaymentMethod)
	assert.Equal(t, "order-1", out.OrderID)

	//オンラインでも注文確定と同時にカートを空にする
	_, ok := d.cart.snapshots["s1"]
	assert.False(t, ok)

	//確認メールは代引きのみ
	d.gateway.AssertNotCalled(t, "SendOrderConfirmation", mock.Anything, mock.Anything)
}

// =====================
// Failure policies
// =====================

func TestCheckoutUsecase_StoreWriteFails(t *testing.T) {
	d := newCheckoutDeps(t)
	seedCart(d)

	d.orders.On("Create", mock.Anything, mock.Anything).Return(errors.New("pg down"))

	_, err := d.uc.PlaceOrder(context.Background(), "s1", "", usecase.CheckoutInput{
		Form:          validForm(),
		PaymentMethod: model.PaymentMethodCOD,
	})
	require.Error(t, err)

	he, _ := usecase.AsHTTPError(err)
	assert.Equal(t, 500, he.Status)
	assert.Equal(t, "failed to place order", he.Message)

	//失敗時はカートを消さない
	_, ok := d.cart.snapshots["s1"]
	assert.True(t, ok)
	assert.Equal(t, 0, d.mirror.writes)
}

// ミラー書き込み失敗は注文を巻き戻さない
func TestCheckoutUsecase_MirrorFailureIsBestEffort(t *testing.T) {
	d := newCheckoutDeps(t)
	seedCart(d)
	d.mirror.err = errors.New("redis down")

	d.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	d.items.On("CreateBulk", mock.Anything, "order-1", mock.Anything).Return(nil)
	d.gateway.On("SendOrderConfirmation", mock.Anything, mock.Anything).Return(nil)

	out, err := d.uc.PlaceOrder(context.Background(), "s1", "", usecase.CheckoutInput{
		Form:          validForm(),
		PaymentMethod: model.PaymentMethodCOD,
	})
	require.NoError(t, err)
	assert.Equal(t, "order-1", out.OrderID)
}

// メール失敗でも注文は成立、warningだけ付く
func TestCheckoutUsecase_ConfirmationEmailFailure(t *testing.T) {
	d := newCheckoutDeps(t)
	seedCart(d)

	d.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	d.items.On("CreateBulk", mock.Anything, "order-1", mock.Anything).Return(nil)
	d.gateway.On("SendOrderConfirmation", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	out, err := d.uc.PlaceOrder(context.Background(), "s1", "", usecase.CheckoutInput{
		Form:          validForm(),
		PaymentMethod: model.PaymentMethodCOD,
	})
	require.NoError(t, err)

	assert.Equal(t, "order-1", out.OrderID)
	assert.NotEmpty(t, out.Warning)
}
