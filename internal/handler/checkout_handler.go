package handler

import (
	"net/http"

	"yallashop/internal/config"
	"yallashop/internal/domain/model"
	"yallashop/internal/middleware"
	"yallashop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /checkoutのHTTP
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

// DI
func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

type CheckoutRequest struct {
	usecase.CheckoutForm
	PaymentMethod string `json:"paymentMethod"`
}

// /checkout を登録。ログインは任意（ゲスト注文可）。
func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/checkout")
	g.Use(middleware.CartSession())
	g.Use(middleware.OptionalAuthJWT(cfg))

	g.POST("", h.placeOrder)
	g.POST("/validate", h.validate)
}

func (h *CheckoutHandler) placeOrder(c echo.Context) error {
	sessionID, ok := getCartSessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing session"})
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), sessionID, getUserIDFromContext(c), usecase.CheckoutInput{
		Form:          req.CheckoutForm,
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

// 入力中の逐次検証用。項目ごとの形式エラーを返す。
func (h *CheckoutHandler) validate(c echo.Context) error {
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	errs := h.uc.ValidateForm(req.CheckoutForm)
	return c.JSON(http.StatusOK, map[string]any{
		"valid":  len(errs) == 0,
		"errors": errs,
	})
}
