package handler

import (
	"net/http"

	"yallashop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /paymentのHTTP
type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

// DI
func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

type PaymentRequest struct {
	OrderID    string `json:"orderId"`
	CardNumber string `json:"cardNumber"`
	CardHolder string `json:"cardHolder"`
	Expiry     string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/payment", h.completePayment)
}

func (h *PaymentHandler) completePayment(c echo.Context) error {
	var req PaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CompletePayment(c.Request().Context(), usecase.PaymentInput{
		OrderID:    req.OrderID,
		CardNumber: req.CardNumber,
		CardHolder: req.CardHolder,
		Expiry:     req.Expiry,
		CVV:        req.CVV,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
