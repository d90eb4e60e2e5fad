package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"yallashop/internal/config"
	"yallashop/internal/handler"
)

func RegisterRoutes(
	e *echo.Echo,
	cfg config.Config,
	productH *handler.ProductHandler,
	cartH *handler.CartHandler,
	checkoutH *handler.CheckoutHandler,
	paymentH *handler.PaymentHandler,
	orderH *handler.OrderHandler,
	adminProductH *handler.AdminProductHandler,
) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	productH.RegisterRoutes(e)
	cartH.RegisterRoutes(e)
	checkoutH.RegisterRoutes(e, cfg)
	paymentH.RegisterRoutes(e)
	orderH.RegisterRoutes(e, cfg)
	adminProductH.RegisterRoutes(e, cfg)
}
