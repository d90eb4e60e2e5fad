package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	CtxCartSessionKey = "cart_session" // string

	cartSessionCookie = "cart_session"
)

// カートセッションのCookieを保証するミドルウェア。
// 無ければuuidを発行してCookieを配る。カートのキーはこの値。
func CartSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sessionID := ""

			if ck, err := c.Cookie(cartSessionCookie); err == nil && ck.Value != "" {
				sessionID = ck.Value
			}

			if sessionID == "" {
				sessionID = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     cartSessionCookie,
					Value:    sessionID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
					Expires:  time.Now().Add(30 * 24 * time.Hour),
				})
			}

			c.Set(CtxCartSessionKey, sessionID)
			return next(c)
		}
	}
}
