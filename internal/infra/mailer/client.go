package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"yallashop/internal/usecase"
)

// メール送信サービスのHTTPクライアント。
// 外部サービスなのでサーキットブレーカー越しに呼ぶ。
// 送信結果は呼び出し元でベストエフォート扱いされる。
type Client struct {
	baseURL string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[struct{}]
}

func NewClient(baseURL string) *Client {
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:    "mailer",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		cb:      cb,
	}
}

// 代引き確定時の確認メール
func (c *Client) SendOrderConfirmation(ctx context.Context, msg usecase.OrderConfirmation) error {
	return c.post(ctx, "/send-confirmation-email", msg)
}

// オンライン決済完了メール
func (c *Client) SendPaymentReceipt(ctx context.Context, msg usecase.PaymentReceipt) error {
	return c.post(ctx, "/send-email", msg)
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal mail request failed: %w", err)
	}

	_, err = c.cb.Execute(func() (struct{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
		if err != nil {
			return struct{}{}, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return struct{}{}, err
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)

		if resp.StatusCode >= 300 {
			return struct{}{}, fmt.Errorf("mailer returned %d", resp.StatusCode)
		}
		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("send %s failed: %w", path, err)
	}
	return nil
}
