package usecase

import (
	"context"
	"errors"
	"math"
	"net/http"

	"github.com/labstack/gommon/log"

	"yallashop/internal/domain/model"
	repo "yallashop/internal/repository"
)

// CartUsecase はカートの業務ロジックです。
// カートはセッション単位で1つ。変更のたびにスナップショット全体を保存します。
type CartUsecase struct {
	cartRepo    repo.CartSnapshotRepository
	productRepo repo.ProductRepository
}

func NewCartUsecase(
	cartRepo repo.CartSnapshotRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

type CartResponse struct {
	Items []model.CartItem `json:"items"`
	Total float64          `json:"total"`
	// 数量を1未満にしようとした等の、エラーではない注意書き
	Warning string `json:"warning,omitempty"`
}

// GetCart はカート取得。スナップショットが無い/壊れている場合は空カート。
func (u *CartUsecase) GetCart(ctx context.Context, sessionID string) (CartResponse, error) {
	if sessionID == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "missing session")
	}

	items, err := u.loadItems(ctx, sessionID)
	if err != nil {
		return CartResponse{}, err
	}

	return buildCartResponse(items, ""), nil
}

// AddToCart はカートに追加（同一商品は数量+1、新規はquantity=1で追記）。
func (u *CartUsecase) AddToCart(ctx context.Context, sessionID string, productID string) (CartResponse, error) {
	if sessionID == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "missing session")
	}
	if productID == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	// 商品チェック（公開のみ）
	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid")
	}

	items, err := u.loadItems(ctx, sessionID)
	if err != nil {
		return CartResponse{}, err
	}

	found := false
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		items = append(items, model.CartItem{
			ProductID:    p.ID,
			ProductName:  p.Name,
			ProductPrice: p.Price,
			Quantity:     1,
			Images:       p.Images,
		})
	}

	if err := u.cartRepo.Save(ctx, sessionID, items); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "failed to add product to cart")
	}

	return buildCartResponse(items, ""), nil
}

// UpdateQuantity は数量の増減。結果が1未満になる場合はデータを変えず、
// warningだけを返す。該当IDが無い場合もデータは変えない。
func (u *CartUsecase) UpdateQuantity(ctx context.Context, sessionID string, productID string, delta int64) (CartResponse, error) {
	if sessionID == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "missing session")
	}
	if productID == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if delta == 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid delta")
	}

	items, err := u.loadItems(ctx, sessionID)
	if err != nil {
		return CartResponse{}, err
	}

	warning := ""
	for i := range items {
		if items[i].ProductID != productID {
			continue
		}

		newQty := items[i].Quantity + delta
		if newQty < 1 {
			warning = "Quantity cannot be less than 1"
			break
		}

		items[i].Quantity = newQty
		break
	}

	if err := u.cartRepo.Save(ctx, sessionID, items); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "failed to update cart")
	}

	return buildCartResponse(items, warning), nil
}

// RemoveFromCart は明細削除。無いIDなら何もしない。
func (u *CartUsecase) RemoveFromCart(ctx context.Context, sessionID string, productID string) (CartResponse, error) {
	if sessionID == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "missing session")
	}
	if productID == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	items, err := u.loadItems(ctx, sessionID)
	if err != nil {
		return CartResponse{}, err
	}

	kept := make([]model.CartItem, 0, len(items))
	for _, it := range items {
		if it.ProductID == productID {
			continue
		}
		kept = append(kept, it)
	}

	if err := u.cartRepo.Save(ctx, sessionID, kept); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "failed to remove item from cart")
	}

	return buildCartResponse(kept, ""), nil
}

// Clear はカートを空にしてスナップショットも消す（注文確定後に呼ぶ）。
func (u *CartUsecase) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return NewHTTPError(http.StatusBadRequest, "missing session")
	}

	if err := u.cartRepo.Delete(ctx, sessionID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "failed to clear cart")
	}
	return nil
}

// 壊れたスナップショットは空カート扱い（致命にしない）。
func (u *CartUsecase) loadItems(ctx context.Context, sessionID string) ([]model.CartItem, error) {
	items, err := u.cartRepo.Load(ctx, sessionID)
	if errors.Is(err, repo.ErrCorruptSnapshot) {
		log.Warnf("cart snapshot corrupt, treating as empty: session=%s", sessionID)
		return []model.CartItem{}, nil
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "failed to fetch cart data")
	}
	return items, nil
}

func buildCartResponse(items []model.CartItem, warning string) CartResponse {
	return CartResponse{
		Items:   items,
		Total:   cartTotal(items),
		Warning: warning,
	}
}

// 合計金額（price*quantityの総和、小数2桁丸め）
func cartTotal(items []model.CartItem) float64 {
	var total float64
	for _, it := range items {
		total += it.ProductPrice * float64(it.Quantity)
	}
	return round2(total)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
