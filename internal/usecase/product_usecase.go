package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"yallashop/internal/domain/model"
	repo "yallashop/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// IDGenerator は採番（uuid）を差し替え可能にする。
type IDGenerator interface {
	NewID() string
}

type ProductUsecase struct {
	productRepo repo.ProductRepository
	likeRepo    repo.LikeRepository
	idGen       IDGenerator
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	likeRepo repo.LikeRepository,
	idGen IDGenerator,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo: productRepo,
		likeRepo:    likeRepo,
		idGen:       idGen,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page     int
	Limit    int
	Q        string
	Category string
	MinPrice *float64
	MaxPrice *float64
	Sort     string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	if in.MinPrice != nil && *in.MinPrice < 0 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be >= 0")
	}
	if in.MaxPrice != nil && *in.MaxPrice < 0 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be <= max_price")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc":
	default:
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	items, total, err := u.productRepo.ListPublic(ctx, repo.ProductListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        strings.TrimSpace(in.Q),
		Category: strings.TrimSpace(in.Category),
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
		Sort:     in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID string) (model.Product, error) {
	if productID == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	return p, nil
}

// likesの多い順に上位limit件（デフォルト10）。
func (u *ProductUsecase) ListMostLiked(ctx context.Context, limit int) ([]model.Product, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}

	items, err := u.productRepo.ListMostLiked(ctx, limit)
	if err != nil {
		return []model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

type ToggleLikeOutput struct {
	ProductID string `json:"id"`
	Liked     bool   `json:"liked"`
	Likes     int64  `json:"likes"`
}

// いいねのトグル。いいね済みなら解除（カウント-1）、未いいねなら付与（カウント+1）。
// 付与/解除といいね済み集合の更新は常に一か所で行う。
func (u *ProductUsecase) ToggleLike(ctx context.Context, sessionID string, productID string) (ToggleLikeOutput, error) {
	if sessionID == "" {
		return ToggleLikeOutput{}, NewHTTPError(http.StatusBadRequest, "missing session")
	}
	if productID == "" {
		return ToggleLikeOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	//商品チェック（公開のみ）
	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return ToggleLikeOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ToggleLikeOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return ToggleLikeOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	liked, err := u.likeRepo.IsLiked(ctx, sessionID, productID)
	if err != nil {
		return ToggleLikeOutput{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}

	if liked {
		if err := u.likeRepo.Remove(ctx, sessionID, productID); err != nil {
			return ToggleLikeOutput{}, NewHTTPError(http.StatusInternalServerError, "store error")
		}
		if err := u.productRepo.AddLikes(ctx, productID, -1); err != nil {
			return ToggleLikeOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	} else {
		if err := u.likeRepo.Add(ctx, sessionID, productID); err != nil {
			return ToggleLikeOutput{}, NewHTTPError(http.StatusInternalServerError, "store error")
		}
		if err := u.productRepo.AddLikes(ctx, productID, 1); err != nil {
			return ToggleLikeOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	//最新のカウントを返す
	p, err = u.productRepo.FindByID(ctx, productID)
	if err != nil {
		return ToggleLikeOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ToggleLikeOutput{
		ProductID: productID,
		Liked:     !liked,
		Likes:     p.Likes,
	}, nil
}

// 管理者の商品作成入力
type CreateProductInput struct {
	Name        string
	Description string
	Category    string
	Price       float64
	Images      []string
	IsActive    bool
}

func (u *ProductUsecase) CreateProduct(ctx context.Context, in CreateProductInput) (model.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 255 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}
	if in.Price < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		ID:          u.idGen.NewID(),
		Name:        name,
		Description: in.Description,
		Category:    strings.TrimSpace(in.Category),
		Price:       in.Price,
		Images:      in.Images,
		IsActive:    in.IsActive,
	})
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return p, nil
}

func (u *ProductUsecase) UpdateProduct(ctx context.Context, productID string, in CreateProductInput) error {
	if productID == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 255 {
		return NewHTTPError(http.StatusBadRequest, "invalid name")
	}
	if in.Price < 0 {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}

	err := u.productRepo.Update(ctx, model.Product{
		ID:          productID,
		Name:        name,
		Description: in.Description,
		Category:    strings.TrimSpace(in.Category),
		Price:       in.Price,
		Images:      in.Images,
		IsActive:    in.IsActive,
	})
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}

func (u *ProductUsecase) DeleteProduct(ctx context.Context, productID string) error {
	if productID == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	err := u.productRepo.SoftDelete(ctx, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}
