package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/domain/model"
	repo "github.com/FariidCabrera/marketplace-itpuebla1/internal/repository"
)

// CartUsecase は /api/cart の業務ロジック。
// カートはセッションID単位でCartStoreに置く（価格は持たない）。
type CartUsecase struct {
	carts    repo.CartStore
	products repo.ProductRepository
}

func NewCartUsecase(carts repo.CartStore, products repo.ProductRepository) *CartUsecase {
	return &CartUsecase{carts: carts, products: products}
}

// Quantityがnilなら1
type AddCartInput struct {
	ProductID string
	Quantity  *int64
}

func (u *CartUsecase) GetCart(ctx context.Context, sessionID string) ([]model.CartItem, error) {
	if sessionID == "" {
		return []model.CartItem{}, NewHTTPError(http.StatusBadRequest, "missing cart session")
	}
	items, err := u.carts.Get(ctx, sessionID)
	if err != nil {
		return []model.CartItem{}, storageError(err)
	}
	return items, nil
}

// AddToCart はカートに追加（同一商品は数量加算）。
func (u *CartUsecase) AddToCart(ctx context.Context, sessionID string, in AddCartInput) ([]model.CartItem, error) {
	if sessionID == "" {
		return []model.CartItem{}, NewHTTPError(http.StatusBadRequest, "missing cart session")
	}
	pid := strings.TrimSpace(in.ProductID)
	if pid == "" {
		return []model.CartItem{}, validationError("invalid productId")
	}
	qty := int64(1)
	if in.Quantity != nil {
		qty = *in.Quantity
	}
	if qty < 1 {
		return []model.CartItem{}, validationError("invalid quantity")
	}

	//存在しない商品はカートに入れない
	if _, err := u.products.FindByID(ctx, pid); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return []model.CartItem{}, notFound("product not found: " + pid)
		}
		return []model.CartItem{}, storageError(err)
	}

	items, err := u.carts.Add(ctx, sessionID, pid, qty)
	if errors.Is(err, repo.ErrCartQuantityOverflow) {
		return []model.CartItem{}, validationError("invalid quantity")
	}
	if err != nil {
		return []model.CartItem{}, storageError(err)
	}
	return items, nil
}

func (u *CartUsecase) ClearCart(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := u.carts.Clear(ctx, sessionID); err != nil {
		return storageError(err)
	}
	return nil
}
