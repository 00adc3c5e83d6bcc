package repository

import (
	"context"
	"errors"
	"math"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/domain/model"
)

// 加算するとint64を超える数量
var ErrCartQuantityOverflow = errors.New("cart quantity overflow")

// セッションID単位のカート。
// handlerへ注入して使う（グローバルには持たない）。
type CartStore interface {
	// 空なら空スライス
	Get(ctx context.Context, sessionID string) ([]model.CartItem, error)
	// 同一商品は数量を加算し、追加後のカートを返す
	// 加算があふれる場合は ErrCartQuantityOverflow（カートは変更しない）
	Add(ctx context.Context, sessionID string, productID string, qty int64) ([]model.CartItem, error)
	Clear(ctx context.Context, sessionID string) error
}

// 同じproductIDがあれば加算、無ければ末尾に追加
func MergeCartItem(items []model.CartItem, productID string, qty int64) ([]model.CartItem, error) {
	for i := range items {
		if items[i].ProductID == productID {
			if qty > 0 && items[i].Quantity > math.MaxInt64-qty {
				return items, ErrCartQuantityOverflow
			}
			items[i].Quantity += qty
			return items, nil
		}
	}
	return append(items, model.CartItem{ProductID: productID, Quantity: qty}), nil
}
