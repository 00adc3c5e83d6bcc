package repository

import (
	"context"
	"errors"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 商品カタログの保存・取得だけを約束。
// 在庫の減算はInventoryRepository（Tx内のみ）。
type ProductRepository interface {
	List(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id string) (model.Product, error)
	// 注文確定中に他の注文が同じ行を読めないようロックして取得
	FindByIDForUpdate(ctx context.Context, id string) (model.Product, error)
	Create(ctx context.Context, p model.Product) (model.Product, error)
}
