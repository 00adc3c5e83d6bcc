package repository

import (
	"context"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/domain/model"

	"gorm.io/gorm"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// 在庫が足りるときだけ減らす（stock >= qty の条件付きUPDATE）
// qty <= 0 は在庫を増やしてしまうので常に不成立
func (r *InventoryGormRepository) DecreaseStockIfEnough(ctx context.Context, productID string, qty int64) (bool, error) {
	if qty <= 0 {
		return false, nil
	}
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
