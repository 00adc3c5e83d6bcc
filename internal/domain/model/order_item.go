package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 価格と商品名は購入時点のスナップショット
type OrderItem struct {
	ID                  int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID             int64           `gorm:"not null;index" json:"order_id"`
	ProductID           string          `gorm:"type:varchar(64);not null;index" json:"product_id"`
	ProductNameSnapshot string          `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity            int64           `gorm:"not null" json:"quantity"`
	Price               decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	CreatedAt           time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (it OrderItem) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(it.Quantity))
}
