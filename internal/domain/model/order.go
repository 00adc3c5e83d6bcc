package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文ヘッダ。作成後は変更しない。
type Order struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64           `gorm:"not null;index" json:"user_id"`
	Total     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	Shipping  Blob            `gorm:"column:shipping;type:text;serializer:json" json:"shippingAddress"`
	Payment   Blob            `gorm:"column:payment;type:text;serializer:json" json:"payment"`
	CreatedAt time.Time       `gorm:"not null;index" json:"created_at"`
}
