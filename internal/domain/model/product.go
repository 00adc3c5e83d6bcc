package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// stockを変更できるのは注文確定（OrderUsecase）だけ
type Product struct {
	ID          string          `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Stock       int64           `gorm:"not null" json:"stock"`
	Image       *string         `gorm:"type:varchar(512)" json:"image"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
