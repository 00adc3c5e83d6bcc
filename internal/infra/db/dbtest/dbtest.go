// Package dbtest はテスト用のインメモリSQLiteを用意する。
package dbtest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/config"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/domain/model"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/infra/db"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var seq atomic.Int64

// Open はテストごとに独立したDBを返し、終了時に閉じる。
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	gdb, err := db.Connect(config.Config{DBDriver: "sqlite", SQLitePath: dsn})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)

	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

// SeedProduct は商品を1件入れる
func SeedProduct(t testing.TB, gdb *gorm.DB, id string, price string, stock int64) model.Product {
	t.Helper()
	p := model.Product{
		ID:    id,
		Name:  "Product " + id,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
	require.NoError(t, gdb.Create(&p).Error)
	return p
}

// Stock は現在の在庫を読む
func Stock(t testing.TB, gdb *gorm.DB, id string) int64 {
	t.Helper()
	var p model.Product
	require.NoError(t, gdb.Where("id = ?", id).First(&p).Error)
	return p.Stock
}

func CountOrders(t testing.TB, gdb *gorm.DB) (orders int64, items int64) {
	t.Helper()
	require.NoError(t, gdb.Model(&model.Order{}).Count(&orders).Error)
	require.NoError(t, gdb.Model(&model.OrderItem{}).Count(&items).Error)
	return orders, items
}
