package repository

import "context"

// TxRepos経由でのみ取得できる（注文確定のトランザクション内だけで使う）
type InventoryRepository interface {
	// 在庫が足りるときだけ減算
	DecreaseStockIfEnough(ctx context.Context, productID string, qty int64) (bool, error)
}
