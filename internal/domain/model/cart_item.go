package model

// セッションのカート明細（DBには保存しない）
// 同じproductIdは数量を加算する。価格は持たない。
type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}
