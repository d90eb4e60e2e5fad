package model

// カートの明細。DBのテーブルではなく、Redisのスナップショット
// （JSON配列）の1要素として保存します。
// 同じ商品IDの明細は常に1件（追加は数量加算）。
type CartItem struct {
	ProductID    string   `json:"id"`
	ProductName  string   `json:"productName"`
	ProductPrice float64  `json:"productPrice"`
	Quantity     int64    `json:"quantity"`
	Images       []string `json:"images,omitempty"`
}
