package types

// TokenPrice 表示 token 列表中的一条价格记录（来自链下 API）
type TokenPrice struct {
	Mint      Pubkey
	Symbol    string
	PriceUsd  float64
	Decimals  uint8
	Timestamp int64 // 价格采样时间（秒），0 表示未知
}
