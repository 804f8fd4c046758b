package types

// AccountUpdate 账户流中的一次账户变更
type AccountUpdate struct {
	Slot      uint64
	Address   Pubkey
	Owner     Pubkey
	Data      []byte
	IsStartup bool // 订阅建立时推送的初始快照
}
