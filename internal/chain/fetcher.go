package chain

import (
	"context"

	"defi-reader-sol/internal/types"
)

// KeyedAccount 带地址的原始账户数据
type KeyedAccount struct {
	Address types.Pubkey
	Data    []byte
}

// Filter getProgramAccounts 过滤条件：DataSize > 0 表示精确长度过滤，
// Memcmp 非空表示在 Offset 处精确匹配字节
type Filter struct {
	DataSize uint64
	Offset   uint64
	Bytes    []byte
}

func DataSize(n int) Filter {
	return Filter{DataSize: uint64(n)}
}

func Memcmp(offset int, b []byte) Filter {
	return Filter{Offset: uint64(offset), Bytes: append([]byte(nil), b...)}
}

func (f Filter) IsMemcmp() bool {
	return len(f.Bytes) > 0
}

// AccountFetcher 是核心逻辑依赖的全部网络能力
type AccountFetcher interface {
	// ListAccounts 列出 program 拥有的、满足全部过滤条件的账户
	ListAccounts(ctx context.Context, program types.Pubkey, filters ...Filter) ([]KeyedAccount, error)
	// GetAccount 账户不存在时返回 (nil, false, nil)
	GetAccount(ctx context.Context, address types.Pubkey) ([]byte, bool, error)
	// GetAccounts 返回与输入等长的结果，不存在的位置为 nil
	GetAccounts(ctx context.Context, addresses []types.Pubkey) ([][]byte, error)
}
