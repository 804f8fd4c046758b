package protocol

import (
	"context"

	"defi-reader-sol/internal/types"
)

// Provider 是各协议统一的查询能力：列出全部、按地址查询、以及对应的派生视图（wrapper）。
// R 为协议记录类型，W 为 wrapper 类型
type Provider[R any, W any] interface {
	GetAll(ctx context.Context, page *Page) ([]R, error)
	Get(ctx context.Context, id types.Pubkey) (R, error)
	GetAllWrappers(ctx context.Context, page *Page) ([]W, error)
	GetWrapper(ctx context.Context, id types.Pubkey) (W, error)
}
