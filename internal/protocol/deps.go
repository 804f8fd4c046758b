package protocol

import (
	"context"
	"errors"

	"defi-reader-sol/internal/chain"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"
)

// Deps 协议聚合逻辑依赖的外部协作者，由调用方显式注入
type Deps struct {
	Fetcher chain.AccountFetcher
	Pool    pond.Pool   // 可选：为空时顺序执行
	Logger  *zap.Logger // 可选：为空时不输出
}

func (d Deps) Log() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// Parallel 并发执行相互独立的网络抓取，全部完成后返回第一个错误。
// task 内部不能再调用 Parallel（共享 worker 池，嵌套等待会占满 worker）
func (d Deps) Parallel(ctx context.Context, tasks ...func(ctx context.Context) error) error {
	errs := make([]error, len(tasks))
	if d.Pool == nil || len(tasks) < 2 {
		for i, task := range tasks {
			if err := ctx.Err(); err != nil {
				return err
			}
			errs[i] = task(ctx)
			if errs[i] != nil {
				return errs[i]
			}
		}
		return nil
	}

	group := d.Pool.NewGroupContext(ctx)
	groupCtx := group.Context()
	for i, task := range tasks {
		group.Submit(func() {
			if err := groupCtx.Err(); err != nil {
				errs[i] = err
				return
			}
			errs[i] = task(groupCtx)
		})
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pond.ErrGroupStopped) {
		d.Log().Warn("parallel fetch encountered error", zap.Error(err))
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
