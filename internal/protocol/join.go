package protocol

import (
	"fmt"

	"defi-reader-sol/internal/chain"
	"defi-reader-sol/internal/types"

	"go.uber.org/zap"
)

// DecodeAll 按顺序解码列表结果，解码失败的账户记录日志后跳过
func DecodeAll[T any](accounts []chain.KeyedAccount, parse func(data []byte, address types.Pubkey) (T, error), log *zap.Logger, kind string) []T {
	out := make([]T, 0, len(accounts))
	for _, acc := range accounts {
		rec, err := parse(acc.Data, acc.Address)
		if err != nil {
			if log != nil {
				log.Warn("skip undecodable account",
					zap.String("kind", kind),
					zap.String("address", acc.Address.String()),
					zap.Error(err),
				)
			}
			continue
		}
		out = append(out, rec)
	}
	return out
}

// DecodeSet 把一类卫星账户解码为 地址 -> 记录 的查找表
func DecodeSet[T any](accounts []chain.KeyedAccount, parse func(data []byte, address types.Pubkey) (T, error), log *zap.Logger, kind string) map[types.Pubkey]T {
	set := make(map[types.Pubkey]T, len(accounts))
	for _, acc := range accounts {
		rec, err := parse(acc.Data, acc.Address)
		if err != nil {
			if log != nil {
				log.Warn("skip undecodable account",
					zap.String("kind", kind),
					zap.String("address", acc.Address.String()),
					zap.Error(err),
				)
			}
			continue
		}
		set[acc.Address] = rec
	}
	return set
}

// JoinRounds 对 1..count（含）的每个编号推导卫星地址，
// 在 lookup 中存在的按编号升序追加；缺失的编号直接跳过，不视为错误
func JoinRounds[T any](count uint64, derive func(n uint64) (types.Pubkey, error), lookup map[types.Pubkey]T) ([]T, error) {
	out := make([]T, 0)
	if len(lookup) == 0 {
		return out, nil
	}
	for n := uint64(1); n <= count; n++ {
		addr, err := derive(n)
		if err != nil {
			return nil, fmt.Errorf("derive round %d: %w", n, err)
		}
		if rec, ok := lookup[addr]; ok {
			out = append(out, rec)
		}
		if n == ^uint64(0) {
			break
		}
	}
	return out, nil
}

// Attach 在 lookup 中查找固定用途的卫星账户，不存在时返回 (零值, false)
func Attach[T any](derive func() (types.Pubkey, error), lookup map[types.Pubkey]T) (T, bool, error) {
	var zero T
	addr, err := derive()
	if err != nil {
		return zero, false, err
	}
	rec, ok := lookup[addr]
	return rec, ok, nil
}
