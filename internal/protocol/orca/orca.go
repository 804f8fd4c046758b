// Package orca 读取 Orca token-swap 池、aquafarm 以及用户 farmer 账户
package orca

import (
	"defi-reader-sol/internal/consts"
	"defi-reader-sol/internal/protocol"
	"defi-reader-sol/internal/types"

	"go.uber.org/zap"
)

type Config struct {
	PoolProgram types.Pubkey // 为空时使用主网地址
	FarmProgram types.Pubkey

	// DropEmptyPools 为 true 时 GetAll 丢弃 LP 供应量为 0 的池
	DropEmptyPools bool

	Prices PriceSource // 可选：为空时 farm 不带价格，APR 为 0
	Stats  StatsSource // 可选：为空时池 APR 为 0
}

type Orca struct {
	deps           protocol.Deps
	poolProgram    types.Pubkey
	farmProgram    types.Pubkey
	dropEmptyPools bool
	prices         PriceSource
	stats          StatsSource
}

func New(deps protocol.Deps, cfg Config) *Orca {
	o := &Orca{
		deps:           deps,
		poolProgram:    cfg.PoolProgram,
		farmProgram:    cfg.FarmProgram,
		dropEmptyPools: cfg.DropEmptyPools,
		prices:         cfg.Prices,
		stats:          cfg.Stats,
	}
	if o.poolProgram.IsZero() {
		o.poolProgram = consts.OrcaPoolProgram
	}
	if o.farmProgram.IsZero() {
		o.farmProgram = consts.OrcaFarmProgram
	}
	return o
}

func (o *Orca) log() *zap.Logger {
	return o.deps.Log().With(zap.String("protocol", "orca"))
}

// Pools 池的统一查询视图
func (o *Orca) Pools() *Pools {
	return &Pools{o: o}
}

// Farms farm 的统一查询视图
func (o *Orca) Farms() *Farms {
	return &Farms{o: o}
}
