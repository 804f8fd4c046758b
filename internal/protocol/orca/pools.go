package orca

import (
	"context"
	"fmt"
	"math/big"

	"defi-reader-sol/internal/chain"
	"defi-reader-sol/internal/pda"
	"defi-reader-sol/internal/protocol"
	"defi-reader-sol/internal/protocol/spltoken"
	"defi-reader-sol/internal/stats"
	"defi-reader-sol/internal/tools"
	"defi-reader-sol/internal/types"

	"go.uber.org/zap"
)

type Pools struct {
	o *Orca
}

var _ protocol.Provider[PoolInfo, *PoolInfoWrapper] = (*Pools)(nil)

func (o *Orca) listPools(ctx context.Context, filters ...chain.Filter) ([]chain.KeyedAccount, error) {
	all := append([]chain.Filter{chain.DataSize(PoolLayout.Span())}, filters...)
	accounts, err := o.deps.Fetcher.ListAccounts(ctx, o.poolProgram, all...)
	if err != nil {
		return nil, fmt.Errorf("list orca pools: %w", err)
	}
	return accounts, nil
}

// fetchReserves 一次批量读取所有池的 [tokenAccountA, tokenAccountB, lpMint]
func (o *Orca) fetchReserves(ctx context.Context, pools []PoolInfo) ([][3][]byte, error) {
	if len(pools) == 0 {
		return nil, nil
	}
	keys := make([]types.Pubkey, 0, len(pools)*3)
	for _, p := range pools {
		keys = append(keys, p.TokenAccountA, p.TokenAccountB, p.LpMint)
	}
	datas, err := o.deps.Fetcher.GetAccounts(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch orca pool reserves: %w", err)
	}
	out := make([][3][]byte, len(pools))
	for i := range pools {
		out[i] = [3][]byte{datas[i*3], datas[i*3+1], datas[i*3+2]}
	}
	return out, nil
}

// mergeReserves 把储备、LP 供应量与精度合并进池记录
func mergeReserves(p *PoolInfo, raw [3][]byte) error {
	refs := [3]types.Pubkey{p.TokenAccountA, p.TokenAccountB, p.LpMint}
	kinds := [3]string{"token account A", "token account B", "lp mint"}
	for i, data := range raw {
		if len(data) == 0 {
			return fmt.Errorf("pool %s: %w", p.PoolID, protocol.NotFound(kinds[i], refs[i]))
		}
	}
	a, err := spltoken.ParseTokenAccount(raw[0], p.TokenAccountA)
	if err != nil {
		return fmt.Errorf("pool %s token account A: %w", p.PoolID, err)
	}
	b, err := spltoken.ParseTokenAccount(raw[1], p.TokenAccountB)
	if err != nil {
		return fmt.Errorf("pool %s token account B: %w", p.PoolID, err)
	}
	lp, err := spltoken.ParseMint(raw[2], p.LpMint)
	if err != nil {
		return fmt.Errorf("pool %s lp mint: %w", p.PoolID, err)
	}
	p.TokenSupplyA = a.Amount
	p.TokenSupplyB = b.Amount
	p.LpSupply = lp.Supply
	p.LpDecimals = lp.Decimals
	return nil
}

// loadPools 解码列表结果并合并储备；缺少关联账户的池记录日志后跳过
func (o *Orca) loadPools(ctx context.Context, accounts []chain.KeyedAccount) ([]PoolInfo, error) {
	pools := protocol.DecodeAll(accounts, ParsePool, o.log(), "pool")
	raws, err := o.fetchReserves(ctx, pools)
	if err != nil {
		return nil, err
	}
	out := make([]PoolInfo, 0, len(pools))
	for i := range pools {
		if err := mergeReserves(&pools[i], raws[i]); err != nil {
			o.log().Warn("skip pool without reserves", zap.String("pool", pools[i].PoolID.String()), zap.Error(err))
			continue
		}
		if o.dropEmptyPools && pools[i].LpSupply == 0 {
			continue
		}
		out = append(out, pools[i])
	}
	return out, nil
}

func (o *Orca) getAllPools(ctx context.Context, page *protocol.Page) ([]PoolInfo, error) {
	accounts, err := o.listPools(ctx)
	if err != nil {
		return nil, err
	}
	return o.loadPools(ctx, protocol.PaginateAccounts(accounts, page))
}

// poolsByLpMint 只列出 lpMint 等于给定 mint 的池
func (o *Orca) poolsByLpMint(ctx context.Context, lpMint types.Pubkey) ([]PoolInfo, error) {
	accounts, err := o.listPools(ctx, chain.Memcmp(PoolLayout.Offset("lpMint"), lpMint.Bytes()))
	if err != nil {
		return nil, err
	}
	return o.loadPools(ctx, accounts)
}

func (o *Orca) poolStats(ctx context.Context) map[string]stats.OrcaPoolStats {
	if o.stats == nil {
		return nil
	}
	table, err := o.stats.FetchPoolStats(ctx)
	if err != nil {
		o.log().Warn("fetch orca pool stats failed, apr unavailable", zap.Error(err))
		return nil
	}
	return table
}

func (p *Pools) GetAll(ctx context.Context, page *protocol.Page) ([]PoolInfo, error) {
	return p.o.getAllPools(ctx, page)
}

func (p *Pools) Get(ctx context.Context, poolID types.Pubkey) (PoolInfo, error) {
	data, ok, err := p.o.deps.Fetcher.GetAccount(ctx, poolID)
	if err != nil {
		return PoolInfo{}, err
	}
	if !ok {
		return PoolInfo{}, protocol.NotFound("pool", poolID)
	}
	pool, err := ParsePool(data, poolID)
	if err != nil {
		return PoolInfo{}, fmt.Errorf("parse pool %s: %w", poolID, err)
	}
	raws, err := p.o.fetchReserves(ctx, []PoolInfo{pool})
	if err != nil {
		return PoolInfo{}, err
	}
	if err := mergeReserves(&pool, raws[0]); err != nil {
		return PoolInfo{}, err
	}
	return pool, nil
}

func (p *Pools) GetAllWrappers(ctx context.Context, page *protocol.Page) ([]*PoolInfoWrapper, error) {
	var (
		pools []PoolInfo
		table map[string]stats.OrcaPoolStats
	)
	err := p.o.deps.Parallel(ctx,
		func(ctx context.Context) (err error) {
			pools, err = p.o.getAllPools(ctx, page)
			return err
		},
		func(ctx context.Context) error {
			table = p.o.poolStats(ctx)
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	out := make([]*PoolInfoWrapper, len(pools))
	for i, pool := range pools {
		out[i] = p.o.WrapPool(pool, table)
	}
	return out, nil
}

func (p *Pools) GetWrapper(ctx context.Context, poolID types.Pubkey) (*PoolInfoWrapper, error) {
	pool, err := p.Get(ctx, poolID)
	if err != nil {
		return nil, err
	}
	return p.o.WrapPool(pool, p.o.poolStats(ctx)), nil
}

// PoolInfoWrapper 池的派生视图：兑换估算、authority 与链下 APR
type PoolInfoWrapper struct {
	Pool    PoolInfo
	stats   map[string]stats.OrcaPoolStats
	program types.Pubkey
}

func (o *Orca) WrapPool(pool PoolInfo, table map[string]stats.OrcaPoolStats) *PoolInfoWrapper {
	return &PoolInfoWrapper{Pool: pool, stats: table, program: o.poolProgram}
}

// SwapOutAmount side 为 coin（A 侧输入）或 pc（B 侧输入），未知方向返回 0
func (w *PoolInfoWrapper) SwapOutAmount(side string, amountIn *big.Int) *big.Int {
	return tools.SwapOut(tools.SwapSide(side), w.Pool.TokenSupplyA, w.Pool.TokenSupplyB, amountIn)
}

// Authority PDA([poolId])
func (w *PoolInfoWrapper) Authority() (types.Pubkey, error) {
	addr, _, err := pda.Find(w.program, w.Pool.PoolID.Bytes())
	return addr, err
}

// APR 链下统计中该池的周 APY * 100，无数据时为 0
func (w *PoolInfoWrapper) APR() float64 {
	return tools.PoolAPR(w.stats, w.Pool.PoolID.String())
}
