// Package nftfinance 读取 NFT Finance 的 NFT 质押池、稀有度分组、farm 与用户账户
package nftfinance

import (
	"context"
	"fmt"

	"defi-reader-sol/internal/chain"
	"defi-reader-sol/internal/consts"
	"defi-reader-sol/internal/layout"
	"defi-reader-sol/internal/protocol"
	"defi-reader-sol/internal/types"

	"go.uber.org/zap"
)

type Config struct {
	Program types.Pubkey // 为空时使用主网地址
}

type NftFinance struct {
	deps    protocol.Deps
	program types.Pubkey
}

func New(deps protocol.Deps, cfg Config) *NftFinance {
	n := &NftFinance{deps: deps, program: cfg.Program}
	if n.program.IsZero() {
		n.program = consts.NftFinanceProgram
	}
	return n
}

func (n *NftFinance) log() *zap.Logger {
	return n.deps.Log().With(zap.String("protocol", "nftfinance"))
}

// memcmp 偏移由布局推出
var (
	minerOwnerOffset = MinerLayout.Offset("owner")
	vaultUserOffset  = NftVaultLayout.Offset("user")
)

func listDecoded[T any](ctx context.Context, n *NftFinance, l *layout.Layout, parse func([]byte, types.Pubkey) (T, error), kind string, page *protocol.Page, filters ...chain.Filter) ([]T, error) {
	all := append([]chain.Filter{chain.DataSize(l.Span())}, filters...)
	accounts, err := n.deps.Fetcher.ListAccounts(ctx, n.program, all...)
	if err != nil {
		return nil, fmt.Errorf("list nftfinance %s: %w", kind, err)
	}
	return protocol.DecodeAll(protocol.PaginateAccounts(accounts, page), parse, n.log(), kind), nil
}

func getDecoded[T any](ctx context.Context, n *NftFinance, id types.Pubkey, parse func([]byte, types.Pubkey) (T, error), kind string) (T, error) {
	var zero T
	data, ok, err := n.deps.Fetcher.GetAccount(ctx, id)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, protocol.NotFound(kind, id)
	}
	out, err := parse(data, id)
	if err != nil {
		return zero, fmt.Errorf("parse %s %s: %w", kind, id, err)
	}
	return out, nil
}

// attachRarity 一次批量读取所有池引用的稀有度账户，缺失时 Rarity 保持为空
func (n *NftFinance) attachRarity(ctx context.Context, pools []PoolInfo) error {
	if len(pools) == 0 {
		return nil
	}
	keys := make([]types.Pubkey, len(pools))
	for i, p := range pools {
		keys[i] = p.RarityInfo
	}
	keys = types.DedupPubkeys(keys)
	datas, err := n.deps.Fetcher.GetAccounts(ctx, keys)
	if err != nil {
		return fmt.Errorf("fetch nftfinance rarity: %w", err)
	}
	rarities := make(map[types.Pubkey]RarityInfo, len(keys))
	for i, data := range datas {
		if len(data) == 0 {
			continue
		}
		r, err := ParseRarity(data, keys[i])
		if err != nil {
			n.log().Warn("skip undecodable rarity", zap.String("account", keys[i].String()), zap.Error(err))
			continue
		}
		rarities[keys[i]] = r
	}
	for i := range pools {
		if r, ok := rarities[pools[i].RarityInfo]; ok {
			pools[i].Rarity = &r
		}
	}
	return nil
}

func (n *NftFinance) GetAllPools(ctx context.Context, page *protocol.Page) ([]PoolInfo, error) {
	pools, err := listDecoded(ctx, n, PoolLayout, ParsePool, "pool", page)
	if err != nil {
		return nil, err
	}
	if err := n.attachRarity(ctx, pools); err != nil {
		return nil, err
	}
	return pools, nil
}

func (n *NftFinance) GetPool(ctx context.Context, poolID types.Pubkey) (PoolInfo, error) {
	pool, err := getDecoded(ctx, n, poolID, ParsePool, "pool")
	if err != nil {
		return PoolInfo{}, err
	}
	pools := []PoolInfo{pool}
	if err := n.attachRarity(ctx, pools); err != nil {
		return PoolInfo{}, err
	}
	return pools[0], nil
}

func (n *NftFinance) GetRarity(ctx context.Context, rarityID types.Pubkey) (RarityInfo, error) {
	return getDecoded(ctx, n, rarityID, ParseRarity, "rarity")
}

func (n *NftFinance) GetAllFarms(ctx context.Context, page *protocol.Page) ([]FarmInfo, error) {
	return listDecoded(ctx, n, FarmLayout, ParseFarm, "farm", page)
}

func (n *NftFinance) GetFarm(ctx context.Context, farmID types.Pubkey) (FarmInfo, error) {
	return getDecoded(ctx, n, farmID, ParseFarm, "farm")
}

// GetAllMiners owner 在所有 farm 中的 miner 账户
func (n *NftFinance) GetAllMiners(ctx context.Context, owner types.Pubkey) ([]MinerInfo, error) {
	return listDecoded(ctx, n, MinerLayout, ParseMiner, "miner", nil, chain.Memcmp(minerOwnerOffset, owner.Bytes()))
}

func (n *NftFinance) GetMiner(ctx context.Context, minerID types.Pubkey) (MinerInfo, error) {
	return getDecoded(ctx, n, minerID, ParseMiner, "miner")
}

// GetAllNftVaults user 锁定在各池中的 NFT
func (n *NftFinance) GetAllNftVaults(ctx context.Context, user types.Pubkey) ([]NftVaultInfo, error) {
	return listDecoded(ctx, n, NftVaultLayout, ParseNftVault, "nft vault", nil, chain.Memcmp(vaultUserOffset, user.Bytes()))
}

func (n *NftFinance) GetNftVault(ctx context.Context, vaultID types.Pubkey) (NftVaultInfo, error) {
	return getDecoded(ctx, n, vaultID, ParseNftVault, "nft vault")
}
