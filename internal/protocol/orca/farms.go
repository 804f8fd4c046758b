package orca

import (
	"context"
	"fmt"

	"defi-reader-sol/internal/chain"
	"defi-reader-sol/internal/pda"
	"defi-reader-sol/internal/protocol"
	"defi-reader-sol/internal/protocol/spltoken"
	"defi-reader-sol/internal/tools"
	"defi-reader-sol/internal/types"
)

type Farms struct {
	o *Orca
}

var _ protocol.Provider[FarmInfo, *FarmInfoWrapper] = (*Farms)(nil)

func (o *Orca) listFarms(ctx context.Context, filters ...chain.Filter) ([]chain.KeyedAccount, error) {
	all := append([]chain.Filter{chain.DataSize(FarmLayout.Span())}, filters...)
	accounts, err := o.deps.Fetcher.ListAccounts(ctx, o.farmProgram, all...)
	if err != nil {
		return nil, fmt.Errorf("list orca farms: %w", err)
	}
	return accounts, nil
}

// loadFarmAccounts 先批量读 vault token 账户，再批量读它们引用的 mint
func (o *Orca) loadFarmAccounts(ctx context.Context, farms []FarmInfo) error {
	if len(farms) == 0 {
		return nil
	}
	vaults := make([]types.Pubkey, 0, len(farms)*2)
	for _, f := range farms {
		vaults = append(vaults, f.BaseTokenVault, f.RewardTokenVault)
	}
	tokens, err := spltoken.FetchTokenAccounts(ctx, o.deps.Fetcher, vaults)
	if err != nil {
		return fmt.Errorf("fetch orca farm vaults: %w", err)
	}

	mintKeys := make([]types.Pubkey, 0, len(farms)*3)
	for _, f := range farms {
		mintKeys = append(mintKeys, f.BaseTokenMint)
		if acc, ok := tokens[f.BaseTokenVault]; ok {
			mintKeys = append(mintKeys, acc.Mint)
		}
		if acc, ok := tokens[f.RewardTokenVault]; ok {
			mintKeys = append(mintKeys, acc.Mint)
		}
	}
	mints, err := spltoken.FetchMints(ctx, o.deps.Fetcher, mintKeys)
	if err != nil {
		return fmt.Errorf("fetch orca farm mints: %w", err)
	}

	for i := range farms {
		f := &farms[i]
		f.BaseTokenMintAccountData = mintInfo(mints, f.BaseTokenMint)
		f.BaseTokenVaultAccountData = vaultInfo(tokens, f.BaseTokenVault)
		f.RewardTokenVaultAccountData = vaultInfo(tokens, f.RewardTokenVault)
		if acc, ok := tokens[f.RewardTokenVault]; ok {
			f.RewardTokenMintAccountData = mintInfo(mints, acc.Mint)
		}
	}
	return nil
}

func mintInfo(mints map[types.Pubkey]spltoken.Mint, key types.Pubkey) *MintVaultInfo {
	m, ok := mints[key]
	if !ok {
		return nil
	}
	return &MintVaultInfo{Mint: key, SupplyDividedByDecimals: m.SupplyDividedByDecimals(), Decimals: m.Decimals}
}

func vaultInfo(tokens map[types.Pubkey]spltoken.TokenAccount, key types.Pubkey) *TokenVaultInfo {
	acc, ok := tokens[key]
	if !ok {
		return nil
	}
	return &TokenVaultInfo{Mint: acc.Mint, Amount: acc.Amount, Owner: acc.Owner}
}

// attachDoubleDip candidates 中 baseTokenMint 等于本 farm farmTokenMint 的即为二级 farm
func attachDoubleDip(farm *FarmInfo, candidates []FarmInfo) {
	for _, c := range candidates {
		if c.FarmID == farm.FarmID || c.BaseTokenMint != farm.FarmTokenMint {
			continue
		}
		farm.DoubleDip = &DoubleDip{
			FarmID:                        c.FarmID,
			EmissionsPerSecondNumerator:   c.EmissionsPerSecondNumerator,
			EmissionsPerSecondDenominator: c.EmissionsPerSecondDenominator,
			BaseTokenMintAccountData:      c.BaseTokenMintAccountData,
			BaseTokenVaultAccountData:     c.BaseTokenVaultAccountData,
			RewardTokenMintAccountData:    c.RewardTokenMintAccountData,
		}
		return
	}
}

// attachPool 关联 lpMint == baseTokenMint 的池，并从价格表补充 token A/B 与奖励 token 价格
func (o *Orca) attachPool(farm *FarmInfo, pools []PoolInfo) {
	for _, p := range pools {
		if p.LpMint != farm.BaseTokenMint {
			continue
		}
		id := p.PoolID
		farm.PoolID = &id
		farm.TokenSupplyA = p.TokenSupplyA
		farm.TokenSupplyB = p.TokenSupplyB
		farm.LpSupply = p.LpSupply
		farm.LpDecimals = p.LpDecimals
		if o.prices == nil {
			return
		}
		if tp, ok := o.prices.TokenPrice(p.TokenAMint); ok {
			farm.TokenAPrice, farm.TokenADecimals = ptr(tp.PriceUsd), ptr(tp.Decimals)
		}
		if tp, ok := o.prices.TokenPrice(p.TokenBMint); ok {
			farm.TokenBPrice, farm.TokenBDecimals = ptr(tp.PriceUsd), ptr(tp.Decimals)
		}
		if rm := farm.RewardTokenMintAccountData; rm != nil {
			if tp, ok := o.prices.TokenPrice(rm.Mint); ok {
				farm.RewardTokenPrice = ptr(tp.PriceUsd)
			}
		}
		return
	}
}

func ptr[T any](v T) *T { return &v }

// enrich work 中前 n 条为需要返回的 farm，其余为二级 farm 候选
func (o *Orca) enrich(ctx context.Context, work []FarmInfo, n int, pools []PoolInfo) ([]FarmInfo, error) {
	if err := o.loadFarmAccounts(ctx, work); err != nil {
		return nil, err
	}
	out := work[:n]
	for i := range out {
		attachDoubleDip(&out[i], work)
		o.attachPool(&out[i], pools)
	}
	return out, nil
}

func (f *Farms) GetAll(ctx context.Context, page *protocol.Page) ([]FarmInfo, error) {
	var (
		accounts []chain.KeyedAccount
		pools    []PoolInfo
	)
	err := f.o.deps.Parallel(ctx,
		func(ctx context.Context) (err error) {
			accounts, err = f.o.listFarms(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			pools, err = f.o.getAllPools(ctx, nil)
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	all := protocol.DecodeAll(accounts, ParseFarm, f.o.log(), "farm")
	selected := protocol.DecodeAll(protocol.PaginateAccounts(accounts, page), ParseFarm, nil, "farm")

	wanted := make(map[types.Pubkey]struct{}, len(selected))
	inWork := make(map[types.Pubkey]struct{}, len(selected))
	for _, s := range selected {
		wanted[s.FarmTokenMint] = struct{}{}
		inWork[s.FarmID] = struct{}{}
	}
	work := append([]FarmInfo(nil), selected...)
	for _, c := range all {
		if _, ok := wanted[c.BaseTokenMint]; !ok {
			continue
		}
		if _, ok := inWork[c.FarmID]; ok {
			continue
		}
		inWork[c.FarmID] = struct{}{}
		work = append(work, c)
	}
	return f.o.enrich(ctx, work, len(selected), pools)
}

func (f *Farms) Get(ctx context.Context, farmID types.Pubkey) (FarmInfo, error) {
	data, ok, err := f.o.deps.Fetcher.GetAccount(ctx, farmID)
	if err != nil {
		return FarmInfo{}, err
	}
	if !ok {
		return FarmInfo{}, protocol.NotFound("farm", farmID)
	}
	farm, err := ParseFarm(data, farmID)
	if err != nil {
		return FarmInfo{}, fmt.Errorf("parse farm %s: %w", farmID, err)
	}

	var (
		partners []chain.KeyedAccount
		pools    []PoolInfo
	)
	err = f.o.deps.Parallel(ctx,
		func(ctx context.Context) (err error) {
			partners, err = f.o.listFarms(ctx, chain.Memcmp(FarmLayout.Offset("baseTokenMint"), farm.FarmTokenMint.Bytes()))
			return err
		},
		func(ctx context.Context) (err error) {
			pools, err = f.o.poolsByLpMint(ctx, farm.BaseTokenMint)
			return err
		},
	)
	if err != nil {
		return FarmInfo{}, err
	}

	work := append([]FarmInfo{farm}, protocol.DecodeAll(partners, ParseFarm, f.o.log(), "farm")...)
	out, err := f.o.enrich(ctx, work, 1, pools)
	if err != nil {
		return FarmInfo{}, err
	}
	return out[0], nil
}

func (f *Farms) GetAllWrappers(ctx context.Context, page *protocol.Page) ([]*FarmInfoWrapper, error) {
	farms, err := f.GetAll(ctx, page)
	if err != nil {
		return nil, err
	}
	out := make([]*FarmInfoWrapper, len(farms))
	for i, farm := range farms {
		out[i] = f.o.WrapFarm(farm)
	}
	return out, nil
}

func (f *Farms) GetWrapper(ctx context.Context, farmID types.Pubkey) (*FarmInfoWrapper, error) {
	farm, err := f.Get(ctx, farmID)
	if err != nil {
		return nil, err
	}
	return f.o.WrapFarm(farm), nil
}

type FarmInfoWrapper struct {
	Farm    FarmInfo
	program types.Pubkey
}

func (o *Orca) WrapFarm(farm FarmInfo) *FarmInfoWrapper {
	return &FarmInfoWrapper{Farm: farm, program: o.farmProgram}
}

// Authority PDA([farmId])
func (w *FarmInfoWrapper) Authority() (types.Pubkey, error) {
	addr, _, err := pda.Find(w.program, w.Farm.FarmID.Bytes())
	return addr, err
}

// APR 年化奖励价值 / 质押部分的池价值 * 100。
// 存在二级 farm 且其奖励 mint 已知时，排放量与 vault / mint 数据取自二级 farm，奖励价格仍用本 farm 的
func (w *FarmInfoWrapper) APR() float64 {
	f := w.Farm
	num, den := f.EmissionsPerSecondNumerator, f.EmissionsPerSecondDenominator
	rewardMint, baseVault, baseMint := f.RewardTokenMintAccountData, f.BaseTokenVaultAccountData, f.BaseTokenMintAccountData
	if dd := f.DoubleDip; dd != nil && dd.RewardTokenMintAccountData != nil {
		num, den = dd.EmissionsPerSecondNumerator, dd.EmissionsPerSecondDenominator
		rewardMint, baseVault, baseMint = dd.RewardTokenMintAccountData, dd.BaseTokenVaultAccountData, dd.BaseTokenMintAccountData
	}

	in := tools.FarmAPRInput{
		EmissionsPerSecondNumerator:   num,
		EmissionsPerSecondDenominator: den,
		RewardTokenPrice:              f.RewardTokenPrice,
		TokenAPrice:                   f.TokenAPrice,
		TokenADecimals:                f.TokenADecimals,
		TokenBPrice:                   f.TokenBPrice,
		TokenBDecimals:                f.TokenBDecimals,
		TokenSupplyA:                  f.TokenSupplyA,
		TokenSupplyB:                  f.TokenSupplyB,
		LpSupply:                      f.LpSupply,
		LpDecimals:                    f.LpDecimals,
	}
	if rewardMint != nil {
		in.RewardDecimals = ptr(rewardMint.Decimals)
	}
	if baseVault != nil {
		in.BaseVaultAmount = ptr(baseVault.Amount)
	}
	if baseMint != nil {
		in.BaseMintDecimals = ptr(baseMint.Decimals)
	}
	return tools.FarmAPR(in)
}
