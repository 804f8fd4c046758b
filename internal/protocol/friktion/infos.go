// Package friktion 读取 Friktion volt：vault、round、extra data 以及用户待处理申购/赎回
package friktion

import (
	"context"
	"fmt"

	"defi-reader-sol/internal/chain"
	"defi-reader-sol/internal/consts"
	"defi-reader-sol/internal/layout"
	"defi-reader-sol/internal/pda"
	"defi-reader-sol/internal/protocol"
	"defi-reader-sol/internal/types"

	"go.uber.org/zap"
)

type Config struct {
	Program  types.Pubkey // 为空时使用主网 volt program
	FeeOwner types.Pubkey
}

// Friktion 无状态：每次调用都重新抓取账户并在本地完成关联
type Friktion struct {
	deps     protocol.Deps
	program  types.Pubkey
	feeOwner types.Pubkey
}

var _ protocol.Provider[VaultInfo, *VaultInfoWrapper] = (*Friktion)(nil)

func New(deps protocol.Deps, cfg Config) *Friktion {
	f := &Friktion{deps: deps, program: cfg.Program, feeOwner: cfg.FeeOwner}
	if f.program.IsZero() {
		f.program = consts.FriktionVoltProgram
	}
	if f.feeOwner.IsZero() {
		f.feeOwner = consts.FriktionFeeOwner
	}
	return f
}

func (f *Friktion) log() *zap.Logger {
	return f.deps.Log().With(zap.String("protocol", "friktion"))
}

// list 按 span + discriminator 列出同一种账户
func (f *Friktion) list(ctx context.Context, l *layout.Layout) ([]chain.KeyedAccount, error) {
	accounts, err := f.deps.Fetcher.ListAccounts(ctx, f.program,
		chain.DataSize(l.Span()),
		chain.Memcmp(0, l.Discriminator),
	)
	if err != nil {
		return nil, fmt.Errorf("list %s accounts: %w", l.Name, err)
	}
	return accounts, nil
}

type satellites struct {
	rounds map[types.Pubkey]RoundInfo
	extras map[types.Pubkey]ExtraVaultInfo
}

// fetchSatellites 每种卫星账户只列一次，按自身地址建查找表
func (f *Friktion) fetchSatellites(ctx context.Context, extra ...func(ctx context.Context) error) (*satellites, error) {
	var roundAccs, extraAccs []chain.KeyedAccount
	tasks := append([]func(ctx context.Context) error{
		func(ctx context.Context) (err error) {
			roundAccs, err = f.list(ctx, RoundLayout)
			return err
		},
		func(ctx context.Context) (err error) {
			extraAccs, err = f.list(ctx, ExtraVoltDataLayout)
			return err
		},
	}, extra...)
	if err := f.deps.Parallel(ctx, tasks...); err != nil {
		return nil, err
	}
	return &satellites{
		rounds: protocol.DecodeSet(roundAccs, ParseRound, f.log(), "round"),
		extras: protocol.DecodeSet(extraAccs, ParseExtraData, f.log(), "extraVoltData"),
	}, nil
}

func (f *Friktion) wrap(v VaultInfo) *VaultInfoWrapper {
	return &VaultInfoWrapper{Vault: v, program: f.program, feeOwner: f.feeOwner}
}

// join 依次尝试 1..RoundNumber 的 round 地址，再挂上 extra data
func (f *Friktion) join(v *VaultInfo, sat *satellites) error {
	w := f.wrap(*v)
	rounds, err := protocol.JoinRounds(v.RoundNumber, w.RoundInfoAddress, sat.rounds)
	if err != nil {
		return fmt.Errorf("join rounds of vault %s: %w", v.VaultID, err)
	}
	v.RoundInfos = rounds

	extra, ok, err := protocol.Attach(w.ExtraVoltDataAddress, sat.extras)
	if err != nil {
		return fmt.Errorf("derive extra data of vault %s: %w", v.VaultID, err)
	}
	if ok {
		v.ExtraData = &extra
	}
	return nil
}

func (f *Friktion) GetAll(ctx context.Context, page *protocol.Page) ([]VaultInfo, error) {
	var vaultAccs []chain.KeyedAccount
	sat, err := f.fetchSatellites(ctx, func(ctx context.Context) (err error) {
		vaultAccs, err = f.list(ctx, VoltVaultLayout)
		return err
	})
	if err != nil {
		return nil, err
	}

	vaultAccs = protocol.PaginateAccounts(vaultAccs, page)
	vaults := protocol.DecodeAll(vaultAccs, ParseVault, f.log(), "vault")
	for i := range vaults {
		if err := f.join(&vaults[i], sat); err != nil {
			return nil, err
		}
	}
	return vaults, nil
}

func (f *Friktion) Get(ctx context.Context, vaultID types.Pubkey) (VaultInfo, error) {
	var (
		data  []byte
		found bool
	)
	sat, err := f.fetchSatellites(ctx, func(ctx context.Context) (err error) {
		data, found, err = f.deps.Fetcher.GetAccount(ctx, vaultID)
		return err
	})
	if err != nil {
		return VaultInfo{}, err
	}
	if !found {
		return VaultInfo{}, protocol.NotFound("vault", vaultID)
	}
	v, err := ParseVault(data, vaultID)
	if err != nil {
		return VaultInfo{}, fmt.Errorf("parse vault %s: %w", vaultID, err)
	}
	if err := f.join(&v, sat); err != nil {
		return VaultInfo{}, err
	}
	return v, nil
}

func (f *Friktion) GetAllWrappers(ctx context.Context, page *protocol.Page) ([]*VaultInfoWrapper, error) {
	vaults, err := f.GetAll(ctx, page)
	if err != nil {
		return nil, err
	}
	out := make([]*VaultInfoWrapper, len(vaults))
	for i, v := range vaults {
		out[i] = f.wrap(v)
	}
	return out, nil
}

func (f *Friktion) GetWrapper(ctx context.Context, vaultID types.Pubkey) (*VaultInfoWrapper, error) {
	v, err := f.Get(ctx, vaultID)
	if err != nil {
		return nil, err
	}
	return f.wrap(v), nil
}

// Wrap 为已解码的 vault 构造派生视图
func (f *Friktion) Wrap(v VaultInfo) *VaultInfoWrapper {
	return f.wrap(v)
}

// DepositorID PDA(vault, user, "pendingDeposit")
func (f *Friktion) DepositorID(vaultID, userKey types.Pubkey) (types.Pubkey, error) {
	addr, _, err := pda.Find(f.program, vaultID.Bytes(), userKey.Bytes(), []byte(consts.SeedPendingDeposit))
	return addr, err
}

// WithdrawerID PDA(vault, user, "pendingWithdrawal")
func (f *Friktion) WithdrawerID(vaultID, userKey types.Pubkey) (types.Pubkey, error) {
	addr, _, err := pda.Find(f.program, vaultID.Bytes(), userKey.Bytes(), []byte(consts.SeedPendingWithdrawal))
	return addr, err
}

// listVaultIDs 仅用于推导用户账户，不需要关联卫星
func (f *Friktion) listVaultIDs(ctx context.Context) ([]types.Pubkey, error) {
	accounts, err := f.list(ctx, VoltVaultLayout)
	if err != nil {
		return nil, err
	}
	vaults := protocol.DecodeAll(accounts, ParseVault, f.log(), "vault")
	ids := make([]types.Pubkey, len(vaults))
	for i, v := range vaults {
		ids[i] = v.VaultID
	}
	return ids, nil
}

// userAccounts 为每个 vault 推导一个用户账户地址并一次批量读取，缺失位置直接跳过
func userAccounts[T any](
	ctx context.Context,
	f *Friktion,
	userKey types.Pubkey,
	deriveID func(vaultID, userKey types.Pubkey) (types.Pubkey, error),
	parse func([]byte, types.Pubkey, *types.Pubkey) (T, error),
	kind string,
) ([]T, error) {
	vaultIDs, err := f.listVaultIDs(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]types.Pubkey, len(vaultIDs))
	for i, vaultID := range vaultIDs {
		if ids[i], err = deriveID(vaultID, userKey); err != nil {
			return nil, fmt.Errorf("derive %s id: %w", kind, err)
		}
	}
	if len(ids) == 0 {
		return []T{}, nil
	}

	datas, err := f.deps.Fetcher.GetAccounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch %s accounts: %w", kind, err)
	}
	out := make([]T, 0)
	for i, data := range datas {
		if len(data) == 0 {
			continue
		}
		rec, err := parse(data, ids[i], &userKey)
		if err != nil {
			f.log().Warn("skip undecodable account",
				zap.String("kind", kind),
				zap.String("address", ids[i].String()),
				zap.Error(err),
			)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (f *Friktion) GetAllDepositors(ctx context.Context, userKey types.Pubkey) ([]DepositorInfo, error) {
	return userAccounts(ctx, f, userKey, f.DepositorID, ParseDepositor, "depositor")
}

func (f *Friktion) GetAllWithdrawers(ctx context.Context, userKey types.Pubkey) ([]WithdrawerInfo, error) {
	return userAccounts(ctx, f, userKey, f.WithdrawerID, ParseWithdrawer, "withdrawer")
}

func (f *Friktion) GetDepositor(ctx context.Context, depositorID, userKey types.Pubkey) (DepositorInfo, error) {
	data, ok, err := f.deps.Fetcher.GetAccount(ctx, depositorID)
	if err != nil {
		return DepositorInfo{}, err
	}
	if !ok {
		return DepositorInfo{}, protocol.NotFound("depositor", depositorID)
	}
	return ParseDepositor(data, depositorID, &userKey)
}

func (f *Friktion) GetWithdrawer(ctx context.Context, withdrawerID, userKey types.Pubkey) (WithdrawerInfo, error) {
	data, ok, err := f.deps.Fetcher.GetAccount(ctx, withdrawerID)
	if err != nil {
		return WithdrawerInfo{}, err
	}
	if !ok {
		return WithdrawerInfo{}, protocol.NotFound("withdrawer", withdrawerID)
	}
	return ParseWithdrawer(data, withdrawerID, &userKey)
}
