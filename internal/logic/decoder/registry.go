// Package decoder 按 owner program 与账户字节把账户更新路由到对应协议的解码器
package decoder

import (
	"errors"
	"fmt"

	"defi-reader-sol/internal/consts"
	"defi-reader-sol/internal/layout"
	"defi-reader-sol/internal/protocol/friktion"
	"defi-reader-sol/internal/protocol/lido"
	"defi-reader-sol/internal/protocol/lifinity"
	"defi-reader-sol/internal/protocol/nftfinance"
	"defi-reader-sol/internal/protocol/orca"
	"defi-reader-sol/internal/types"
)

var (
	ErrUnknownOwner = errors.New("unknown owner program")
	ErrUnrouted     = errors.New("no decoder matches account")
)

// Snapshot 一次账户更新解码后的结果
type Snapshot struct {
	Protocol int
	Kind     Kind
	Address  types.Pubkey
	Slot     uint64
	Record   any
}

type route struct {
	kind   Kind
	match  func(data []byte) bool
	decode func(data []byte, address types.Pubkey) (any, error)
}

// Registry 只读，创建后可并发使用
type Registry struct {
	routes    map[types.Pubkey][]route
	protocols map[types.Pubkey]int
}

func NewRegistry(programs consts.ProgramSet) *Registry {
	r := &Registry{
		routes:    make(map[types.Pubkey][]route),
		protocols: make(map[types.Pubkey]int),
	}

	r.add(programs.FriktionVolt, consts.ProtocolFriktion,
		layoutRoute(KindFriktionVault, friktion.VoltVaultLayout, friktion.ParseVault),
		layoutRoute(KindFriktionRound, friktion.RoundLayout, friktion.ParseRound),
		layoutRoute(KindFriktionExtraData, friktion.ExtraVoltDataLayout, friktion.ParseExtraData),
		layoutRoute(KindFriktionPendingDeposit, friktion.PendingDepositLayout, parsePending(friktion.PendingDepositLayout)),
		layoutRoute(KindFriktionPendingWithdrawal, friktion.PendingWithdrawalLayout, parsePending(friktion.PendingWithdrawalLayout)),
	)
	r.add(programs.OrcaPool, consts.ProtocolOrca,
		layoutRoute(KindOrcaPool, orca.PoolLayout, orca.ParsePool),
	)
	r.add(programs.OrcaFarm, consts.ProtocolOrca,
		layoutRoute(KindOrcaFarm, orca.FarmLayout, orca.ParseFarm),
		layoutRoute(KindOrcaFarmer, orca.FarmerLayout, orca.ParseFarmer),
	)
	r.add(programs.Lido, consts.ProtocolLido,
		route{kind: KindLidoState, match: isLidoState, decode: wrap(lido.ParseState)},
		route{kind: KindLidoValidatorList, match: lidoAccountType(lidoAccountValidatorList), decode: parseValidatorList},
		route{kind: KindLidoMaintainerList, match: lidoAccountType(lidoAccountMaintainerList), decode: parseMaintainerList},
	)
	r.add(programs.Lifinity, consts.ProtocolLifinity,
		layoutRoute(KindLifinityAmm, lifinity.AmmLayout, lifinity.ParseAmm),
		layoutRoute(KindLifinityConfig, lifinity.ConfigLayout, lifinity.ParseConfig),
	)
	r.add(programs.NftFinance, consts.ProtocolNftFinance,
		layoutRoute(KindNftFinancePool, nftfinance.PoolLayout, nftfinance.ParsePool),
		layoutRoute(KindNftFinanceNftVault, nftfinance.NftVaultLayout, nftfinance.ParseNftVault),
		layoutRoute(KindNftFinanceFarm, nftfinance.FarmLayout, nftfinance.ParseFarm),
		layoutRoute(KindNftFinanceMiner, nftfinance.MinerLayout, nftfinance.ParseMiner),
		// 变长布局放在最后，避免吞掉定长账户
		layoutRoute(KindNftFinanceRarity, nftfinance.RarityLayout, nftfinance.ParseRarity),
	)
	return r
}

func (r *Registry) add(owner types.Pubkey, protocol int, routes ...route) {
	if owner.IsZero() {
		return
	}
	r.routes[owner] = append(r.routes[owner], routes...)
	r.protocols[owner] = protocol
}

// Owners 已注册的 owner program
func (r *Registry) Owners() []types.Pubkey {
	out := make([]types.Pubkey, 0, len(r.routes))
	for owner := range r.routes {
		out = append(out, owner)
	}
	return out
}

// Decode 按注册顺序取第一个匹配的解码器
func (r *Registry) Decode(update *types.AccountUpdate) (Snapshot, error) {
	routes, ok := r.routes[update.Owner]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrUnknownOwner, update.Owner)
	}
	for _, rt := range routes {
		if !rt.match(update.Data) {
			continue
		}
		record, err := rt.decode(update.Data, update.Address)
		if err != nil {
			return Snapshot{}, fmt.Errorf("decode %s %s: %w", rt.kind, update.Address, err)
		}
		return Snapshot{
			Protocol: r.protocols[update.Owner],
			Kind:     rt.kind,
			Address:  update.Address,
			Slot:     update.Slot,
			Record:   record,
		}, nil
	}
	return Snapshot{}, fmt.Errorf("%w: owner %s, %d bytes", ErrUnrouted, update.Owner, len(update.Data))
}

func layoutRoute[T any](kind Kind, l *layout.Layout, parse func([]byte, types.Pubkey) (T, error)) route {
	return route{kind: kind, match: l.Matches, decode: wrap(parse)}
}

func wrap[T any](parse func([]byte, types.Pubkey) (T, error)) func([]byte, types.Pubkey) (any, error) {
	return func(data []byte, address types.Pubkey) (any, error) {
		return parse(data, address)
	}
}
