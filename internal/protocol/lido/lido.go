// Package lido 读取 Solido（Lido for Solana）状态账户，兼容 v1 / v2 两种布局
package lido

import (
	"context"
	"fmt"
	"math/big"

	"defi-reader-sol/internal/chain"
	"defi-reader-sol/internal/consts"
	"defi-reader-sol/internal/protocol"
	"defi-reader-sol/internal/types"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Config struct {
	Program types.Pubkey // 为空时使用主网地址
}

type Lido struct {
	deps    protocol.Deps
	program types.Pubkey
}

var _ protocol.Provider[LidoInfo, *LidoInfoWrapper] = (*Lido)(nil)

func New(deps protocol.Deps, cfg Config) *Lido {
	l := &Lido{deps: deps, program: cfg.Program}
	if l.program.IsZero() {
		l.program = consts.LidoProgram
	}
	return l
}

func (l *Lido) log() *zap.Logger {
	return l.deps.Log().With(zap.String("protocol", "lido"))
}

// attachLists 一次批量读取所有 v2 状态的 validatorList / maintainerList。
// 列表账户缺失或无法解码时保持为空
func (l *Lido) attachLists(ctx context.Context, states []LidoInfo) error {
	keys := make([]types.Pubkey, 0, len(states)*2)
	idx := make([]int, 0, len(states))
	for i, s := range states {
		if s.Version != VersionV2 {
			continue
		}
		keys = append(keys, s.ValidatorListID, s.MaintainerListID)
		idx = append(idx, i)
	}
	if len(keys) == 0 {
		return nil
	}
	datas, err := l.deps.Fetcher.GetAccounts(ctx, keys)
	if err != nil {
		return fmt.Errorf("fetch lido lists: %w", err)
	}
	for j, i := range idx {
		s := &states[i]
		if data := datas[j*2]; len(data) > 0 {
			validators, limit, err := ParseValidatorList(data)
			if err != nil {
				l.log().Warn("skip undecodable validator list", zap.String("account", s.ValidatorListID.String()), zap.Error(err))
			} else {
				s.Validators, s.MaxValidators = validators, limit
			}
		}
		if data := datas[j*2+1]; len(data) > 0 {
			maintainers, limit, err := ParseMaintainerList(data)
			if err != nil {
				l.log().Warn("skip undecodable maintainer list", zap.String("account", s.MaintainerListID.String()), zap.Error(err))
			} else {
				s.Maintainers, s.MaxMaintainers = maintainers, limit
			}
		}
	}
	return nil
}

// GetAll 列出程序下所有 v2 状态账户；v1 状态长度可变，只能按地址读取
func (l *Lido) GetAll(ctx context.Context, page *protocol.Page) ([]LidoInfo, error) {
	accounts, err := l.deps.Fetcher.ListAccounts(ctx, l.program,
		chain.DataSize(StateV2Layout.Span()),
		chain.Memcmp(0, []byte{accountTypeLido, 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("list lido states: %w", err)
	}
	states := protocol.DecodeAll(protocol.PaginateAccounts(accounts, page), ParseState, l.log(), "lido state")
	if err := l.attachLists(ctx, states); err != nil {
		return nil, err
	}
	return states, nil
}

// Get 读取指定状态账户，stateID 为空时使用主网 Solido 状态
func (l *Lido) Get(ctx context.Context, stateID types.Pubkey) (LidoInfo, error) {
	if stateID.IsZero() {
		stateID = consts.LidoState
	}
	data, ok, err := l.deps.Fetcher.GetAccount(ctx, stateID)
	if err != nil {
		return LidoInfo{}, err
	}
	if !ok {
		return LidoInfo{}, protocol.NotFound("lido state", stateID)
	}
	info, err := ParseState(data, stateID)
	if err != nil {
		return LidoInfo{}, fmt.Errorf("parse lido state %s: %w", stateID, err)
	}
	states := []LidoInfo{info}
	if err := l.attachLists(ctx, states); err != nil {
		return LidoInfo{}, err
	}
	return states[0], nil
}

func (l *Lido) GetAllWrappers(ctx context.Context, page *protocol.Page) ([]*LidoInfoWrapper, error) {
	states, err := l.GetAll(ctx, page)
	if err != nil {
		return nil, err
	}
	out := make([]*LidoInfoWrapper, len(states))
	for i, s := range states {
		out[i] = &LidoInfoWrapper{Lido: s}
	}
	return out, nil
}

func (l *Lido) GetWrapper(ctx context.Context, stateID types.Pubkey) (*LidoInfoWrapper, error) {
	info, err := l.Get(ctx, stateID)
	if err != nil {
		return nil, err
	}
	return &LidoInfoWrapper{Lido: info}, nil
}

type LidoInfoWrapper struct {
	Lido LidoInfo
}

// Validators 与版本无关的验证者列表
func (w *LidoInfoWrapper) Validators() []Validator {
	return w.Lido.Validators
}

// ActiveValidators 只保留 active 的验证者
func (w *LidoInfoWrapper) ActiveValidators() []Validator {
	out := make([]Validator, 0, len(w.Lido.Validators))
	for _, v := range w.Lido.Validators {
		if v.Active {
			out = append(out, v)
		}
	}
	return out
}

// TotalStakeBalance 所有验证者 stake 账户余额之和（lamports）
func (w *LidoInfoWrapper) TotalStakeBalance() uint64 {
	var total uint64
	for _, v := range w.Lido.Validators {
		total += v.StakeAccountsBalance
	}
	return total
}

// ExchangeRate 1 stSOL 可兑换的 SOL，stSolSupply 为 0 时返回 0
func (w *LidoInfoWrapper) ExchangeRate() decimal.Decimal {
	er := w.Lido.ExchangeRate
	if er.StSolSupply == 0 {
		return decimal.Zero
	}
	sol := decimal.NewFromBigInt(new(big.Int).SetUint64(er.SolBalance), 0)
	supply := decimal.NewFromBigInt(new(big.Int).SetUint64(er.StSolSupply), 0)
	return sol.Div(supply)
}
