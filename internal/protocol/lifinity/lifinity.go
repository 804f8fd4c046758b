// Package lifinity 读取 Lifinity v1 AMM 池及其 config 账户
package lifinity

import (
	"context"
	"fmt"
	"math/big"

	"defi-reader-sol/internal/chain"
	"defi-reader-sol/internal/consts"
	"defi-reader-sol/internal/pda"
	"defi-reader-sol/internal/protocol"
	"defi-reader-sol/internal/protocol/spltoken"
	"defi-reader-sol/internal/tools"
	"defi-reader-sol/internal/types"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Config struct {
	Program types.Pubkey // 为空时使用主网地址
}

type Lifinity struct {
	deps    protocol.Deps
	program types.Pubkey
}

var _ protocol.Provider[AmmInfo, *AmmInfoWrapper] = (*Lifinity)(nil)

func New(deps protocol.Deps, cfg Config) *Lifinity {
	l := &Lifinity{deps: deps, program: cfg.Program}
	if l.program.IsZero() {
		l.program = consts.LifinityProgram
	}
	return l
}

func (l *Lifinity) log() *zap.Logger {
	return l.deps.Log().With(zap.String("protocol", "lifinity"))
}

// fetchSatellites 一次批量读取所有 AMM 的 [tokenAAccount, tokenBAccount, configAccount]
func (l *Lifinity) fetchSatellites(ctx context.Context, amms []AmmInfo) ([][3][]byte, error) {
	if len(amms) == 0 {
		return nil, nil
	}
	keys := make([]types.Pubkey, 0, len(amms)*3)
	for _, a := range amms {
		keys = append(keys, a.TokenAAccount, a.TokenBAccount, a.ConfigAccount)
	}
	datas, err := l.deps.Fetcher.GetAccounts(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch lifinity satellites: %w", err)
	}
	out := make([][3][]byte, len(amms))
	for i := range amms {
		out[i] = [3][]byte{datas[i*3], datas[i*3+1], datas[i*3+2]}
	}
	return out, nil
}

// merge 合并储备（必需）与 config（可选）
func (l *Lifinity) merge(a *AmmInfo, raw [3][]byte) error {
	if len(raw[0]) == 0 {
		return fmt.Errorf("amm %s: %w", a.AmmID, protocol.NotFound("token account A", a.TokenAAccount))
	}
	if len(raw[1]) == 0 {
		return fmt.Errorf("amm %s: %w", a.AmmID, protocol.NotFound("token account B", a.TokenBAccount))
	}
	ta, err := spltoken.ParseTokenAccount(raw[0], a.TokenAAccount)
	if err != nil {
		return fmt.Errorf("amm %s token account A: %w", a.AmmID, err)
	}
	tb, err := spltoken.ParseTokenAccount(raw[1], a.TokenBAccount)
	if err != nil {
		return fmt.Errorf("amm %s token account B: %w", a.AmmID, err)
	}
	a.TokenAAmount, a.TokenBAmount = ta.Amount, tb.Amount

	if len(raw[2]) == 0 {
		return nil
	}
	cfg, err := ParseConfig(raw[2], a.ConfigAccount)
	if err != nil {
		l.log().Warn("skip undecodable config", zap.String("amm", a.AmmID.String()), zap.Error(err))
		return nil
	}
	a.Config = &cfg
	return nil
}

func (l *Lifinity) GetAll(ctx context.Context, page *protocol.Page) ([]AmmInfo, error) {
	accounts, err := l.deps.Fetcher.ListAccounts(ctx, l.program, chain.DataSize(AmmLayout.Span()))
	if err != nil {
		return nil, fmt.Errorf("list lifinity amms: %w", err)
	}
	amms := protocol.DecodeAll(protocol.PaginateAccounts(accounts, page), ParseAmm, l.log(), "amm")
	raws, err := l.fetchSatellites(ctx, amms)
	if err != nil {
		return nil, err
	}
	out := make([]AmmInfo, 0, len(amms))
	for i := range amms {
		if err := l.merge(&amms[i], raws[i]); err != nil {
			l.log().Warn("skip amm without reserves", zap.String("amm", amms[i].AmmID.String()), zap.Error(err))
			continue
		}
		out = append(out, amms[i])
	}
	return out, nil
}

func (l *Lifinity) Get(ctx context.Context, ammID types.Pubkey) (AmmInfo, error) {
	data, ok, err := l.deps.Fetcher.GetAccount(ctx, ammID)
	if err != nil {
		return AmmInfo{}, err
	}
	if !ok {
		return AmmInfo{}, protocol.NotFound("amm", ammID)
	}
	amm, err := ParseAmm(data, ammID)
	if err != nil {
		return AmmInfo{}, fmt.Errorf("parse amm %s: %w", ammID, err)
	}
	raws, err := l.fetchSatellites(ctx, []AmmInfo{amm})
	if err != nil {
		return AmmInfo{}, err
	}
	if err := l.merge(&amm, raws[0]); err != nil {
		return AmmInfo{}, err
	}
	return amm, nil
}

func (l *Lifinity) GetAllWrappers(ctx context.Context, page *protocol.Page) ([]*AmmInfoWrapper, error) {
	amms, err := l.GetAll(ctx, page)
	if err != nil {
		return nil, err
	}
	out := make([]*AmmInfoWrapper, len(amms))
	for i, a := range amms {
		out[i] = l.Wrap(a)
	}
	return out, nil
}

func (l *Lifinity) GetWrapper(ctx context.Context, ammID types.Pubkey) (*AmmInfoWrapper, error) {
	amm, err := l.Get(ctx, ammID)
	if err != nil {
		return nil, err
	}
	return l.Wrap(amm), nil
}

type AmmInfoWrapper struct {
	Amm     AmmInfo
	program types.Pubkey
}

func (l *Lifinity) Wrap(amm AmmInfo) *AmmInfoWrapper {
	return &AmmInfoWrapper{Amm: amm, program: l.program}
}

// SwapOutAmount 恒定乘积估算，side 为 coin（A 侧输入）或 pc（B 侧输入）
func (w *AmmInfoWrapper) SwapOutAmount(side string, amountIn *big.Int) *big.Int {
	return tools.SwapOut(tools.SwapSide(side), w.Amm.TokenAAmount, w.Amm.TokenBAmount, amountIn)
}

// Authority PDA([ammId])
func (w *AmmInfoWrapper) Authority() (types.Pubkey, error) {
	addr, _, err := pda.Find(w.program, w.Amm.AmmID.Bytes())
	return addr, err
}

// SpotPrice 1 个 token A 折合多少 token B。
// A 的精度取 baseDecimals，B 必须是内置 quote token 才能确定精度
func (w *AmmInfoWrapper) SpotPrice() (decimal.Decimal, bool) {
	_, quote, ok := tools.ChooseBaseQuote(w.Amm.TokenAMint, w.Amm.TokenBMint)
	if !ok || quote != w.Amm.TokenBMint {
		return decimal.Zero, false
	}
	return tools.SpotPrice(w.Amm.TokenAAmount, w.Amm.BaseDecimals, w.Amm.TokenBAmount, tools.QuoteDecimals[quote]), true
}
