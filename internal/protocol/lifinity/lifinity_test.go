package lifinity

import (
	"context"
	"crypto/sha256"
	"math/big"
	"testing"

	"defi-reader-sol/internal/chain/chaintest"
	"defi-reader-sol/internal/consts"
	"defi-reader-sol/internal/layout"
	"defi-reader-sol/internal/pda"
	"defi-reader-sol/internal/protocol"
	"defi-reader-sol/internal/protocol/spltoken"
	"defi-reader-sol/internal/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(tag string) types.Pubkey {
	return types.Pubkey(sha256.Sum256([]byte(tag)))
}

type fixture struct {
	fetcher *chaintest.Fetcher
	l       *Lifinity
}

func putAmm(f *chaintest.Fetcher, id, mintA, mintB types.Pubkey, amountA, amountB uint64, withConfig bool) {
	tag := id.String()
	f.Put(consts.LifinityProgram, id, AmmLayout.MustEncode(layout.Values{
		"index":               7,
		"initialized":         true,
		"baseDecimals":        9,
		"tokenAAccount":       key(tag + "a"),
		"tokenBAccount":       key(tag + "b"),
		"tokenAMint":          mintA,
		"tokenBMint":          mintB,
		"configAccount":       key(tag + "config"),
		"tradeFeeNumerator":   2,
		"tradeFeeDenominator": 1000,
		"curveType":           1,
	}))
	f.Put(consts.TokenProgram, key(tag+"a"), spltoken.EncodeTokenAccount(mintA, id, amountA))
	f.Put(consts.TokenProgram, key(tag+"b"), spltoken.EncodeTokenAccount(mintB, id, amountB))
	if withConfig {
		f.Put(consts.LifinityProgram, key(tag+"config"), ConfigLayout.MustEncode(layout.Values{
			"concentrationRatio": 50,
			"lastPrice":          150_000_000,
			"configDenominator":  1_000_000,
		}))
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fetcher := chaintest.New()
	putAmm(fetcher, key("sol-usdc"), consts.WSOLMint, consts.USDCMint, 1000, 2000, true)
	putAmm(fetcher, key("x-y"), key("x"), key("y"), 10, 10, false)
	return &fixture{fetcher: fetcher, l: New(protocol.Deps{Fetcher: fetcher}, Config{})}
}

func TestLayoutSpans(t *testing.T) {
	assert.Equal(t, 615, AmmLayout.Span())
	assert.Equal(t, 136, ConfigLayout.Span())
}

func TestGetAllJoinsReservesAndConfig(t *testing.T) {
	fx := newFixture(t)
	amms, err := fx.l.GetAll(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, amms, 2)

	byID := map[types.Pubkey]AmmInfo{}
	for _, a := range amms {
		byID[a.AmmID] = a
	}
	a := byID[key("sol-usdc")]
	assert.Equal(t, uint64(1000), a.TokenAAmount)
	assert.Equal(t, uint64(2000), a.TokenBAmount)
	assert.True(t, a.Initialized)
	assert.Equal(t, uint64(1000), a.TradeFeeDenominator)
	require.NotNil(t, a.Config)
	assert.Equal(t, uint64(50), a.Config.ConcentrationRatio)
	assert.Equal(t, key(key("sol-usdc").String()+"config"), a.Config.ConfigID)

	assert.Nil(t, byID[key("x-y")].Config)
	assert.Equal(t, 1, fx.fetcher.GetManyCalls)
}

func TestGetAllSkipsMissingReserves(t *testing.T) {
	fx := newFixture(t)
	fx.fetcher.Delete(key(key("x-y").String() + "b"))
	amms, err := fx.l.GetAll(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, amms, 1)
	assert.Equal(t, key("sol-usdc"), amms[0].AmmID)
}

func TestGet(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.l.Get(context.Background(), key("nope"))
	assert.ErrorIs(t, err, protocol.ErrNotFound)

	fx.fetcher.Delete(key(key("x-y").String() + "a"))
	_, err = fx.l.Get(context.Background(), key("x-y"))
	assert.ErrorIs(t, err, protocol.ErrNotFound)

	fx.fetcher.Put(consts.LifinityProgram, key("short"), make([]byte, 100))
	_, err = fx.l.Get(context.Background(), key("short"))
	assert.ErrorIs(t, err, layout.ErrDecode)
}

func TestWrapper(t *testing.T) {
	fx := newFixture(t)
	w, err := fx.l.GetWrapper(context.Background(), key("sol-usdc"))
	require.NoError(t, err)

	assert.Equal(t, int64(182), w.SwapOutAmount("coin", big.NewInt(100)).Int64())
	assert.Equal(t, int64(48), w.SwapOutAmount("pc", big.NewInt(100)).Int64())

	authority, err := w.Authority()
	require.NoError(t, err)
	expected, _, err := pda.Find(consts.LifinityProgram, key("sol-usdc").Bytes())
	require.NoError(t, err)
	assert.Equal(t, expected, authority)

	// 1000 lamports = 1e-6 SOL，2000 = 0.002 USDC
	price, ok := w.SpotPrice()
	require.True(t, ok)
	assert.True(t, price.Equal(decimal.NewFromInt(2000)), price.String())

	other, err := fx.l.GetWrapper(context.Background(), key("x-y"))
	require.NoError(t, err)
	_, ok = other.SpotPrice()
	assert.False(t, ok)
}
