package cache

import (
	"testing"

	"defi-reader-sol/internal/consts"
	"defi-reader-sol/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenPriceReturnsLatest(t *testing.T) {
	pc := NewPriceCache()
	pc.Update([]types.TokenPrice{
		{Mint: consts.WSOLMint, Symbol: "SOL", PriceUsd: 150, Decimals: 9, Timestamp: 200},
		{Mint: consts.WSOLMint, Symbol: "SOL", PriceUsd: 140, Decimals: 9, Timestamp: 100},
		{Mint: consts.USDCMint, Symbol: "USDC", PriceUsd: 1, Decimals: 6, Timestamp: 100},
	})

	tp, ok := pc.TokenPrice(consts.WSOLMint)
	require.True(t, ok)
	assert.Equal(t, 150.0, tp.PriceUsd)
	assert.Equal(t, int64(200), tp.Timestamp)
	assert.Equal(t, "SOL", tp.Symbol)
	assert.Equal(t, uint8(9), tp.Decimals)
	assert.Equal(t, 2, pc.Len())

	_, ok = pc.TokenPrice(consts.USDTMint)
	assert.False(t, ok)
}

func TestPriceAt(t *testing.T) {
	pc := NewPriceCache()
	pc.Update([]types.TokenPrice{
		{Mint: consts.WSOLMint, PriceUsd: 10, Timestamp: 10},
		{Mint: consts.WSOLMint, PriceUsd: 30, Timestamp: 30},
		{Mint: consts.WSOLMint, PriceUsd: 20, Timestamp: 20},
	})

	cases := map[int64]float64{5: 10, 10: 10, 15: 10, 20: 20, 25: 20, 30: 30, 99: 30}
	for ts, want := range cases {
		got, ok := pc.PriceAt(consts.WSOLMint, ts)
		require.True(t, ok)
		assert.Equal(t, want, got, "ts=%d", ts)
	}

	_, ok := pc.PriceAt(consts.USDCMint, 10)
	assert.False(t, ok)
}

func TestSameTimestampOverwrites(t *testing.T) {
	pc := NewPriceCache()
	pc.Update([]types.TokenPrice{{Mint: consts.WSOLMint, PriceUsd: 1, Timestamp: 10}})
	pc.Update([]types.TokenPrice{{Mint: consts.WSOLMint, PriceUsd: 2, Timestamp: 10}})

	tp, ok := pc.TokenPrice(consts.WSOLMint)
	require.True(t, ok)
	assert.Equal(t, 2.0, tp.PriceUsd)
}

func TestHistoryIsCapped(t *testing.T) {
	pc := NewPriceCache()
	for i := 1; i <= maxCapacity+50; i++ {
		pc.Update([]types.TokenPrice{{Mint: consts.WSOLMint, PriceUsd: float64(i), Timestamp: int64(i)}})
	}
	pc.mu.RLock()
	n := len(pc.history[consts.WSOLMint])
	pc.mu.RUnlock()
	assert.LessOrEqual(t, n, maxCapacity)

	tp, ok := pc.TokenPrice(consts.WSOLMint)
	require.True(t, ok)
	assert.Equal(t, float64(maxCapacity+50), tp.PriceUsd)
}
