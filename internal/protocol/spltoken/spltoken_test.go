package spltoken

import (
	"context"
	"testing"

	"defi-reader-sol/internal/chain/chaintest"
	"defi-reader-sol/internal/consts"
	"defi-reader-sol/internal/layout"
	"defi-reader-sol/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(b byte) types.Pubkey {
	var p types.Pubkey
	p[31] = b
	p[0] = 0xA0
	return p
}

func TestParseTokenAccount(t *testing.T) {
	data := EncodeTokenAccount(key(1), key(2), 12345)
	acc, err := ParseTokenAccount(data, key(9))
	require.NoError(t, err)
	assert.Equal(t, key(9), acc.Address)
	assert.Equal(t, key(1), acc.Mint)
	assert.Equal(t, key(2), acc.Owner)
	assert.Equal(t, uint64(12345), acc.Amount)

	_, err = ParseTokenAccount(data[:100], key(9))
	assert.ErrorIs(t, err, layout.ErrDecode)
}

func TestParseMint(t *testing.T) {
	m, err := ParseMint(EncodeMint(5_000_000, 6), key(3))
	require.NoError(t, err)
	assert.Equal(t, uint64(5_000_000), m.Supply)
	assert.Equal(t, uint8(6), m.Decimals)
	assert.Equal(t, uint64(5), m.SupplyDividedByDecimals())

	_, err = ParseMint(make([]byte, 10), key(3))
	assert.ErrorIs(t, err, layout.ErrDecode)
}

func TestSupplyDividedByDecimals(t *testing.T) {
	assert.Equal(t, uint64(0), Mint{Supply: 999, Decimals: 3}.SupplyDividedByDecimals())
	assert.Equal(t, uint64(42), Mint{Supply: 42}.SupplyDividedByDecimals())
	assert.Equal(t, uint64(0), Mint{Supply: 1, Decimals: 30}.SupplyDividedByDecimals())
}

func TestFetchSkipsMissingAndDedups(t *testing.T) {
	f := chaintest.New().
		Put(consts.TokenProgram, key(1), EncodeTokenAccount(key(7), key(8), 10)).
		Put(consts.TokenProgram, key(2), []byte{1, 2, 3})

	accs, err := FetchTokenAccounts(context.Background(), f, []types.Pubkey{key(1), key(1), key(2), key(3)})
	require.NoError(t, err)
	assert.Len(t, accs, 1)
	assert.Equal(t, uint64(10), accs[key(1)].Amount)
	assert.Equal(t, 1, f.GetManyCalls)

	mints, err := FetchMints(context.Background(), f, nil)
	require.NoError(t, err)
	assert.Empty(t, mints)
	assert.Equal(t, 1, f.GetManyCalls)
}
