package layout

import (
	"errors"
	"math/big"
	"testing"

	"defi-reader-sol/internal/types"

	"github.com/near/borsh-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLayout = New("Test",
	Blob("discriminator", 8),
	U8("version"),
	U16("flags"),
	U32("count"),
	U64("amount"),
	I64("expiry"),
	Bool("active"),
	Pubkey("owner"),
	U128("u128"),
	U256("u256"),
	Array("unused", KU64, 3),
	Struct("rate", U64("numerator"), U64("denominator")),
)

var vecLayout = New("VecTest",
	U8("accountType"),
	U32("maxEntries"),
	Vec("entries", KStruct(Pubkey("key"), U64("balance"))),
)

func samplePubkey(seed byte) types.Pubkey {
	var p types.Pubkey
	for i := range p {
		p[i] = seed + byte(i)
	}
	return p
}

func TestSpanAndOffset(t *testing.T) {
	assert.Equal(t, 8+1+2+4+8+8+1+32+16+32+24+16, testLayout.Span())
	assert.Equal(t, testLayout.Span(), testLayout.MinSpan())
	assert.True(t, testLayout.IsFixed())
	assert.Equal(t, 0, testLayout.Offset("discriminator"))
	assert.Equal(t, 8, testLayout.Offset("version"))
	assert.Equal(t, 8+1+2+4+8+8+1, testLayout.Offset("owner"))
	assert.Equal(t, -1, testLayout.Offset("missing"))

	assert.Equal(t, -1, vecLayout.Span())
	assert.Equal(t, 1+4+4, vecLayout.MinSpan())
	assert.Equal(t, -1, vecLayout.Offset("nothing"))
	assert.Equal(t, 5, vecLayout.Offset("entries"))
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	u256, ok := new(big.Int).SetString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)
	require.True(t, ok)

	in := Values{
		"discriminator": []byte{1, 2, 3, 4, 5, 6, 7, 8},
		"version":       uint64(2),
		"flags":         uint64(0xBEEF),
		"count":         uint64(70000),
		"amount":        uint64(18446744073709551615),
		"expiry":        int64(-5),
		"active":        true,
		"owner":         samplePubkey(3),
		"u128":          new(big.Int).Lsh(big.NewInt(1), 100),
		"u256":          u256,
		"unused":        []any{uint64(1), uint64(2), uint64(3)},
		"rate":          Values{"numerator": uint64(3), "denominator": uint64(1000)},
	}
	data, err := testLayout.Encode(in)
	require.NoError(t, err)
	require.Len(t, data, testLayout.Span())

	out, err := testLayout.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), out.Uint8("version"))
	assert.Equal(t, uint16(0xBEEF), out.Uint16("flags"))
	assert.Equal(t, uint32(70000), out.Uint32("count"))
	assert.Equal(t, uint64(18446744073709551615), out.Uint64("amount"))
	assert.Equal(t, int64(-5), out.Int64("expiry"))
	assert.True(t, out.Bool("active"))
	assert.Equal(t, samplePubkey(3), out.Pubkey("owner"))
	assert.Equal(t, 0, out.Big("u128").Cmp(new(big.Int).Lsh(big.NewInt(1), 100)))
	assert.Equal(t, 0, out.Big("u256").Cmp(u256))
	assert.Equal(t, []uint64{1, 2, 3}, out.Uint64s("unused"))
	assert.Equal(t, uint64(1000), out.Struct("rate").Uint64("denominator"))

	again, err := testLayout.Encode(out)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestDecodeShortBuffer(t *testing.T) {
	data := make([]byte, testLayout.Span()-1)
	_, err := testLayout.Decode(data)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "Test", de.Layout)
	assert.Equal(t, testLayout.Span(), de.Need)
	assert.Equal(t, testLayout.Span()-1, de.Have)

	_, err = testLayout.Decode(nil)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDecodeIgnoresTrailingBytes(t *testing.T) {
	data := append(testLayout.MustEncode(Values{"version": uint64(9)}), 0xFF, 0xFF)
	out, err := testLayout.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, uint8(9), out.Uint8("version"))
}

func TestBoolIsPermissive(t *testing.T) {
	data := testLayout.MustEncode(Values{})
	data[testLayout.Offset("active")] = 0x7F
	out, err := testLayout.Decode(data)
	require.NoError(t, err)
	assert.True(t, out.Bool("active"))

	data[testLayout.Offset("active")] = 0
	out, err = testLayout.Decode(data)
	require.NoError(t, err)
	assert.False(t, out.Bool("active"))
}

func TestVecRoundTrip(t *testing.T) {
	in := Values{
		"accountType": uint64(2),
		"maxEntries":  uint64(10),
		"entries": []any{
			Values{"key": samplePubkey(1), "balance": uint64(5)},
			Values{"key": samplePubkey(2), "balance": uint64(6)},
		},
	}
	data := vecLayout.MustEncode(in)
	assert.Len(t, data, 1+4+4+2*40)

	out, err := vecLayout.Decode(data)
	require.NoError(t, err)
	entries := out.Structs("entries")
	require.Len(t, entries, 2)
	assert.Equal(t, samplePubkey(2), entries[1].Pubkey("key"))
	assert.Equal(t, uint64(6), entries[1].Uint64("balance"))
}

func TestVecCountExceedsRemaining(t *testing.T) {
	data := vecLayout.MustEncode(Values{"entries": []any{Values{"balance": uint64(1)}}})
	// 把计数改成 1000，剩余字节不足
	data[5] = 0xE8
	data[6] = 0x03

	_, err := vecLayout.Decode(data)
	require.ErrorIs(t, err, ErrDecode)
	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "entries", de.Field)
	assert.Equal(t, 40, de.Have)
}

func TestEncodeRejectsOverflow(t *testing.T) {
	_, err := testLayout.Encode(Values{"version": uint64(256)})
	assert.Error(t, err)

	_, err = testLayout.Encode(Values{"u128": new(big.Int).Lsh(big.NewInt(1), 128)})
	assert.Error(t, err)

	_, err = testLayout.Encode(Values{"discriminator": make([]byte, 9)})
	assert.Error(t, err)
}

func TestMatches(t *testing.T) {
	disc := AnchorDiscriminator("Test")
	l := New("Tagged", Blob("discriminator", 8), U64("amount")).WithDiscriminator(disc)

	data := l.MustEncode(Values{"discriminator": disc})
	assert.True(t, l.Matches(data))

	other := l.MustEncode(Values{"discriminator": AnchorDiscriminator("Other")})
	assert.False(t, l.Matches(other))
	assert.False(t, l.Matches(append(data, 0)))

	_, err := l.Decode(other)
	assert.ErrorIs(t, err, ErrDecode)

	// 首字段缺失时自动写入前缀
	implicit := l.MustEncode(Values{"amount": uint64(7)})
	assert.True(t, l.Matches(implicit))
	v, err := l.Decode(implicit)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v.Uint64("amount"))
}

func TestAnchorDiscriminatorIsStable(t *testing.T) {
	a := AnchorDiscriminator("PendingDeposit")
	b := AnchorDiscriminator("PendingDeposit")
	assert.Len(t, a, 8)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, AnchorDiscriminator("PendingWithdrawal"))
}

type borshEntry struct {
	Key     [32]byte
	Balance uint64
}

type borshFixture struct {
	AccountType uint8
	MaxEntries  uint32
	Entries     []borshEntry
}

func TestDecodeMatchesBorshSerialization(t *testing.T) {
	fixture := borshFixture{
		AccountType: 1,
		MaxEntries:  64,
		Entries: []borshEntry{
			{Key: samplePubkey(7), Balance: 42},
			{Key: samplePubkey(9), Balance: 1 << 40},
		},
	}
	data, err := borsh.Serialize(fixture)
	require.NoError(t, err)

	out, err := vecLayout.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), out.Uint8("accountType"))
	assert.Equal(t, uint32(64), out.Uint32("maxEntries"))
	entries := out.Structs("entries")
	require.Len(t, entries, 2)
	assert.Equal(t, types.Pubkey(samplePubkey(9)), entries[1].Pubkey("key"))
	assert.Equal(t, uint64(1<<40), entries[1].Uint64("balance"))

	encoded, err := vecLayout.Encode(out)
	require.NoError(t, err)
	assert.Equal(t, data, encoded)
}
