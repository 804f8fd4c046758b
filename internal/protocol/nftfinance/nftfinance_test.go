package nftfinance

import (
	"context"
	"crypto/sha256"
	"testing"

	"defi-reader-sol/internal/chain"
	"defi-reader-sol/internal/chain/chaintest"
	"defi-reader-sol/internal/consts"
	"defi-reader-sol/internal/layout"
	"defi-reader-sol/internal/protocol"
	"defi-reader-sol/internal/types"

	"github.com/near/borsh-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(tag string) types.Pubkey {
	return types.Pubkey(sha256.Sum256([]byte(tag)))
}

type borshRarity struct {
	Discriminator uint64
	Admin         [32]byte
	Collection    [16]byte
	Rarity        [16]byte
	MintList      [][32]byte
}

func rarityBytes(t *testing.T) []byte {
	t.Helper()
	r := borshRarity{Discriminator: 99, Admin: key("admin"), MintList: [][32]byte{key("nft-1"), key("nft-2")}}
	copy(r.Collection[:], "degods")
	copy(r.Rarity[:], "legendary")
	data, err := borsh.Serialize(r)
	require.NoError(t, err)
	return data
}

func newFixture(t *testing.T) *chaintest.Fetcher {
	t.Helper()
	f := chaintest.New()
	program := consts.NftFinanceProgram
	f.Put(program, key("rarity"), rarityBytes(t))
	f.Put(program, key("pool-1"), PoolLayout.MustEncode(layout.Values{
		"admin":          key("admin"),
		"proveTokenMint": key("prove"),
		"rarityInfo":     key("rarity"),
		"mintListLength": 2,
		"totalLocked":    1,
	}))
	f.Put(program, key("pool-2"), PoolLayout.MustEncode(layout.Values{"rarityInfo": key("missing")}))
	f.Put(program, key("farm"), FarmLayout.MustEncode(layout.Values{
		"proveTokenMint":           key("prove"),
		"rewardTokenMint":          key("reward"),
		"farmAuthorityBump":        254,
		"rewardTokenPerSlot":       10,
		"totalProveTokenDeposited": 300,
	}))
	f.Put(program, key("miner-1"), MinerLayout.MustEncode(layout.Values{
		"owner":           key("alice"),
		"farmInfo":        key("farm"),
		"depositedAmount": 5,
		"minerBump":       253,
	}))
	f.Put(program, key("miner-2"), MinerLayout.MustEncode(layout.Values{"owner": key("bob")}))
	f.Put(program, key("vault-1"), NftVaultLayout.MustEncode(layout.Values{
		"user":     key("alice"),
		"poolInfo": key("pool-1"),
		"nftMint":  key("nft-1"),
	}))
	return f
}

func TestLayoutSpans(t *testing.T) {
	assert.Equal(t, 184, PoolLayout.Span())
	assert.Equal(t, 104, NftVaultLayout.Span())
	assert.Equal(t, 217, FarmLayout.Span())
	assert.Equal(t, 129, MinerLayout.Span())
	assert.Equal(t, 76, RarityLayout.MinSpan())
	assert.Equal(t, 8, MinerLayout.Offset("owner"))
	assert.Equal(t, 8, NftVaultLayout.Offset("user"))
}

func TestParseRarityMatchesBorsh(t *testing.T) {
	r, err := ParseRarity(rarityBytes(t), key("rarity"))
	require.NoError(t, err)
	assert.Equal(t, "degods", r.Collection)
	assert.Equal(t, "legendary", r.Rarity)
	assert.Equal(t, []types.Pubkey{key("nft-1"), key("nft-2")}, r.MintList)
	assert.Equal(t, key("admin"), r.Admin)

	_, err = ParseRarity(rarityBytes(t)[:40], key("rarity"))
	assert.ErrorIs(t, err, layout.ErrDecode)
}

func TestGetAllPoolsJoinsRarity(t *testing.T) {
	f := newFixture(t)
	n := New(protocol.Deps{Fetcher: f}, Config{})
	pools, err := n.GetAllPools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, pools, 2)

	byID := map[types.Pubkey]PoolInfo{}
	for _, p := range pools {
		byID[p.PoolID] = p
	}
	require.NotNil(t, byID[key("pool-1")].Rarity)
	assert.Equal(t, "legendary", byID[key("pool-1")].Rarity.Rarity)
	assert.Equal(t, uint64(2), byID[key("pool-1")].MintListLength)
	assert.Nil(t, byID[key("pool-2")].Rarity)
	assert.Equal(t, 1, f.GetManyCalls)

	p, err := n.GetPool(context.Background(), key("pool-1"))
	require.NoError(t, err)
	require.NotNil(t, p.Rarity)
	assert.Len(t, p.Rarity.MintList, 2)
}

func TestUserScopedListings(t *testing.T) {
	f := newFixture(t)
	n := New(protocol.Deps{Fetcher: f}, Config{})

	miners, err := n.GetAllMiners(context.Background(), key("alice"))
	require.NoError(t, err)
	require.Len(t, miners, 1)
	assert.Equal(t, key("miner-1"), miners[0].MinerID)
	assert.Equal(t, key("farm"), miners[0].FarmInfo)
	assert.Equal(t, uint64(5), miners[0].DepositedAmount)
	assert.Equal(t, uint8(253), miners[0].MinerBump)
	require.NotEmpty(t, f.ListedFilters)
	assert.Contains(t, f.ListedFilters[len(f.ListedFilters)-1], chain.Memcmp(MinerLayout.Offset("owner"), key("alice").Bytes()))

	vaults, err := n.GetAllNftVaults(context.Background(), key("alice"))
	require.NoError(t, err)
	require.Len(t, vaults, 1)
	assert.Equal(t, key("nft-1"), vaults[0].NftMint)
	assert.Contains(t, f.ListedFilters[len(f.ListedFilters)-1], chain.Memcmp(NftVaultLayout.Offset("user"), key("alice").Bytes()))

	vaults, err = n.GetAllNftVaults(context.Background(), key("bob"))
	require.NoError(t, err)
	assert.Empty(t, vaults)
}

func TestFarmsAndSingleGets(t *testing.T) {
	f := newFixture(t)
	n := New(protocol.Deps{Fetcher: f}, Config{})

	farms, err := n.GetAllFarms(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, farms, 1)
	assert.Equal(t, uint64(300), farms[0].TotalProveTokenDeposited)
	assert.Equal(t, uint8(254), farms[0].FarmAuthorityBump)

	farm, err := n.GetFarm(context.Background(), key("farm"))
	require.NoError(t, err)
	assert.Equal(t, key("reward"), farm.RewardTokenMint)

	_, err = n.GetFarm(context.Background(), key("nope"))
	assert.ErrorIs(t, err, protocol.ErrNotFound)
	_, err = n.GetMiner(context.Background(), key("nope"))
	assert.ErrorIs(t, err, protocol.ErrNotFound)
	_, err = n.GetNftVault(context.Background(), key("nope"))
	assert.ErrorIs(t, err, protocol.ErrNotFound)
	_, err = n.GetPool(context.Background(), key("nope"))
	assert.ErrorIs(t, err, protocol.ErrNotFound)
	_, err = n.GetRarity(context.Background(), key("nope"))
	assert.ErrorIs(t, err, protocol.ErrNotFound)

	// 长度不足的池账户按解码错误返回
	f.Put(consts.NftFinanceProgram, key("short"), make([]byte, 10))
	_, err = n.GetPool(context.Background(), key("short"))
	assert.ErrorIs(t, err, layout.ErrDecode)
}
