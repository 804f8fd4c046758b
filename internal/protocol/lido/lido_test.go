package lido

import (
	"context"
	"crypto/sha256"
	"testing"

	"defi-reader-sol/internal/chain/chaintest"
	"defi-reader-sol/internal/consts"
	"defi-reader-sol/internal/layout"
	"defi-reader-sol/internal/protocol"
	"defi-reader-sol/internal/types"

	"github.com/near/borsh-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(tag string) types.Pubkey {
	return types.Pubkey(sha256.Sum256([]byte(tag)))
}

type borshSeeds struct {
	Begin uint64
	End   uint64
}

type borshValidator struct {
	Vote         [32]byte
	StakeSeeds   borshSeeds
	UnstakeSeeds borshSeeds
	Stake        uint64
	Unstake      uint64
	Effective    uint64
	Active       uint8
}

type borshValidatorList struct {
	AccountType uint8
	LidoVersion uint8
	MaxEntries  uint32
	Entries     []borshValidator
}

type borshMaintainerList struct {
	AccountType uint8
	LidoVersion uint8
	MaxEntries  uint32
	Entries     [][32]byte
}

func validatorListBytes(t *testing.T) []byte {
	t.Helper()
	data, err := borsh.Serialize(borshValidatorList{
		AccountType: 2,
		LidoVersion: 1,
		MaxEntries:  60,
		Entries: []borshValidator{
			{Vote: key("vote-1"), StakeSeeds: borshSeeds{Begin: 0, End: 3}, Stake: 1000, Effective: 900, Active: 1},
			// 非 0/1 的 active 字节同样视为 true
			{Vote: key("vote-2"), Stake: 2500, Unstake: 10, Active: 7},
			{Vote: key("vote-3"), Stake: 500},
		},
	})
	require.NoError(t, err)
	return data
}

func TestLayoutSpans(t *testing.T) {
	assert.Equal(t, 418, StateV2Layout.Span())
	assert.False(t, StateV1Layout.IsFixed())
	assert.False(t, ValidatorListLayout.IsFixed())
	assert.Equal(t, 10, ValidatorListLayout.MinSpan())
}

func TestDetectVersion(t *testing.T) {
	v, err := DetectVersion([]byte{1, 1, 9})
	require.NoError(t, err)
	assert.Equal(t, VersionV2, v)

	v, err = DetectVersion([]byte{0, 5})
	require.NoError(t, err)
	assert.Equal(t, VersionV1, v)

	_, err = DetectVersion([]byte{2, 0})
	assert.ErrorIs(t, err, layout.ErrDecode)
	_, err = DetectVersion([]byte{1})
	assert.ErrorIs(t, err, layout.ErrDecode)
}

func TestParseValidatorListMatchesBorsh(t *testing.T) {
	validators, limit, err := ParseValidatorList(validatorListBytes(t))
	require.NoError(t, err)
	assert.Equal(t, uint32(60), limit)
	require.Len(t, validators, 3)
	assert.Equal(t, key("vote-1"), validators[0].VoteAccount)
	assert.Equal(t, SeedRange{Begin: 0, End: 3}, validators[0].StakeSeeds)
	assert.Equal(t, uint64(900), validators[0].EffectiveAccountsBalance)
	assert.True(t, validators[0].Active)
	assert.True(t, validators[1].Active)
	assert.False(t, validators[2].Active)
	assert.Nil(t, validators[0].FeeAddress)
}

func TestValidatorListCountOverflow(t *testing.T) {
	data := validatorListBytes(t)
	// 声明的元素个数超过剩余字节
	data[6] = 0xff
	_, _, err := ParseValidatorList(data)
	assert.ErrorIs(t, err, layout.ErrDecode)
}

func TestParseV1State(t *testing.T) {
	data := StateV1Layout.MustEncode(layout.Values{
		"lidoVersion":                      0,
		"stSolMint":                        key("stsol"),
		"exchangeRate":                     layout.Values{"computedInEpoch": 300, "stSolSupply": 200, "solBalance": 250},
		"rewardsWithdrawAuthorityBumpSeed": 254,
		"rewardDistribution":               layout.Values{"treasuryFee": 4, "validationFee": 5, "developerFee": 1},
		"validators": layout.Values{
			"entries": []layout.Values{
				{"pubkey": key("vote-1"), "entry": layout.Values{"feeCredit": 3, "feeAddress": key("fee"), "stakeAccountsBalance": 40, "active": true}},
				{"pubkey": key("vote-2"), "entry": layout.Values{"stakeAccountsBalance": 60}},
			},
			"maximumEntries": 9,
		},
		"maintainers": layout.Values{
			"entries":        []layout.Values{{"pubkey": key("maintainer")}},
			"maximumEntries": 4,
		},
	})

	info, err := ParseState(data, consts.LidoState)
	require.NoError(t, err)
	assert.Equal(t, VersionV1, info.Version)
	assert.Equal(t, consts.LidoState, info.StateID)
	assert.Equal(t, uint8(254), info.RewardsWithdrawAuthorityBumpSeed)
	assert.Equal(t, uint32(5), info.RewardDistribution.ValidationFee)
	require.Len(t, info.Validators, 2)
	require.NotNil(t, info.Validators[0].FeeAddress)
	assert.Equal(t, key("fee"), *info.Validators[0].FeeAddress)
	assert.Equal(t, uint64(3), info.Validators[0].FeeCredit)
	assert.Equal(t, uint32(9), info.MaxValidators)
	assert.Equal(t, []types.Pubkey{key("maintainer")}, info.Maintainers)

	w := &LidoInfoWrapper{Lido: info}
	assert.Equal(t, uint64(100), w.TotalStakeBalance())
	assert.Len(t, w.ActiveValidators(), 1)
	assert.True(t, w.ExchangeRate().Equal(decimal.NewFromFloat(1.25)))
}

type fixture struct {
	fetcher *chaintest.Fetcher
	lido    *Lido
	state   types.Pubkey
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fetcher := chaintest.New()
	fx := &fixture{fetcher: fetcher, lido: New(protocol.Deps{Fetcher: fetcher}, Config{}), state: key("state")}

	fetcher.Put(consts.LidoProgram, fx.state, StateV2Layout.MustEncode(layout.Values{
		"accountType":             1,
		"lidoVersion":             1,
		"stSolMint":               key("stsol"),
		"exchangeRate":            layout.Values{"stSolSupply": 100, "solBalance": 110},
		"rewardDistribution":      layout.Values{"treasuryFee": 4, "developerFee": 1, "stSolAppreciation": 95},
		"validatorList":           key("validators"),
		"maintainerList":          key("maintainers"),
		"maxCommissionPercentage": 5,
	}))
	fetcher.Put(consts.LidoProgram, key("validators"), validatorListBytes(t))
	maintainers, err := borsh.Serialize(borshMaintainerList{
		AccountType: 3,
		LidoVersion: 1,
		MaxEntries:  10,
		Entries:     [][32]byte{key("m1"), key("m2")},
	})
	require.NoError(t, err)
	fetcher.Put(consts.LidoProgram, key("maintainers"), maintainers)
	return fx
}

func TestGetV2JoinsLists(t *testing.T) {
	fx := newFixture(t)
	w, err := fx.lido.GetWrapper(context.Background(), fx.state)
	require.NoError(t, err)

	info := w.Lido
	assert.Equal(t, VersionV2, info.Version)
	assert.Equal(t, uint8(5), info.MaxCommissionPercentage)
	assert.Equal(t, uint32(95), info.RewardDistribution.StSolAppreciation)
	assert.Len(t, w.Validators(), 3)
	assert.Equal(t, []types.Pubkey{key("m1"), key("m2")}, info.Maintainers)
	assert.Equal(t, uint32(10), info.MaxMaintainers)
	assert.Equal(t, uint64(4000), w.TotalStakeBalance())
	assert.Len(t, w.ActiveValidators(), 2)
	assert.True(t, w.ExchangeRate().Equal(decimal.NewFromFloat(1.1)))

	// 两个列表账户一次批量读取
	assert.Equal(t, 1, fx.fetcher.GetManyCalls)
}

func TestGetAllListsV2States(t *testing.T) {
	fx := newFixture(t)
	states, err := fx.lido.GetAll(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, fx.state, states[0].StateID)
	assert.Len(t, states[0].Validators, 3)
}

func TestMissingListsLeaveEmptyCollections(t *testing.T) {
	fx := newFixture(t)
	fx.fetcher.Delete(key("validators"))
	info, err := fx.lido.Get(context.Background(), fx.state)
	require.NoError(t, err)
	assert.Empty(t, info.Validators)
	assert.NotNil(t, info.Validators)
	assert.Len(t, info.Maintainers, 2)
}

func TestGetErrors(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.lido.Get(context.Background(), key("nope"))
	assert.ErrorIs(t, err, protocol.ErrNotFound)

	fx.fetcher.Put(consts.LidoProgram, key("garbage"), []byte{9, 9, 9})
	_, err = fx.lido.Get(context.Background(), key("garbage"))
	assert.ErrorIs(t, err, layout.ErrDecode)
}

func TestExchangeRateZeroSupply(t *testing.T) {
	w := &LidoInfoWrapper{}
	assert.True(t, w.ExchangeRate().IsZero())
}
