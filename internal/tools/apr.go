package tools

import (
	"math/big"

	"defi-reader-sol/internal/consts"
	"defi-reader-sol/internal/stats"

	"github.com/shopspring/decimal"
)

// FarmAPRInput farm 年化收益所需的全部输入，指针为 nil 表示该输入不可用
type FarmAPRInput struct {
	EmissionsPerSecondNumerator   uint64
	EmissionsPerSecondDenominator uint64
	RewardDecimals                *uint8  // reward mint 精度
	BaseVaultAmount               *uint64 // farm 中已质押的 LP 数量
	BaseMintDecimals              *uint8

	RewardTokenPrice *float64
	TokenAPrice      *float64
	TokenBPrice      *float64
	TokenADecimals   *uint8
	TokenBDecimals   *uint8

	TokenSupplyA uint64
	TokenSupplyB uint64
	LpSupply     uint64
	LpDecimals   uint8
}

// FarmAPR 年化收益（百分比）：
//
//	dailyEmission = numerator * 86400 / denominator / 10^rewardDecimals
//	rewardUSD     = dailyEmission * 365 * rewardPrice
//	poolUSD       = A/10^decA * priceA + B/10^decB * priceB
//	stakeRate     = (baseVault / 10^baseDecimals) / (lpSupply / 10^lpDecimals)
//	apr           = rewardUSD / poolUSD * stakeRate * 100
//
// 任一输入缺失或分母为 0 时返回 0，不报错
func FarmAPR(in FarmAPRInput) float64 {
	if !positive(in.TokenAPrice) || !positive(in.TokenBPrice) || !positive(in.RewardTokenPrice) ||
		in.RewardDecimals == nil || in.BaseVaultAmount == nil || in.BaseMintDecimals == nil ||
		in.TokenADecimals == nil || in.TokenBDecimals == nil ||
		in.EmissionsPerSecondDenominator == 0 || in.LpSupply == 0 {
		return 0
	}

	dailyEmission := fromUint64(in.EmissionsPerSecondNumerator).
		Mul(decimal.NewFromInt(consts.SecondsPerDay)).
		Div(fromUint64(in.EmissionsPerSecondDenominator)).
		Shift(-int32(*in.RewardDecimals))
	if dailyEmission.IsZero() {
		return 0
	}
	rewardValueUSD := dailyEmission.
		Mul(decimal.NewFromInt(consts.DaysPerYear)).
		Mul(decimal.NewFromFloat(*in.RewardTokenPrice))

	poolValueUSD := ScaleDown(in.TokenSupplyA, *in.TokenADecimals).Mul(decimal.NewFromFloat(*in.TokenAPrice)).
		Add(ScaleDown(in.TokenSupplyB, *in.TokenBDecimals).Mul(decimal.NewFromFloat(*in.TokenBPrice)))
	if poolValueUSD.Sign() <= 0 {
		return 0
	}

	stakeRate := ScaleDown(*in.BaseVaultAmount, *in.BaseMintDecimals).
		Div(ScaleDown(in.LpSupply, in.LpDecimals))

	apr, _ := rewardValueUSD.Div(poolValueUSD).Mul(stakeRate).Mul(decimal.NewFromInt(100)).Float64()
	return apr
}

// PoolAPR 在 Orca 统计表中查找 poolAccount 对应的条目，返回周 APY * 100；找不到返回 0
func PoolAPR(poolStats map[string]stats.OrcaPoolStats, poolID string) float64 {
	for _, s := range poolStats {
		if s.PoolAccount == poolID {
			return s.APY.Week.Float64() * 100
		}
	}
	return 0
}

// ScaleDown amount / 10^decimals
func ScaleDown(amount uint64, decimals uint8) decimal.Decimal {
	return fromUint64(amount).Shift(-int32(decimals))
}

func fromUint64(n uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(n), 0)
}

func positive(p *float64) bool {
	return p != nil && *p > 0
}
