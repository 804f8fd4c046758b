package tools

import (
	"defi-reader-sol/internal/consts"
	"defi-reader-sol/internal/types"

	"github.com/shopspring/decimal"
)

const (
	WSOLDecimals  = 9
	USDCDecimals  = 6
	USDTDecimals  = 6
	StSOLDecimals = 9
)

var QuoteDecimals = map[types.Pubkey]uint8{
	consts.WSOLMint:  WSOLDecimals,
	consts.USDCMint:  USDCDecimals,
	consts.USDTMint:  USDTDecimals,
	consts.StSOLMint: StSOLDecimals,
}

// QuotePriority 定义系统内置 quote token 的优先级（数值越小优先级越高）。
var QuotePriority = map[types.Pubkey]int{
	consts.USDCMint: 1, // 美元稳定币优先作为 quote，便于直接读出美元价格
	consts.USDTMint: 2,
	consts.WSOLMint: 3,

	consts.StSOLMint: 101,
}

// ChooseBaseQuote 根据 QuotePriority 判断 base 和 quote 的关系。
// 返回 (base, quote, true) 表示成功判断，false 表示双方都不是 quote。
func ChooseBaseQuote(a, b types.Pubkey) (base, quote types.Pubkey, ok bool) {
	pa, oka := QuotePriority[a]
	pb, okb := QuotePriority[b]

	switch {
	case oka && okb:
		if pa < pb {
			return b, a, true
		}
		if pb < pa {
			return a, b, true
		}
	case oka:
		return b, a, true
	case okb:
		return a, b, true
	}

	return types.Pubkey{}, types.Pubkey{}, false
}

// SpotPrice 按储备计算 1 个 base 折合多少 quote（已按精度换算），base 储备为 0 时返回 0
func SpotPrice(baseReserve uint64, baseDecimals uint8, quoteReserve uint64, quoteDecimals uint8) decimal.Decimal {
	base := ScaleDown(baseReserve, baseDecimals)
	if base.IsZero() {
		return decimal.Zero
	}
	return ScaleDown(quoteReserve, quoteDecimals).Div(base)
}
