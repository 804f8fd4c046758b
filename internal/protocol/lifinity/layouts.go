package lifinity

import "defi-reader-sol/internal/layout"

// AmmLayout Lifinity v1 AMM 账户，span 615
var AmmLayout = layout.New("LifinityAmm",
	layout.U64("index"),
	layout.Pubkey("initializerKey"),
	layout.Pubkey("initializerDepositTokenAccount"),
	layout.Pubkey("initializerReceiveTokenAccount"),
	layout.U64("initializerAmount"),
	layout.U64("takerAmount"),
	layout.Bool("initialized"),
	layout.U8("bumpSeed"),
	layout.Bool("freezeTrade"),
	layout.Bool("freezeDeposit"),
	layout.Bool("freezeWithdraw"),
	layout.U8("baseDecimals"),
	layout.Pubkey("tokenProgramId"),
	layout.Pubkey("tokenAAccount"),
	layout.Pubkey("tokenBAccount"),
	layout.Pubkey("poolMint"),
	layout.Pubkey("tokenAMint"),
	layout.Pubkey("tokenBMint"),
	layout.Pubkey("poolFeeAccount"),
	layout.Pubkey("pythAccount"),
	layout.Pubkey("pythPcAccount"),
	layout.Pubkey("configAccount"),
	layout.Pubkey("ammTemp1"),
	layout.Pubkey("ammTemp2"),
	layout.Pubkey("ammTemp3"),
	layout.U64("tradeFeeNumerator"),
	layout.U64("tradeFeeDenominator"),
	layout.U64("ownerTradeFeeNumerator"),
	layout.U64("ownerTradeFeeDenominator"),
	layout.U64("ownerWithdrawFeeNumerator"),
	layout.U64("ownerWithdrawFeeDenominator"),
	layout.U64("hostFeeNumerator"),
	layout.U64("hostFeeDenominator"),
	layout.U8("curveType"),
	layout.U64("curveParameters"),
)

// ConfigLayout AMM 的价格配置账户，span 136
var ConfigLayout = layout.New("LifinityConfig",
	layout.U64("index"),
	layout.U64("concentrationRatio"),
	layout.U64("lastPrice"),
	layout.U64("adjustRatio"),
	layout.U64("balanceRatio"),
	layout.U64("lastBalancedPrice"),
	layout.U64("configDenominator"),
	layout.U64("pythConfidenceLimit"),
	layout.U64("pythSlotLimit"),
	layout.U64("volumeX"),
	layout.U64("volumeY"),
	layout.U64("volumeXinY"),
	layout.U64("coefficientUp"),
	layout.U64("coefficientDown"),
	layout.U64("oracleStatus"),
	layout.U64("configTemp1"),
	layout.U64("configTemp2"),
)
