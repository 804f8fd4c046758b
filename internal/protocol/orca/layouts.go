package orca

import "defi-reader-sol/internal/layout"

// PoolLayout token-swap 池账户，span 324
var PoolLayout = layout.New("OrcaPool",
	layout.U8("version"),
	layout.U8("isInitialized"),
	layout.U8("nonce"),
	layout.Pubkey("tokenProgramId"),
	layout.Pubkey("tokenAccountA"),
	layout.Pubkey("tokenAccountB"),
	layout.Pubkey("lpMint"),
	layout.Pubkey("mintA"),
	layout.Pubkey("mintB"),
	layout.Pubkey("feeAccount"),
	layout.U64("tradeFeeNumerator"),
	layout.U64("tradeFeeDenominator"),
	layout.U64("ownerTradeFeeNumerator"),
	layout.U64("ownerTradeFeeDenominator"),
	layout.U64("ownerWithdrawFeeNumerator"),
	layout.U64("ownerWithdrawFeeDenominator"),
	layout.U64("hostFeeNumerator"),
	layout.U64("hostFeeDenominator"),
	layout.U8("curveType"),
	layout.Blob("curveParameters", 32),
)

// FarmLayout aquafarm 全局 farm 账户，span 283
var FarmLayout = layout.New("OrcaFarm",
	layout.U8("isInitialized"),
	layout.U8("accountType"),
	layout.U8("nonce"),
	layout.Pubkey("tokenProgramId"),
	layout.Pubkey("emissionsAuthority"),
	layout.Pubkey("removeRewardsAuthority"),
	layout.Pubkey("baseTokenMint"),
	layout.Pubkey("baseTokenVault"),
	layout.Pubkey("rewardTokenVault"),
	layout.Pubkey("farmTokenMint"),
	layout.U64("emissionsPerSecondNumerator"),
	layout.U64("emissionsPerSecondDenominator"),
	layout.U64("lastUpdatedTimestamp"),
	layout.U256("cumulativeEmissionsPerFarmToken"),
)

// FarmerLayout 用户在 farm 中的质押记录，span 106；owner 位于偏移 34
var FarmerLayout = layout.New("OrcaFarmer",
	layout.U8("isInitialized"),
	layout.U8("accountType"),
	layout.Pubkey("globalFarm"),
	layout.Pubkey("owner"),
	layout.U64("baseTokensConverted"),
	layout.U256("cumulativeEmissionsCheckpoint"),
)
