package lido

import "defi-reader-sol/internal/layout"

var seedRange = layout.KStruct(layout.U64("begin"), layout.U64("end"))

var exchangeRate = layout.Struct("exchangeRate",
	layout.U64("computedInEpoch"),
	layout.U64("stSolSupply"),
	layout.U64("solBalance"),
)

var feeRecipients = layout.Struct("feeRecipients",
	layout.Pubkey("treasuryAccount"),
	layout.Pubkey("developerAccount"),
)

// metrics 两个版本共用，184 字节
var metrics = layout.Struct("metrics",
	layout.U64("feeTreasurySolTotal"),
	layout.U64("feeValidationSolTotal"),
	layout.U64("feeDeveloperSolTotal"),
	layout.U64("stSolAppreciationTotal"),
	layout.U64("feeTreasuryStSolTotal"),
	layout.U64("feeValidationStSolTotal"),
	layout.U64("feeDeveloperStSolTotal"),
	layout.Struct("depositAmount",
		layout.Array("counts", layout.KU64, 12),
		layout.U64("total"),
	),
	layout.Struct("withdrawAmount",
		layout.U64("totalStSolAmount"),
		layout.U64("totalSolAmount"),
		layout.U64("count"),
	),
)

var validatorV1 = layout.KStruct(
	layout.Pubkey("pubkey"),
	layout.Struct("entry",
		layout.U64("feeCredit"),
		layout.Pubkey("feeAddress"),
		layout.Field{Name: "stakeSeeds", Kind: seedRange},
		layout.Field{Name: "unstakeSeeds", Kind: seedRange},
		layout.U64("stakeAccountsBalance"),
		layout.U64("unstakeAccountsBalance"),
		layout.Bool("active"),
	),
)

var validatorV2 = layout.KStruct(
	layout.Pubkey("voteAccountAddress"),
	layout.Field{Name: "stakeSeeds", Kind: seedRange},
	layout.Field{Name: "unstakeSeeds", Kind: seedRange},
	layout.U64("stakeAccountsBalance"),
	layout.U64("unstakeAccountsBalance"),
	layout.U64("effectiveAccountsBalance"),
	layout.Bool("active"),
)

var maintainer = layout.KStruct(layout.Pubkey("pubkey"))

// StateV1Layout Solido v1：验证者与维护者列表内嵌在状态账户中，长度可变
var StateV1Layout = layout.New("LidoV1",
	layout.U8("lidoVersion"),
	layout.Pubkey("manager"),
	layout.Pubkey("stSolMint"),
	exchangeRate,
	layout.U8("solReserveAuthorityBumpSeed"),
	layout.U8("stakeAuthorityBumpSeed"),
	layout.U8("mintAuthorityBumpSeed"),
	layout.U8("rewardsWithdrawAuthorityBumpSeed"),
	layout.Struct("rewardDistribution",
		layout.U32("treasuryFee"),
		layout.U32("validationFee"),
		layout.U32("developerFee"),
		layout.U32("stSolAppreciation"),
	),
	feeRecipients,
	metrics,
	layout.Struct("validators",
		layout.Vec("entries", validatorV1),
		layout.U32("maximumEntries"),
	),
	layout.Struct("maintainers",
		layout.Vec("entries", maintainer),
		layout.U32("maximumEntries"),
	),
)

// StateV2Layout Solido v2：列表拆到独立账户，span 418
var StateV2Layout = layout.New("LidoV2",
	layout.U8("accountType"),
	layout.U8("lidoVersion"),
	layout.Pubkey("manager"),
	layout.Pubkey("stSolMint"),
	exchangeRate,
	layout.U8("solReserveAuthorityBumpSeed"),
	layout.U8("stakeAuthorityBumpSeed"),
	layout.U8("mintAuthorityBumpSeed"),
	layout.Struct("rewardDistribution",
		layout.U32("treasuryFee"),
		layout.U32("developerFee"),
		layout.U32("stSolAppreciation"),
	),
	feeRecipients,
	metrics,
	layout.Pubkey("validatorList"),
	layout.Pubkey("maintainerList"),
	layout.U8("maxCommissionPercentage"),
)

var ValidatorListLayout = layout.New("LidoValidatorList",
	layout.U8("accountType"),
	layout.U8("lidoVersion"),
	layout.U32("maxEntries"),
	layout.Vec("entries", validatorV2),
)

var MaintainerListLayout = layout.New("LidoMaintainerList",
	layout.U8("accountType"),
	layout.U8("lidoVersion"),
	layout.U32("maxEntries"),
	layout.Vec("entries", maintainer),
)

// VersionCheckLayout 只读取前两个字节用于区分 v1 / v2
var VersionCheckLayout = layout.New("LidoVersionCheck",
	layout.U8("maybeAccountType"),
	layout.U8("maybeLidoVersion"),
)
