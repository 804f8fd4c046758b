package friktion

import "defi-reader-sol/internal/layout"

// Volt 账户（Anchor），vault 的主记录
var VoltVaultLayout = layout.New("Volt",
	layout.Blob("discriminator", 8),
	layout.Pubkey("adminKey"),
	layout.Pubkey("seed"),
	layout.U64("transferWindow"),
	layout.U64("startTransferTime"),
	layout.U64("endTransferTime"),
	layout.Bool("initialized"),
	layout.Bool("currOptionWasSettled"),
	layout.Bool("mustSwapPremiumToUnderlying"),
	layout.Bool("nextOptionWasSet"),
	layout.Bool("firstEverOptionWasSet"),
	layout.Bool("instantTransfersEnabled"),
	layout.Bool("prepareIsFinished"),
	layout.Bool("enterIsFinished"),
	layout.Bool("roundHasStarted"),
	layout.U64("roundNumber"),
	layout.U64("totalUnderlyingPreEnter"),
	layout.U64("totalUnderlyingPostSettle"),
	layout.U64("totalVoltTokensPostSettle"),
	layout.Pubkey("vaultAuthority"),
	layout.Pubkey("depositPool"),
	layout.Pubkey("premiumPool"),
	layout.Pubkey("optionPool"),
	layout.Pubkey("writerTokenPool"),
	layout.Pubkey("vaultMint"),
	layout.Pubkey("underlyingAssetMint"),
	layout.Pubkey("quoteAssetMint"),
	layout.Pubkey("optionMint"),
	layout.Pubkey("writerTokenMint"),
	layout.Pubkey("optionMarket"),
	layout.U64("vaultType"),
	layout.U64("underlyingAmountPerContract"),
	layout.U64("quoteAmountPerContract"),
	layout.I64("expirationUnixTimestamp"),
	layout.U64("expirationInterval"),
	layout.U64("upperBoundOtmStrikeFactor"),
	layout.Bool("haveTakenWithdrawalFees"),
	layout.Pubkey("serumSpotMarket"),
	layout.U8("openOrdersBump"),
	layout.U8("openOrdersInitBump"),
	layout.U8("ulOpenOrdersBump"),
	layout.Pubkey("ulOpenOrders"),
	layout.Bool("ulOpenOrdersInitialized"),
	layout.U8("bumpAuthority"),
	layout.U64("serumOrderSizeOptions"),
	layout.U64("individualCapacity"),
	layout.U64("serumOrderType"),
	layout.U16("serumLimit"),
	layout.U16("serumSelfTradeBehavior"),
	layout.U64("serumClientOrderId"),
	layout.Pubkey("whitelistTokenMint"),
	layout.Pubkey("permissionedMarketPremiumMint"),
	layout.Pubkey("permissionedMarketPremiumPool"),
	layout.U64("capacity"),
	layout.Array("unusedUintSpace", layout.KU64, 8),
).WithDiscriminator(layout.AnchorDiscriminator("Volt"))

// Round 每一轮的结算快照，地址 = PDA(vault, LE8(round), "roundInfo")
var RoundLayout = layout.New("Round",
	layout.Blob("discriminator", 8),
	layout.U64("number"),
	layout.U64("underlyingFromPendingDeposits"),
	layout.U64("voltTokensFromPendingWithdrawals"),
	layout.U64("underlyingPreEnter"),
	layout.U64("underlyingPostSettle"),
	layout.U64("premiumFarmed"),
	layout.Array("unusedUintSpace", layout.KU64, 3),
).WithDiscriminator(layout.AnchorDiscriminator("Round"))

// ExtraVoltData 地址 = PDA(vault, "extraVoltData")
var ExtraVoltDataLayout = layout.New("ExtraVoltData",
	layout.Blob("discriminator", 8),
	layout.Bool("isWhitelisted"),
	layout.Pubkey("whitelist"),
	layout.Bool("isForDao"),
	layout.Pubkey("daoProgramId"),
	layout.Pubkey("depositMint"),
	layout.U64("targetLeverage"),
	layout.U64("targetLeverageLenience"),
	layout.U64("exitEarlyRatio"),
	layout.Pubkey("entropyProgramId"),
	layout.Pubkey("entropyGroup"),
	layout.Pubkey("entropyAccount"),
	layout.Pubkey("powerPerpMarket"),
	layout.Bool("haveResolvedDeposits"),
	layout.Bool("doneRebalancing"),
	layout.Pubkey("daoAuthority"),
	layout.Pubkey("serumProgramId"),
	layout.Pubkey("entropyCache"),
	layout.Pubkey("spotPerpMarket"),
	layout.U64("netWithdrawals"),
	layout.U64("maxQuotePosChange"),
	layout.U64("targetHedgeLenience"),
	layout.Array("unusedUintSpace", layout.KU64, 8),
).WithDiscriminator(layout.AnchorDiscriminator("ExtraVoltData"))

// 用户待处理申购 / 赎回，两者 span 相同，仅 discriminator 不同
var userPendingFields = []layout.Field{
	layout.Blob("discriminator", 8),
	layout.Bool("initialized"),
	layout.U64("roundNumber"),
	layout.U64("amount"),
}

var (
	PendingDepositLayout    = layout.New("PendingDeposit", userPendingFields...).WithDiscriminator(layout.AnchorDiscriminator("PendingDeposit"))
	PendingWithdrawalLayout = layout.New("PendingWithdrawal", userPendingFields...).WithDiscriminator(layout.AnchorDiscriminator("PendingWithdrawal"))
)
