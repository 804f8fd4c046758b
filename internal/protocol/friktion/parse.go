package friktion

import (
	"defi-reader-sol/internal/protocol"
	"defi-reader-sol/internal/types"
)

// ParseVault 解码 Volt 账户；地址不在数据中，由调用方传入
func ParseVault(data []byte, vaultID types.Pubkey) (VaultInfo, error) {
	v, err := VoltVaultLayout.Decode(data)
	if err != nil {
		return VaultInfo{}, err
	}
	return VaultInfo{
		VaultID:                     vaultID,
		AdminKey:                    v.Pubkey("adminKey"),
		Seed:                        v.Pubkey("seed"),
		TransferWindow:              v.Uint64("transferWindow"),
		StartTransferTime:           v.Uint64("startTransferTime"),
		EndTransferTime:             v.Uint64("endTransferTime"),
		Initialized:                 v.Bool("initialized"),
		CurrOptionWasSettled:        v.Bool("currOptionWasSettled"),
		MustSwapPremiumToUnderlying: v.Bool("mustSwapPremiumToUnderlying"),
		NextOptionWasSet:            v.Bool("nextOptionWasSet"),
		FirstEverOptionWasSet:       v.Bool("firstEverOptionWasSet"),
		InstantTransfersEnabled:     v.Bool("instantTransfersEnabled"),
		PrepareIsFinished:           v.Bool("prepareIsFinished"),
		EnterIsFinished:             v.Bool("enterIsFinished"),
		RoundHasStarted:             v.Bool("roundHasStarted"),
		RoundNumber:                 v.Uint64("roundNumber"),
		TotalUnderlyingPreEnter:     v.Uint64("totalUnderlyingPreEnter"),
		TotalUnderlyingPostSettle:   v.Uint64("totalUnderlyingPostSettle"),
		TotalVoltTokensPostSettle:   v.Uint64("totalVoltTokensPostSettle"),
		VaultAuthority:              v.Pubkey("vaultAuthority"),
		DepositPool:                 v.Pubkey("depositPool"),
		PremiumPool:                 v.Pubkey("premiumPool"),
		OptionPool:                  v.Pubkey("optionPool"),
		WriterTokenPool:             v.Pubkey("writerTokenPool"),
		VaultMint:                   v.Pubkey("vaultMint"),
		ShareMint:                   v.Pubkey("vaultMint"),
		UnderlyingAssetMint:         v.Pubkey("underlyingAssetMint"),
		QuoteAssetMint:              v.Pubkey("quoteAssetMint"),
		OptionMint:                  v.Pubkey("optionMint"),
		WriterTokenMint:             v.Pubkey("writerTokenMint"),
		OptionMarket:                v.Pubkey("optionMarket"),
		VaultType:                   v.Uint64("vaultType"),
		UnderlyingAmountPerContract: v.Uint64("underlyingAmountPerContract"),
		QuoteAmountPerContract:      v.Uint64("quoteAmountPerContract"),
		ExpirationUnixTimestamp:     v.Int64("expirationUnixTimestamp"),
		ExpirationInterval:          v.Uint64("expirationInterval"),
		UpperBoundOtmStrikeFactor:   v.Uint64("upperBoundOtmStrikeFactor"),
		HaveTakenWithdrawalFees:     v.Bool("haveTakenWithdrawalFees"),
		SerumSpotMarket:             v.Pubkey("serumSpotMarket"),
		IndividualCapacity:          v.Uint64("individualCapacity"),
		Capacity:                    v.Uint64("capacity"),
		RoundInfos:                  []RoundInfo{},
	}, nil
}

func ParseRound(data []byte, roundID types.Pubkey) (RoundInfo, error) {
	v, err := RoundLayout.Decode(data)
	if err != nil {
		return RoundInfo{}, err
	}
	return RoundInfo{
		RoundID:                          roundID,
		Number:                           v.Uint64("number"),
		UnderlyingFromPendingDeposits:    v.Uint64("underlyingFromPendingDeposits"),
		VoltTokensFromPendingWithdrawals: v.Uint64("voltTokensFromPendingWithdrawals"),
		UnderlyingPreEnter:               v.Uint64("underlyingPreEnter"),
		UnderlyingPostSettle:             v.Uint64("underlyingPostSettle"),
		PremiumFarmed:                    v.Uint64("premiumFarmed"),
	}, nil
}

func ParseExtraData(data []byte, extraDataID types.Pubkey) (ExtraVaultInfo, error) {
	v, err := ExtraVoltDataLayout.Decode(data)
	if err != nil {
		return ExtraVaultInfo{}, err
	}
	return ExtraVaultInfo{
		ExtraDataID:            extraDataID,
		IsWhitelisted:          v.Bool("isWhitelisted"),
		Whitelist:              v.Pubkey("whitelist"),
		IsForDao:               v.Bool("isForDao"),
		DaoProgramID:           v.Pubkey("daoProgramId"),
		DepositMint:            v.Pubkey("depositMint"),
		TargetLeverage:         v.Uint64("targetLeverage"),
		TargetLeverageLenience: v.Uint64("targetLeverageLenience"),
		ExitEarlyRatio:         v.Uint64("exitEarlyRatio"),
		EntropyProgramID:       v.Pubkey("entropyProgramId"),
		EntropyGroup:           v.Pubkey("entropyGroup"),
		EntropyAccount:         v.Pubkey("entropyAccount"),
		PowerPerpMarket:        v.Pubkey("powerPerpMarket"),
		HaveResolvedDeposits:   v.Bool("haveResolvedDeposits"),
		DoneRebalancing:        v.Bool("doneRebalancing"),
		DaoAuthority:           v.Pubkey("daoAuthority"),
		SerumProgramID:         v.Pubkey("serumProgramId"),
		EntropyCache:           v.Pubkey("entropyCache"),
		SpotPerpMarket:         v.Pubkey("spotPerpMarket"),
		NetWithdrawals:         v.Uint64("netWithdrawals"),
		MaxQuotePosChange:      v.Uint64("maxQuotePosChange"),
		TargetHedgeLenience:    v.Uint64("targetHedgeLenience"),
	}, nil
}

// ParseDepositor 原始数据不包含用户地址，userKey 为空时返回 MissingContext
func ParseDepositor(data []byte, depositorID types.Pubkey, userKey *types.Pubkey) (DepositorInfo, error) {
	if userKey == nil {
		return DepositorInfo{}, protocol.MissingContext("depositor", "userKey")
	}
	v, err := PendingDepositLayout.Decode(data)
	if err != nil {
		return DepositorInfo{}, err
	}
	return DepositorInfo{
		DepositorID:            depositorID,
		UserKey:                *userKey,
		Initialized:            v.Bool("initialized"),
		RoundNumber:            v.Uint64("roundNumber"),
		NumUnderlyingDeposited: v.Uint64("amount"),
	}, nil
}

// ParseWithdrawer 同 ParseDepositor
func ParseWithdrawer(data []byte, withdrawerID types.Pubkey, userKey *types.Pubkey) (WithdrawerInfo, error) {
	if userKey == nil {
		return WithdrawerInfo{}, protocol.MissingContext("withdrawer", "userKey")
	}
	v, err := PendingWithdrawalLayout.Decode(data)
	if err != nil {
		return WithdrawerInfo{}, err
	}
	return WithdrawerInfo{
		WithdrawerID:    withdrawerID,
		UserKey:         *userKey,
		Initialized:     v.Bool("initialized"),
		RoundNumber:     v.Uint64("roundNumber"),
		NumVoltRedeemed: v.Uint64("amount"),
	}, nil
}
