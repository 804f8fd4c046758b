package lifinity

import "defi-reader-sol/internal/types"

func ParseAmm(data []byte, ammID types.Pubkey) (AmmInfo, error) {
	v, err := AmmLayout.Decode(data)
	if err != nil {
		return AmmInfo{}, err
	}
	return AmmInfo{
		AmmID:          ammID,
		Index:          v.Uint64("index"),
		InitializerKey: v.Pubkey("initializerKey"),
		Initialized:    v.Bool("initialized"),
		BumpSeed:       v.Uint8("bumpSeed"),
		FreezeTrade:    v.Bool("freezeTrade"),
		FreezeDeposit:  v.Bool("freezeDeposit"),
		FreezeWithdraw: v.Bool("freezeWithdraw"),
		BaseDecimals:   v.Uint8("baseDecimals"),

		TokenProgramID: v.Pubkey("tokenProgramId"),
		TokenAAccount:  v.Pubkey("tokenAAccount"),
		TokenBAccount:  v.Pubkey("tokenBAccount"),
		PoolMint:       v.Pubkey("poolMint"),
		TokenAMint:     v.Pubkey("tokenAMint"),
		TokenBMint:     v.Pubkey("tokenBMint"),
		PoolFeeAccount: v.Pubkey("poolFeeAccount"),
		PythAccount:    v.Pubkey("pythAccount"),
		PythPcAccount:  v.Pubkey("pythPcAccount"),
		ConfigAccount:  v.Pubkey("configAccount"),

		TradeFeeNumerator:           v.Uint64("tradeFeeNumerator"),
		TradeFeeDenominator:         v.Uint64("tradeFeeDenominator"),
		OwnerTradeFeeNumerator:      v.Uint64("ownerTradeFeeNumerator"),
		OwnerTradeFeeDenominator:    v.Uint64("ownerTradeFeeDenominator"),
		OwnerWithdrawFeeNumerator:   v.Uint64("ownerWithdrawFeeNumerator"),
		OwnerWithdrawFeeDenominator: v.Uint64("ownerWithdrawFeeDenominator"),
		HostFeeNumerator:            v.Uint64("hostFeeNumerator"),
		HostFeeDenominator:          v.Uint64("hostFeeDenominator"),
		CurveType:                   v.Uint8("curveType"),
		CurveParameters:             v.Uint64("curveParameters"),
	}, nil
}

func ParseConfig(data []byte, configID types.Pubkey) (ConfigInfo, error) {
	v, err := ConfigLayout.Decode(data)
	if err != nil {
		return ConfigInfo{}, err
	}
	return ConfigInfo{
		ConfigID:            configID,
		Index:               v.Uint64("index"),
		ConcentrationRatio:  v.Uint64("concentrationRatio"),
		LastPrice:           v.Uint64("lastPrice"),
		AdjustRatio:         v.Uint64("adjustRatio"),
		BalanceRatio:        v.Uint64("balanceRatio"),
		LastBalancedPrice:   v.Uint64("lastBalancedPrice"),
		ConfigDenominator:   v.Uint64("configDenominator"),
		PythConfidenceLimit: v.Uint64("pythConfidenceLimit"),
		PythSlotLimit:       v.Uint64("pythSlotLimit"),
		VolumeX:             v.Uint64("volumeX"),
		VolumeY:             v.Uint64("volumeY"),
		VolumeXInY:          v.Uint64("volumeXinY"),
		CoefficientUp:       v.Uint64("coefficientUp"),
		CoefficientDown:     v.Uint64("coefficientDown"),
		OracleStatus:        v.Uint64("oracleStatus"),
	}, nil
}
