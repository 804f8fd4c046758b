package orca

import "defi-reader-sol/internal/types"

func ParsePool(data []byte, poolID types.Pubkey) (PoolInfo, error) {
	v, err := PoolLayout.Decode(data)
	if err != nil {
		return PoolInfo{}, err
	}
	return PoolInfo{
		PoolID:              poolID,
		Version:             v.Uint8("version"),
		IsInitialized:       v.Uint8("isInitialized"),
		Nonce:               v.Uint8("nonce"),
		TokenProgramID:      v.Pubkey("tokenProgramId"),
		TokenAccountA:       v.Pubkey("tokenAccountA"),
		TokenAccountB:       v.Pubkey("tokenAccountB"),
		FeeAccount:          v.Pubkey("feeAccount"),
		LpMint:              v.Pubkey("lpMint"),
		TokenAMint:          v.Pubkey("mintA"),
		TokenBMint:          v.Pubkey("mintB"),
		TradeFeeNumerator:   v.Uint64("tradeFeeNumerator"),
		TradeFeeDenominator: v.Uint64("tradeFeeDenominator"),
		CurveType:           v.Uint8("curveType"),
	}, nil
}

func ParseFarm(data []byte, farmID types.Pubkey) (FarmInfo, error) {
	v, err := FarmLayout.Decode(data)
	if err != nil {
		return FarmInfo{}, err
	}
	return FarmInfo{
		FarmID:                          farmID,
		IsInitialized:                   v.Uint8("isInitialized"),
		AccountType:                     v.Uint8("accountType"),
		Nonce:                           v.Uint8("nonce"),
		TokenProgramID:                  v.Pubkey("tokenProgramId"),
		EmissionsAuthority:              v.Pubkey("emissionsAuthority"),
		RemoveRewardsAuthority:          v.Pubkey("removeRewardsAuthority"),
		BaseTokenMint:                   v.Pubkey("baseTokenMint"),
		BaseTokenVault:                  v.Pubkey("baseTokenVault"),
		RewardTokenVault:                v.Pubkey("rewardTokenVault"),
		FarmTokenMint:                   v.Pubkey("farmTokenMint"),
		EmissionsPerSecondNumerator:     v.Uint64("emissionsPerSecondNumerator"),
		EmissionsPerSecondDenominator:   v.Uint64("emissionsPerSecondDenominator"),
		LastUpdatedTimestamp:            v.Uint64("lastUpdatedTimestamp"),
		CumulativeEmissionsPerFarmToken: v.Big("cumulativeEmissionsPerFarmToken"),
	}, nil
}

func ParseFarmer(data []byte, farmerID types.Pubkey) (FarmerInfo, error) {
	v, err := FarmerLayout.Decode(data)
	if err != nil {
		return FarmerInfo{}, err
	}
	return FarmerInfo{
		FarmerID:                      farmerID,
		FarmID:                        v.Pubkey("globalFarm"),
		UserKey:                       v.Pubkey("owner"),
		Amount:                        v.Uint64("baseTokensConverted"),
		IsInitialized:                 v.Uint8("isInitialized"),
		AccountType:                   v.Uint8("accountType"),
		CumulativeEmissionsCheckpoint: v.Big("cumulativeEmissionsCheckpoint"),
	}, nil
}
