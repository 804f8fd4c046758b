package nftfinance

import (
	"bytes"

	"defi-reader-sol/internal/types"
)

func ParseRarity(data []byte, rarityID types.Pubkey) (RarityInfo, error) {
	v, err := RarityLayout.Decode(data)
	if err != nil {
		return RarityInfo{}, err
	}
	return RarityInfo{
		RarityID:   rarityID,
		Admin:      v.Pubkey("admin"),
		Collection: fixedString(v.Bytes8("collection")),
		Rarity:     fixedString(v.Bytes8("rarity")),
		MintList:   v.Pubkeys("mintList"),
	}, nil
}

// fixedString 定长 utf-8 字段去掉尾部的 0 填充
func fixedString(b []byte) string {
	return string(bytes.TrimRight(b, "\x00"))
}

func ParsePool(data []byte, poolID types.Pubkey) (PoolInfo, error) {
	v, err := PoolLayout.Decode(data)
	if err != nil {
		return PoolInfo{}, err
	}
	return PoolInfo{
		PoolID:              poolID,
		Admin:               v.Pubkey("admin"),
		ProveTokenAuthority: v.Pubkey("proveTokenAuthority"),
		ProveTokenVault:     v.Pubkey("proveTokenVault"),
		ProveTokenMint:      v.Pubkey("proveTokenMint"),
		RarityInfo:          v.Pubkey("rarityInfo"),
		MintListLength:      v.Uint64("mintListLength"),
		TotalLocked:         v.Uint64("totalLocked"),
	}, nil
}

func ParseNftVault(data []byte, vaultID types.Pubkey) (NftVaultInfo, error) {
	v, err := NftVaultLayout.Decode(data)
	if err != nil {
		return NftVaultInfo{}, err
	}
	return NftVaultInfo{
		VaultID:  vaultID,
		User:     v.Pubkey("user"),
		PoolInfo: v.Pubkey("poolInfo"),
		NftMint:  v.Pubkey("nftMint"),
	}, nil
}

func ParseFarm(data []byte, farmID types.Pubkey) (FarmInfo, error) {
	v, err := FarmLayout.Decode(data)
	if err != nil {
		return FarmInfo{}, err
	}
	return FarmInfo{
		FarmID:                   farmID,
		Admin:                    v.Pubkey("admin"),
		ProveTokenMint:           v.Pubkey("proveTokenMint"),
		RewardTokenMint:          v.Pubkey("rewardTokenMint"),
		FarmTokenMint:            v.Pubkey("farmTokenMint"),
		RewardVault:              v.Pubkey("rewardVault"),
		FarmAuthority:            v.Pubkey("farmAuthority"),
		FarmAuthorityBump:        v.Uint8("farmAuthorityBump"),
		RewardTokenPerSlot:       v.Uint64("rewardTokenPerSlot"),
		TotalProveTokenDeposited: v.Uint64("totalProveTokenDeposited"),
	}, nil
}

func ParseMiner(data []byte, minerID types.Pubkey) (MinerInfo, error) {
	v, err := MinerLayout.Decode(data)
	if err != nil {
		return MinerInfo{}, err
	}
	return MinerInfo{
		MinerID:         minerID,
		Owner:           v.Pubkey("owner"),
		FarmInfo:        v.Pubkey("farmInfo"),
		MinerVault:      v.Pubkey("minerVault"),
		LastUpdateSlot:  v.Uint64("lastUpdateSlot"),
		UnclaimedAmount: v.Uint64("unclaimedAmount"),
		DepositedAmount: v.Uint64("depositedAmount"),
		MinerBump:       v.Uint8("minerBump"),
	}, nil
}
