package nftfinance

import "defi-reader-sol/internal/types"

type RarityInfo struct {
	RarityID   types.Pubkey   `json:"rarityId"`
	Admin      types.Pubkey   `json:"admin"`
	Collection string         `json:"collection"`
	Rarity     string         `json:"rarity"`
	MintList   []types.Pubkey `json:"mintList"`
}

type PoolInfo struct {
	PoolID              types.Pubkey `json:"poolId"`
	Admin               types.Pubkey `json:"admin"`
	ProveTokenAuthority types.Pubkey `json:"proveTokenAuthority"`
	ProveTokenVault     types.Pubkey `json:"proveTokenVault"`
	ProveTokenMint      types.Pubkey `json:"proveTokenMint"`
	RarityInfo          types.Pubkey `json:"rarityInfo"`
	MintListLength      uint64       `json:"mintListLength"`
	TotalLocked         uint64       `json:"totalLocked"`

	Rarity *RarityInfo `json:"rarity,omitempty"`
}

type NftVaultInfo struct {
	VaultID  types.Pubkey `json:"vaultId"`
	User     types.Pubkey `json:"user"`
	PoolInfo types.Pubkey `json:"poolInfo"`
	NftMint  types.Pubkey `json:"nftMint"`
}

type FarmInfo struct {
	FarmID                   types.Pubkey `json:"farmId"`
	Admin                    types.Pubkey `json:"admin"`
	ProveTokenMint           types.Pubkey `json:"proveTokenMint"`
	RewardTokenMint          types.Pubkey `json:"rewardTokenMint"`
	FarmTokenMint            types.Pubkey `json:"farmTokenMint"`
	RewardVault              types.Pubkey `json:"rewardVault"`
	FarmAuthority            types.Pubkey `json:"farmAuthority"`
	FarmAuthorityBump        uint8        `json:"farmAuthorityBump"`
	RewardTokenPerSlot       uint64       `json:"rewardTokenPerSlot"`
	TotalProveTokenDeposited uint64       `json:"totalProveTokenDeposited"`
}

type MinerInfo struct {
	MinerID         types.Pubkey `json:"minerId"`
	Owner           types.Pubkey `json:"owner"`
	FarmInfo        types.Pubkey `json:"farmInfo"`
	MinerVault      types.Pubkey `json:"minerVault"`
	LastUpdateSlot  uint64       `json:"lastUpdateSlot"`
	UnclaimedAmount uint64       `json:"unclaimedAmount"`
	DepositedAmount uint64       `json:"depositedAmount"`
	MinerBump       uint8        `json:"minerBump"`
}
