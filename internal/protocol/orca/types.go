package orca

import (
	"context"
	"math/big"

	"defi-reader-sol/internal/stats"
	"defi-reader-sol/internal/types"
)

// PriceSource 链下 token 价格表（按 mint 查询）
type PriceSource interface {
	TokenPrice(mint types.Pubkey) (types.TokenPrice, bool)
}

// StatsSource Orca 链下池统计（APY 等），key 为交易对名称
type StatsSource interface {
	FetchPoolStats(ctx context.Context) (map[string]stats.OrcaPoolStats, error)
}

type PoolInfo struct {
	PoolID         types.Pubkey `json:"poolId"`
	Version        uint8        `json:"version"`
	IsInitialized  uint8        `json:"isInitialized"`
	Nonce          uint8        `json:"nonce"`
	TokenProgramID types.Pubkey `json:"tokenProgramId"`
	TokenAccountA  types.Pubkey `json:"tokenAccountA"`
	TokenAccountB  types.Pubkey `json:"tokenAccountB"`
	FeeAccount     types.Pubkey `json:"feeAccount"`
	LpMint         types.Pubkey `json:"lpMint"`
	TokenAMint     types.Pubkey `json:"tokenAMint"`
	TokenBMint     types.Pubkey `json:"tokenBMint"`

	TradeFeeNumerator   uint64 `json:"tradeFeeNumerator"`
	TradeFeeDenominator uint64 `json:"tradeFeeDenominator"`
	CurveType           uint8  `json:"curveType"`

	// 以下字段来自 token 账户与 LP mint
	TokenSupplyA uint64 `json:"tokenSupplyA"`
	TokenSupplyB uint64 `json:"tokenSupplyB"`
	LpSupply     uint64 `json:"lpSupply"`
	LpDecimals   uint8  `json:"lpDecimals"`
}

// TokenVaultInfo farm 引用的 token 账户
type TokenVaultInfo struct {
	Mint   types.Pubkey `json:"mint"`
	Amount uint64       `json:"amount"`
	Owner  types.Pubkey `json:"owner"`
}

// MintVaultInfo farm 引用的 mint
type MintVaultInfo struct {
	Mint                    types.Pubkey `json:"mint"`
	SupplyDividedByDecimals uint64       `json:"supplyDividedByDecimals"`
	Decimals                uint8        `json:"decimals"`
}

// DoubleDip 以本 farm 的 farm token 作为质押物的二级 farm
type DoubleDip struct {
	FarmID                        types.Pubkey    `json:"farmId"`
	EmissionsPerSecondNumerator   uint64          `json:"emissionsPerSecondNumerator"`
	EmissionsPerSecondDenominator uint64          `json:"emissionsPerSecondDenominator"`
	BaseTokenMintAccountData      *MintVaultInfo  `json:"baseTokenMintAccountData,omitempty"`
	BaseTokenVaultAccountData     *TokenVaultInfo `json:"baseTokenVaultAccountData,omitempty"`
	RewardTokenMintAccountData    *MintVaultInfo  `json:"rewardTokenMintAccountData,omitempty"`
}

type FarmInfo struct {
	FarmID                          types.Pubkey `json:"farmId"`
	IsInitialized                   uint8        `json:"isInitialized"`
	AccountType                     uint8        `json:"accountType"`
	Nonce                           uint8        `json:"nonce"`
	TokenProgramID                  types.Pubkey `json:"tokenProgramId"`
	EmissionsAuthority              types.Pubkey `json:"emissionsAuthority"`
	RemoveRewardsAuthority          types.Pubkey `json:"removeRewardsAuthority"`
	BaseTokenMint                   types.Pubkey `json:"baseTokenMint"`
	BaseTokenVault                  types.Pubkey `json:"baseTokenVault"`
	RewardTokenVault                types.Pubkey `json:"rewardTokenVault"`
	FarmTokenMint                   types.Pubkey `json:"farmTokenMint"`
	EmissionsPerSecondNumerator     uint64       `json:"emissionsPerSecondNumerator"`
	EmissionsPerSecondDenominator   uint64       `json:"emissionsPerSecondDenominator"`
	LastUpdatedTimestamp            uint64       `json:"lastUpdatedTimestamp"`
	CumulativeEmissionsPerFarmToken *big.Int     `json:"cumulativeEmissionsPerFarmToken"`

	BaseTokenMintAccountData    *MintVaultInfo  `json:"baseTokenMintAccountData,omitempty"`
	BaseTokenVaultAccountData   *TokenVaultInfo `json:"baseTokenVaultAccountData,omitempty"`
	RewardTokenMintAccountData  *MintVaultInfo  `json:"rewardTokenMintAccountData,omitempty"`
	RewardTokenVaultAccountData *TokenVaultInfo `json:"rewardTokenVaultAccountData,omitempty"`

	DoubleDip *DoubleDip `json:"doubleDip,omitempty"`

	// 以下字段来自 lpMint == baseTokenMint 的池以及 token 价格表
	PoolID           *types.Pubkey `json:"poolId,omitempty"`
	TokenSupplyA     uint64        `json:"tokenSupplyA"`
	TokenSupplyB     uint64        `json:"tokenSupplyB"`
	LpSupply         uint64        `json:"lpSupply"`
	LpDecimals       uint8         `json:"lpDecimals"`
	TokenAPrice      *float64      `json:"tokenAPrice,omitempty"`
	TokenADecimals   *uint8        `json:"tokenADecimals,omitempty"`
	TokenBPrice      *float64      `json:"tokenBPrice,omitempty"`
	TokenBDecimals   *uint8        `json:"tokenBDecimals,omitempty"`
	RewardTokenPrice *float64      `json:"rewardTokenPrice,omitempty"`
}

type FarmerInfo struct {
	FarmerID                      types.Pubkey `json:"farmerId"`
	FarmID                        types.Pubkey `json:"farmId"`
	UserKey                       types.Pubkey `json:"userKey"`
	Amount                        uint64       `json:"amount"`
	IsInitialized                 uint8        `json:"isInitialized"`
	AccountType                   uint8        `json:"accountType"`
	CumulativeEmissionsCheckpoint *big.Int     `json:"cumulativeEmissionsCheckpoint"`
}
