package lido

import "defi-reader-sol/internal/types"

// Version Solido 状态账户版本
type Version uint8

const (
	VersionV1 Version = 1
	VersionV2 Version = 2
)

func (v Version) String() string {
	switch v {
	case VersionV1:
		return "v1"
	case VersionV2:
		return "v2"
	}
	return "unknown"
}

type ExchangeRate struct {
	ComputedInEpoch uint64 `json:"computedInEpoch"`
	StSolSupply     uint64 `json:"stSolSupply"`
	SolBalance      uint64 `json:"solBalance"`
}

// RewardDistribution v2 没有 validationFee，解码后为 0
type RewardDistribution struct {
	TreasuryFee       uint32 `json:"treasuryFee"`
	ValidationFee     uint32 `json:"validationFee"`
	DeveloperFee      uint32 `json:"developerFee"`
	StSolAppreciation uint32 `json:"stSolAppreciation"`
}

type FeeRecipients struct {
	TreasuryAccount  types.Pubkey `json:"treasuryAccount"`
	DeveloperAccount types.Pubkey `json:"developerAccount"`
}

type DepositAmount struct {
	Counts []uint64 `json:"counts"`
	Total  uint64   `json:"total"`
}

type WithdrawAmount struct {
	TotalStSolAmount uint64 `json:"totalStSolAmount"`
	TotalSolAmount   uint64 `json:"totalSolAmount"`
	Count            uint64 `json:"count"`
}

type Metrics struct {
	FeeTreasurySolTotal     uint64         `json:"feeTreasurySolTotal"`
	FeeValidationSolTotal   uint64         `json:"feeValidationSolTotal"`
	FeeDeveloperSolTotal    uint64         `json:"feeDeveloperSolTotal"`
	StSolAppreciationTotal  uint64         `json:"stSolAppreciationTotal"`
	FeeTreasuryStSolTotal   uint64         `json:"feeTreasuryStSolTotal"`
	FeeValidationStSolTotal uint64         `json:"feeValidationStSolTotal"`
	FeeDeveloperStSolTotal  uint64         `json:"feeDeveloperStSolTotal"`
	DepositAmount           DepositAmount  `json:"depositAmount"`
	WithdrawAmount          WithdrawAmount `json:"withdrawAmount"`
}

type SeedRange struct {
	Begin uint64 `json:"begin"`
	End   uint64 `json:"end"`
}

// Validator 两个版本统一后的验证者视图。
// v1 的 key 是 vote 账户，额外带 feeCredit / feeAddress；v2 额外带 effectiveAccountsBalance
type Validator struct {
	VoteAccount              types.Pubkey  `json:"voteAccount"`
	StakeSeeds               SeedRange     `json:"stakeSeeds"`
	UnstakeSeeds             SeedRange     `json:"unstakeSeeds"`
	StakeAccountsBalance     uint64        `json:"stakeAccountsBalance"`
	UnstakeAccountsBalance   uint64        `json:"unstakeAccountsBalance"`
	EffectiveAccountsBalance uint64        `json:"effectiveAccountsBalance"`
	Active                   bool          `json:"active"`
	FeeCredit                uint64        `json:"feeCredit,omitempty"`
	FeeAddress               *types.Pubkey `json:"feeAddress,omitempty"`
}

type LidoInfo struct {
	StateID     types.Pubkey `json:"stateId"`
	Version     Version      `json:"version"`
	AccountType uint8        `json:"accountType"`
	LidoVersion uint8        `json:"lidoVersion"`
	Manager     types.Pubkey `json:"manager"`
	StSolMint   types.Pubkey `json:"stSolMint"`

	ExchangeRate ExchangeRate `json:"exchangeRate"`

	SolReserveAuthorityBumpSeed      uint8 `json:"solReserveAuthorityBumpSeed"`
	StakeAuthorityBumpSeed           uint8 `json:"stakeAuthorityBumpSeed"`
	MintAuthorityBumpSeed            uint8 `json:"mintAuthorityBumpSeed"`
	RewardsWithdrawAuthorityBumpSeed uint8 `json:"rewardsWithdrawAuthorityBumpSeed,omitempty"` // 仅 v1

	RewardDistribution RewardDistribution `json:"rewardDistribution"`
	FeeRecipients      FeeRecipients      `json:"feeRecipients"`
	Metrics            Metrics            `json:"metrics"`

	// 仅 v2
	ValidatorListID         types.Pubkey `json:"validatorList,omitempty"`
	MaintainerListID        types.Pubkey `json:"maintainerList,omitempty"`
	MaxCommissionPercentage uint8        `json:"maxCommissionPercentage,omitempty"`

	// v1 解码自状态账户本身，v2 来自 validatorList / maintainerList 账户
	Validators     []Validator    `json:"validators"`
	Maintainers    []types.Pubkey `json:"maintainers"`
	MaxValidators  uint32         `json:"maxValidators"`
	MaxMaintainers uint32         `json:"maxMaintainers"`
}
