package lido

import (
	"fmt"

	"defi-reader-sol/internal/layout"
	"defi-reader-sol/internal/types"
)

const accountTypeLido = 1

// DetectVersion 按前两个字节判断：[1,1] 为 v2（accountType=Lido, lidoVersion=1），首字节 0 为 v1
func DetectVersion(data []byte) (Version, error) {
	v, err := VersionCheckLayout.Decode(data)
	if err != nil {
		return 0, err
	}
	accountType, lidoVersion := v.Uint8("maybeAccountType"), v.Uint8("maybeLidoVersion")
	switch {
	case accountType == accountTypeLido && lidoVersion == 1:
		return VersionV2, nil
	case accountType == 0:
		return VersionV1, nil
	}
	return 0, &layout.DecodeError{
		Layout: VersionCheckLayout.Name,
		Field:  "maybeAccountType",
		Reason: fmt.Sprintf("unknown lido account header [%d, %d]", accountType, lidoVersion),
	}
}

// ParseState 自动识别版本后解码状态账户；v2 的验证者 / 维护者列表需另行合并
func ParseState(data []byte, stateID types.Pubkey) (LidoInfo, error) {
	version, err := DetectVersion(data)
	if err != nil {
		return LidoInfo{}, err
	}
	if version == VersionV1 {
		return parseV1(data, stateID)
	}
	return parseV2(data, stateID)
}

func parseV1(data []byte, stateID types.Pubkey) (LidoInfo, error) {
	v, err := StateV1Layout.Decode(data)
	if err != nil {
		return LidoInfo{}, err
	}
	info := commonFields(v, stateID, VersionV1)
	info.RewardsWithdrawAuthorityBumpSeed = v.Uint8("rewardsWithdrawAuthorityBumpSeed")
	rd := v.Struct("rewardDistribution")
	info.RewardDistribution = RewardDistribution{
		TreasuryFee:       rd.Uint32("treasuryFee"),
		ValidationFee:     rd.Uint32("validationFee"),
		DeveloperFee:      rd.Uint32("developerFee"),
		StSolAppreciation: rd.Uint32("stSolAppreciation"),
	}

	validators := v.Struct("validators")
	entries := validators.Structs("entries")
	info.Validators = make([]Validator, 0, len(entries))
	for _, item := range entries {
		e := item.Struct("entry")
		fee := e.Pubkey("feeAddress")
		info.Validators = append(info.Validators, Validator{
			VoteAccount:            item.Pubkey("pubkey"),
			StakeSeeds:             seeds(e.Struct("stakeSeeds")),
			UnstakeSeeds:           seeds(e.Struct("unstakeSeeds")),
			StakeAccountsBalance:   e.Uint64("stakeAccountsBalance"),
			UnstakeAccountsBalance: e.Uint64("unstakeAccountsBalance"),
			Active:                 e.Bool("active"),
			FeeCredit:              e.Uint64("feeCredit"),
			FeeAddress:             &fee,
		})
	}
	info.MaxValidators = validators.Uint32("maximumEntries")

	maintainers := v.Struct("maintainers")
	info.Maintainers = maintainerKeys(maintainers.Structs("entries"))
	info.MaxMaintainers = maintainers.Uint32("maximumEntries")
	return info, nil
}

func parseV2(data []byte, stateID types.Pubkey) (LidoInfo, error) {
	v, err := StateV2Layout.Decode(data)
	if err != nil {
		return LidoInfo{}, err
	}
	info := commonFields(v, stateID, VersionV2)
	info.AccountType = v.Uint8("accountType")
	rd := v.Struct("rewardDistribution")
	info.RewardDistribution = RewardDistribution{
		TreasuryFee:       rd.Uint32("treasuryFee"),
		DeveloperFee:      rd.Uint32("developerFee"),
		StSolAppreciation: rd.Uint32("stSolAppreciation"),
	}
	info.ValidatorListID = v.Pubkey("validatorList")
	info.MaintainerListID = v.Pubkey("maintainerList")
	info.MaxCommissionPercentage = v.Uint8("maxCommissionPercentage")
	info.Validators = []Validator{}
	info.Maintainers = []types.Pubkey{}
	return info, nil
}

func commonFields(v layout.Values, stateID types.Pubkey, version Version) LidoInfo {
	er := v.Struct("exchangeRate")
	fr := v.Struct("feeRecipients")
	m := v.Struct("metrics")
	dep := m.Struct("depositAmount")
	wd := m.Struct("withdrawAmount")
	return LidoInfo{
		StateID:     stateID,
		Version:     version,
		LidoVersion: v.Uint8("lidoVersion"),
		Manager:     v.Pubkey("manager"),
		StSolMint:   v.Pubkey("stSolMint"),
		ExchangeRate: ExchangeRate{
			ComputedInEpoch: er.Uint64("computedInEpoch"),
			StSolSupply:     er.Uint64("stSolSupply"),
			SolBalance:      er.Uint64("solBalance"),
		},
		SolReserveAuthorityBumpSeed: v.Uint8("solReserveAuthorityBumpSeed"),
		StakeAuthorityBumpSeed:      v.Uint8("stakeAuthorityBumpSeed"),
		MintAuthorityBumpSeed:       v.Uint8("mintAuthorityBumpSeed"),
		FeeRecipients: FeeRecipients{
			TreasuryAccount:  fr.Pubkey("treasuryAccount"),
			DeveloperAccount: fr.Pubkey("developerAccount"),
		},
		Metrics: Metrics{
			FeeTreasurySolTotal:     m.Uint64("feeTreasurySolTotal"),
			FeeValidationSolTotal:   m.Uint64("feeValidationSolTotal"),
			FeeDeveloperSolTotal:    m.Uint64("feeDeveloperSolTotal"),
			StSolAppreciationTotal:  m.Uint64("stSolAppreciationTotal"),
			FeeTreasuryStSolTotal:   m.Uint64("feeTreasuryStSolTotal"),
			FeeValidationStSolTotal: m.Uint64("feeValidationStSolTotal"),
			FeeDeveloperStSolTotal:  m.Uint64("feeDeveloperStSolTotal"),
			DepositAmount:           DepositAmount{Counts: dep.Uint64s("counts"), Total: dep.Uint64("total")},
			WithdrawAmount: WithdrawAmount{
				TotalStSolAmount: wd.Uint64("totalStSolAmount"),
				TotalSolAmount:   wd.Uint64("totalSolAmount"),
				Count:            wd.Uint64("count"),
			},
		},
	}
}

// ParseValidatorList v2 验证者列表账户
func ParseValidatorList(data []byte) ([]Validator, uint32, error) {
	v, err := ValidatorListLayout.Decode(data)
	if err != nil {
		return nil, 0, err
	}
	entries := v.Structs("entries")
	out := make([]Validator, 0, len(entries))
	for _, e := range entries {
		out = append(out, Validator{
			VoteAccount:              e.Pubkey("voteAccountAddress"),
			StakeSeeds:               seeds(e.Struct("stakeSeeds")),
			UnstakeSeeds:             seeds(e.Struct("unstakeSeeds")),
			StakeAccountsBalance:     e.Uint64("stakeAccountsBalance"),
			UnstakeAccountsBalance:   e.Uint64("unstakeAccountsBalance"),
			EffectiveAccountsBalance: e.Uint64("effectiveAccountsBalance"),
			Active:                   e.Bool("active"),
		})
	}
	return out, v.Uint32("maxEntries"), nil
}

// ParseMaintainerList v2 维护者列表账户
func ParseMaintainerList(data []byte) ([]types.Pubkey, uint32, error) {
	v, err := MaintainerListLayout.Decode(data)
	if err != nil {
		return nil, 0, err
	}
	return maintainerKeys(v.Structs("entries")), v.Uint32("maxEntries"), nil
}

func seeds(v layout.Values) SeedRange {
	return SeedRange{Begin: v.Uint64("begin"), End: v.Uint64("end")}
}

func maintainerKeys(entries []layout.Values) []types.Pubkey {
	out := make([]types.Pubkey, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Pubkey("pubkey"))
	}
	return out
}
