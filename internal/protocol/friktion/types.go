package friktion

import "defi-reader-sol/internal/types"

// VaultInfo volt vault 及其关联的 round / extra data
type VaultInfo struct {
	VaultID types.Pubkey `json:"vaultId"`

	AdminKey          types.Pubkey `json:"adminKey"`
	Seed              types.Pubkey `json:"seed"`
	TransferWindow    uint64       `json:"transferWindow"`
	StartTransferTime uint64       `json:"startTransferTime"`
	EndTransferTime   uint64       `json:"endTransferTime"`

	Initialized                 bool `json:"initialized"`
	CurrOptionWasSettled        bool `json:"currOptionWasSettled"`
	MustSwapPremiumToUnderlying bool `json:"mustSwapPremiumToUnderlying"`
	NextOptionWasSet            bool `json:"nextOptionWasSet"`
	FirstEverOptionWasSet       bool `json:"firstEverOptionWasSet"`
	InstantTransfersEnabled     bool `json:"instantTransfersEnabled"`
	PrepareIsFinished           bool `json:"prepareIsFinished"`
	EnterIsFinished             bool `json:"enterIsFinished"`
	RoundHasStarted             bool `json:"roundHasStarted"`

	RoundNumber               uint64 `json:"roundNumber"`
	TotalUnderlyingPreEnter   uint64 `json:"totalUnderlyingPreEnter"`
	TotalUnderlyingPostSettle uint64 `json:"totalUnderlyingPostSettle"`
	TotalVoltTokensPostSettle uint64 `json:"totalVoltTokensPostSettle"`

	VaultAuthority      types.Pubkey `json:"vaultAuthority"`
	DepositPool         types.Pubkey `json:"depositPool"`
	PremiumPool         types.Pubkey `json:"premiumPool"`
	OptionPool          types.Pubkey `json:"optionPool"`
	WriterTokenPool     types.Pubkey `json:"writerTokenPool"`
	VaultMint           types.Pubkey `json:"vaultMint"`
	ShareMint           types.Pubkey `json:"shareMint"` // 与 VaultMint 相同
	UnderlyingAssetMint types.Pubkey `json:"underlyingAssetMint"`
	QuoteAssetMint      types.Pubkey `json:"quoteAssetMint"`
	OptionMint          types.Pubkey `json:"optionMint"`
	WriterTokenMint     types.Pubkey `json:"writerTokenMint"`
	OptionMarket        types.Pubkey `json:"optionMarket"`

	VaultType                   uint64       `json:"vaultType"`
	UnderlyingAmountPerContract uint64       `json:"underlyingAmountPerContract"`
	QuoteAmountPerContract      uint64       `json:"quoteAmountPerContract"`
	ExpirationUnixTimestamp     int64        `json:"expirationUnixTimestamp"`
	ExpirationInterval          uint64       `json:"expirationInterval"`
	UpperBoundOtmStrikeFactor   uint64       `json:"upperBoundOtmStrikeFactor"`
	HaveTakenWithdrawalFees     bool         `json:"haveTakenWithdrawalFees"`
	SerumSpotMarket             types.Pubkey `json:"serumSpotMarket"`
	IndividualCapacity          uint64       `json:"individualCapacity"`
	Capacity                    uint64       `json:"capacity"`

	RoundInfos []RoundInfo     `json:"roundInfos"`
	ExtraData  *ExtraVaultInfo `json:"extraData,omitempty"`
}

type RoundInfo struct {
	RoundID                          types.Pubkey `json:"roundId"`
	Number                           uint64       `json:"number"`
	UnderlyingFromPendingDeposits    uint64       `json:"underlyingFromPendingDeposits"`
	VoltTokensFromPendingWithdrawals uint64       `json:"voltTokensFromPendingWithdrawals"`
	UnderlyingPreEnter               uint64       `json:"underlyingPreEnter"`
	UnderlyingPostSettle             uint64       `json:"underlyingPostSettle"`
	PremiumFarmed                    uint64       `json:"premiumFarmed"`
}

type ExtraVaultInfo struct {
	ExtraDataID            types.Pubkey `json:"extraDataId"`
	IsWhitelisted          bool         `json:"isWhitelisted"`
	Whitelist              types.Pubkey `json:"whitelist"`
	IsForDao               bool         `json:"isForDao"`
	DaoProgramID           types.Pubkey `json:"daoProgramId"`
	DepositMint            types.Pubkey `json:"depositMint"`
	TargetLeverage         uint64       `json:"targetLeverage"`
	TargetLeverageLenience uint64       `json:"targetLeverageLenience"`
	ExitEarlyRatio         uint64       `json:"exitEarlyRatio"`
	EntropyProgramID       types.Pubkey `json:"entropyProgramId"`
	EntropyGroup           types.Pubkey `json:"entropyGroup"`
	EntropyAccount         types.Pubkey `json:"entropyAccount"`
	PowerPerpMarket        types.Pubkey `json:"powerPerpMarket"`
	HaveResolvedDeposits   bool         `json:"haveResolvedDeposits"`
	DoneRebalancing        bool         `json:"doneRebalancing"`
	DaoAuthority           types.Pubkey `json:"daoAuthority"`
	SerumProgramID         types.Pubkey `json:"serumProgramId"`
	EntropyCache           types.Pubkey `json:"entropyCache"`
	SpotPerpMarket         types.Pubkey `json:"spotPerpMarket"`
	NetWithdrawals         uint64       `json:"netWithdrawals"`
	MaxQuotePosChange      uint64       `json:"maxQuotePosChange"`
	TargetHedgeLenience    uint64       `json:"targetHedgeLenience"`
}

// DepositorInfo 用户在某个 vault 的待处理申购
type DepositorInfo struct {
	DepositorID            types.Pubkey `json:"depositorId"`
	UserKey                types.Pubkey `json:"userKey"`
	Initialized            bool         `json:"initialized"`
	RoundNumber            uint64       `json:"roundNumber"`
	NumUnderlyingDeposited uint64       `json:"numUnderlyingDeposited"`
}

// WithdrawerInfo 用户在某个 vault 的待处理赎回
type WithdrawerInfo struct {
	WithdrawerID    types.Pubkey `json:"withdrawerId"`
	UserKey         types.Pubkey `json:"userKey"`
	Initialized     bool         `json:"initialized"`
	RoundNumber     uint64       `json:"roundNumber"`
	NumVoltRedeemed uint64       `json:"numVoltRedeemed"`
}
