package lifinity

import "defi-reader-sol/internal/types"

type ConfigInfo struct {
	ConfigID            types.Pubkey `json:"configId"`
	Index               uint64       `json:"index"`
	ConcentrationRatio  uint64       `json:"concentrationRatio"`
	LastPrice           uint64       `json:"lastPrice"`
	AdjustRatio         uint64       `json:"adjustRatio"`
	BalanceRatio        uint64       `json:"balanceRatio"`
	LastBalancedPrice   uint64       `json:"lastBalancedPrice"`
	ConfigDenominator   uint64       `json:"configDenominator"`
	PythConfidenceLimit uint64       `json:"pythConfidenceLimit"`
	PythSlotLimit       uint64       `json:"pythSlotLimit"`
	VolumeX             uint64       `json:"volumeX"`
	VolumeY             uint64       `json:"volumeY"`
	VolumeXInY          uint64       `json:"volumeXinY"`
	CoefficientUp       uint64       `json:"coefficientUp"`
	CoefficientDown     uint64       `json:"coefficientDown"`
	OracleStatus        uint64       `json:"oracleStatus"`
}

type AmmInfo struct {
	AmmID          types.Pubkey `json:"ammId"`
	Index          uint64       `json:"index"`
	InitializerKey types.Pubkey `json:"initializerKey"`
	Initialized    bool         `json:"initialized"`
	BumpSeed       uint8        `json:"bumpSeed"`
	FreezeTrade    bool         `json:"freezeTrade"`
	FreezeDeposit  bool         `json:"freezeDeposit"`
	FreezeWithdraw bool         `json:"freezeWithdraw"`
	BaseDecimals   uint8        `json:"baseDecimals"`

	TokenProgramID types.Pubkey `json:"tokenProgramId"`
	TokenAAccount  types.Pubkey `json:"tokenAAccount"`
	TokenBAccount  types.Pubkey `json:"tokenBAccount"`
	PoolMint       types.Pubkey `json:"poolMint"`
	TokenAMint     types.Pubkey `json:"tokenAMint"`
	TokenBMint     types.Pubkey `json:"tokenBMint"`
	PoolFeeAccount types.Pubkey `json:"poolFeeAccount"`
	PythAccount    types.Pubkey `json:"pythAccount"`
	PythPcAccount  types.Pubkey `json:"pythPcAccount"`
	ConfigAccount  types.Pubkey `json:"configAccount"`

	TradeFeeNumerator           uint64 `json:"tradeFeeNumerator"`
	TradeFeeDenominator         uint64 `json:"tradeFeeDenominator"`
	OwnerTradeFeeNumerator      uint64 `json:"ownerTradeFeeNumerator"`
	OwnerTradeFeeDenominator    uint64 `json:"ownerTradeFeeDenominator"`
	OwnerWithdrawFeeNumerator   uint64 `json:"ownerWithdrawFeeNumerator"`
	OwnerWithdrawFeeDenominator uint64 `json:"ownerWithdrawFeeDenominator"`
	HostFeeNumerator            uint64 `json:"hostFeeNumerator"`
	HostFeeDenominator          uint64 `json:"hostFeeDenominator"`
	CurveType                   uint8  `json:"curveType"`
	CurveParameters             uint64 `json:"curveParameters"`

	// 以下字段来自 token 账户与 config 账户
	TokenAAmount uint64      `json:"tokenAAmount"`
	TokenBAmount uint64      `json:"tokenBAmount"`
	Config       *ConfigInfo `json:"config,omitempty"`
}
