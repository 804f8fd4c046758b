package consts

// Friktion PDA 的 purpose seed（utf-8 原文）
const (
	SeedExtraVoltData         = "extraVoltData"
	SeedEntropyLendingAccount = "entropyLendingAccount"
	SeedRoundInfo             = "roundInfo"
	SeedRoundVoltTokens       = "roundVoltTokens"
	SeedRoundUnderlyingTokens = "roundUnderlyingTokens"
	SeedEpochInfo             = "epochInfo"
	SeedPendingDeposit        = "pendingDeposit"
	SeedPendingWithdrawal     = "pendingWithdrawal"
)
