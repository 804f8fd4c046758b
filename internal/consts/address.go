package consts

import "defi-reader-sol/internal/types"

// Base58 地址常量（可读性高，适合配置与日志使用）
const (
	//  Programs
	SystemProgramStr          = "11111111111111111111111111111111"
	TokenProgramStr           = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	AssociatedTokenProgramStr = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"

	// USD 计价基础报价币（具有稳定市场价格）
	WSOLMintStr = "So11111111111111111111111111111111111111112"
	USDCMintStr = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	USDTMintStr = "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"

	// Friktion Volt
	FriktionVoltProgramStr = "VoLT1mJz1sbnxwq5Fv2SXjdVDgPXrb9tJyC8WpMDkSp"
	FriktionFeeOwnerStr    = "42ZdbEzUCVmCrRFVw4fETBoRz3iG2SsSYePYQ3fDeRpv" // 手续费账户的 owner（ATA 的钱包地址）

	// Orca：token-swap v2 与 aquafarm
	OrcaPoolProgramStr = "9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTzdp3aP"
	OrcaFarmProgramStr = "82yxjeMsvaURa4MbZZ7WZZHfobirZYkH1zF8fmeGtyaQ"

	// Lido (Solido)
	LidoProgramStr = "CrX7kMhLC3cSsXJdT7JDgqrRVWGnUpX3gfEfxxU2NVLi"
	LidoStateStr   = "49Yi1TKkNyYjPAFdR9LBvoHcUjuPX4Df5T5yv39w2XTn"
	StSOLMintStr   = "7dHbWXmci3dT8UFYWYZweBLXgycu7Y3iL6trKn1Y7ARj"

	// Lifinity v1
	LifinityProgramStr = "EewxydAPCCVuNEyrVN68PuSYdQ7wKn27V9Gjeoi8dy3S"

	// NFT Finance
	NftFinanceProgramStr = "3NCwmkFr8FRWc3MJzjk6jYnNHY8W3yGmdiLqr4hAca6j"
)

var (
	// 特殊语义地址
	NativeSOLMint = types.Pubkey{} // 原生 SOL（非 SPL）

	// Programs
	SystemProgram          = types.PubkeyFromBase58(SystemProgramStr)
	TokenProgram           = types.PubkeyFromBase58(TokenProgramStr)
	AssociatedTokenProgram = types.PubkeyFromBase58(AssociatedTokenProgramStr)

	// 稳定报价币（USD 估值）
	WSOLMint  = types.PubkeyFromBase58(WSOLMintStr)
	USDCMint  = types.PubkeyFromBase58(USDCMintStr)
	USDTMint  = types.PubkeyFromBase58(USDTMintStr)
	StSOLMint = types.PubkeyFromBase58(StSOLMintStr)

	// 协议 Program（默认值，可被配置覆盖）
	FriktionVoltProgram = types.PubkeyFromBase58(FriktionVoltProgramStr)
	FriktionFeeOwner    = types.PubkeyFromBase58(FriktionFeeOwnerStr)
	OrcaPoolProgram     = types.PubkeyFromBase58(OrcaPoolProgramStr)
	OrcaFarmProgram     = types.PubkeyFromBase58(OrcaFarmProgramStr)
	LidoProgram         = types.PubkeyFromBase58(LidoProgramStr)
	LidoState           = types.PubkeyFromBase58(LidoStateStr)
	LifinityProgram     = types.PubkeyFromBase58(LifinityProgramStr)
	NftFinanceProgram   = types.PubkeyFromBase58(NftFinanceProgramStr)
)

// ProgramSet 各协议实际使用的 program 地址
type ProgramSet struct {
	FriktionVolt types.Pubkey
	FriktionFee  types.Pubkey // 手续费 ATA 的 owner
	OrcaPool     types.Pubkey
	OrcaFarm     types.Pubkey
	Lido         types.Pubkey
	LidoState    types.Pubkey
	Lifinity     types.Pubkey
	NftFinance   types.Pubkey
}

// DefaultProgramSet 主网地址
func DefaultProgramSet() ProgramSet {
	return ProgramSet{
		FriktionVolt: FriktionVoltProgram,
		FriktionFee:  FriktionFeeOwner,
		OrcaPool:     OrcaPoolProgram,
		OrcaFarm:     OrcaFarmProgram,
		Lido:         LidoProgram,
		LidoState:    LidoState,
		Lifinity:     LifinityProgram,
		NftFinance:   NftFinanceProgram,
	}
}

// Owners 需要订阅账户更新的 program 列表
func (p ProgramSet) Owners() []types.Pubkey {
	return []types.Pubkey{p.FriktionVolt, p.OrcaPool, p.OrcaFarm, p.Lido, p.Lifinity, p.NftFinance}
}
