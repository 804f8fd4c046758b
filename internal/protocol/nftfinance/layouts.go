package nftfinance

import "defi-reader-sol/internal/layout"

// RarityLayout 稀有度分组：集合名、稀有度名与 mint 列表，长度可变
var RarityLayout = layout.New("NftFinanceRarity",
	layout.U64("discriminator"),
	layout.Pubkey("admin"),
	layout.Array("collection", layout.KU8, 16),
	layout.Array("rarity", layout.KU8, 16),
	layout.Vec("mintList", layout.KPubkey),
)

// PoolLayout NFT 质押池，span 184
var PoolLayout = layout.New("NftFinancePool",
	layout.U64("discriminator"),
	layout.Pubkey("admin"),
	layout.Pubkey("proveTokenAuthority"),
	layout.Pubkey("proveTokenVault"),
	layout.Pubkey("proveTokenMint"),
	layout.Pubkey("rarityInfo"),
	layout.U64("mintListLength"),
	layout.U64("totalLocked"),
)

// NftVaultLayout 用户锁定的单个 NFT，span 104；user 位于偏移 8
var NftVaultLayout = layout.New("NftFinanceNftVault",
	layout.U64("discriminator"),
	layout.Pubkey("user"),
	layout.Pubkey("poolInfo"),
	layout.Pubkey("nftMint"),
)

// FarmLayout prove token 质押 farm，span 217
var FarmLayout = layout.New("NftFinanceFarm",
	layout.U64("discriminator"),
	layout.Pubkey("admin"),
	layout.Pubkey("proveTokenMint"),
	layout.Pubkey("rewardTokenMint"),
	layout.Pubkey("farmTokenMint"),
	layout.Pubkey("rewardVault"),
	layout.Pubkey("farmAuthority"),
	layout.U8("farmAuthorityBump"),
	layout.U64("rewardTokenPerSlot"),
	layout.U64("totalProveTokenDeposited"),
)

// MinerLayout 用户在 farm 中的质押记录，span 129；owner 位于偏移 8
var MinerLayout = layout.New("NftFinanceMiner",
	layout.U64("discriminator"),
	layout.Pubkey("owner"),
	layout.Pubkey("farmInfo"),
	layout.Pubkey("minerVault"),
	layout.U64("lastUpdateSlot"),
	layout.U64("unclaimedAmount"),
	layout.U64("depositedAmount"),
	layout.U8("minerBump"),
)
