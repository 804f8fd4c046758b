package friktion

import (
	"defi-reader-sol/internal/consts"
	"defi-reader-sol/internal/pda"
	"defi-reader-sol/internal/types"
)

// VaultInfoWrapper vault 的派生地址视图，不持有任何可变状态
type VaultInfoWrapper struct {
	Vault    VaultInfo
	program  types.Pubkey
	feeOwner types.Pubkey
}

func (w *VaultInfoWrapper) derive(purpose string, extra ...uint64) (types.Pubkey, error) {
	addr, _, err := pda.Derive(w.program, w.Vault.VaultID, purpose, extra...)
	return addr, err
}

func (w *VaultInfoWrapper) ExtraVoltDataAddress() (types.Pubkey, error) {
	return w.derive(consts.SeedExtraVoltData)
}

func (w *VaultInfoWrapper) EntropyLendingAccountAddress() (types.Pubkey, error) {
	return w.derive(consts.SeedEntropyLendingAccount)
}

func (w *VaultInfoWrapper) RoundInfoAddress(round uint64) (types.Pubkey, error) {
	return w.derive(consts.SeedRoundInfo, round)
}

func (w *VaultInfoWrapper) RoundVoltTokensAddress(round uint64) (types.Pubkey, error) {
	return w.derive(consts.SeedRoundVoltTokens, round)
}

func (w *VaultInfoWrapper) RoundUnderlyingTokensAddress(round uint64) (types.Pubkey, error) {
	return w.derive(consts.SeedRoundUnderlyingTokens, round)
}

func (w *VaultInfoWrapper) EpochInfoAddress(round uint64) (types.Pubkey, error) {
	return w.derive(consts.SeedEpochInfo, round)
}

// FeeAccount 手续费账户：fee owner 持有 vaultMint 的 ATA
func (w *VaultInfoWrapper) FeeAccount() (types.Pubkey, error) {
	return pda.AssociatedTokenAddress(w.feeOwner, w.Vault.VaultMint)
}
