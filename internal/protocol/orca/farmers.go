package orca

import (
	"context"
	"fmt"

	"defi-reader-sol/internal/chain"
	"defi-reader-sol/internal/consts"
	"defi-reader-sol/internal/pda"
	"defi-reader-sol/internal/protocol"
	"defi-reader-sol/internal/types"
)

// FarmerID PDA([farmId, userKey, tokenProgram])
func (o *Orca) FarmerID(farmID, userKey types.Pubkey) (types.Pubkey, error) {
	addr, _, err := pda.Find(o.farmProgram, farmID.Bytes(), userKey.Bytes(), consts.TokenProgram.Bytes())
	return addr, err
}

// GetAllFarmers 用户在所有 farm 中的 farmer 账户
func (o *Orca) GetAllFarmers(ctx context.Context, userKey types.Pubkey) ([]FarmerInfo, error) {
	accounts, err := o.deps.Fetcher.ListAccounts(ctx, o.farmProgram,
		chain.DataSize(FarmerLayout.Span()),
		chain.Memcmp(FarmerLayout.Offset("owner"), userKey.Bytes()),
	)
	if err != nil {
		return nil, fmt.Errorf("list orca farmers: %w", err)
	}
	return protocol.DecodeAll(accounts, ParseFarmer, o.log(), "farmer"), nil
}

func (o *Orca) GetFarmer(ctx context.Context, farmerID types.Pubkey) (FarmerInfo, error) {
	data, ok, err := o.deps.Fetcher.GetAccount(ctx, farmerID)
	if err != nil {
		return FarmerInfo{}, err
	}
	if !ok {
		return FarmerInfo{}, protocol.NotFound("farmer", farmerID)
	}
	farmer, err := ParseFarmer(data, farmerID)
	if err != nil {
		return FarmerInfo{}, fmt.Errorf("parse farmer %s: %w", farmerID, err)
	}
	return farmer, nil
}

// CheckFarmerCreated 用户是否已在该 farm 创建 farmer 账户
func (o *Orca) CheckFarmerCreated(ctx context.Context, farmID, userKey types.Pubkey) (bool, error) {
	farmerID, err := o.FarmerID(farmID, userKey)
	if err != nil {
		return false, err
	}
	_, ok, err := o.deps.Fetcher.GetAccount(ctx, farmerID)
	if err != nil {
		return false, err
	}
	return ok, nil
}
