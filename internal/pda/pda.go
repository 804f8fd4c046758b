package pda

import (
	"encoding/binary"
	"fmt"

	"defi-reader-sol/internal/types"

	"filippo.io/edwards25519"
	"github.com/blocto/solana-go-sdk/common"
)

// Find 按链上规范算法推导 program derived address：
// bump 从 255 递减，返回第一个不在 ed25519 曲线上的 (address, bump)
func Find(program types.Pubkey, seeds ...[]byte) (types.Pubkey, uint8, error) {
	addr, bump, err := common.FindProgramAddress(seeds, common.PublicKey(program))
	if err != nil {
		return types.Pubkey{}, 0, fmt.Errorf("find program address: %w", err)
	}
	return types.Pubkey(addr), bump, nil
}

// Derive 以 [base, LE8(extra)..., purpose] 为 seed 推导子账户地址。
// extra 通常是 round / epoch 编号
func Derive(program, base types.Pubkey, purpose string, extra ...uint64) (types.Pubkey, uint8, error) {
	seeds := make([][]byte, 0, 2+len(extra))
	seeds = append(seeds, base.Bytes())
	for _, n := range extra {
		seeds = append(seeds, U64Seed(n))
	}
	seeds = append(seeds, []byte(purpose))
	return Find(program, seeds...)
}

// MustDerive 用于地址推导必然成功的场景（seed 固定且长度合法）
func MustDerive(program, base types.Pubkey, purpose string, extra ...uint64) types.Pubkey {
	addr, _, err := Derive(program, base, purpose, extra...)
	if err != nil {
		panic(err)
	}
	return addr
}

// Create 使用已知 bump 复算地址，结果在曲线上时返回错误
func Create(program types.Pubkey, bump uint8, seeds ...[]byte) (types.Pubkey, error) {
	all := make([][]byte, 0, len(seeds)+1)
	all = append(all, seeds...)
	all = append(all, []byte{bump})
	addr, err := common.CreateProgramAddress(all, common.PublicKey(program))
	if err != nil {
		return types.Pubkey{}, fmt.Errorf("create program address: %w", err)
	}
	return types.Pubkey(addr), nil
}

// AssociatedTokenAddress owner 持有 mint 的 ATA 地址
func AssociatedTokenAddress(owner, mint types.Pubkey) (types.Pubkey, error) {
	addr, _, err := common.FindAssociatedTokenAddress(common.PublicKey(owner), common.PublicKey(mint))
	if err != nil {
		return types.Pubkey{}, fmt.Errorf("find associated token address: %w", err)
	}
	return types.Pubkey(addr), nil
}

// IsOnCurve 判断地址是否为合法的 ed25519 点（PDA 必须不在曲线上）
func IsOnCurve(p types.Pubkey) bool {
	_, err := new(edwards25519.Point).SetBytes(p[:])
	return err == nil
}

// U64Seed 8 字节小端编码
func U64Seed(n uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, n)
	return b
}
