// Package spltoken 解码 SPL token 账户与 mint 账户，并提供批量读取
package spltoken

import (
	"context"
	"fmt"

	"defi-reader-sol/internal/chain"
	"defi-reader-sol/internal/layout"
	"defi-reader-sol/internal/types"

	sdktoken "github.com/blocto/solana-go-sdk/program/token"
)

const (
	TokenAccountSize = sdktoken.TokenAccountSize
	MintSize         = sdktoken.MintAccountSize
)

// TokenAccount token 账户中聚合逻辑关心的字段
type TokenAccount struct {
	Address types.Pubkey `json:"address"`
	Mint    types.Pubkey `json:"mint"`
	Owner   types.Pubkey `json:"owner"`
	Amount  uint64       `json:"amount"`
}

// Mint mint 账户中聚合逻辑关心的字段
type Mint struct {
	Address  types.Pubkey `json:"address"`
	Supply   uint64       `json:"supply"`
	Decimals uint8        `json:"decimals"`
}

// SupplyDividedByDecimals 整数部分的流通量（向下取整）
func (m Mint) SupplyDividedByDecimals() uint64 {
	if m.Decimals > 19 {
		return 0
	}
	d := uint64(1)
	for i := uint8(0); i < m.Decimals; i++ {
		d *= 10
	}
	return m.Supply / d
}

func ParseTokenAccount(data []byte, address types.Pubkey) (TokenAccount, error) {
	if len(data) < TokenAccountSize {
		return TokenAccount{}, &layout.DecodeError{Layout: "TokenAccount", Need: TokenAccountSize, Have: len(data)}
	}
	acc, err := sdktoken.TokenAccountFromData(data[:TokenAccountSize])
	if err != nil {
		return TokenAccount{}, fmt.Errorf("%w: token account %s: %v", layout.ErrDecode, address, err)
	}
	return TokenAccount{
		Address: address,
		Mint:    types.Pubkey(acc.Mint),
		Owner:   types.Pubkey(acc.Owner),
		Amount:  acc.Amount,
	}, nil
}

func ParseMint(data []byte, address types.Pubkey) (Mint, error) {
	if len(data) < MintSize {
		return Mint{}, &layout.DecodeError{Layout: "Mint", Need: MintSize, Have: len(data)}
	}
	m, err := sdktoken.MintAccountFromData(data[:MintSize])
	if err != nil {
		return Mint{}, fmt.Errorf("%w: mint %s: %v", layout.ErrDecode, address, err)
	}
	return Mint{Address: address, Supply: m.Supply, Decimals: m.Decimals}, nil
}

// FetchTokenAccounts 一次批量读取并解码 token 账户；缺失或无法解码的地址不出现在结果中
func FetchTokenAccounts(ctx context.Context, fetcher chain.AccountFetcher, addresses []types.Pubkey) (map[types.Pubkey]TokenAccount, error) {
	return fetchDecoded(ctx, fetcher, addresses, ParseTokenAccount)
}

// FetchMints 一次批量读取并解码 mint 账户
func FetchMints(ctx context.Context, fetcher chain.AccountFetcher, addresses []types.Pubkey) (map[types.Pubkey]Mint, error) {
	return fetchDecoded(ctx, fetcher, addresses, ParseMint)
}

func fetchDecoded[T any](ctx context.Context, fetcher chain.AccountFetcher, addresses []types.Pubkey, parse func([]byte, types.Pubkey) (T, error)) (map[types.Pubkey]T, error) {
	keys := types.DedupPubkeys(addresses)
	out := make(map[types.Pubkey]T, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	datas, err := fetcher.GetAccounts(ctx, keys)
	if err != nil {
		return nil, err
	}
	for i, data := range datas {
		if data == nil {
			continue
		}
		rec, err := parse(data, keys[i])
		if err != nil {
			continue
		}
		out[keys[i]] = rec
	}
	return out, nil
}

// EncodeTokenAccount 生成已初始化 token 账户的原始字节，用于构造测试数据与回放
func EncodeTokenAccount(mint, owner types.Pubkey, amount uint64) []byte {
	data := make([]byte, TokenAccountSize)
	copy(data[0:32], mint[:])
	copy(data[32:64], owner[:])
	putU64(data[64:72], amount)
	data[108] = 1 // Initialized
	return data
}

// EncodeMint 生成已初始化 mint 账户的原始字节
func EncodeMint(supply uint64, decimals uint8) []byte {
	data := make([]byte, MintSize)
	putU64(data[36:44], supply)
	data[44] = decimals
	data[45] = 1
	return data
}

func putU64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
