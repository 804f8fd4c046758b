package chain

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"defi-reader-sol/internal/types"
	"defi-reader-sol/internal/utils"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/mr-tron/base58"
	"go.uber.org/zap"
)

const (
	// getMultipleAccounts 单次最多 100 个地址
	defaultBatchSize = 100
	defaultTimeout   = 30 * time.Second
)

// RPCOption RPCFetcher 参数
type RPCOption struct {
	Endpoint  string
	Timeout   time.Duration
	BatchSize int
	Retry     utils.RetryOption
}

// RPCFetcher 基于 Solana JSON-RPC 的 AccountFetcher 实现，所有调用带重试
type RPCFetcher struct {
	client    *client.Client
	timeout   time.Duration
	batchSize int
	retry     utils.RetryOption
	log       *zap.Logger
}

var _ AccountFetcher = (*RPCFetcher)(nil)

func NewRPCFetcher(opt RPCOption, log *zap.Logger) (*RPCFetcher, error) {
	if opt.Endpoint == "" {
		return nil, fmt.Errorf("rpc endpoint is empty")
	}
	if log == nil {
		log = zap.NewNop()
	}
	f := &RPCFetcher{
		client:    client.NewClient(opt.Endpoint),
		timeout:   opt.Timeout,
		batchSize: opt.BatchSize,
		retry:     opt.Retry,
		log:       log.Named("rpc"),
	}
	if f.timeout <= 0 {
		f.timeout = defaultTimeout
	}
	if f.batchSize <= 0 || f.batchSize > defaultBatchSize {
		f.batchSize = defaultBatchSize
	}
	return f, nil
}

func (f *RPCFetcher) ListAccounts(ctx context.Context, program types.Pubkey, filters ...Filter) ([]KeyedAccount, error) {
	cfg := rpc.GetProgramAccountsConfig{
		Encoding: rpc.AccountEncodingBase64,
		Filters:  toRPCFilters(filters),
	}
	start := time.Now()
	accounts, err := utils.CallWithRetry(ctx, f.retry, f.log, "getProgramAccounts", func() (rpc.GetProgramAccounts, error) {
		callCtx, cancel := context.WithTimeout(ctx, f.timeout)
		defer cancel()
		resp, err := f.client.RpcClient.GetProgramAccountsWithConfig(callCtx, program.String(), cfg)
		if err != nil {
			return nil, err
		}
		// 节点拒绝请求（参数错误等），重试无意义
		if resp.Error != nil {
			return nil, utils.Permanent(resp.Error)
		}
		return resp.Result, nil
	})
	if err != nil {
		return nil, fmt.Errorf("getProgramAccounts %s: %w", program, err)
	}
	f.log.Debug("getProgramAccounts done",
		zap.String("program", program.String()),
		zap.Int("accounts", len(accounts)),
		zap.Duration("cost", time.Since(start)),
	)

	out := make([]KeyedAccount, 0, len(accounts))
	for _, acc := range accounts {
		address, err := types.TryPubkeyFromBase58(acc.Pubkey)
		if err != nil {
			return nil, fmt.Errorf("getProgramAccounts %s: bad pubkey %q: %w", program, acc.Pubkey, err)
		}
		data, err := decodeAccountData(acc.Account)
		if err != nil {
			return nil, fmt.Errorf("getProgramAccounts %s: account %s: %w", program, address, err)
		}
		if len(data) == 0 {
			continue
		}
		out = append(out, KeyedAccount{Address: address, Data: data})
	}
	return out, nil
}

// decodeAccountData 解析 base64 编码的 data 字段：["<base64>", "base64"]
func decodeAccountData(info rpc.AccountInfo) ([]byte, error) {
	if info.Data == nil {
		return nil, nil
	}
	pair, ok := info.Data.([]any)
	if !ok || len(pair) != 2 {
		return nil, fmt.Errorf("unexpected data format %T", info.Data)
	}
	encoded, _ := pair[0].(string)
	if encoding, _ := pair[1].(string); encoding != string(rpc.AccountEncodingBase64) {
		return nil, fmt.Errorf("unexpected data encoding %v", pair[1])
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode base64 data: %w", err)
	}
	return data, nil
}

func (f *RPCFetcher) GetAccount(ctx context.Context, address types.Pubkey) ([]byte, bool, error) {
	info, err := utils.CallWithRetry(ctx, f.retry, f.log, "getAccountInfo", func() (client.AccountInfo, error) {
		callCtx, cancel := context.WithTimeout(ctx, f.timeout)
		defer cancel()
		return f.client.GetAccountInfo(callCtx, address.String())
	})
	if err != nil {
		return nil, false, fmt.Errorf("getAccountInfo %s: %w", address, err)
	}
	// 账户不存在时 SDK 返回空结构
	if len(info.Data) == 0 {
		return nil, false, nil
	}
	return info.Data, true, nil
}

func (f *RPCFetcher) GetAccounts(ctx context.Context, addresses []types.Pubkey) ([][]byte, error) {
	out := make([][]byte, len(addresses))
	for start := 0; start < len(addresses); start += f.batchSize {
		end := min(start+f.batchSize, len(addresses))
		chunk := types.PubkeyStrings(addresses[start:end])

		infos, err := utils.CallWithRetry(ctx, f.retry, f.log, "getMultipleAccounts", func() ([]client.AccountInfo, error) {
			callCtx, cancel := context.WithTimeout(ctx, f.timeout)
			defer cancel()
			return f.client.GetMultipleAccounts(callCtx, chunk)
		})
		if err != nil {
			return nil, fmt.Errorf("getMultipleAccounts [%d:%d]: %w", start, end, err)
		}
		if len(infos) != len(chunk) {
			return nil, fmt.Errorf("getMultipleAccounts returned %d accounts, want %d", len(infos), len(chunk))
		}
		for i, info := range infos {
			if len(info.Data) > 0 {
				out[start+i] = info.Data
			}
		}
	}
	return out, nil
}

func toRPCFilters(filters []Filter) []rpc.GetProgramAccountsConfigFilter {
	out := make([]rpc.GetProgramAccountsConfigFilter, 0, len(filters))
	for _, f := range filters {
		if f.IsMemcmp() {
			out = append(out, rpc.GetProgramAccountsConfigFilter{
				MemCmp: &rpc.GetProgramAccountsConfigFilterMemCmp{
					Offset: f.Offset,
					Bytes:  base58.Encode(f.Bytes),
				},
			})
			continue
		}
		if f.DataSize > 0 {
			out = append(out, rpc.GetProgramAccountsConfigFilter{DataSize: f.DataSize})
		}
	}
	return out
}
