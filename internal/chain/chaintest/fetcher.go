// Package chaintest 提供内存版 AccountFetcher，用于聚合逻辑的单元测试
package chaintest

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"defi-reader-sol/internal/chain"
	"defi-reader-sol/internal/types"
)

type account struct {
	owner types.Pubkey
	data  []byte
}

// Fetcher 内存账户表，支持 dataSize / memcmp 过滤，并记录每个方法的调用次数
type Fetcher struct {
	mu       sync.Mutex
	accounts map[types.Pubkey]account
	order    []types.Pubkey

	ListCalls     int
	GetCalls      int
	GetManyCalls  int
	FailList      error // 非空时 ListAccounts 直接返回该错误
	FailGetMany   error
	ListedFilters [][]chain.Filter
}

var _ chain.AccountFetcher = (*Fetcher)(nil)

func New() *Fetcher {
	return &Fetcher{accounts: make(map[types.Pubkey]account)}
}

// Put 写入（或覆盖）一个账户
func (f *Fetcher) Put(owner, address types.Pubkey, data []byte) *Fetcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[address]; !ok {
		f.order = append(f.order, address)
	}
	f.accounts[address] = account{owner: owner, data: append([]byte(nil), data...)}
	return f
}

func (f *Fetcher) Delete(address types.Pubkey) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.accounts, address)
}

func (f *Fetcher) ListAccounts(_ context.Context, program types.Pubkey, filters ...chain.Filter) ([]chain.KeyedAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	f.ListedFilters = append(f.ListedFilters, filters)
	if f.FailList != nil {
		return nil, f.FailList
	}

	var out []chain.KeyedAccount
	for _, addr := range f.order {
		acc, ok := f.accounts[addr]
		if !ok || acc.owner != program || !matches(acc.data, filters) {
			continue
		}
		out = append(out, chain.KeyedAccount{Address: addr, Data: append([]byte(nil), acc.data...)})
	}
	return out, nil
}

func (f *Fetcher) GetAccount(ctx context.Context, address types.Pubkey) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GetCalls++
	acc, ok := f.accounts[address]
	if !ok || len(acc.data) == 0 {
		return nil, false, nil
	}
	return append([]byte(nil), acc.data...), true, nil
}

func (f *Fetcher) GetAccounts(ctx context.Context, addresses []types.Pubkey) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GetManyCalls++
	if f.FailGetMany != nil {
		return nil, f.FailGetMany
	}
	out := make([][]byte, len(addresses))
	for i, addr := range addresses {
		if acc, ok := f.accounts[addr]; ok && len(acc.data) > 0 {
			out[i] = append([]byte(nil), acc.data...)
		}
	}
	return out, nil
}

func matches(data []byte, filters []chain.Filter) bool {
	for _, flt := range filters {
		if flt.IsMemcmp() {
			end := int(flt.Offset) + len(flt.Bytes)
			if end > len(data) || !bytes.Equal(data[flt.Offset:end], flt.Bytes) {
				return false
			}
			continue
		}
		if flt.DataSize > 0 && uint64(len(data)) != flt.DataSize {
			return false
		}
	}
	return true
}

// ErrUnavailable 用于模拟网络错误
var ErrUnavailable = errors.New("chaintest: node unavailable")
