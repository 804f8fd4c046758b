package protocol

import (
	"bytes"
	"sort"

	"defi-reader-sol/internal/chain"
)

// Page 分页参数，Number 从 1 开始；nil 表示不分页
type Page struct {
	Number int
	Size   int
}

// PaginateAccounts 按地址排序后截取指定页，保证分页结果稳定
func PaginateAccounts(accounts []chain.KeyedAccount, page *Page) []chain.KeyedAccount {
	sort.Slice(accounts, func(i, j int) bool {
		return bytes.Compare(accounts[i].Address[:], accounts[j].Address[:]) < 0
	})
	if page == nil || page.Size <= 0 {
		return accounts
	}
	number := max(page.Number, 1)
	// 先按页数比较再相乘，超大页码或页大小不会溢出
	if len(accounts) == 0 || number-1 > (len(accounts)-1)/page.Size {
		return nil
	}
	start := (number - 1) * page.Size
	end := min(start+page.Size, len(accounts))
	return accounts[start:end]
}
