package cache

import (
	"sort"
	"sync"

	"defi-reader-sol/internal/types"
)

type TokenPricePoint struct {
	Timestamp int64
	PriceUsd  float64
}

type tokenMeta struct {
	symbol   string
	decimals uint8
}

// 单个 mint 保留的价格点上限，超过后截断为 retainCount
const (
	maxCapacity = 400
	retainCount = 300
)

// PriceCache 按 mint 保存 token 价格历史与元信息，并发安全
type PriceCache struct {
	mu      sync.RWMutex
	history map[types.Pubkey][]TokenPricePoint // 价格点按时间升序排列
	meta    map[types.Pubkey]tokenMeta
}

func NewPriceCache() *PriceCache {
	return &PriceCache{
		history: make(map[types.Pubkey][]TokenPricePoint),
		meta:    make(map[types.Pubkey]tokenMeta),
	}
}

// Update 合入一批 token 列表记录
func (pc *PriceCache) Update(prices []types.TokenPrice) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	for _, p := range prices {
		pc.meta[p.Mint] = tokenMeta{symbol: p.Symbol, decimals: p.Decimals}
		pc.insertUnsafe(p.Mint, TokenPricePoint{Timestamp: p.Timestamp, PriceUsd: p.PriceUsd})
	}
}

func (pc *PriceCache) insertUnsafe(token types.Pubkey, point TokenPricePoint) {
	pricePoints, ok := pc.history[token]
	if !ok {
		pricePoints = make([]TokenPricePoint, 0, maxCapacity)
		pc.history[token] = append(pricePoints, point)
		return
	}

	if len(pricePoints) >= maxCapacity {
		// 将后半段复制到前半段
		copy(pricePoints[:retainCount], pricePoints[len(pricePoints)-retainCount:])
		pricePoints = pricePoints[:retainCount]
	}

	// 顺序追加
	last := pricePoints[len(pricePoints)-1]
	if point.Timestamp == last.Timestamp {
		pricePoints[len(pricePoints)-1] = point
		pc.history[token] = pricePoints
		return
	}
	if point.Timestamp > last.Timestamp {
		pc.history[token] = append(pricePoints, point)
		return
	}

	// 乱序插入
	idx := sort.Search(len(pricePoints), func(i int) bool {
		return pricePoints[i].Timestamp >= point.Timestamp
	})
	if pricePoints[idx].Timestamp == point.Timestamp {
		pricePoints[idx] = point
		pc.history[token] = pricePoints
		return
	}
	pricePoints = append(pricePoints, TokenPricePoint{})
	copy(pricePoints[idx+1:], pricePoints[idx:])
	pricePoints[idx] = point
	pc.history[token] = pricePoints
}

// TokenPrice 返回 mint 的最新价格
func (pc *PriceCache) TokenPrice(mint types.Pubkey) (types.TokenPrice, bool) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	points := pc.history[mint]
	if len(points) == 0 {
		return types.TokenPrice{}, false
	}
	last := points[len(points)-1]
	m := pc.meta[mint]
	return types.TokenPrice{
		Mint:      mint,
		Symbol:    m.symbol,
		PriceUsd:  last.PriceUsd,
		Decimals:  m.decimals,
		Timestamp: last.Timestamp,
	}, true
}

// PriceAt 返回 ts 时刻的价格：取不晚于 ts 的最近点，早于全部历史时取最老点
func (pc *PriceCache) PriceAt(mint types.Pubkey, ts int64) (float64, bool) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	points := pc.history[mint]
	count := len(points)
	if count == 0 {
		return 0, false
	}
	if ts >= points[count-1].Timestamp {
		return points[count-1].PriceUsd, true
	}
	if ts < points[0].Timestamp {
		return points[0].PriceUsd, true
	}

	// 第一个 >= ts 的点
	idx := sort.Search(count, func(i int) bool {
		return points[i].Timestamp >= ts
	})
	if points[idx].Timestamp == ts {
		return points[idx].PriceUsd, true
	}
	return points[idx-1].PriceUsd, true
}

// Len 已缓存的 mint 数量
func (pc *PriceCache) Len() int {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return len(pc.history)
}
