package service

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"defi-reader-sol/internal/cache"
	"defi-reader-sol/internal/types"
	"defi-reader-sol/pkg/logger"
)

const (
	defaultSyncInterval = 60 * time.Second
	fetchTimeout        = 15 * time.Second
)

// TokenListSource 链下 token 价格列表
type TokenListSource interface {
	FetchTokenList(ctx context.Context) ([]types.TokenPrice, error)
}

// PriceSyncService 定时拉取 token 价格列表写入 PriceCache
type PriceSyncService struct {
	priceCache *cache.PriceCache
	source     TokenListSource
	interval   time.Duration
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewPriceSyncService 创建服务并完成首次同步，首次同步失败时返回错误
func NewPriceSyncService(source TokenListSource, priceCache *cache.PriceCache, interval time.Duration) (*PriceSyncService, error) {
	if source == nil || priceCache == nil {
		return nil, errors.New("price sync: source and cache are required")
	}
	if interval <= 0 {
		interval = defaultSyncInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	ps := &PriceSyncService{
		priceCache: priceCache,
		source:     source,
		interval:   interval,
		ctx:        ctx,
		cancel:     cancel,
	}

	const retryCount = 2
	var lastErr error
	for i := 0; i <= retryCount; i++ {
		n, err := ps.update()
		if err == nil && n > 0 {
			logger.Infof("[PriceSyncService] 初始价格同步成功，共 %d 个 token", n)
			return ps, nil
		}
		if err == nil {
			err = errors.New("empty token list")
		}
		lastErr = err
		logger.Warnf("[PriceSyncService] 第 %d 次初始同步失败: %v", i+1, err)
	}
	cancel()
	return nil, fmt.Errorf("initial price sync failed after %d attempts: %w", retryCount+1, lastErr)
}

func (ps *PriceSyncService) Start() {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[PriceSyncService] panic: %v\n%s", r, debug.Stack())
		}
	}()

	ticker := time.NewTicker(ps.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := ps.update(); err != nil {
				logger.Warnf("[PriceSyncService] 周期性价格更新失败: %v", err)
			}
		case <-ps.ctx.Done():
			return
		}
	}
}

func (ps *PriceSyncService) Stop() {
	ps.cancel()
}

func (ps *PriceSyncService) update() (int, error) {
	ctx, cancel := context.WithTimeout(ps.ctx, fetchTimeout)
	defer cancel()

	prices, err := ps.source.FetchTokenList(ctx)
	if err != nil {
		return 0, err
	}
	ps.priceCache.Update(prices)
	return len(prices), nil
}
