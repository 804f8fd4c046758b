// Package stats 访问链下 HTTP 数据源：Orca 池统计与 token 价格列表
package stats

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"defi-reader-sol/internal/types"
	"defi-reader-sol/internal/utils"

	"github.com/sugawarayuuta/sonnet"
	"go.uber.org/zap"
)

const (
	DefaultOrcaPoolsURL = "https://api.orca.so/allPools"
	defaultTimeout      = 10 * time.Second
	defaultCacheTTL     = 60 * time.Second
)

// Cache 原始响应缓存，key 为请求 URL
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, body []byte, ttl time.Duration) error
}

type ClientOption struct {
	OrcaPoolsURL string
	TokenListURL string
	Timeout      time.Duration
	CacheTTL     time.Duration
	Retry        utils.RetryOption
}

type Client struct {
	http  *http.Client
	opt   ClientOption
	cache Cache
	log   *zap.Logger
}

// NewClient cache 可为 nil
func NewClient(opt ClientOption, cache Cache, log *zap.Logger) *Client {
	if opt.OrcaPoolsURL == "" {
		opt.OrcaPoolsURL = DefaultOrcaPoolsURL
	}
	if opt.Timeout <= 0 {
		opt.Timeout = defaultTimeout
	}
	if opt.CacheTTL <= 0 {
		opt.CacheTTL = defaultCacheTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		http:  &http.Client{Timeout: opt.Timeout},
		opt:   opt,
		cache: cache,
		log:   log.Named("stats"),
	}
}

// FetchPoolStats 返回 Orca 全部池的统计，key 为交易对名称
func (c *Client) FetchPoolStats(ctx context.Context) (map[string]OrcaPoolStats, error) {
	body, err := c.get(ctx, c.opt.OrcaPoolsURL)
	if err != nil {
		return nil, err
	}
	var out map[string]OrcaPoolStats
	if err := sonnet.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode orca pool stats: %w", err)
	}
	return out, nil
}

// FetchTokenList 返回 token 价格列表，mint 非法的条目跳过
func (c *Client) FetchTokenList(ctx context.Context) ([]types.TokenPrice, error) {
	if c.opt.TokenListURL == "" {
		return nil, fmt.Errorf("token list url is empty")
	}
	body, err := c.get(ctx, c.opt.TokenListURL)
	if err != nil {
		return nil, err
	}
	var entries []tokenListEntry
	if err := sonnet.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decode token list: %w", err)
	}
	now := time.Now().Unix()
	out := make([]types.TokenPrice, 0, len(entries))
	for _, e := range entries {
		mint, err := types.TryPubkeyFromBase58(e.Mint)
		if err != nil {
			c.log.Debug("skip token with invalid mint", zap.String("mint", e.Mint))
			continue
		}
		out = append(out, types.TokenPrice{
			Mint:      mint,
			Symbol:    e.Symbol,
			PriceUsd:  e.Price.Float64(),
			Decimals:  e.Decimals,
			Timestamp: now,
		})
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if c.cache != nil {
		body, ok, err := c.cache.Get(ctx, url)
		if err != nil {
			c.log.Warn("cache get failed", zap.String("url", url), zap.Error(err))
		} else if ok {
			return body, nil
		}
	}

	body, err := utils.CallWithRetry(ctx, c.opt.Retry, c.log, "GET "+url, func() ([]byte, error) {
		return c.doGet(ctx, url)
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, url, body, c.opt.CacheTTL); err != nil {
			c.log.Warn("cache set failed", zap.String("url", url), zap.Error(err))
		}
	}
	return body, nil
}

func (c *Client) doGet(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, utils.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		// 4xx 重试无意义
		return nil, utils.Permanent(fmt.Errorf("status %d", resp.StatusCode))
	}
	return body, nil
}
