package svc

import (
	"context"
	"fmt"
	"time"

	"defi-reader-sol/internal/cache"
	"defi-reader-sol/internal/chain"
	"defi-reader-sol/internal/config"
	"defi-reader-sol/internal/consts"
	"defi-reader-sol/internal/protocol"
	"defi-reader-sol/internal/protocol/friktion"
	"defi-reader-sol/internal/protocol/lido"
	"defi-reader-sol/internal/protocol/lifinity"
	"defi-reader-sol/internal/protocol/nftfinance"
	"defi-reader-sol/internal/protocol/orca"
	"defi-reader-sol/internal/service"
	"defi-reader-sol/internal/stats"
	"defi-reader-sol/pkg/logger"

	"github.com/alitto/pond/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ServiceContext 查询命令与 watch 共用的资源
type ServiceContext struct {
	Config     *config.Config
	Programs   consts.ProgramSet
	Logger     *zap.Logger
	Fetcher    chain.AccountFetcher
	Pool       pond.Pool
	Redis      *redis.Client // redis_addr 为空时为 nil
	Stats      *stats.Client
	PriceCache *cache.PriceCache

	Friktion   *friktion.Friktion
	Orca       *orca.Orca
	Lido       *lido.Lido
	Lifinity   *lifinity.Lifinity
	NftFinance *nftfinance.NftFinance
}

// NewServiceContext 创建服务上下文，不发起任何网络请求
func NewServiceContext(c *config.Config) (*ServiceContext, error) {
	// 1. 日志
	if err := logger.Init(c.LogConf.ToLogOption()); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log := logger.L()

	programs, err := c.Programs.Resolve()
	if err != nil {
		return nil, err
	}

	// 2. RPC 与并发池
	fetcher, err := chain.NewRPCFetcher(c.RPC.ToRPCOption(), log)
	if err != nil {
		return nil, err
	}
	pool := pond.NewPool(c.RPC.Concurrency)

	// 3. 可选 Redis（响应缓存 + 进度存储）
	var rdb *redis.Client
	var statsCache stats.Cache
	if c.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		statsCache = stats.NewRedisCache(rdb)
	}
	statsClient := stats.NewClient(c.Stats.ToClientOption(), statsCache, log)

	return newServiceContext(c, programs, fetcher, pool, rdb, statsClient), nil
}

func newServiceContext(c *config.Config, programs consts.ProgramSet, fetcher chain.AccountFetcher, pool pond.Pool,
	rdb *redis.Client, statsClient *stats.Client) *ServiceContext {
	log := logger.L()
	deps := protocol.Deps{Fetcher: fetcher, Pool: pool, Logger: log}
	priceCache := cache.NewPriceCache()

	ctx := &ServiceContext{
		Config:     c,
		Programs:   programs,
		Logger:     log,
		Fetcher:    fetcher,
		Pool:       pool,
		Redis:      rdb,
		Stats:      statsClient,
		PriceCache: priceCache,
		Friktion:   friktion.New(deps, friktion.Config{Program: programs.FriktionVolt, FeeOwner: programs.FriktionFee}),
		Lido:       lido.New(deps, lido.Config{Program: programs.Lido}),
		Lifinity:   lifinity.New(deps, lifinity.Config{Program: programs.Lifinity}),
		NftFinance: nftfinance.New(deps, nftfinance.Config{Program: programs.NftFinance}),
	}

	orcaCfg := orca.Config{
		PoolProgram:    programs.OrcaPool,
		FarmProgram:    programs.OrcaFarm,
		DropEmptyPools: c.DropEmptyPools(),
		Prices:         priceCache,
	}
	if statsClient != nil {
		orcaCfg.Stats = statsClient
	}
	ctx.Orca = orca.New(deps, orcaCfg)
	return ctx
}

// LoadPrices 拉取一次 token 价格写入 PriceCache。未配置 token_list_url 时返回 nil, nil
func (ctx *ServiceContext) LoadPrices() (*service.PriceSyncService, error) {
	if ctx.Config.Stats.TokenListURL == "" {
		return nil, nil
	}
	interval := time.Duration(ctx.Config.PriceServiceConf.SyncIntervalS) * time.Second
	return service.NewPriceSyncService(ctx.Stats, ctx.PriceCache, interval)
}

// Ping 检查 Redis 连通性
func (ctx *ServiceContext) Ping(c context.Context) error {
	if ctx.Redis == nil {
		return nil
	}
	return ctx.Redis.Ping(c).Err()
}

// Close 关闭服务上下文中的资源
func (ctx *ServiceContext) Close() {
	if ctx.Pool != nil {
		ctx.Pool.StopAndWait()
	}
	if ctx.Redis != nil {
		_ = ctx.Redis.Close()
	}
	logger.Sync()
}
