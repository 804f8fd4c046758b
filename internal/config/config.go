package config

import (
	"fmt"
	"os"
	"time"

	"defi-reader-sol/internal/chain"
	"defi-reader-sol/internal/consts"
	"defi-reader-sol/internal/logic/grpc"
	"defi-reader-sol/internal/mq"
	"defi-reader-sol/internal/stats"
	"defi-reader-sol/internal/types"
	"defi-reader-sol/internal/utils"
	"defi-reader-sol/pkg/logger"

	"gopkg.in/yaml.v3"
)

type LogConfig struct {
	Format   string `yaml:"format"`   // 日志格式，支持 "console" 或 "json"
	LogDir   string `yaml:"log_dir"`  // 日志目录（可为相对路径或绝对路径）
	Level    string `yaml:"level"`    // 日志级别：debug / info / warn / error
	Compress bool   `yaml:"compress"` // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// RetryConfig 网络调用重试（指数退避）
type RetryConfig struct {
	Attempts uint `yaml:"attempts"` // 总尝试次数（含首次）
	DelayMs  int  `yaml:"delay_ms"` // 首次退避间隔（毫秒）
}

func (c *RetryConfig) ToRetryOption() utils.RetryOption {
	return utils.RetryOption{
		Attempts: c.Attempts,
		Delay:    time.Duration(c.DelayMs) * time.Millisecond,
	}
}

// RPCConfig Solana JSON-RPC 节点
type RPCConfig struct {
	Endpoint    string      `yaml:"endpoint"`    // RPC 地址
	TimeoutMs   int         `yaml:"timeout_ms"`  // 单次请求超时（毫秒）
	Retry       RetryConfig `yaml:"retry"`       // 重试策略
	BatchSize   int         `yaml:"batch_size"`  // getMultipleAccounts 单批地址数，节点上限 100
	Concurrency int         `yaml:"concurrency"` // 并发拉取的 worker 数，默认 CPU 核数
}

func (c *RPCConfig) ToRPCOption() chain.RPCOption {
	return chain.RPCOption{
		Endpoint:  c.Endpoint,
		Timeout:   time.Duration(c.TimeoutMs) * time.Millisecond,
		BatchSize: c.BatchSize,
		Retry:     c.Retry.ToRetryOption(),
	}
}

// StatsConfig 链下 HTTP 数据源
type StatsConfig struct {
	OrcaPoolsURL string      `yaml:"orca_pools_url"` // Orca 池统计
	TokenListURL string      `yaml:"token_list_url"` // token 价格列表
	TimeoutMs    int         `yaml:"timeout_ms"`     // 请求超时（毫秒）
	CacheTTLSec  int         `yaml:"cache_ttl_sec"`  // Redis 响应缓存 TTL（秒）
	Retry        RetryConfig `yaml:"retry"`
}

func (c *StatsConfig) ToClientOption() stats.ClientOption {
	return stats.ClientOption{
		OrcaPoolsURL: c.OrcaPoolsURL,
		TokenListURL: c.TokenListURL,
		Timeout:      time.Duration(c.TimeoutMs) * time.Millisecond,
		CacheTTL:     time.Duration(c.CacheTTLSec) * time.Second,
		Retry:        c.Retry.ToRetryOption(),
	}
}

// PriceServiceConfig 表示价格同步配置
type PriceServiceConfig struct {
	SyncIntervalS int `yaml:"sync_interval_s"` // 同步价格的时间间隔（秒）
}

// KafkaProducerConfig 表示 Kafka 生产者相关配置
type KafkaProducerConfig struct {
	Brokers   string `yaml:"brokers"`    // Kafka broker 地址，多个用英文逗号分隔
	BatchSize int    `yaml:"batch_size"` // 批处理大小（单位字节）
	LingerMs  int    `yaml:"linger_ms"`  // 批处理最大延迟（毫秒）

	Topics struct {
		Snapshot string `yaml:"snapshot"` // 账户快照的 Kafka topic
	} `yaml:"topics"`

	Partitions struct {
		Snapshot int `yaml:"snapshot"` // snapshot topic 的分区数
	} `yaml:"partitions"`
}

func (c *KafkaProducerConfig) ToKafkaOption() mq.KafkaProducerOption {
	return mq.KafkaProducerOption{
		Brokers:   c.Brokers,
		BatchSize: c.BatchSize,
		LingerMs:  c.LingerMs,
		Topics: []mq.TopicOption{
			{Topic: c.Topics.Snapshot, Partitions: c.Partitions.Snapshot},
		},
	}
}

// TimeConfig 表示各种超时配置（单位：毫秒）
type TimeConfig struct {
	EventSendTimeoutMs int `yaml:"event_send_timeout_ms"` // 单条快照发送到 Kafka 并等待 ack 的超时时间
}

// GrpcConfig yellowstone gRPC 客户端连接配置
type GrpcConfig struct {
	Endpoint string `yaml:"endpoint"` // gRPC 服务端地址
	XToken   string `yaml:"x_token"`  // x-token 认证

	// 应用级逻辑心跳（ping）配置
	StreamPingIntervalSec int `yaml:"stream_ping_interval_sec"` // 应用层 ping 心跳间隔（秒）

	// gRPC Keepalive 底层连接检测配置
	KeepalivePingIntervalSec int `yaml:"keepalive_ping_interval_sec"` // 底层 keepalive 间隔（秒）
	KeepalivePingTimeoutSec  int `yaml:"keepalive_ping_timeout_sec"`  // 底层 keepalive 超时（秒）

	// gRPC 窗口大小调优（用于大数据流推送）
	InitialWindowSize     int `yaml:"initial_window_size"`      // 单流窗口大小（字节）
	InitialConnWindowSize int `yaml:"initial_conn_window_size"` // 整体连接窗口大小（字节）

	// 消息体大小限制
	MaxCallSendMsgSize int `yaml:"max_call_send_msg_size"` // 单条消息最大发送字节数
	MaxCallRecvMsgSize int `yaml:"max_call_recv_msg_size"` // 单条消息最大接收字节数

	// 超时与重连策略
	ReconnectIntervalSec  int `yaml:"reconnect_interval_sec"`   // 重连最小间隔（秒）
	ConnectTimeoutSec     int `yaml:"connect_timeout_sec"`      // 连接建立超时（秒）
	SendTimeoutSec        int `yaml:"send_timeout_sec"`         // 发送超时（秒）
	AccountRecvTimeoutSec int `yaml:"account_recv_timeout_sec"` // 多久未收到账户更新触发重连（秒），0 不检测
}

func (c *GrpcConfig) ToStreamOption() grpc.StreamOption {
	sec := func(n int) time.Duration { return time.Duration(n) * time.Second }
	return grpc.StreamOption{
		Endpoint:              c.Endpoint,
		XToken:                c.XToken,
		StreamPingInterval:    sec(c.StreamPingIntervalSec),
		KeepaliveInterval:     sec(c.KeepalivePingIntervalSec),
		KeepaliveTimeout:      sec(c.KeepalivePingTimeoutSec),
		InitialWindowSize:     int32(c.InitialWindowSize),
		InitialConnWindowSize: int32(c.InitialConnWindowSize),
		MaxCallSendMsgSize:    c.MaxCallSendMsgSize,
		MaxCallRecvMsgSize:    c.MaxCallRecvMsgSize,
		ReconnectInterval:     sec(c.ReconnectIntervalSec),
		ConnectTimeout:        sec(c.ConnectTimeoutSec),
		SendTimeout:           sec(c.SendTimeoutSec),
		AccountRecvTimeout:    sec(c.AccountRecvTimeoutSec),
	}
}

// ProgramsConfig 覆盖默认的主网 program 地址（base58），为空使用默认值
type ProgramsConfig struct {
	FriktionVolt string `yaml:"friktion_volt"`
	FriktionFee  string `yaml:"friktion_fee_owner"`
	OrcaPool     string `yaml:"orca_pool"`
	OrcaFarm     string `yaml:"orca_farm"`
	Lido         string `yaml:"lido"`
	LidoState    string `yaml:"lido_state"`
	Lifinity     string `yaml:"lifinity"`
	NftFinance   string `yaml:"nft_finance"`
}

// Resolve 合并覆盖值与默认地址，任一覆盖值非法时返回错误
func (c *ProgramsConfig) Resolve() (consts.ProgramSet, error) {
	set := consts.DefaultProgramSet()
	overrides := []struct {
		name  string
		value string
		dst   *types.Pubkey
	}{
		{"friktion_volt", c.FriktionVolt, &set.FriktionVolt},
		{"friktion_fee_owner", c.FriktionFee, &set.FriktionFee},
		{"orca_pool", c.OrcaPool, &set.OrcaPool},
		{"orca_farm", c.OrcaFarm, &set.OrcaFarm},
		{"lido", c.Lido, &set.Lido},
		{"lido_state", c.LidoState, &set.LidoState},
		{"lifinity", c.Lifinity, &set.Lifinity},
		{"nft_finance", c.NftFinance, &set.NftFinance},
	}
	for _, o := range overrides {
		if o.value == "" {
			continue
		}
		key, err := types.TryPubkeyFromBase58(o.value)
		if err != nil {
			return consts.ProgramSet{}, fmt.Errorf("programs.%s: %w", o.name, err)
		}
		*o.dst = key
	}
	return set, nil
}

// OrcaConfig Orca 聚合行为
type OrcaConfig struct {
	DropEmptyPools *bool `yaml:"drop_empty_pools"` // 丢弃 LP 供应量为 0 的池，默认 true
}

// Config 是主配置结构体
type Config struct {
	LogConf           LogConfig           `yaml:"logger"`         // 日志配置
	RPC               RPCConfig           `yaml:"rpc"`            // Solana RPC
	Stats             StatsConfig         `yaml:"stats"`          // 链下统计 / 价格
	RedisAddr         string              `yaml:"redis_addr"`     // Redis 地址，为空时不启用缓存与进度存储
	KafkaProducerConf KafkaProducerConfig `yaml:"kafka_producer"` // Kafka 生产者配置
	Grpc              GrpcConfig          `yaml:"grpc"`           // yellowstone gRPC
	PriceServiceConf  PriceServiceConfig  `yaml:"price_service"`  // 价格同步配置
	Programs          ProgramsConfig      `yaml:"programs"`       // program 地址覆盖
	Orca              OrcaConfig          `yaml:"orca"`
	TimeConf          TimeConfig          `yaml:"time_conf"` // 时间相关配置
}

// 默认值
const (
	DefaultRPCTimeoutMs       = 30000
	DefaultRPCBatchSize       = 100
	DefaultRetryAttempts      = 3
	DefaultRetryDelayMs       = 200
	DefaultStatsTimeoutMs     = 10000
	DefaultStatsCacheTTLSec   = 60
	DefaultSyncIntervalS      = 60
	DefaultEventSendTimeoutMs = 5000
	DefaultSnapshotTopic      = "defi-snapshot"
	DefaultSnapshotPartitions = 8
)

// ApplyDefaults 为零值字段填入默认值
func (c *Config) ApplyDefaults() {
	if c.LogConf.Format == "" {
		c.LogConf.Format = "console"
	}
	if c.LogConf.Level == "" {
		c.LogConf.Level = "info"
	}

	if c.RPC.TimeoutMs <= 0 {
		c.RPC.TimeoutMs = DefaultRPCTimeoutMs
	}
	if c.RPC.BatchSize <= 0 || c.RPC.BatchSize > DefaultRPCBatchSize {
		c.RPC.BatchSize = DefaultRPCBatchSize
	}
	if c.RPC.Concurrency <= 0 {
		c.RPC.Concurrency = consts.CpuCount
	}
	c.RPC.Retry.applyDefaults()

	if c.Stats.OrcaPoolsURL == "" {
		c.Stats.OrcaPoolsURL = stats.DefaultOrcaPoolsURL
	}
	if c.Stats.TimeoutMs <= 0 {
		c.Stats.TimeoutMs = DefaultStatsTimeoutMs
	}
	if c.Stats.CacheTTLSec <= 0 {
		c.Stats.CacheTTLSec = DefaultStatsCacheTTLSec
	}
	c.Stats.Retry.applyDefaults()

	if c.KafkaProducerConf.Topics.Snapshot == "" {
		c.KafkaProducerConf.Topics.Snapshot = DefaultSnapshotTopic
	}
	if c.KafkaProducerConf.Partitions.Snapshot <= 0 {
		c.KafkaProducerConf.Partitions.Snapshot = DefaultSnapshotPartitions
	}
	if c.PriceServiceConf.SyncIntervalS <= 0 {
		c.PriceServiceConf.SyncIntervalS = DefaultSyncIntervalS
	}
	if c.TimeConf.EventSendTimeoutMs <= 0 {
		c.TimeConf.EventSendTimeoutMs = DefaultEventSendTimeoutMs
	}
	if c.Orca.DropEmptyPools == nil {
		drop := true
		c.Orca.DropEmptyPools = &drop
	}
}

func (c *RetryConfig) applyDefaults() {
	if c.Attempts == 0 {
		c.Attempts = DefaultRetryAttempts
	}
	if c.DelayMs <= 0 {
		c.DelayMs = DefaultRetryDelayMs
	}
}

// DropEmptyPools ApplyDefaults 之后调用
func (c *Config) DropEmptyPools() bool {
	return c.Orca.DropEmptyPools == nil || *c.Orca.DropEmptyPools
}

// Load 读取 yaml 配置，展开 ${ENV} 后解析并填充默认值
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse([]byte(os.ExpandEnv(string(raw))))
}

// Parse 解析 yaml 内容并填充默认值
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.ApplyDefaults()
	if _, err := c.Programs.Resolve(); err != nil {
		return nil, err
	}
	return &c, nil
}

// MustLoad 加载失败时 panic
func MustLoad(path string) *Config {
	c, err := Load(path)
	if err != nil {
		panic(err)
	}
	return c
}
