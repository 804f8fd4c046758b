package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"defi-reader-sol/internal/consts"
	"defi-reader-sol/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	c, err := Parse([]byte("rpc:\n  endpoint: http://localhost:8899\n"))
	require.NoError(t, err)

	assert.Equal(t, "console", c.LogConf.Format)
	assert.Equal(t, "info", c.LogConf.Level)
	assert.Equal(t, DefaultRPCTimeoutMs, c.RPC.TimeoutMs)
	assert.Equal(t, DefaultRPCBatchSize, c.RPC.BatchSize)
	assert.Equal(t, consts.CpuCount, c.RPC.Concurrency)
	assert.Equal(t, uint(DefaultRetryAttempts), c.RPC.Retry.Attempts)
	assert.Equal(t, stats.DefaultOrcaPoolsURL, c.Stats.OrcaPoolsURL)
	assert.Equal(t, DefaultStatsCacheTTLSec, c.Stats.CacheTTLSec)
	assert.Equal(t, DefaultSnapshotTopic, c.KafkaProducerConf.Topics.Snapshot)
	assert.Equal(t, DefaultSnapshotPartitions, c.KafkaProducerConf.Partitions.Snapshot)
	assert.Equal(t, DefaultSyncIntervalS, c.PriceServiceConf.SyncIntervalS)
	assert.Equal(t, DefaultEventSendTimeoutMs, c.TimeConf.EventSendTimeoutMs)
	assert.True(t, c.DropEmptyPools())
}

func TestBatchSizeCappedAtNodeLimit(t *testing.T) {
	c, err := Parse([]byte("rpc:\n  batch_size: 500\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultRPCBatchSize, c.RPC.BatchSize)
}

func TestDropEmptyPoolsExplicitFalse(t *testing.T) {
	c, err := Parse([]byte("orca:\n  drop_empty_pools: false\n"))
	require.NoError(t, err)
	assert.False(t, c.DropEmptyPools())
}

func TestProgramsResolve(t *testing.T) {
	var p ProgramsConfig
	set, err := p.Resolve()
	require.NoError(t, err)
	assert.Equal(t, consts.DefaultProgramSet(), set)

	p.OrcaPool = consts.USDCMint.String()
	set, err = p.Resolve()
	require.NoError(t, err)
	assert.Equal(t, consts.USDCMint, set.OrcaPool)
	assert.Equal(t, consts.OrcaFarmProgram, set.OrcaFarm)

	p.Lido = "not-base58-0OIl"
	_, err = p.Resolve()
	assert.ErrorContains(t, err, "programs.lido")
}

func TestParseRejectsBadProgram(t *testing.T) {
	_, err := Parse([]byte("programs:\n  lifinity: xyz0\n"))
	assert.Error(t, err)
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("DEFI_TEST_RPC", "http://rpc.example:8899")
	path := filepath.Join(t.TempDir(), "app.yaml")
	body := "rpc:\n  endpoint: ${DEFI_TEST_RPC}\n  timeout_ms: 1500\n  retry:\n    attempts: 5\n    delay_ms: 50\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://rpc.example:8899", c.RPC.Endpoint)

	opt := c.RPC.ToRPCOption()
	assert.Equal(t, 1500*time.Millisecond, opt.Timeout)
	assert.Equal(t, uint(5), opt.Retry.Attempts)
	assert.Equal(t, 50*time.Millisecond, opt.Retry.Delay)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "missing.yaml")) })
}

func TestToKafkaOption(t *testing.T) {
	c, err := Parse([]byte("kafka_producer:\n  brokers: k1:9092,k2:9092\n  topics:\n    snapshot: snaps\n  partitions:\n    snapshot: 3\n"))
	require.NoError(t, err)

	opt := c.KafkaProducerConf.ToKafkaOption()
	assert.Equal(t, "k1:9092,k2:9092", opt.Brokers)
	require.Len(t, opt.Topics, 1)
	assert.Equal(t, "snaps", opt.Topics[0].Topic)
	assert.Equal(t, 3, opt.Topics[0].Partitions)
}

func TestToStreamOption(t *testing.T) {
	c := GrpcConfig{
		Endpoint:              "geyser:443",
		StreamPingIntervalSec: 15,
		InitialWindowSize:     1 << 20,
		AccountRecvTimeoutSec: 30,
	}
	opt := c.ToStreamOption()
	assert.Equal(t, "geyser:443", opt.Endpoint)
	assert.Equal(t, 15*time.Second, opt.StreamPingInterval)
	assert.Equal(t, int32(1<<20), opt.InitialWindowSize)
	assert.Equal(t, 30*time.Second, opt.AccountRecvTimeout)
}
