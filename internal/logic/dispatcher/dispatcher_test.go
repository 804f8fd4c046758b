package dispatcher

import (
	"context"
	"crypto/sha256"
	"errors"
	"sync"
	"testing"
	"time"

	"defi-reader-sol/internal/consts"
	"defi-reader-sol/internal/layout"
	"defi-reader-sol/internal/logic/decoder"
	"defi-reader-sol/internal/logic/progress"
	"defi-reader-sol/internal/mq"
	"defi-reader-sol/internal/protocol/orca"
	"defi-reader-sol/internal/types"
	"defi-reader-sol/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(tag string) types.Pubkey {
	return types.Pubkey(sha256.Sum256([]byte(tag)))
}

type fakeSender struct {
	mu   sync.Mutex
	sent []*mq.KafkaJob
	fail bool
}

func (f *fakeSender) Send(_ context.Context, jobs []*mq.KafkaJob) ([]*mq.KafkaJob, []mq.KafkaSendResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		failed := make([]mq.KafkaSendResult, len(jobs))
		for i, j := range jobs {
			failed[i] = mq.KafkaSendResult{Job: j, Err: errors.New("broker down")}
		}
		return nil, failed
	}
	f.sent = append(f.sent, jobs...)
	return jobs, nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func poolUpdate(tag string, slot uint64) *types.AccountUpdate {
	return &types.AccountUpdate{
		Slot:    slot,
		Address: key(tag),
		Owner:   consts.OrcaPoolProgram,
		Data:    orca.PoolLayout.MustEncode(layout.Values{"lpMint": key(tag + "-lp")}),
	}
}

func newDispatcher(sender Sender, store progress.SlotStore) *Dispatcher {
	return NewDispatcher(decoder.NewRegistry(consts.DefaultProgramSet()), store, sender,
		Option{Topic: "snapshots", Partitions: 4}, nil)
}

func TestProcessPublishesAndDedups(t *testing.T) {
	sender := &fakeSender{}
	store := progress.NewMemorySlotStore()
	d := newDispatcher(sender, store)

	st := d.Process(context.Background(), []*types.AccountUpdate{
		poolUpdate("a", 10),
		poolUpdate("a", 12),
		poolUpdate("a", 11),
		poolUpdate("b", 5),
		{Slot: 1, Address: key("c"), Owner: consts.OrcaPoolProgram, Data: []byte{1}},
		{Slot: 1, Address: key("d"), Owner: key("unknown"), Data: []byte{1}},
		nil,
	})
	assert.Equal(t, 7, st.Received)
	assert.Equal(t, 2, st.Published)
	assert.Equal(t, 2, st.Stale)
	assert.Equal(t, 3, st.Dropped)
	assert.Zero(t, st.Failed)

	slot, ok, err := store.LastSlot(context.Background(), key("a"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(12), slot)

	// 已发布的 slot 再次到达时跳过
	st = d.Process(context.Background(), []*types.AccountUpdate{poolUpdate("a", 12), poolUpdate("b", 6)})
	assert.Equal(t, 1, st.Stale)
	assert.Equal(t, 1, st.Published)
	assert.Equal(t, 3, sender.count())
}

func TestProcessKeepsProgressOnFailure(t *testing.T) {
	sender := &fakeSender{fail: true}
	store := progress.NewMemorySlotStore()
	d := newDispatcher(sender, store)

	st := d.Process(context.Background(), []*types.AccountUpdate{poolUpdate("a", 10)})
	assert.Equal(t, 1, st.Failed)
	_, ok, err := store.LastSlot(context.Background(), key("a"))
	require.NoError(t, err)
	assert.False(t, ok)

	sender.fail = false
	st = d.Process(context.Background(), []*types.AccountUpdate{poolUpdate("a", 10)})
	assert.Equal(t, 1, st.Published)
}

func TestBuildSnapshotJob(t *testing.T) {
	reg := decoder.NewRegistry(consts.DefaultProgramSet())
	snap, err := reg.Decode(poolUpdate("a", 9))
	require.NoError(t, err)

	job, err := BuildSnapshotJob("snapshots", 4, snap)
	require.NoError(t, err)
	assert.Equal(t, "snapshots", job.Topic)
	assert.Equal(t, int32(utils.PartitionHashBytes(key("a").Bytes(), 4)), job.Partition)
	assert.Equal(t, key("a").Bytes(), job.Key)

	kind, st, err := utils.DecodeSnapshot(job.Value)
	require.NoError(t, err)
	assert.Equal(t, uint32(decoder.KindOrcaPool), kind)
	m := st.AsMap()
	assert.Equal(t, float64(consts.ChainIDSolana), m["chainId"])
	assert.Equal(t, "Orca", m["protocol"])
	assert.Equal(t, "orca.pool", m["kind"])
	assert.Equal(t, key("a").String(), m["address"])
	assert.Equal(t, 9.0, m["slot"])
	record, ok := m["record"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, key("a-lp").String(), record["lpMint"])
}

func TestStartDrainsChannel(t *testing.T) {
	sender := &fakeSender{}
	updates := make(chan *types.AccountUpdate, 8)
	d := NewDispatcher(decoder.NewRegistry(consts.DefaultProgramSet()), progress.NewMemorySlotStore(), sender,
		Option{Topic: "snapshots", Partitions: 2, BatchSize: 2}, updates)

	for i, tag := range []string{"a", "b", "c"} {
		updates <- poolUpdate(tag, uint64(i+1))
	}
	go d.Start()
	defer d.Stop()

	require.Eventually(t, func() bool { return sender.count() == 3 }, time.Second, 5*time.Millisecond)
}
