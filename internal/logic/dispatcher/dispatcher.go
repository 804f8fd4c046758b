// Package dispatcher 消费账户更新：解码、按 slot 去重、编码并发布到 Kafka
package dispatcher

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"defi-reader-sol/internal/logic/decoder"
	"defi-reader-sol/internal/logic/progress"
	"defi-reader-sol/internal/mq"
	"defi-reader-sol/internal/types"
	"defi-reader-sol/pkg/logger"
)

const (
	defaultBatchSize   = 256
	defaultSendTimeout = 5 * time.Second
)

// Sender mq.Publisher
type Sender interface {
	Send(ctx context.Context, jobs []*mq.KafkaJob) (ok []*mq.KafkaJob, failed []mq.KafkaSendResult)
}

type Option struct {
	Topic       string
	Partitions  int
	BatchSize   int           // 单批最多处理的更新数
	SendTimeout time.Duration // 单批发送超时
}

// Stats 一批处理的计数
type Stats struct {
	Received  int
	Dropped   int // 解码失败或无匹配解码器
	Stale     int // slot 不新于已发布值
	Published int
	Failed    int
}

type Dispatcher struct {
	registry *decoder.Registry
	store    progress.SlotStore
	sender   Sender
	opt      Option
	updates  <-chan *types.AccountUpdate
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewDispatcher(registry *decoder.Registry, store progress.SlotStore, sender Sender, opt Option, updates <-chan *types.AccountUpdate) *Dispatcher {
	if opt.BatchSize <= 0 {
		opt.BatchSize = defaultBatchSize
	}
	if opt.SendTimeout <= 0 {
		opt.SendTimeout = defaultSendTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		registry: registry,
		store:    store,
		sender:   sender,
		opt:      opt,
		updates:  updates,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (d *Dispatcher) Start() {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[Dispatcher] panic: %v\n%s", r, debug.Stack())
		}
	}()

	for {
		select {
		case <-d.ctx.Done():
			return
		case u := <-d.updates:
			batch := d.drain(u)
			st := d.Process(d.ctx, batch)
			if st.Failed > 0 || st.Dropped > 0 {
				logger.Warnf("[Dispatcher] batch received=%d published=%d stale=%d dropped=%d failed=%d",
					st.Received, st.Published, st.Stale, st.Dropped, st.Failed)
			}
		}
	}
}

func (d *Dispatcher) Stop() {
	d.cancel()
}

// drain 在不阻塞的前提下取出当前积压的更新
func (d *Dispatcher) drain(first *types.AccountUpdate) []*types.AccountUpdate {
	batch := make([]*types.AccountUpdate, 0, d.opt.BatchSize)
	batch = append(batch, first)
	for len(batch) < d.opt.BatchSize {
		select {
		case u := <-d.updates:
			batch = append(batch, u)
		default:
			return batch
		}
	}
	return batch
}

// Process 处理一批更新。同一账户只保留 slot 最大的一条，发布成功后才推进进度
func (d *Dispatcher) Process(ctx context.Context, batch []*types.AccountUpdate) Stats {
	st := Stats{Received: len(batch)}

	latest := make(map[types.Pubkey]*types.AccountUpdate, len(batch))
	order := make([]types.Pubkey, 0, len(batch))
	for _, u := range batch {
		if u == nil {
			st.Dropped++
			continue
		}
		prev, ok := latest[u.Address]
		switch {
		case !ok:
			order = append(order, u.Address)
			latest[u.Address] = u
		case u.Slot > prev.Slot:
			st.Stale++ // 被同批更新的新 slot 覆盖
			latest[u.Address] = u
		default:
			st.Stale++
		}
	}

	jobs := make([]*mq.KafkaJob, 0, len(order))
	slots := make(map[*mq.KafkaJob]*types.AccountUpdate, len(order))
	for _, addr := range order {
		u := latest[addr]
		last, seen, err := d.store.LastSlot(ctx, addr)
		if err != nil {
			logger.Warnf("[Dispatcher] read progress %s failed: %v", addr, err)
		} else if seen && last >= u.Slot {
			st.Stale++
			continue
		}

		snap, err := d.registry.Decode(u)
		if err != nil {
			st.Dropped++
			if errors.Is(err, decoder.ErrUnrouted) {
				logger.Debugf("[Dispatcher] %v", err)
			} else {
				logger.Warnf("[Dispatcher] drop update: %v", err)
			}
			continue
		}
		job, err := BuildSnapshotJob(d.opt.Topic, d.opt.Partitions, snap)
		if err != nil {
			st.Dropped++
			logger.Warnf("[Dispatcher] %v", err)
			continue
		}
		jobs = append(jobs, job)
		slots[job] = u
	}
	if len(jobs) == 0 {
		return st
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.opt.SendTimeout)
	defer cancel()
	ok, failed := d.sender.Send(sendCtx, jobs)
	st.Published = len(ok)
	st.Failed = len(failed)
	for _, f := range failed {
		logger.Warnf("[Dispatcher] publish %s failed: %v", slots[f.Job].Address, f.Err)
	}
	for _, job := range ok {
		u := slots[job]
		if _, err := d.store.Advance(ctx, u.Address, u.Slot); err != nil {
			logger.Warnf("[Dispatcher] advance progress %s failed: %v", u.Address, err)
		}
	}
	return st
}
