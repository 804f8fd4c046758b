package svc

import (
	"time"

	"defi-reader-sol/internal/logic/decoder"
	"defi-reader-sol/internal/logic/dispatcher"
	"defi-reader-sol/internal/logic/grpc"
	"defi-reader-sol/internal/logic/progress"
	"defi-reader-sol/internal/mq"
	"defi-reader-sol/internal/types"
	"defi-reader-sol/pkg/logger"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

const updateChanSize = 1024

// WatchContext watch 模式的流水线：gRPC 账户流 -> Dispatcher -> Kafka
type WatchContext struct {
	Producer   *kafka.Producer
	Stream     *grpc.AccountStreamManager
	Dispatcher *dispatcher.Dispatcher
}

// NewWatchContext 只在 watch 命令中调用，查询命令不连接 Kafka 与 gRPC
func (ctx *ServiceContext) NewWatchContext() (*WatchContext, error) {
	c := ctx.Config

	// 1. 初始化 Kafka 生产者
	producer, err := mq.NewKafkaProducer(c.KafkaProducerConf.ToKafkaOption())
	if err != nil {
		logger.Errorf("[Watch] Kafka producer 初始化失败: %v", err)
		return nil, err
	}
	perMessage := time.Duration(c.TimeConf.EventSendTimeoutMs) * time.Millisecond
	publisher := mq.NewPublisher(producer, perMessage)

	// 2. 进度存储，未配置 Redis 时仅保存在内存
	var store progress.SlotStore
	if ctx.Redis != nil {
		store = progress.NewRedisSlotStore(ctx.Redis, 0)
	} else {
		logger.Warnf("[Watch] redis_addr 未配置，slot 进度仅保存在内存")
		store = progress.NewMemorySlotStore()
	}

	// 3. 解码器与账户流
	registry := decoder.NewRegistry(ctx.Programs)
	updates := make(chan *types.AccountUpdate, updateChanSize)
	stream, err := grpc.NewAccountStreamManager(c.Grpc.ToStreamOption(), registry.Owners(), updates)
	if err != nil {
		producer.Close()
		return nil, err
	}

	d := dispatcher.NewDispatcher(registry, store, publisher, dispatcher.Option{
		Topic:       c.KafkaProducerConf.Topics.Snapshot,
		Partitions:  c.KafkaProducerConf.Partitions.Snapshot,
		SendTimeout: 2 * perMessage,
	}, updates)

	logger.Infof("[Watch] 订阅 %d 个 program，发布到 topic %s", len(registry.Owners()), c.KafkaProducerConf.Topics.Snapshot)
	return &WatchContext{Producer: producer, Stream: stream, Dispatcher: d}, nil
}

// Close 刷出未发送的消息并关闭生产者
func (w *WatchContext) Close() {
	if w.Producer != nil {
		w.Producer.Flush(5000)
		w.Producer.Close()
	}
}
