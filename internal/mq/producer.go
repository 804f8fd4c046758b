package mq

import (
	"context"
	"fmt"
	"time"

	"defi-reader-sol/internal/utils"
	"defi-reader-sol/pkg/logger"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

const (
	defaultBatchSize = 32 * 1024
	defaultLingerMs  = 5
)

type TopicOption struct {
	Topic      string // topic 名称
	Partitions int    // 分区数
}

type KafkaProducerOption struct {
	Brokers   string // Kafka broker 地址，多个用英文逗号分隔
	BatchSize int    // 批处理大小（字节）
	LingerMs  int    // 批处理最大延迟（毫秒）
	Topics    []TopicOption
}

// NewKafkaProducer 创建 Kafka 生产者，不存在的 topic 按配置的分区数创建
func NewKafkaProducer(opt KafkaProducerOption) (*kafka.Producer, error) {
	adminClient, err := kafka.NewAdminClient(&kafka.ConfigMap{
		"bootstrap.servers": opt.Brokers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	meta, err := adminClient.GetMetadata(nil, true, 10000)
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata: %w", err)
	}

	// 多 broker 时每个分区保留 2 个副本
	replicationFactor := 1
	if len(meta.Brokers) > 1 {
		replicationFactor = 2
	}
	logger.Infof("[mq] Kafka broker count = %d, using replication factor = %d", len(meta.Brokers), replicationFactor)

	if specs := missingTopics(meta, opt.Topics, replicationFactor); len(specs) > 0 {
		results, err := adminClient.CreateTopics(ctx, specs)
		if err != nil {
			return nil, fmt.Errorf("failed to create topics: %w", err)
		}
		for _, result := range results {
			if result.Error.Code() != kafka.ErrNoError && result.Error.Code() != kafka.ErrTopicAlreadyExists {
				return nil, fmt.Errorf("failed to create topic %s: %w", result.Topic, result.Error)
			}
		}
	}

	batchSize := opt.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	lingerMs := opt.LingerMs
	if lingerMs < 0 {
		lingerMs = defaultLingerMs
	}

	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": opt.Brokers,
		"client.id":         fmt.Sprintf("defi-reader-sol-%s", utils.GetLocalIP()),

		// 可靠性保障
		"acks":                                  "all",
		"enable.idempotence":                    true,
		"max.in.flight.requests.per.connection": 5, // 幂等场景下最大值为 5

		// 超时与重试
		"delivery.timeout.ms": 30000,
		"request.timeout.ms":  30000,
		"retries":             5,
		"retry.backoff.ms":    100,

		"batch.size":        batchSize,
		"linger.ms":         lingerMs,
		"compression.type":  "none",
		"message.max.bytes": 2 * 1024 * 1024,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}
	return producer, nil
}

func missingTopics(meta *kafka.Metadata, topics []TopicOption, replicationFactor int) []kafka.TopicSpecification {
	existing := make(map[string]bool, len(meta.Topics))
	for name := range meta.Topics {
		existing[name] = true
	}
	var specs []kafka.TopicSpecification
	for _, t := range topics {
		if t.Topic == "" || existing[t.Topic] {
			continue
		}
		partitions := t.Partitions
		if partitions <= 0 {
			partitions = 1
		}
		specs = append(specs, kafka.TopicSpecification{
			Topic:             t.Topic,
			NumPartitions:     partitions,
			ReplicationFactor: replicationFactor,
		})
		existing[t.Topic] = true
	}
	return specs
}
