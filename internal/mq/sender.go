package mq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

const defaultSendTimeout = 5 * time.Second

// Producer *kafka.Producer 中 Publisher 用到的部分
type Producer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
}

// KafkaJob 表示一条需要发送的 Kafka 消息
type KafkaJob struct {
	Topic     string
	Partition int32
	Key       []byte
	Value     []byte
}

// KafkaSendResult 表示每条消息的发送结果
type KafkaSendResult struct {
	Job *KafkaJob
	Err error
}

// Publisher 并发发送消息并逐条等待 ack
type Publisher struct {
	producer Producer
	timeout  time.Duration // 单条消息等待 ack 的超时
}

func NewPublisher(producer Producer, perMessageTimeout time.Duration) *Publisher {
	if perMessageTimeout <= 0 {
		perMessageTimeout = defaultSendTimeout
	}
	return &Publisher{producer: producer, timeout: perMessageTimeout}
}

// Send 发送全部 jobs，返回成功与失败的列表，ctx 取消时未 ack 的消息计为失败
func (p *Publisher) Send(ctx context.Context, jobs []*KafkaJob) (ok []*KafkaJob, failed []KafkaSendResult) {
	var wg sync.WaitGroup
	resultCh := make(chan KafkaSendResult, len(jobs))

	for _, job := range jobs {
		wg.Add(1)
		go func(job *KafkaJob) {
			defer wg.Done()
			resultCh <- KafkaSendResult{Job: job, Err: p.sendOne(ctx, job)}
		}(job)
	}
	wg.Wait()
	close(resultCh)

	for res := range resultCh {
		if res.Err != nil {
			failed = append(failed, res)
		} else {
			ok = append(ok, res.Job)
		}
	}
	return ok, failed
}

func (p *Publisher) sendOne(ctx context.Context, job *KafkaJob) error {
	deliveryChan := make(chan kafka.Event, 1)
	err := p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &job.Topic,
			Partition: job.Partition,
		},
		Key:   job.Key,
		Value: job.Value,
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("produce error: %w", err)
	}

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()

	// deliveryChan 带缓冲，超时后迟到的回调不会阻塞
	select {
	case e, open := <-deliveryChan:
		if !open {
			return errors.New("delivery channel closed unexpectedly")
		}
		msg, isMsg := e.(*kafka.Message)
		if !isMsg {
			return fmt.Errorf("invalid delivery event: %T", e)
		}
		return msg.TopicPartition.Error
	case <-timer.C:
		return fmt.Errorf("delivery timeout (>%v)", p.timeout)
	case <-ctx.Done():
		return fmt.Errorf("ctx cancelled: %w", ctx.Err())
	}
}
