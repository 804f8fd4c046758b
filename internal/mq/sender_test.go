package mq

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopic = "test-snapshot"

// fakeProducer 按 value 决定回执：ack / 失败 / 不回执
type fakeProducer struct {
	mu       sync.Mutex
	produced []*kafka.Message
}

func (f *fakeProducer) Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error {
	f.mu.Lock()
	f.produced = append(f.produced, msg)
	f.mu.Unlock()

	switch string(msg.Value) {
	case "reject":
		return errors.New("queue full")
	case "silent":
		return nil
	case "nack":
		m := *msg
		m.TopicPartition.Error = errors.New("broker error")
		deliveryChan <- &m
	default:
		deliveryChan <- msg
	}
	return nil
}

func jobs(values ...string) []*KafkaJob {
	out := make([]*KafkaJob, len(values))
	for i, v := range values {
		out[i] = &KafkaJob{Topic: testTopic, Partition: int32(i), Value: []byte(v)}
	}
	return out
}

func TestPublisherSend(t *testing.T) {
	fp := &fakeProducer{}
	p := NewPublisher(fp, 20*time.Millisecond)

	ok, failed := p.Send(context.Background(), jobs("a", "reject", "nack", "silent", "b"))
	assert.Len(t, ok, 2)
	require.Len(t, failed, 3)

	reasons := map[string]string{}
	for _, f := range failed {
		reasons[string(f.Job.Value)] = f.Err.Error()
	}
	assert.Contains(t, reasons["reject"], "produce error")
	assert.Contains(t, reasons["nack"], "broker error")
	assert.Contains(t, reasons["silent"], "delivery timeout")
	assert.Len(t, fp.produced, 5)
}

func TestPublisherKeepsPartitionAndKey(t *testing.T) {
	fp := &fakeProducer{}
	p := NewPublisher(fp, time.Second)

	job := &KafkaJob{Topic: testTopic, Partition: 3, Key: []byte("k"), Value: []byte("v")}
	ok, failed := p.Send(context.Background(), []*KafkaJob{job})
	require.Empty(t, failed)
	require.Len(t, ok, 1)

	msg := fp.produced[0]
	assert.Equal(t, testTopic, *msg.TopicPartition.Topic)
	assert.Equal(t, int32(3), msg.TopicPartition.Partition)
	assert.Equal(t, []byte("k"), msg.Key)
}

func TestPublisherCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPublisher(&fakeProducer{}, time.Minute)
	ok, failed := p.Send(ctx, jobs("silent"))
	assert.Empty(t, ok)
	require.Len(t, failed, 1)
	assert.ErrorIs(t, failed[0].Err, context.Canceled)
}

func TestPublisherEmpty(t *testing.T) {
	ok, failed := NewPublisher(&fakeProducer{}, 0).Send(context.Background(), nil)
	assert.Empty(t, ok)
	assert.Empty(t, failed)
}

func TestMissingTopics(t *testing.T) {
	meta := &kafka.Metadata{Topics: map[string]kafka.TopicMetadata{"exists": {Topic: "exists"}}}
	specs := missingTopics(meta, []TopicOption{
		{Topic: "exists", Partitions: 4},
		{Topic: "new", Partitions: 0},
		{Topic: "new", Partitions: 8},
		{Topic: ""},
	}, 2)
	require.Len(t, specs, 1)
	assert.Equal(t, "new", specs[0].Topic)
	assert.Equal(t, 1, specs[0].NumPartitions)
	assert.Equal(t, 2, specs[0].ReplicationFactor)
}

func TestPublisherRealKafka(t *testing.T) {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		t.Skip("KAFKA_BROKERS not set")
	}
	producer, err := NewKafkaProducer(KafkaProducerOption{
		Brokers: brokers,
		Topics:  []TopicOption{{Topic: testTopic, Partitions: 2}},
	})
	require.NoError(t, err)
	defer producer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ok, failed := NewPublisher(producer, 5*time.Second).Send(ctx, []*KafkaJob{
		{Topic: testTopic, Partition: 0, Value: []byte("snapshot 1")},
		{Topic: testTopic, Partition: 1, Value: []byte("snapshot 2")},
	})
	assert.Len(t, ok, 2)
	assert.Empty(t, failed)
	producer.Flush(1000)
}
