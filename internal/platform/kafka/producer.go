// Package kafka wraps the franz-go client for the audit event stream.
//
// The Postgres ledger is the record of truth; the Kafka stream feeds SIEM and
// downstream reporting, so publishing is post-commit and best-effort.
package kafka

import (
	"context"
	"fmt"
	"strings"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer publishes keyed JSON payloads to a topic.
type Producer struct {
	client *kgo.Client
	topic  string
}

// NewProducer connects to the brokers and ensures the topic exists.
// Returns nil if brokers is empty (Kafka not configured).
func NewProducer(ctx context.Context, brokers, topic string) (*Producer, error) {
	if brokers == "" {
		return nil, nil
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(strings.Split(brokers, ",")...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	if err := ensureTopic(ctx, client, topic); err != nil {
		client.Close()
		return nil, err
	}

	return &Producer{client: client, topic: topic}, nil
}

func ensureTopic(ctx context.Context, client *kgo.Client, topic string) error {
	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopic(ctx, 3, 1, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	if resp.Err != nil && !strings.Contains(resp.Err.Error(), "TOPIC_ALREADY_EXISTS") {
		return fmt.Errorf("create topic %s: %w", topic, resp.Err)
	}
	return nil
}

// Publish sends one record asynchronously. The callback receives the
// delivery outcome, nil on success; callers treat the stream as best-effort.
func (p *Producer) Publish(ctx context.Context, key string, payload []byte, onDone func(error)) {
	record := &kgo.Record{Topic: p.topic, Key: []byte(key), Value: payload}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if onDone != nil {
			onDone(err)
		}
	})
}

// Close flushes pending records and releases the client.
func (p *Producer) Close(ctx context.Context) error {
	if err := p.client.Flush(ctx); err != nil {
		p.client.Close()
		return fmt.Errorf("flush kafka producer: %w", err)
	}
	p.client.Close()
	return nil
}
