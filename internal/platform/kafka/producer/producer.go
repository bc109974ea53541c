// Package producer is a thin asynchronous wrapper around a franz-go client.
package producer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// DefaultMaxBuffered bounds the records held in memory while brokers are slow
// or unreachable.
const DefaultMaxBuffered = 10_000

// Producer sends records without blocking the caller on broker acks.
type Producer struct {
	client *kgo.Client
	logger *slog.Logger
}

// New connects a producer to the given seed brokers.
func New(brokers []string, logger *slog.Logger, opts ...kgo.Opt) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka producer: at least one broker is required")
	}
	base := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.ProducerLinger(5 * time.Millisecond),
		kgo.RecordDeliveryTimeout(10 * time.Second),
		kgo.MaxBufferedRecords(DefaultMaxBuffered),
	}
	client, err := kgo.NewClient(append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return &Producer{client: client, logger: logger}, nil
}

// Produce buffers one record and returns immediately. When the buffer is full
// the record is refused with kgo.ErrMaxBuffered instead of waiting for room.
// done, when non-nil, runs once the broker acks or the record fails.
func (p *Producer) Produce(ctx context.Context, topic string, key, value []byte, done func(error)) {
	record := &kgo.Record{Topic: topic, Key: key, Value: value}
	p.client.TryProduce(ctx, record, func(_ *kgo.Record, err error) {
		if done != nil {
			done(err)
		}
	})
}

// Ping checks broker connectivity.
func (p *Producer) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

// Close flushes buffered records within ctx and closes the client.
func (p *Producer) Close(ctx context.Context) error {
	err := p.client.Flush(ctx)
	p.client.Close()
	if err != nil {
		p.logger.Warn("kafka producer flush incomplete", "error", err)
	}
	return err
}
