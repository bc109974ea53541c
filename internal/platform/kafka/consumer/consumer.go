// Package consumer runs a committed-after-handling consumer group loop.
package consumer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Message is the transport-neutral view of one consumed record.
type Message struct {
	Topic     string
	Key       []byte
	Value     []byte
	Partition int32
	Offset    int64
	Timestamp time.Time
}

// Handler processes one message. Returning an error is logged; offsets are
// committed regardless so a poison message never blocks the partition.
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

type Config struct {
	Brokers []string
	Group   string
	Topics  []string
}

type Consumer struct {
	client  *kgo.Client
	handler Handler
	logger  *slog.Logger
}

func New(cfg Config, handler Handler, logger *slog.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka consumer: at least one broker is required")
	}
	if cfg.Group == "" {
		return nil, fmt.Errorf("kafka consumer: group is required")
	}
	if handler == nil {
		return nil, fmt.Errorf("kafka consumer: handler is required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumerGroup(cfg.Group),
		kgo.ConsumeTopics(cfg.Topics...),
		kgo.DisableAutoCommit(),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return &Consumer{client: client, handler: handler, logger: logger}, nil
}

// Run polls until ctx is cancelled. It always returns nil on shutdown.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.client.Close()

	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return nil
		}

		fetches.EachError(func(topic string, partition int32, err error) {
			if errors.Is(err, context.Canceled) {
				return
			}
			c.logger.Warn("kafka fetch error",
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})

		fetches.EachRecord(func(r *kgo.Record) {
			msg := &Message{
				Topic:     r.Topic,
				Key:       r.Key,
				Value:     r.Value,
				Partition: r.Partition,
				Offset:    r.Offset,
				Timestamp: r.Timestamp,
			}
			if err := c.handler.Handle(ctx, msg); err != nil {
				c.logger.ErrorContext(ctx, "failed to handle message",
					"topic", msg.Topic,
					"offset", msg.Offset,
					"error", err,
				)
			}
		})

		if err := c.client.CommitUncommittedOffsets(ctx); err != nil && ctx.Err() == nil {
			c.logger.Warn("kafka offset commit failed", "error", err)
		}
	}
}
