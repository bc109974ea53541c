package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"soukscan/pkg/platform/circuit"
)

// Publisher emits an event and returns immediately. Implementations never
// report failures to the caller.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any)
}

// Producer is the asynchronous broker client. done runs once the record is
// acknowledged or has failed.
type Producer interface {
	Produce(ctx context.Context, topic string, key, value []byte, done func(error))
}

type Option func(*KafkaPublisher)

func WithMetrics(m *Metrics) Option {
	return func(p *KafkaPublisher) {
		p.metrics = m
	}
}

// WithBreaker replaces the default breaker (5 failures, 30s cooldown).
func WithBreaker(b *circuit.Breaker) Option {
	return func(p *KafkaPublisher) {
		if b != nil {
			p.breaker = b
		}
	}
}

// KafkaPublisher serialises payloads to JSON and hands them to the producer.
// After consecutive delivery failures the breaker opens and events are
// dropped without touching the broker until the cooldown passes.
type KafkaPublisher struct {
	producer Producer
	breaker  *circuit.Breaker
	metrics  *Metrics
	logger   *slog.Logger
}

func NewKafkaPublisher(producer Producer, logger *slog.Logger, opts ...Option) *KafkaPublisher {
	p := &KafkaPublisher{
		producer: producer,
		breaker:  circuit.New("event-publisher"),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, payload any) {
	value, err := json.Marshal(payload)
	if err != nil {
		p.metrics.incFailed(topic)
		p.logger.ErrorContext(ctx, "failed to encode event",
			"topic", topic,
			"key", key,
			"error", err,
		)
		return
	}

	if !p.breaker.Allow() {
		p.metrics.incDropped(topic)
		p.logger.WarnContext(ctx, "event dropped, publisher circuit open",
			"topic", topic,
			"key", key,
		)
		return
	}

	// The record outlives the request that triggered it.
	p.producer.Produce(context.WithoutCancel(ctx), topic, []byte(key), value, func(err error) {
		if err != nil {
			p.metrics.incFailed(topic)
			_, change := p.breaker.RecordFailure()
			if change.Opened {
				p.metrics.setBreakerOpen(true)
				p.logger.Error("event publisher circuit opened", "topic", topic)
			}
			p.logger.Error("failed to publish event",
				"topic", topic,
				"key", key,
				"error", err,
			)
			return
		}
		p.metrics.incPublished(topic)
		if _, change := p.breaker.RecordSuccess(); change.Closed {
			p.metrics.setBreakerOpen(false)
			p.logger.Info("event publisher circuit closed", "topic", topic)
		}
		p.logger.Debug("event published", "topic", topic, "key", key)
	})
}

// LogPublisher stands in when no broker is configured. Events are logged and
// discarded.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, topic, key string, payload any) {
	p.logger.DebugContext(ctx, "event not published, no broker configured",
		"topic", topic,
		"key", key,
		"payload", payload,
	)
}
