// Package consumer turns inbound marketplace events into local state changes.
// Handlers are best effort: malformed or irrelevant messages are logged and
// committed so they never block a partition.
package consumer

import (
	"context"
	"log/slog"
	"sort"

	"soukscan/internal/platform/kafka/consumer"
	"soukscan/internal/platform/metrics"
)

// TopicHandler handles messages from a specific topic.
type TopicHandler interface {
	Handle(ctx context.Context, msg *consumer.Message) error
}

// Router dispatches messages to topic-specific handlers.
type Router struct {
	handlers map[string]TopicHandler
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewRouter(logger *slog.Logger, m *metrics.Metrics) *Router {
	return &Router{
		handlers: make(map[string]TopicHandler),
		metrics:  m,
		logger:   logger,
	}
}

// Register adds a handler for a specific topic.
func (r *Router) Register(topic string, handler TopicHandler) {
	r.handlers[topic] = handler
}

// Topics lists the registered topics in a stable order.
func (r *Router) Topics() []string {
	out := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Handle routes the message to the appropriate topic handler.
func (r *Router) Handle(ctx context.Context, msg *consumer.Message) error {
	handler, ok := r.handlers[msg.Topic]
	if !ok {
		r.metrics.IncConsumedEvent(msg.Topic, "unrouted")
		r.logger.Warn("no handler for topic, skipping message",
			"topic", msg.Topic,
			"key", string(msg.Key),
		)
		return nil // Commit to avoid redelivery
	}
	if err := handler.Handle(ctx, msg); err != nil {
		r.metrics.IncConsumedEvent(msg.Topic, "error")
		return err
	}
	r.metrics.IncConsumedEvent(msg.Topic, "ok")
	return nil
}
