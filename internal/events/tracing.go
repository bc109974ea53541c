package events

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TracingPublisher records a span around each publish call. The span covers
// the hand-off to the producer, not broker delivery.
type TracingPublisher struct {
	next   Publisher
	tracer trace.Tracer
}

func NewTracingPublisher(next Publisher) *TracingPublisher {
	return &TracingPublisher{next: next, tracer: otel.Tracer("soukscan/events")}
}

func (p *TracingPublisher) Publish(ctx context.Context, topic, key string, payload any) {
	ctx, span := p.tracer.Start(ctx, "events.publish",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination.name", topic),
			attribute.String("messaging.kafka.message.key", key),
		),
	)
	defer span.End()
	p.next.Publish(ctx, topic, key, payload)
}
