package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soukscan/internal/vendoradmin/document"
	"soukscan/pkg/platform/circuit"
)

type record struct {
	topic string
	key   string
	value []byte
}

type fakeProducer struct {
	mu      sync.Mutex
	fail    error
	records []record
}

func (f *fakeProducer) Produce(_ context.Context, topic string, key, value []byte, done func(error)) {
	f.mu.Lock()
	f.records = append(f.records, record{topic: topic, key: string(key), value: value})
	err := f.fail
	f.mu.Unlock()
	done(err)
}

func (f *fakeProducer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var fixedNow = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func TestPayloadShapes(t *testing.T) {
	t.Run("activation carries a null reason", func(t *testing.T) {
		raw, err := json.Marshal(NewVendorStatusChanged(42, StatusActivated, 7, "", fixedNow))
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"vendorId": 42, "status": "ACTIVATED", "adminId": 7, "reason": null,
			"timestamp": "2026-05-01T10:00:00Z", "eventType": "VENDOR_STATUS_CHANGED"
		}`, string(raw))
	})

	t.Run("suspension carries the reason", func(t *testing.T) {
		ev := NewVendorStatusChanged(42, StatusSuspended, 7, "fraud", fixedNow)
		require.NotNil(t, ev.Reason)
		assert.Equal(t, "fraud", *ev.Reason)
	})

	t.Run("verification includes the document when present", func(t *testing.T) {
		doc := &document.Metadata{FileName: "license.pdf", UploadedAt: "2026-04-01T08:00:00"}
		raw, err := json.Marshal(NewVendorVerification(42, ActionVendorApproved, 7, doc, fixedNow))
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"vendorId": 42, "actionType": "VENDOR_APPROVED", "adminId": 7,
			"documentName": "license.pdf", "documentUploadedAt": "2026-04-01T08:00:00",
			"timestamp": "2026-05-01T10:00:00Z", "eventType": "VENDOR_VERIFICATION"
		}`, string(raw))
	})

	t.Run("verification omits document fields without a document", func(t *testing.T) {
		raw, err := json.Marshal(NewVendorVerification(42, ActionVendorRejected, 7, nil, fixedNow))
		require.NoError(t, err)
		var m map[string]any
		require.NoError(t, json.Unmarshal(raw, &m))
		assert.NotContains(t, m, "documentName")
		assert.NotContains(t, m, "documentUploadedAt")
	})

	t.Run("price validation is upper-cased and tagged", func(t *testing.T) {
		ev := NewPriceValidated(31, "valid", 7, "ok", fixedNow)
		assert.Equal(t, "VALID", ev.Status)
		assert.Equal(t, "7", ev.ValidatedBy)
		assert.Equal(t, Source, ev.Source)
		assert.NotEmpty(t, ev.EventID)
	})
}

func TestKafkaPublisher_Delivers(t *testing.T) {
	producer := &fakeProducer{}
	metrics := NewMetrics(prometheus.NewRegistry())
	pub := NewKafkaPublisher(producer, discard(), WithMetrics(metrics))

	pub.Publish(context.Background(), "vendor.status.changed", "42", NewVendorStatusChanged(42, StatusSuspended, 7, "fraud", fixedNow))

	require.Equal(t, 1, producer.count())
	assert.Equal(t, "vendor.status.changed", producer.records[0].topic)
	assert.Equal(t, "42", producer.records[0].key)
	assert.Contains(t, string(producer.records[0].value), `"status":"SUSPENDED"`)
	assert.Equal(t, 1.0, promtest.ToFloat64(metrics.Published.WithLabelValues("vendor.status.changed")))
}

func TestKafkaPublisher_FailuresAreSwallowedAndOpenTheBreaker(t *testing.T) {
	producer := &fakeProducer{fail: errors.New("broker unreachable")}
	metrics := NewMetrics(prometheus.NewRegistry())
	breaker := circuit.New("test", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Hour))
	pub := NewKafkaPublisher(producer, discard(), WithMetrics(metrics), WithBreaker(breaker))

	assert.NotPanics(t, func() {
		for i := 0; i < 5; i++ {
			pub.Publish(context.Background(), "vendor.status.changed", "42", map[string]any{"n": i})
		}
	})

	assert.Equal(t, 2, producer.count(), "open circuit stops broker calls")
	assert.True(t, breaker.IsOpen())
	assert.Equal(t, 2.0, promtest.ToFloat64(metrics.Failed.WithLabelValues("vendor.status.changed")))
	assert.Equal(t, 3.0, promtest.ToFloat64(metrics.Dropped.WithLabelValues("vendor.status.changed")))
	assert.Equal(t, 1.0, promtest.ToFloat64(metrics.CircuitBreakerState))
}

func TestKafkaPublisher_UnencodablePayload(t *testing.T) {
	producer := &fakeProducer{}
	pub := NewKafkaPublisher(producer, discard())
	pub.Publish(context.Background(), "t", "k", map[string]any{"bad": make(chan int)})
	assert.Zero(t, producer.count())
}

func TestTracingPublisherDelegates(t *testing.T) {
	producer := &fakeProducer{}
	pub := NewTracingPublisher(NewKafkaPublisher(producer, discard()))
	pub.Publish(context.Background(), "t", "k", map[string]string{"a": "b"})
	assert.Equal(t, 1, producer.count())
}
