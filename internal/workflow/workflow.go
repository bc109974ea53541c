// Package workflow sequences every administrative state transition:
// precondition checks, the remote system-of-record update, local counters,
// the audit ledger and finally a best-effort event. A step only runs once
// every step before it has succeeded, so a failed remote call leaves no local
// trace.
package workflow

//go:generate mockgen -source=workflow.go -destination=mocks/mocks.go -package=mocks VendorRemote,DocumentGate,Stats,Ledger,Moderation,Publisher

import (
	"context"
	"log/slog"
	"time"

	"soukscan/internal/audit"
	"soukscan/internal/moderation"
	"soukscan/internal/platform/config"
	"soukscan/internal/platform/httpclient"
	"soukscan/internal/platform/metrics"
	"soukscan/internal/stats"
	"soukscan/internal/vendoradmin"
	"soukscan/internal/vendoradmin/document"
	id "soukscan/pkg/domain"
	dErrors "soukscan/pkg/domain-errors"
	request "soukscan/pkg/platform/middleware/request"
)

// VendorRemote commits vendor status changes on the vendor service.
type VendorRemote interface {
	UpdateStatus(ctx context.Context, vendorID id.VendorID, t vendoradmin.Transition, adminID id.AdminID, reason string) (*vendoradmin.RemoteState, error)
}

// DocumentGate resolves a vendor's verification document. A missing document
// fails with code not_found wrapping document.ErrDocumentNotFound.
type DocumentGate interface {
	RequireDocument(ctx context.Context, vendorID id.VendorID) (*document.Metadata, error)
}

type Stats interface {
	TouchUser(ctx context.Context, userID id.UserID) (*stats.UserStats, error)
	TouchVendor(ctx context.Context, vendorID id.VendorID) (*stats.VendorStats, error)
	RecordModerationOutcome(ctx context.Context, userID id.UserID, outcome stats.Outcome) (*stats.UserStats, error)
	RecordVendorReport(ctx context.Context, vendorID id.VendorID, outcome stats.Outcome) (*stats.VendorStats, error)
}

type Ledger interface {
	Append(ctx context.Context, adminID id.AdminID, actionType audit.ActionType, targetType audit.TargetType, targetID int64, comment string) (*audit.AdminActionLog, error)
}

// Moderation owns report and price report state.
type Moderation interface {
	Decide(ctx context.Context, reportID id.ReportID, event moderation.ActionType, adminID id.AdminID, comment string) (*moderation.Report, *moderation.Action, error)
	Warn(ctx context.Context, reportID id.ReportID, adminID id.AdminID, comment string) (*moderation.Report, *moderation.Action, error)
	Block(ctx context.Context, userID id.UserID, adminID id.AdminID, comment string) (*moderation.Action, error)
	UpdatePriceReportStatus(ctx context.Context, priceReportID id.PriceReportID, status moderation.PriceStatus, validatedBy int64, comment string) (*moderation.PriceReport, error)
}

// Publisher emits events without reporting failures.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any)
}

// Topics names the outbound topics.
type Topics struct {
	VendorStatus   string
	PriceValidated string
}

type Option func(*Orchestrator)

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

func WithTopics(t Topics) Option {
	return func(o *Orchestrator) {
		if t.VendorStatus != "" {
			o.topics.VendorStatus = t.VendorStatus
		}
		if t.PriceValidated != "" {
			o.topics.PriceValidated = t.PriceValidated
		}
	}
}

// Orchestrator exposes the state-transition operations.
type Orchestrator struct {
	vendors    VendorRemote
	documents  DocumentGate
	stats      Stats
	ledger     Ledger
	moderation Moderation
	publisher  Publisher
	metrics    *metrics.Metrics
	topics     Topics
	logger     *slog.Logger
}

func New(
	vendors VendorRemote,
	documents DocumentGate,
	st Stats,
	ledger Ledger,
	mod Moderation,
	publisher Publisher,
	logger *slog.Logger,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		vendors:    vendors,
		documents:  documents,
		stats:      st,
		ledger:     ledger,
		moderation: mod,
		publisher:  publisher,
		topics: Topics{
			VendorStatus:   config.TopicVendorStatusChanged,
			PriceValidated: config.TopicPriceValidated,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// observe records the outcome of one operation. Use as
// defer o.observe(op, time.Now(), &err).
func (o *Orchestrator) observe(op string, start time.Time, err *error) {
	outcome := "success"
	if *err != nil {
		outcome = string(dErrors.CodeOf(*err))
	}
	o.metrics.ObserveTransition(op, outcome, time.Since(start).Seconds())
}

// remoteFailure classifies an error from the vendor service. Nothing local
// has been written when this is returned.
func (o *Orchestrator) remoteFailure(ctx context.Context, op string, vendorID id.VendorID, err error) error {
	o.logger.ErrorContext(ctx, "vendor service call failed",
		"operation", op,
		"vendor_id", int64(vendorID),
		"request_id", request.GetRequestID(ctx),
		"error", err,
	)
	classified := httpclient.Classify(err, "vendor service "+op+" failed")
	if _, ok := classified.(*dErrors.Error); ok {
		return classified
	}
	return dErrors.Wrap(err, dErrors.CodeExternalService, "vendor service "+op+" failed")
}

// bookkeepingFailure reports a local write that failed after its remote
// counterpart was committed.
func (o *Orchestrator) bookkeepingFailure(ctx context.Context, op, step string, err error) error {
	o.logger.ErrorContext(ctx, "local bookkeeping failed after remote commit",
		"operation", op,
		"step", step,
		"request_id", request.GetRequestID(ctx),
		"error", err,
	)
	if dErrors.CodeOf(err) != dErrors.CodeInternal {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, op+": failed to record "+step)
}

func requireIDs(vendorID id.VendorID, adminID id.AdminID) error {
	if vendorID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "vendor id is required")
	}
	if adminID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "admin id is required")
	}
	return nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
