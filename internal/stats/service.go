package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	id "soukscan/pkg/domain"
	dErrors "soukscan/pkg/domain-errors"
	"soukscan/pkg/platform/sentinel"
	"soukscan/pkg/requestcontext"
)

// Store persists counters. EnsureUser and EnsureVendor are explicit upserts:
// they create the row with defaults when missing and return the current row.
type Store interface {
	EnsureUser(ctx context.Context, userID id.UserID, now time.Time) (*UserStats, error)
	SaveUser(ctx context.Context, s *UserStats) error
	GetUser(ctx context.Context, userID id.UserID) (*UserStats, error)
	EnsureVendor(ctx context.Context, vendorID id.VendorID, now time.Time) (*VendorStats, error)
	SaveVendor(ctx context.Context, s *VendorStats) error
	GetVendor(ctx context.Context, vendorID id.VendorID) (*VendorStats, error)
	Totals(ctx context.Context) (users, vendors, warnings int64, err error)
}

// KeyLocker serialises read-modify-write cycles on one key.
type KeyLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// ModerationCounter supplies the moderation side of GlobalStats.
type ModerationCounter interface {
	ModerationTotals(ctx context.Context) (ModerationTotals, error)
}

type Option func(*Engine)

// WithLocker serialises updates per user or vendor. Without a locker two
// concurrent decisions on the same key can lose an increment.
func WithLocker(l KeyLocker) Option {
	return func(e *Engine) {
		e.locker = l
	}
}

func WithModerationCounter(c ModerationCounter) Option {
	return func(e *Engine) {
		e.moderation = c
	}
}

// Engine maintains per-user and per-vendor counters. It is only mutated as a
// consequence of a workflow transition or an inbound bootstrap event.
type Engine struct {
	store      Store
	locker     KeyLocker
	moderation ModerationCounter
	logger     *slog.Logger
}

func New(store Store, logger *slog.Logger, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, errors.New("stats store is required")
	}
	e := &Engine{store: store, logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) lock(ctx context.Context, key string) (func(), error) {
	if e.locker == nil {
		return func() {}, nil
	}
	unlock, err := e.locker.Lock(ctx, key)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to lock stats key")
	}
	return unlock, nil
}

func (e *Engine) EnsureUserStats(ctx context.Context, userID id.UserID) (*UserStats, error) {
	st, err := e.store.EnsureUser(ctx, userID, requestcontext.Now(ctx).UTC())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to ensure user stats")
	}
	return st, nil
}

func (e *Engine) EnsureVendorStats(ctx context.Context, vendorID id.VendorID) (*VendorStats, error) {
	st, err := e.store.EnsureVendor(ctx, vendorID, requestcontext.Now(ctx).UTC())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to ensure vendor stats")
	}
	return st, nil
}

func (e *Engine) mutateUser(ctx context.Context, userID id.UserID, fn func(*UserStats)) (*UserStats, error) {
	unlock, err := e.lock(ctx, "user:"+userID.String())
	if err != nil {
		return nil, err
	}
	defer unlock()

	now := requestcontext.Now(ctx).UTC()
	st, err := e.store.EnsureUser(ctx, userID, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user stats")
	}
	fn(st)
	st.LastActivity = now
	if err := e.store.SaveUser(ctx, st); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save user stats")
	}
	return st, nil
}

func (e *Engine) mutateVendor(ctx context.Context, vendorID id.VendorID, fn func(*VendorStats)) (*VendorStats, error) {
	unlock, err := e.lock(ctx, "vendor:"+vendorID.String())
	if err != nil {
		return nil, err
	}
	defer unlock()

	now := requestcontext.Now(ctx).UTC()
	st, err := e.store.EnsureVendor(ctx, vendorID, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load vendor stats")
	}
	fn(st)
	st.recomputeTrust()
	st.LastUpdated = now
	if err := e.store.SaveVendor(ctx, st); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save vendor stats")
	}
	return st, nil
}

// RecordReportSubmitted counts a new report by userID.
func (e *Engine) RecordReportSubmitted(ctx context.Context, userID id.UserID) (*UserStats, error) {
	return e.mutateUser(ctx, userID, func(s *UserStats) {
		s.TotalReportsSubmitted++
	})
}

// RecordModerationOutcome counts a decision on one of userID's reports.
func (e *Engine) RecordModerationOutcome(ctx context.Context, userID id.UserID, outcome Outcome) (*UserStats, error) {
	switch outcome {
	case OutcomeApprove, OutcomeReject, OutcomeWarn:
	default:
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown moderation outcome %q", outcome))
	}
	return e.mutateUser(ctx, userID, func(s *UserStats) {
		s.apply(outcome)
	})
}

// TouchUser creates the row when missing and refreshes lastActivity.
func (e *Engine) TouchUser(ctx context.Context, userID id.UserID) (*UserStats, error) {
	return e.mutateUser(ctx, userID, func(*UserStats) {})
}

// TouchVendor creates the row when missing and refreshes lastUpdated.
func (e *Engine) TouchVendor(ctx context.Context, vendorID id.VendorID) (*VendorStats, error) {
	return e.mutateVendor(ctx, vendorID, func(*VendorStats) {})
}

// RecordVendorReport counts a decided report whose target is vendorID and
// recomputes the trust score. Warnings do not affect vendors.
func (e *Engine) RecordVendorReport(ctx context.Context, vendorID id.VendorID, outcome Outcome) (*VendorStats, error) {
	if outcome != OutcomeApprove && outcome != OutcomeReject {
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("outcome %q does not apply to vendors", outcome))
	}
	return e.mutateVendor(ctx, vendorID, func(s *VendorStats) {
		s.TotalReportsAgainstVendor++
		if outcome == OutcomeApprove {
			s.TotalApprovedReports++
		} else {
			s.TotalRejectedReports++
		}
	})
}

// UserStats returns the counters for userID, or zero counters when the user
// has no activity yet. Reads never create rows.
func (e *Engine) UserStats(ctx context.Context, userID id.UserID) (*UserStats, error) {
	st, err := e.store.GetUser(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return NewUserStats(userID, time.Time{}), nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user stats")
	}
	return st, nil
}

// VendorStats returns the counters for vendorID, or defaults when missing.
func (e *Engine) VendorStats(ctx context.Context, vendorID id.VendorID) (*VendorStats, error) {
	st, err := e.store.GetVendor(ctx, vendorID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return NewVendorStats(vendorID, time.Time{}), nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load vendor stats")
	}
	return st, nil
}

func (e *Engine) GlobalStats(ctx context.Context) (*GlobalStats, error) {
	users, vendors, warnings, err := e.store.Totals(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count stats")
	}
	out := &GlobalStats{TotalUsers: users, TotalVendors: vendors, TotalWarnings: warnings}
	if e.moderation != nil {
		totals, err := e.moderation.ModerationTotals(ctx)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count moderation activity")
		}
		out.TotalModerationReports = totals.Reports
		out.TotalModerationActions = totals.Actions
		out.TotalBlockedUsers = totals.Blocks
		out.TotalPriceReports = totals.PriceReports
	}
	return out, nil
}
