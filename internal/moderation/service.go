// Package moderation stores user reports, the decisions taken on them and the
// price reports mirrored from the price service. Decisions are driven by the
// workflow package; this package owns their persistence and invariants.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"soukscan/internal/platform/metrics"
	"soukscan/internal/stats"
	id "soukscan/pkg/domain"
	dErrors "soukscan/pkg/domain-errors"
	"soukscan/pkg/platform/sentinel"
	txcontext "soukscan/pkg/platform/tx"
	"soukscan/pkg/requestcontext"
)

// Store persists reports, actions and price reports. Lookups return
// sentinel.ErrNotFound; UpdateReportStatus returns sentinel.ErrConflict when
// the stored status no longer equals from.
type Store interface {
	CreateReport(ctx context.Context, r *Report) error
	GetReport(ctx context.Context, reportID id.ReportID) (*Report, error)
	UpdateReportStatus(ctx context.Context, r *Report, from ReportStatus) error
	ListReportsByStatus(ctx context.Context, status ReportStatus) ([]*Report, error)
	ListReportsByReporter(ctx context.Context, reporterID id.UserID) ([]*Report, error)

	CreateAction(ctx context.Context, a *Action) error
	ListActions(ctx context.Context) ([]*Action, error)
	ListActionsByAdmin(ctx context.Context, adminID id.AdminID) ([]*Action, error)

	InsertPriceReport(ctx context.Context, p *PriceReport) (created bool, err error)
	GetPriceReport(ctx context.Context, priceReportID id.PriceReportID) (*PriceReport, error)
	SavePriceReport(ctx context.Context, p *PriceReport) error
	ListPriceReports(ctx context.Context, status PriceStatus) ([]*PriceReport, error)

	ModerationTotals(ctx context.Context) (stats.ModerationTotals, error)
}

// TransitionValidator resolves the destination of a report decision.
type TransitionValidator interface {
	Apply(ctx context.Context, current ReportStatus, event ActionType) (ReportStatus, error)
}

// SubmissionRecorder counts a submitted report against its reporter.
type SubmissionRecorder interface {
	RecordReportSubmitted(ctx context.Context, userID id.UserID) (*stats.UserStats, error)
}

type Service struct {
	store       Store
	tx          txcontext.Runner
	transitions TransitionValidator
	submissions SubmissionRecorder
	validate    *validator.Validate
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

type ServiceOption func(*Service)

func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

func NewService(store Store, tx txcontext.Runner, transitions TransitionValidator, submissions SubmissionRecorder, logger *slog.Logger, opts ...ServiceOption) (*Service, error) {
	if store == nil || tx == nil || transitions == nil {
		return nil, errors.New("moderation store, tx runner and transition validator are required")
	}
	s := &Service{
		store:       store,
		tx:          tx,
		transitions: transitions,
		submissions: submissions,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SubmitReportInput is a new complaint as received from a client.
type SubmitReportInput struct {
	ReporterID int64  `json:"reporterId" validate:"required,gt=0"`
	TargetID   int64  `json:"targetId" validate:"required,gt=0"`
	TargetType string `json:"targetType" validate:"required,oneof=vendor product user price"`
	Reason     string `json:"reason" validate:"required,max=2000"`
}

// SubmitReport stores a pending report and counts it for the reporter.
func (s *Service) SubmitReport(ctx context.Context, in SubmitReportInput) (*Report, error) {
	in.Reason = strings.TrimSpace(in.Reason)
	in.TargetType = strings.ToLower(strings.TrimSpace(in.TargetType))
	if err := s.validate.StructCtx(ctx, in); err != nil {
		return nil, validationError(err)
	}

	now := requestcontext.Now(ctx).UTC()
	report := &Report{
		ReporterID: id.UserID(in.ReporterID),
		TargetID:   in.TargetID,
		TargetType: TargetType(in.TargetType),
		Reason:     in.Reason,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateReport(ctx, report); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save report")
	}
	if s.submissions != nil {
		if _, err := s.submissions.RecordReportSubmitted(ctx, report.ReporterID); err != nil {
			return nil, err
		}
	}
	s.metrics.IncReportsSubmitted()
	s.logger.InfoContext(ctx, "moderation report submitted",
		"report_id", report.ID,
		"reporter_id", report.ReporterID,
		"target_type", report.TargetType,
	)
	return report, nil
}

func (s *Service) GetReport(ctx context.Context, reportID id.ReportID) (*Report, error) {
	report, err := s.store.GetReport(ctx, reportID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, fmt.Sprintf("report %d not found", reportID))
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load report")
	}
	return report, nil
}

func (s *Service) ListPending(ctx context.Context) ([]*Report, error) {
	reports, err := s.store.ListReportsByStatus(ctx, StatusPending)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list pending reports")
	}
	return reports, nil
}

func (s *Service) ListReportsByReporter(ctx context.Context, reporterID id.UserID) ([]*Report, error) {
	reports, err := s.store.ListReportsByReporter(ctx, reporterID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list reports")
	}
	return reports, nil
}

func (s *Service) ListActions(ctx context.Context) ([]*Action, error) {
	actions, err := s.store.ListActions(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list actions")
	}
	return actions, nil
}

func (s *Service) ListActionsByAdmin(ctx context.Context, adminID id.AdminID) ([]*Action, error) {
	actions, err := s.store.ListActionsByAdmin(ctx, adminID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list actions")
	}
	return actions, nil
}

// Decide applies an approve or reject decision to a pending report and records
// the action in the same unit of work. Deciding a report twice is a conflict.
func (s *Service) Decide(ctx context.Context, reportID id.ReportID, event ActionType, adminID id.AdminID, comment string) (*Report, *Action, error) {
	var (
		report *Report
		action *Action
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		report, err = s.GetReport(ctx, reportID)
		if err != nil {
			return err
		}

		dst, err := s.transitions.Apply(ctx, report.Status, event)
		if err != nil {
			return transitionError(err)
		}
		from := report.Status
		now := requestcontext.Now(ctx).UTC()
		if err := report.ApplyDecision(event, dst, now); err != nil {
			return transitionError(err)
		}
		if err := s.store.UpdateReportStatus(ctx, report, from); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.Wrap(err, dErrors.CodeConflict, "report was decided concurrently")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update report")
		}

		rid := int64(reportID)
		action = &Action{AdminID: adminID, ReportID: &rid, ActionType: event, Comment: comment, CreatedAt: now}
		return s.createAction(ctx, action)
	})
	if err != nil {
		return nil, nil, err
	}
	return report, action, nil
}

// Warn records a warning on a report without changing its status.
func (s *Service) Warn(ctx context.Context, reportID id.ReportID, adminID id.AdminID, comment string) (*Report, *Action, error) {
	var (
		report *Report
		action *Action
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		report, err = s.GetReport(ctx, reportID)
		if err != nil {
			return err
		}
		rid := int64(reportID)
		action = &Action{AdminID: adminID, ReportID: &rid, ActionType: ActionWarn, Comment: comment, CreatedAt: requestcontext.Now(ctx).UTC()}
		return s.createAction(ctx, action)
	})
	if err != nil {
		return nil, nil, err
	}
	return report, action, nil
}

// Block records a block action. The action's ReportID carries userID.
func (s *Service) Block(ctx context.Context, userID id.UserID, adminID id.AdminID, comment string) (*Action, error) {
	uid := int64(userID)
	action := &Action{AdminID: adminID, ReportID: &uid, ActionType: ActionBlock, Comment: comment, CreatedAt: requestcontext.Now(ctx).UTC()}
	if err := s.createAction(ctx, action); err != nil {
		return nil, err
	}
	return action, nil
}

func (s *Service) createAction(ctx context.Context, a *Action) error {
	if err := s.store.CreateAction(ctx, a); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save moderation action")
	}
	return nil
}

// ModerationTotals feeds the global stats view.
func (s *Service) ModerationTotals(ctx context.Context) (stats.ModerationTotals, error) {
	return s.store.ModerationTotals(ctx)
}

func transitionError(err error) error {
	var terr *TransitionError
	if errors.As(err, &terr) {
		return dErrors.Wrap(err, dErrors.CodeConflict, terr.Error())
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to evaluate report transition")
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid report")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "oneof":
			msgs = append(msgs, field+" must be one of: "+fe.Param())
		case "gt":
			msgs = append(msgs, field+" must be positive")
		case "max":
			msgs = append(msgs, field+" is too long")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return dErrors.New(dErrors.CodeValidation, strings.Join(msgs, "; "))
}
