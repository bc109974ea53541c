package workflow

import (
	"context"
	"time"

	"soukscan/internal/audit"
	"soukscan/internal/moderation"
	"soukscan/internal/stats"
	id "soukscan/pkg/domain"
	dErrors "soukscan/pkg/domain-errors"
)

func (o *Orchestrator) ApproveReport(ctx context.Context, reportID id.ReportID, adminID id.AdminID, comment string) (action *moderation.Action, err error) {
	defer o.observe("approve_report", time.Now(), &err)
	return o.decide(ctx, reportID, adminID, decision{
		event:   moderation.ActionApprove,
		outcome: stats.OutcomeApprove,
		audit:   audit.ActionReportApproved,
		comment: orDefault(comment, "Report approved"),
	})
}

func (o *Orchestrator) RejectReport(ctx context.Context, reportID id.ReportID, adminID id.AdminID, comment string) (action *moderation.Action, err error) {
	defer o.observe("reject_report", time.Now(), &err)
	return o.decide(ctx, reportID, adminID, decision{
		event:   moderation.ActionReject,
		outcome: stats.OutcomeReject,
		audit:   audit.ActionReportRejected,
		comment: orDefault(comment, "Report rejected"),
	})
}

type decision struct {
	event   moderation.ActionType
	outcome stats.Outcome
	audit   audit.ActionType
	comment string
}

// decide moves a pending report to its final status. Reports against a
// vendor also count towards that vendor's trust score.
func (o *Orchestrator) decide(ctx context.Context, reportID id.ReportID, adminID id.AdminID, d decision) (*moderation.Action, error) {
	if err := requireReport(reportID, adminID); err != nil {
		return nil, err
	}

	report, action, err := o.moderation.Decide(ctx, reportID, d.event, adminID, d.comment)
	if err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)

	op := string(d.event) + " report"
	if _, err := o.stats.RecordModerationOutcome(ctx, report.ReporterID, d.outcome); err != nil {
		return nil, o.bookkeepingFailure(ctx, op, "reporter stats", err)
	}
	if report.TargetType == moderation.TargetVendor && report.TargetID > 0 {
		if _, err := o.stats.RecordVendorReport(ctx, id.VendorID(report.TargetID), d.outcome); err != nil {
			return nil, o.bookkeepingFailure(ctx, op, "vendor stats", err)
		}
	}
	if _, err := o.ledger.Append(ctx, adminID, d.audit, audit.TargetReport, int64(reportID), d.comment); err != nil {
		return nil, o.bookkeepingFailure(ctx, op, "audit entry", err)
	}

	o.logger.InfoContext(ctx, "report decided",
		"report_id", int64(reportID),
		"admin_id", int64(adminID),
		"status", string(report.Status),
	)
	return action, nil
}

// WarnUser warns the author of a report. The report keeps its status.
func (o *Orchestrator) WarnUser(ctx context.Context, reportID id.ReportID, adminID id.AdminID, comment string) (action *moderation.Action, err error) {
	defer o.observe("warn_user", time.Now(), &err)
	if err := requireReport(reportID, adminID); err != nil {
		return nil, err
	}
	comment = orDefault(comment, "User warned")

	report, action, err := o.moderation.Warn(ctx, reportID, adminID, comment)
	if err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)
	if _, err := o.stats.RecordModerationOutcome(ctx, report.ReporterID, stats.OutcomeWarn); err != nil {
		return nil, o.bookkeepingFailure(ctx, "warn user", "reporter stats", err)
	}
	if _, err := o.ledger.Append(ctx, adminID, audit.ActionUserWarned, audit.TargetUser, int64(report.ReporterID), comment); err != nil {
		return nil, o.bookkeepingFailure(ctx, "warn user", "audit entry", err)
	}

	o.logger.InfoContext(ctx, "user warned",
		"user_id", int64(report.ReporterID),
		"report_id", int64(reportID),
		"admin_id", int64(adminID),
	)
	return action, nil
}

// BlockUser records a block. Enforcement belongs to the user service; this
// makes no remote call.
func (o *Orchestrator) BlockUser(ctx context.Context, userID id.UserID, adminID id.AdminID, comment string) (action *moderation.Action, err error) {
	defer o.observe("block_user", time.Now(), &err)
	if userID <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "user id is required")
	}
	if adminID <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "admin id is required")
	}
	comment = orDefault(comment, "User blocked")

	action, err = o.moderation.Block(ctx, userID, adminID, comment)
	if err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)
	if _, err := o.stats.TouchUser(ctx, userID); err != nil {
		return nil, o.bookkeepingFailure(ctx, "block user", "user stats", err)
	}
	if _, err := o.ledger.Append(ctx, adminID, audit.ActionUserBlocked, audit.TargetUser, int64(userID), comment); err != nil {
		return nil, o.bookkeepingFailure(ctx, "block user", "audit entry", err)
	}

	o.logger.InfoContext(ctx, "user blocked",
		"user_id", int64(userID),
		"admin_id", int64(adminID),
	)
	return action, nil
}

func requireReport(reportID id.ReportID, adminID id.AdminID) error {
	if reportID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "report id is required")
	}
	if adminID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "admin id is required")
	}
	return nil
}
