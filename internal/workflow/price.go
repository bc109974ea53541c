package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"soukscan/internal/audit"
	"soukscan/internal/events"
	"soukscan/internal/moderation"
	id "soukscan/pkg/domain"
	dErrors "soukscan/pkg/domain-errors"
	"soukscan/pkg/requestcontext"
)

// ValidatePriceReport records an admin verdict on a price report and tells
// the price service about it.
func (o *Orchestrator) ValidatePriceReport(ctx context.Context, priceReportID id.PriceReportID, adminID id.AdminID, status moderation.PriceStatus, comment string) (report *moderation.PriceReport, err error) {
	defer o.observe("validate_price_report", time.Now(), &err)
	if priceReportID <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "price report id is required")
	}
	if adminID <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "admin id is required")
	}
	parsed, ok := moderation.ParsePriceStatus(string(status))
	if !ok || parsed == moderation.PricePending {
		return nil, dErrors.New(dErrors.CodeValidation, "status must be one of: valid invalid")
	}
	comment = strings.TrimSpace(comment)

	report, err = o.moderation.UpdatePriceReportStatus(ctx, priceReportID, parsed, int64(adminID), comment)
	if err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)

	auditComment := fmt.Sprintf("Price report marked %s", strings.ToUpper(string(parsed)))
	if comment != "" {
		auditComment += ". Comment: " + comment
	}
	if _, err := o.ledger.Append(ctx, adminID, audit.ActionPriceReportValidated, audit.TargetPriceReport, int64(priceReportID), auditComment); err != nil {
		return nil, o.bookkeepingFailure(ctx, "validate price report", "audit entry", err)
	}

	o.publisher.Publish(ctx, o.topics.PriceValidated, priceReportID.String(),
		events.NewPriceValidated(priceReportID, string(parsed), adminID, comment, requestcontext.Now(ctx)))
	return report, nil
}
