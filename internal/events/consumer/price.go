package consumer

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"soukscan/internal/events"
	"soukscan/internal/moderation"
	"soukscan/internal/platform/kafka/consumer"
	id "soukscan/pkg/domain"
	dErrors "soukscan/pkg/domain-errors"
)

// PriceReports is the slice of the moderation service the price handlers
// need.
type PriceReports interface {
	RecordPriceReport(ctx context.Context, p *moderation.PriceReport) (bool, error)
	UpdatePriceReportStatus(ctx context.Context, priceReportID id.PriceReportID, status moderation.PriceStatus, validatedBy int64, comment string) (*moderation.PriceReport, error)
}

type priceReported struct {
	EventID       string           `json:"eventId"`
	PriceReportID id.PriceReportID `json:"priceReportId"`
	ProductID     id.ProductID     `json:"productId"`
	VendorID      id.VendorID      `json:"vendorId"`
	ReporterID    id.UserID        `json:"reporterId"`
	ReportedPrice *float64         `json:"reportedPrice"`
	Price         *float64         `json:"price"`
	Reason        string           `json:"reason"`
}

func (e priceReported) price() float64 {
	if e.ReportedPrice != nil {
		return *e.ReportedPrice
	}
	if e.Price != nil {
		return *e.Price
	}
	return 0
}

// PriceReportedHandler mirrors price reports announced by the price service
// so admins can validate them.
type PriceReportedHandler struct {
	reports PriceReports
	logger  *slog.Logger
}

func NewPriceReportedHandler(reports PriceReports, logger *slog.Logger) *PriceReportedHandler {
	return &PriceReportedHandler{reports: reports, logger: logger}
}

func (h *PriceReportedHandler) Handle(ctx context.Context, msg *consumer.Message) error {
	var ev priceReported
	if err := json.Unmarshal(msg.Value, &ev); err != nil || ev.PriceReportID <= 0 {
		h.logger.WarnContext(ctx, "discarding malformed price.reported event",
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}
	created, err := h.reports.RecordPriceReport(ctx, &moderation.PriceReport{
		ID:         ev.PriceReportID,
		ProductID:  ev.ProductID,
		VendorID:   ev.VendorID,
		ReporterID: ev.ReporterID,
		Price:      ev.price(),
		Comment:    ev.Reason,
		Status:     moderation.PricePending,
	})
	if err != nil {
		return err
	}
	h.logger.InfoContext(ctx, "price report received",
		"event_id", ev.EventID,
		"price_report_id", int64(ev.PriceReportID),
		"product_id", int64(ev.ProductID),
		"duplicate", !created,
	)
	return nil
}

type priceValidated struct {
	EventID       string           `json:"eventId"`
	PriceReportID id.PriceReportID `json:"priceReportId"`
	Status        string           `json:"status"`
	ValidatedBy   json.RawMessage  `json:"validatedBy"`
	Comment       string           `json:"comment"`
	Source        string           `json:"source"`
}

// validator accepts both "12" and 12. Anything else is unattributed.
func (e priceValidated) validator() int64 {
	raw := strings.Trim(strings.TrimSpace(string(e.ValidatedBy)), `"`)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// PriceValidatedHandler applies verdicts reached by the price service.
type PriceValidatedHandler struct {
	reports PriceReports
	logger  *slog.Logger
}

func NewPriceValidatedHandler(reports PriceReports, logger *slog.Logger) *PriceValidatedHandler {
	return &PriceValidatedHandler{reports: reports, logger: logger}
}

func (h *PriceValidatedHandler) Handle(ctx context.Context, msg *consumer.Message) error {
	var ev priceValidated
	if err := json.Unmarshal(msg.Value, &ev); err != nil || ev.PriceReportID <= 0 {
		h.logger.WarnContext(ctx, "discarding malformed price.validated event",
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}
	if ev.Source == events.Source {
		return nil
	}
	status, ok := moderation.ParsePriceStatus(ev.Status)
	if !ok {
		h.logger.WarnContext(ctx, "discarding price.validated event with unknown status",
			"price_report_id", int64(ev.PriceReportID),
			"status", ev.Status,
		)
		return nil
	}

	_, err := h.reports.UpdatePriceReportStatus(ctx, ev.PriceReportID, status, ev.validator(), ev.Comment)
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		h.logger.WarnContext(ctx, "price.validated for unknown price report",
			"price_report_id", int64(ev.PriceReportID),
		)
		return nil
	}
	if err != nil {
		return err
	}
	h.logger.InfoContext(ctx, "price report status updated",
		"event_id", ev.EventID,
		"price_report_id", int64(ev.PriceReportID),
		"status", string(status),
	)
	return nil
}
