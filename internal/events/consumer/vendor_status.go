package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"soukscan/internal/audit"
	"soukscan/internal/platform/kafka/consumer"
	"soukscan/internal/stats"
	id "soukscan/pkg/domain"
)

type VendorStatsToucher interface {
	TouchVendor(ctx context.Context, vendorID id.VendorID) (*stats.VendorStats, error)
}

type Ledger interface {
	Append(ctx context.Context, adminID id.AdminID, actionType audit.ActionType, targetType audit.TargetType, targetID int64, comment string) (*audit.AdminActionLog, error)
}

// vendorStatusChanged is the vendor service's shape. Our own outbound events
// share the topic and are recognised by EventType.
type vendorStatusChanged struct {
	VendorID       id.VendorID `json:"vendorId"`
	PreviousStatus string      `json:"previousStatus"`
	NewStatus      string      `json:"newStatus"`
	Reason         string      `json:"reason"`
	ChangedBy      id.AdminID  `json:"changedBy"`
	EventType      string      `json:"eventType"`
}

// VendorStatusHandler records status changes made directly in the vendor
// service.
type VendorStatusHandler struct {
	stats  VendorStatsToucher
	ledger Ledger
	logger *slog.Logger
}

func NewVendorStatusHandler(s VendorStatsToucher, ledger Ledger, logger *slog.Logger) *VendorStatusHandler {
	return &VendorStatusHandler{stats: s, ledger: ledger, logger: logger}
}

func (h *VendorStatusHandler) Handle(ctx context.Context, msg *consumer.Message) error {
	var ev vendorStatusChanged
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		h.logger.WarnContext(ctx, "discarding malformed vendor.status.changed event",
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}
	if ev.EventType != "" {
		return nil
	}
	if ev.VendorID <= 0 {
		h.logger.WarnContext(ctx, "discarding vendor.status.changed event without vendor id",
			"offset", msg.Offset,
		)
		return nil
	}

	if _, err := h.stats.TouchVendor(ctx, ev.VendorID); err != nil {
		return err
	}

	if ev.ChangedBy <= 0 {
		h.logger.WarnContext(ctx, "vendor status change has no admin, not audited",
			"vendor_id", int64(ev.VendorID),
			"new_status", ev.NewStatus,
		)
		return nil
	}
	comment := fmt.Sprintf("Status changed from %s to %s. Reason: %s", ev.PreviousStatus, ev.NewStatus, ev.Reason)
	if _, err := h.ledger.Append(ctx, ev.ChangedBy, audit.ActionVendorStatusChanged, audit.TargetVendor, int64(ev.VendorID), comment); err != nil {
		return err
	}
	return nil
}
