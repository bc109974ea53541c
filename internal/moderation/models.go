package moderation

import (
	"fmt"
	"strings"
	"time"

	id "soukscan/pkg/domain"
)

// ReportStatus moves pending → approved or pending → rejected, once.
type ReportStatus string

const (
	StatusPending  ReportStatus = "pending"
	StatusApproved ReportStatus = "approved"
	StatusRejected ReportStatus = "rejected"
)

// TargetType is what a report complains about.
type TargetType string

const (
	TargetVendor  TargetType = "vendor"
	TargetProduct TargetType = "product"
	TargetUser    TargetType = "user"
	TargetPrice   TargetType = "price"
)

// ActionType is the decision recorded by a ModerationAction. Approve and
// reject are also the events of the report state machine.
type ActionType string

const (
	ActionApprove ActionType = "approve"
	ActionReject  ActionType = "reject"
	ActionWarn    ActionType = "warn"
	ActionBlock   ActionType = "block"
)

// Transition is one allowed report status change.
type Transition struct {
	Event ActionType
	Src   ReportStatus
	Dst   ReportStatus
}

// Transitions is the complete report lifecycle.
var Transitions = []Transition{
	{Event: ActionApprove, Src: StatusPending, Dst: StatusApproved},
	{Event: ActionReject, Src: StatusPending, Dst: StatusRejected},
}

// TransitionError reports a decision that the report's status does not allow.
type TransitionError struct {
	Event   ActionType
	Current ReportStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s a report that is %s", e.Event, e.Current)
}

// Report is a user-submitted complaint. Reports are never deleted.
type Report struct {
	ID         id.ReportID  `json:"id" db:"id"`
	ReporterID id.UserID    `json:"reporterId" db:"reporter_id"`
	TargetID   int64        `json:"targetId" db:"target_id"`
	TargetType TargetType   `json:"targetType" db:"target_type"`
	Reason     string       `json:"reason" db:"reason"`
	Status     ReportStatus `json:"status" db:"status"`
	CreatedAt  time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time    `json:"updatedAt" db:"updated_at"`
}

// CanDecide reports whether the report still awaits a decision.
func (r *Report) CanDecide() bool {
	return r.Status == StatusPending
}

// ApplyDecision moves a pending report to dst.
func (r *Report) ApplyDecision(event ActionType, dst ReportStatus, now time.Time) error {
	if !r.CanDecide() || (dst != StatusApproved && dst != StatusRejected) {
		return &TransitionError{Event: event, Current: r.Status}
	}
	r.Status = dst
	r.UpdatedAt = now
	return nil
}

// Action is an immutable decision record. For block actions ReportID holds
// the blocked user's id.
type Action struct {
	ID         id.ActionID `json:"id" db:"id"`
	AdminID    id.AdminID  `json:"adminId" db:"admin_id"`
	ReportID   *int64      `json:"reportId" db:"report_id"`
	ActionType ActionType  `json:"actionType" db:"action_type"`
	Comment    string      `json:"comment" db:"comment"`
	CreatedAt  time.Time   `json:"createdAt" db:"created_at"`
}

// PriceStatus is the validation state of a price report.
type PriceStatus string

const (
	PricePending PriceStatus = "pending"
	PriceValid   PriceStatus = "valid"
	PriceInvalid PriceStatus = "invalid"
)

// ParsePriceStatus accepts the statuses in any case.
func ParsePriceStatus(raw string) (PriceStatus, bool) {
	switch s := PriceStatus(strings.ToLower(strings.TrimSpace(raw))); s {
	case PricePending, PriceValid, PriceInvalid:
		return s, true
	}
	return "", false
}

// PriceReport mirrors a price observation submitted on the price service.
type PriceReport struct {
	ID          id.PriceReportID `json:"id" db:"id"`
	ProductID   id.ProductID     `json:"productId" db:"product_id"`
	VendorID    id.VendorID      `json:"vendorId" db:"vendor_id"`
	ReporterID  id.UserID        `json:"reporterId" db:"reporter_id"`
	Price       float64          `json:"price" db:"price"`
	Status      PriceStatus      `json:"status" db:"status"`
	ValidatedBy *int64           `json:"validatedBy,omitempty" db:"validated_by"`
	Comment     string           `json:"comment,omitempty" db:"comment"`
	CreatedAt   time.Time        `json:"createdAt" db:"created_at"`
	ValidatedAt *time.Time       `json:"validatedAt,omitempty" db:"validated_at"`
}
