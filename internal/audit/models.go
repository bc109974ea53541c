package audit

import (
	"time"

	id "soukscan/pkg/domain"
)

// ActionType names an administrative decision recorded in the ledger.
type ActionType string

const (
	ActionVendorVerified       ActionType = "VENDOR_VERIFIED"
	ActionVendorRejected       ActionType = "VENDOR_REJECTED"
	ActionVendorSuspended      ActionType = "VENDOR_SUSPENDED"
	ActionVendorActivated      ActionType = "VENDOR_ACTIVATED"
	ActionVendorStatusChanged  ActionType = "VENDOR_STATUS_CHANGED"
	ActionReportApproved       ActionType = "REPORT_APPROVED"
	ActionReportRejected       ActionType = "REPORT_REJECTED"
	ActionUserWarned           ActionType = "USER_WARNED"
	ActionUserBlocked          ActionType = "USER_BLOCKED"
	ActionProductCreated       ActionType = "PRODUCT_CREATED"
	ActionProductUpdated       ActionType = "PRODUCT_UPDATED"
	ActionProductDeleted       ActionType = "PRODUCT_DELETED"
	ActionPriceReportValidated ActionType = "PRICE_REPORT_VALIDATED"
)

// TargetType names the kind of entity an action was taken on.
type TargetType string

const (
	TargetVendor      TargetType = "VENDOR"
	TargetReport      TargetType = "REPORT"
	TargetUser        TargetType = "USER"
	TargetProduct     TargetType = "PRODUCT"
	TargetPriceReport TargetType = "PRICE_REPORT"
)

// AdminActionLog is one immutable ledger entry. TargetID holds the id of
// whatever TargetType points at, so it is kept as a plain integer.
type AdminActionLog struct {
	ID         id.LogID   `json:"id" db:"id"`
	AdminID    id.AdminID `json:"adminId" db:"admin_id"`
	ActionType ActionType `json:"actionType" db:"action_type"`
	TargetType TargetType `json:"targetType" db:"target_type"`
	TargetID   int64      `json:"targetId" db:"target_id"`
	Comment    string     `json:"comment" db:"comment"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
}

// Query selects ledger entries by equality on the set fields. Zero values
// mean "any". Results are newest first; Limit 0 means no limit.
type Query struct {
	AdminID    id.AdminID
	ActionType ActionType
	TargetType TargetType
	TargetID   int64
	Limit      int
	Offset     int
}

// Matches reports whether entry satisfies the filter part of q.
func (q Query) Matches(entry *AdminActionLog) bool {
	if q.AdminID != 0 && entry.AdminID != q.AdminID {
		return false
	}
	if q.ActionType != "" && entry.ActionType != q.ActionType {
		return false
	}
	if q.TargetType != "" && entry.TargetType != q.TargetType {
		return false
	}
	if q.TargetID != 0 && entry.TargetID != q.TargetID {
		return false
	}
	return true
}
