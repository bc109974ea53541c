// Package events publishes vendor lifecycle notifications for other services.
// Delivery is best effort: nothing here ever fails a workflow transition.
package events

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"soukscan/internal/vendoradmin/document"
	id "soukscan/pkg/domain"
)

// Event type markers. Inbound consumers use their presence to recognise
// messages this service produced itself.
const (
	TypeVendorStatusChanged = "VENDOR_STATUS_CHANGED"
	TypeVendorVerification  = "VENDOR_VERIFICATION"
)

// Verification outcomes carried by VendorVerification.ActionType.
const (
	ActionVendorApproved = "VENDOR_APPROVED"
	ActionVendorRejected = "VENDOR_REJECTED"
)

// Status values carried by VendorStatusChanged.Status.
const (
	StatusSuspended = "SUSPENDED"
	StatusActivated = "ACTIVATED"
)

// Source tags price.validated events produced here.
const Source = "admin-service"

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// VendorStatusChanged is published on suspension and activation. Reason is
// null for activations.
type VendorStatusChanged struct {
	VendorID  id.VendorID `json:"vendorId"`
	Status    string      `json:"status"`
	AdminID   id.AdminID  `json:"adminId"`
	Reason    *string     `json:"reason"`
	Timestamp string      `json:"timestamp"`
	EventType string      `json:"eventType"`
}

func NewVendorStatusChanged(vendorID id.VendorID, status string, adminID id.AdminID, reason string, now time.Time) VendorStatusChanged {
	ev := VendorStatusChanged{
		VendorID:  vendorID,
		Status:    status,
		AdminID:   adminID,
		Timestamp: timestamp(now),
		EventType: TypeVendorStatusChanged,
	}
	if reason != "" {
		ev.Reason = &reason
	}
	return ev
}

// VendorVerification is published on verification and rejection. Document
// fields are present only when a document was on file.
type VendorVerification struct {
	VendorID           id.VendorID `json:"vendorId"`
	ActionType         string      `json:"actionType"`
	AdminID            id.AdminID  `json:"adminId"`
	DocumentName       string      `json:"documentName,omitempty"`
	DocumentUploadedAt string      `json:"documentUploadedAt,omitempty"`
	Timestamp          string      `json:"timestamp"`
	EventType          string      `json:"eventType"`
}

func NewVendorVerification(vendorID id.VendorID, actionType string, adminID id.AdminID, doc *document.Metadata, now time.Time) VendorVerification {
	ev := VendorVerification{
		VendorID:   vendorID,
		ActionType: actionType,
		AdminID:    adminID,
		Timestamp:  timestamp(now),
		EventType:  TypeVendorVerification,
	}
	if doc != nil {
		ev.DocumentName = doc.FileName
		ev.DocumentUploadedAt = doc.UploadedAt
	}
	return ev
}

// PriceValidated announces an admin's verdict on a price report.
type PriceValidated struct {
	EventID       string           `json:"eventId"`
	PriceReportID id.PriceReportID `json:"priceReportId"`
	Status        string           `json:"status"`
	ValidatedBy   string           `json:"validatedBy"`
	Comment       string           `json:"comment,omitempty"`
	Timestamp     string           `json:"timestamp"`
	Source        string           `json:"source"`
}

func NewPriceValidated(priceReportID id.PriceReportID, status string, adminID id.AdminID, comment string, now time.Time) PriceValidated {
	return PriceValidated{
		EventID:       uuid.NewString(),
		PriceReportID: priceReportID,
		Status:        strings.ToUpper(status),
		ValidatedBy:   adminID.String(),
		Comment:       comment,
		Timestamp:     timestamp(now),
		Source:        Source,
	}
}
