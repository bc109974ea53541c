package workflow

import (
	"context"
	"errors"
	"strings"
	"time"

	"soukscan/internal/audit"
	"soukscan/internal/events"
	"soukscan/internal/vendoradmin"
	"soukscan/internal/vendoradmin/document"
	id "soukscan/pkg/domain"
	dErrors "soukscan/pkg/domain-errors"
	"soukscan/pkg/requestcontext"
)

// VerifyVendor approves a vendor. A verification document must be on file.
func (o *Orchestrator) VerifyVendor(ctx context.Context, vendorID id.VendorID, adminID id.AdminID) (state *vendoradmin.RemoteState, err error) {
	defer o.observe("verify_vendor", time.Now(), &err)
	if err := requireIDs(vendorID, adminID); err != nil {
		return nil, err
	}

	doc, err := o.documents.RequireDocument(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	state, err = o.vendors.UpdateStatus(ctx, vendorID, vendoradmin.TransitionVerify, adminID, "")
	if err != nil {
		return nil, o.remoteFailure(ctx, "verify", vendorID, err)
	}
	// The remote change is committed; local bookkeeping must finish even if
	// the caller goes away.
	ctx = context.WithoutCancel(ctx)

	if _, err := o.stats.TouchVendor(ctx, vendorID); err != nil {
		return nil, o.bookkeepingFailure(ctx, "verify vendor", "vendor stats", err)
	}
	comment := "Vendor verified by admin. Document: " + doc.FileName
	if _, err := o.ledger.Append(ctx, adminID, audit.ActionVendorVerified, audit.TargetVendor, int64(vendorID), comment); err != nil {
		return nil, o.bookkeepingFailure(ctx, "verify vendor", "audit entry", err)
	}

	now := requestcontext.Now(ctx)
	o.publisher.Publish(ctx, o.topics.VendorStatus, vendorID.String(),
		events.NewVendorVerification(vendorID, events.ActionVendorApproved, adminID, doc, now))

	o.logger.InfoContext(ctx, "vendor verified",
		"vendor_id", int64(vendorID),
		"admin_id", int64(adminID),
		"document", doc.FileName,
	)
	return state, nil
}

// RejectVendor rejects a vendor. The document lookup is advisory: a missing
// document is recorded in the audit comment, but a failing document service
// still aborts the rejection.
func (o *Orchestrator) RejectVendor(ctx context.Context, vendorID id.VendorID, adminID id.AdminID, reason string) (state *vendoradmin.RemoteState, err error) {
	defer o.observe("reject_vendor", time.Now(), &err)
	if err := requireIDs(vendorID, adminID); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "reason is required")
	}

	doc, err := o.documents.RequireDocument(ctx, vendorID)
	switch {
	case errors.Is(err, document.ErrDocumentNotFound):
		o.logger.WarnContext(ctx, "no verification document, proceeding with rejection",
			"vendor_id", int64(vendorID),
		)
		doc = nil
	case err != nil:
		return nil, err
	}

	state, err = o.vendors.UpdateStatus(ctx, vendorID, vendoradmin.TransitionReject, adminID, reason)
	if err != nil {
		return nil, o.remoteFailure(ctx, "reject", vendorID, err)
	}
	ctx = context.WithoutCancel(ctx)

	if _, err := o.stats.TouchVendor(ctx, vendorID); err != nil {
		return nil, o.bookkeepingFailure(ctx, "reject vendor", "vendor stats", err)
	}
	docInfo := "no document"
	if doc != nil {
		docInfo = doc.FileName
	}
	comment := "Vendor rejected. Reason: " + reason + ". Document: " + docInfo
	if _, err := o.ledger.Append(ctx, adminID, audit.ActionVendorRejected, audit.TargetVendor, int64(vendorID), comment); err != nil {
		return nil, o.bookkeepingFailure(ctx, "reject vendor", "audit entry", err)
	}

	o.publisher.Publish(ctx, o.topics.VendorStatus, vendorID.String(),
		events.NewVendorVerification(vendorID, events.ActionVendorRejected, adminID, doc, requestcontext.Now(ctx)))

	o.logger.InfoContext(ctx, "vendor rejected",
		"vendor_id", int64(vendorID),
		"admin_id", int64(adminID),
	)
	return state, nil
}

func (o *Orchestrator) SuspendVendor(ctx context.Context, vendorID id.VendorID, adminID id.AdminID, reason string) (state *vendoradmin.RemoteState, err error) {
	defer o.observe("suspend_vendor", time.Now(), &err)
	if err := requireIDs(vendorID, adminID); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	comment := "Vendor suspended"
	if reason != "" {
		comment += ". Reason: " + reason
	}
	return o.changeStatus(ctx, vendorID, adminID, statusChange{
		op:         "suspend",
		transition: vendoradmin.TransitionSuspend,
		action:     audit.ActionVendorSuspended,
		status:     events.StatusSuspended,
		reason:     reason,
		comment:    comment,
	})
}

func (o *Orchestrator) ActivateVendor(ctx context.Context, vendorID id.VendorID, adminID id.AdminID) (state *vendoradmin.RemoteState, err error) {
	defer o.observe("activate_vendor", time.Now(), &err)
	if err := requireIDs(vendorID, adminID); err != nil {
		return nil, err
	}
	return o.changeStatus(ctx, vendorID, adminID, statusChange{
		op:         "activate",
		transition: vendoradmin.TransitionActivate,
		action:     audit.ActionVendorActivated,
		status:     events.StatusActivated,
		comment:    "Vendor activated by admin",
	})
}

type statusChange struct {
	op         string
	transition vendoradmin.Transition
	action     audit.ActionType
	status     string
	reason     string
	comment    string
}

// changeStatus runs suspension and activation, which need no document.
func (o *Orchestrator) changeStatus(ctx context.Context, vendorID id.VendorID, adminID id.AdminID, c statusChange) (*vendoradmin.RemoteState, error) {
	state, err := o.vendors.UpdateStatus(ctx, vendorID, c.transition, adminID, c.reason)
	if err != nil {
		return nil, o.remoteFailure(ctx, c.op, vendorID, err)
	}
	ctx = context.WithoutCancel(ctx)

	if _, err := o.stats.TouchVendor(ctx, vendorID); err != nil {
		return nil, o.bookkeepingFailure(ctx, c.op+" vendor", "vendor stats", err)
	}
	if _, err := o.ledger.Append(ctx, adminID, c.action, audit.TargetVendor, int64(vendorID), c.comment); err != nil {
		return nil, o.bookkeepingFailure(ctx, c.op+" vendor", "audit entry", err)
	}

	o.publisher.Publish(ctx, o.topics.VendorStatus, vendorID.String(),
		events.NewVendorStatusChanged(vendorID, c.status, adminID, c.reason, requestcontext.Now(ctx)))

	o.logger.InfoContext(ctx, "vendor status changed",
		"vendor_id", int64(vendorID),
		"admin_id", int64(adminID),
		"status", c.status,
	)
	return state, nil
}
