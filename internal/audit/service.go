package audit

import (
	"context"
	"log/slog"

	id "soukscan/pkg/domain"
	dErrors "soukscan/pkg/domain-errors"
	"soukscan/pkg/requestcontext"
)

// Store persists ledger entries. Append assigns ID.
type Store interface {
	Append(ctx context.Context, entry *AdminActionLog) error
	List(ctx context.Context, q Query) ([]*AdminActionLog, error)
}

// Ledger is the append-only record of administrative decisions. Entries are
// written explicitly by the workflow after a transition has been committed
// remotely; nothing here is triggered implicitly.
type Ledger struct {
	store  Store
	logger *slog.Logger
}

func NewLedger(store Store, logger *slog.Logger) *Ledger {
	return &Ledger{store: store, logger: logger}
}

// Append inserts one entry. Only a missing admin id or action type is
// rejected.
func (l *Ledger) Append(ctx context.Context, adminID id.AdminID, actionType ActionType, targetType TargetType, targetID int64, comment string) (*AdminActionLog, error) {
	if adminID == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "admin id is required")
	}
	if actionType == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "action type is required")
	}

	entry := &AdminActionLog{
		AdminID:    adminID,
		ActionType: actionType,
		TargetType: targetType,
		TargetID:   targetID,
		Comment:    comment,
		CreatedAt:  requestcontext.Now(ctx).UTC(),
	}
	if err := l.store.Append(ctx, entry); err != nil {
		l.logger.ErrorContext(ctx, "failed to append audit entry",
			"action_type", actionType,
			"target_type", targetType,
			"target_id", targetID,
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to append audit entry")
	}

	l.logger.InfoContext(ctx, "admin action recorded",
		"log_id", int64(entry.ID),
		"admin_id", int64(adminID),
		"action_type", actionType,
		"target_type", targetType,
		"target_id", targetID,
	)
	return entry, nil
}

func (l *Ledger) List(ctx context.Context, q Query) ([]*AdminActionLog, error) {
	if q.Limit < 0 || q.Offset < 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "limit and offset must not be negative")
	}
	entries, err := l.store.List(ctx, q)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit entries")
	}
	return entries, nil
}

func (l *Ledger) ListAll(ctx context.Context) ([]*AdminActionLog, error) {
	return l.List(ctx, Query{})
}

func (l *Ledger) ListByAdmin(ctx context.Context, adminID id.AdminID) ([]*AdminActionLog, error) {
	return l.List(ctx, Query{AdminID: adminID})
}

func (l *Ledger) ListByActionType(ctx context.Context, actionType ActionType) ([]*AdminActionLog, error) {
	return l.List(ctx, Query{ActionType: actionType})
}

func (l *Ledger) ListByTargetType(ctx context.Context, targetType TargetType) ([]*AdminActionLog, error) {
	return l.List(ctx, Query{TargetType: targetType})
}

func (l *Ledger) ListByTargetID(ctx context.Context, targetID int64) ([]*AdminActionLog, error) {
	return l.List(ctx, Query{TargetID: targetID})
}
