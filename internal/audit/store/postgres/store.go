package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"soukscan/internal/audit"
	txcontext "soukscan/pkg/platform/tx"
)

// Store persists ledger entries in the append-only admin_action_logs table.
type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

type queryer interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

func (s *Store) q(ctx context.Context) queryer {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Store) Append(ctx context.Context, entry *audit.AdminActionLog) error {
	const query = `
		INSERT INTO admin_action_logs (admin_id, action_type, target_type, target_id, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := s.q(ctx).GetContext(ctx, &entry.ID, query,
		entry.AdminID,
		entry.ActionType,
		entry.TargetType,
		entry.TargetID,
		entry.Comment,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert admin action log: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, q audit.Query) ([]*audit.AdminActionLog, error) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if q.AdminID != 0 {
		add("admin_id = $%d", q.AdminID)
	}
	if q.ActionType != "" {
		add("action_type = $%d", q.ActionType)
	}
	if q.TargetType != "" {
		add("target_type = $%d", q.TargetType)
	}
	if q.TargetID != 0 {
		add("target_id = $%d", q.TargetID)
	}

	var sb strings.Builder
	sb.WriteString(`SELECT id, admin_id, action_type, target_type, target_id, comment, created_at FROM admin_action_logs`)
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY created_at DESC, id DESC")
	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	entries := []*audit.AdminActionLog{}
	if err := s.q(ctx).SelectContext(ctx, &entries, sb.String(), args...); err != nil {
		return nil, fmt.Errorf("list admin action logs: %w", err)
	}
	return entries, nil
}
