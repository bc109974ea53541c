package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"soukscan/internal/moderation"
	"soukscan/internal/stats"
	id "soukscan/pkg/domain"
	"soukscan/pkg/platform/sentinel"
	txcontext "soukscan/pkg/platform/tx"
)

// Store persists moderation_reports, moderation_actions and price_reports.
type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const reportColumns = `id, reporter_id, target_id, target_type, reason, status, created_at, updated_at`

const actionColumns = `id, admin_id, report_id, action_type, comment, created_at`

const priceColumns = `id, product_id, vendor_id, reporter_id, price, status, validated_by, comment, created_at, validated_at`

func (s *Store) CreateReport(ctx context.Context, r *moderation.Report) error {
	err := s.execer(ctx).GetContext(ctx, &r.ID, `
		INSERT INTO moderation_reports (reporter_id, target_id, target_type, reason, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, r.ReporterID, r.TargetID, r.TargetType, r.Reason, r.Status, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert moderation report: %w", err)
	}
	return nil
}

func (s *Store) GetReport(ctx context.Context, reportID id.ReportID) (*moderation.Report, error) {
	var r moderation.Report
	err := s.execer(ctx).GetContext(ctx, &r, `SELECT `+reportColumns+` FROM moderation_reports WHERE id = $1`, reportID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load moderation report: %w", err)
	}
	return &r, nil
}

// UpdateReportStatus is a compare-and-set on status, so two concurrent
// decisions cannot both succeed.
func (s *Store) UpdateReportStatus(ctx context.Context, r *moderation.Report, from moderation.ReportStatus) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE moderation_reports SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`, r.Status, r.UpdatedAt, r.ID, from)
	if err != nil {
		return fmt.Errorf("update moderation report: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update moderation report: %w", err)
	}
	if n == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *Store) ListReportsByStatus(ctx context.Context, status moderation.ReportStatus) ([]*moderation.Report, error) {
	out := []*moderation.Report{}
	if err := s.execer(ctx).SelectContext(ctx, &out,
		`SELECT `+reportColumns+` FROM moderation_reports WHERE status = $1 ORDER BY id`, status); err != nil {
		return nil, fmt.Errorf("list moderation reports: %w", err)
	}
	return out, nil
}

func (s *Store) ListReportsByReporter(ctx context.Context, reporterID id.UserID) ([]*moderation.Report, error) {
	out := []*moderation.Report{}
	if err := s.execer(ctx).SelectContext(ctx, &out,
		`SELECT `+reportColumns+` FROM moderation_reports WHERE reporter_id = $1 ORDER BY id`, reporterID); err != nil {
		return nil, fmt.Errorf("list moderation reports: %w", err)
	}
	return out, nil
}

func (s *Store) CreateAction(ctx context.Context, a *moderation.Action) error {
	err := s.execer(ctx).GetContext(ctx, &a.ID, `
		INSERT INTO moderation_actions (admin_id, report_id, action_type, comment, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, a.AdminID, a.ReportID, a.ActionType, a.Comment, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert moderation action: %w", err)
	}
	return nil
}

func (s *Store) ListActions(ctx context.Context) ([]*moderation.Action, error) {
	out := []*moderation.Action{}
	if err := s.execer(ctx).SelectContext(ctx, &out,
		`SELECT `+actionColumns+` FROM moderation_actions ORDER BY id DESC`); err != nil {
		return nil, fmt.Errorf("list moderation actions: %w", err)
	}
	return out, nil
}

func (s *Store) ListActionsByAdmin(ctx context.Context, adminID id.AdminID) ([]*moderation.Action, error) {
	out := []*moderation.Action{}
	if err := s.execer(ctx).SelectContext(ctx, &out,
		`SELECT `+actionColumns+` FROM moderation_actions WHERE admin_id = $1 ORDER BY id DESC`, adminID); err != nil {
		return nil, fmt.Errorf("list moderation actions: %w", err)
	}
	return out, nil
}

func (s *Store) InsertPriceReport(ctx context.Context, p *moderation.PriceReport) (bool, error) {
	res, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO price_reports (`+priceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`, p.ID, p.ProductID, p.VendorID, p.ReporterID, p.Price, p.Status, p.ValidatedBy, p.Comment, p.CreatedAt, p.ValidatedAt)
	if err != nil {
		return false, fmt.Errorf("insert price report: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert price report: %w", err)
	}
	return n == 1, nil
}

func (s *Store) GetPriceReport(ctx context.Context, priceReportID id.PriceReportID) (*moderation.PriceReport, error) {
	var p moderation.PriceReport
	err := s.execer(ctx).GetContext(ctx, &p, `SELECT `+priceColumns+` FROM price_reports WHERE id = $1`, priceReportID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load price report: %w", err)
	}
	return &p, nil
}

func (s *Store) SavePriceReport(ctx context.Context, p *moderation.PriceReport) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE price_reports
		SET status = $1, validated_by = $2, comment = $3, validated_at = $4
		WHERE id = $5
	`, p.Status, p.ValidatedBy, p.Comment, p.ValidatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update price report: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Store) ListPriceReports(ctx context.Context, status moderation.PriceStatus) ([]*moderation.PriceReport, error) {
	out := []*moderation.PriceReport{}
	query := `SELECT ` + priceColumns + ` FROM price_reports`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY id`
	if err := s.execer(ctx).SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list price reports: %w", err)
	}
	return out, nil
}

func (s *Store) ModerationTotals(ctx context.Context) (stats.ModerationTotals, error) {
	var row struct {
		Reports      int64 `db:"reports"`
		Actions      int64 `db:"actions"`
		Blocks       int64 `db:"blocks"`
		PriceReports int64 `db:"price_reports"`
	}
	err := s.execer(ctx).GetContext(ctx, &row, `
		SELECT
			(SELECT COUNT(*) FROM moderation_reports) AS reports,
			(SELECT COUNT(*) FROM moderation_actions) AS actions,
			(SELECT COUNT(*) FROM moderation_actions WHERE action_type = 'block') AS blocks,
			(SELECT COUNT(*) FROM price_reports) AS price_reports
	`)
	if err != nil {
		return stats.ModerationTotals{}, fmt.Errorf("count moderation activity: %w", err)
	}
	return stats.ModerationTotals(row), nil
}
