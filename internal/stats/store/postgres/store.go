package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"soukscan/internal/stats"
	id "soukscan/pkg/domain"
	"soukscan/pkg/platform/sentinel"
	txcontext "soukscan/pkg/platform/tx"
)

// Store persists counters in user_stats and vendor_stats.
type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const userColumns = `user_id, total_reports_submitted, total_valid_reports, total_rejected_reports, warning_count, last_activity`

const vendorColumns = `vendor_id, total_reports_against_vendor, total_approved_reports, total_rejected_reports, trust_score, last_updated`

func (s *Store) EnsureUser(ctx context.Context, userID id.UserID, now time.Time) (*stats.UserStats, error) {
	ex := s.execer(ctx)
	if _, err := ex.ExecContext(ctx,
		`INSERT INTO user_stats (user_id, last_activity) VALUES ($1, $2) ON CONFLICT (user_id) DO NOTHING`,
		userID, now,
	); err != nil {
		return nil, fmt.Errorf("upsert user stats: %w", err)
	}
	var st stats.UserStats
	if err := ex.GetContext(ctx, &st, `SELECT `+userColumns+` FROM user_stats WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("load user stats: %w", err)
	}
	return &st, nil
}

func (s *Store) SaveUser(ctx context.Context, st *stats.UserStats) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE user_stats
		SET total_reports_submitted = $2,
		    total_valid_reports = $3,
		    total_rejected_reports = $4,
		    warning_count = $5,
		    last_activity = $6
		WHERE user_id = $1`,
		st.UserID, st.TotalReportsSubmitted, st.TotalValidReports, st.TotalRejectedReports, st.WarningCount, st.LastActivity,
	)
	if err != nil {
		return fmt.Errorf("save user stats: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, userID id.UserID) (*stats.UserStats, error) {
	var st stats.UserStats
	err := s.execer(ctx).GetContext(ctx, &st, `SELECT `+userColumns+` FROM user_stats WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user stats: %w", err)
	}
	return &st, nil
}

func (s *Store) EnsureVendor(ctx context.Context, vendorID id.VendorID, now time.Time) (*stats.VendorStats, error) {
	ex := s.execer(ctx)
	if _, err := ex.ExecContext(ctx,
		`INSERT INTO vendor_stats (vendor_id, trust_score, last_updated) VALUES ($1, $2, $3) ON CONFLICT (vendor_id) DO NOTHING`,
		vendorID, stats.DefaultTrustScore, now,
	); err != nil {
		return nil, fmt.Errorf("upsert vendor stats: %w", err)
	}
	var st stats.VendorStats
	if err := ex.GetContext(ctx, &st, `SELECT `+vendorColumns+` FROM vendor_stats WHERE vendor_id = $1`, vendorID); err != nil {
		return nil, fmt.Errorf("load vendor stats: %w", err)
	}
	return &st, nil
}

func (s *Store) SaveVendor(ctx context.Context, st *stats.VendorStats) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE vendor_stats
		SET total_reports_against_vendor = $2,
		    total_approved_reports = $3,
		    total_rejected_reports = $4,
		    trust_score = $5,
		    last_updated = $6
		WHERE vendor_id = $1`,
		st.VendorID, st.TotalReportsAgainstVendor, st.TotalApprovedReports, st.TotalRejectedReports, st.TrustScore, st.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("save vendor stats: %w", err)
	}
	return nil
}

func (s *Store) GetVendor(ctx context.Context, vendorID id.VendorID) (*stats.VendorStats, error) {
	var st stats.VendorStats
	err := s.execer(ctx).GetContext(ctx, &st, `SELECT `+vendorColumns+` FROM vendor_stats WHERE vendor_id = $1`, vendorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get vendor stats: %w", err)
	}
	return &st, nil
}

func (s *Store) Totals(ctx context.Context) (users, vendors, warnings int64, err error) {
	var row struct {
		Users    int64 `db:"users"`
		Vendors  int64 `db:"vendors"`
		Warnings int64 `db:"warnings"`
	}
	err = s.execer(ctx).GetContext(ctx, &row, `
		SELECT
			(SELECT COUNT(*) FROM user_stats) AS users,
			(SELECT COUNT(*) FROM vendor_stats) AS vendors,
			(SELECT COALESCE(SUM(warning_count), 0)::BIGINT FROM user_stats) AS warnings`)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("count stats: %w", err)
	}
	return row.Users, row.Vendors, row.Warnings, nil
}
