package tx

import (
	"context"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	dErrors "soukscan/pkg/domain-errors"
)

const defaultTxTimeout = 5 * time.Second

// Runner executes fn as one unit of work. Stores read the unit from ctx.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// PostgresRunner opens a transaction per unit, bounded by a timeout when the
// caller set no deadline.
type PostgresRunner struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewPostgresRunner(db *sqlx.DB) *PostgresRunner {
	return &PostgresRunner{db: db, timeout: defaultTxTimeout}
}

func (r *PostgresRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return Run(ctx, r.db, fn)
}

// LocalRunner serialises units for in-memory stores. It gives isolation but
// no rollback.
type LocalRunner struct {
	mu sync.Mutex
}

func NewLocalRunner() *LocalRunner {
	return &LocalRunner{}
}

func (r *LocalRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(ctx)
}
