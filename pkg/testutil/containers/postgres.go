//go:build integration

package containers

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"soukscan/internal/platform/postgres"
)

// PostgresContainer wraps a testcontainers Postgres instance with migrations applied.
type PostgresContainer struct {
	Container *tcpostgres.PostgresContainer
	DSN       string
	DB        *sqlx.DB
}

// NewPostgresContainer starts Postgres and runs the service migrations.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("soukscan_admin"),
		tcpostgres.WithUsername("soukscan"),
		tcpostgres.WithPassword("soukscan"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := postgres.Open(ctx, postgres.Config{DSN: dsn, MaxOpenConns: 5, MaxIdleConns: 2})
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres: %v", err)
	}
	if err := postgres.Migrate(db); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to migrate postgres: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
		_ = container.Terminate(context.Background())
	})

	return &PostgresContainer{Container: container, DSN: dsn, DB: db}
}

// Truncate empties the given tables between tests.
func (p *PostgresContainer) Truncate(t *testing.T, tables ...string) {
	t.Helper()
	for _, table := range tables {
		if _, err := p.DB.Exec("TRUNCATE TABLE " + table + " RESTART IDENTITY CASCADE"); err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}
}
