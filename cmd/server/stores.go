package main

import (
	"context"
	"fmt"
	"log/slog"

	"soukscan/internal/audit"
	auditmemory "soukscan/internal/audit/store/memory"
	auditpostgres "soukscan/internal/audit/store/postgres"
	"soukscan/internal/moderation"
	moderationmemory "soukscan/internal/moderation/store/memory"
	moderationpostgres "soukscan/internal/moderation/store/postgres"
	"soukscan/internal/platform/config"
	"soukscan/internal/platform/postgres"
	"soukscan/internal/stats"
	statsmemory "soukscan/internal/stats/store/memory"
	statspostgres "soukscan/internal/stats/store/postgres"
	txcontext "soukscan/pkg/platform/tx"
)

type stores struct {
	audit      audit.Store
	stats      stats.Store
	moderation moderation.Store
	tx         txcontext.Runner
	ping       func(ctx context.Context) error
	close      func()
}

func openStores(ctx context.Context, cfg config.Config, log *slog.Logger) (*stores, error) {
	switch cfg.Server.Storage {
	case "", "memory":
		log.Warn("using in-memory stores, state is lost on restart")
		return &stores{
			audit:      auditmemory.NewInMemoryStore(),
			stats:      statsmemory.New(),
			moderation: moderationmemory.New(),
			tx:         txcontext.NewLocalRunner(),
		}, nil
	case "postgres":
		db, err := postgres.Open(ctx, postgres.Config{
			DSN:          cfg.Database.DSN,
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
		})
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &stores{
			audit:      auditpostgres.New(db),
			stats:      statspostgres.New(db),
			moderation: moderationpostgres.New(db),
			tx:         txcontext.NewPostgresRunner(db),
			ping:       db.PingContext,
			close:      func() { _ = db.Close() },
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Server.Storage)
	}
}
