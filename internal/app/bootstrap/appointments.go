package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wolfman30/inkstudio-ai/internal/appointments"
	appconfig "github.com/wolfman30/inkstudio-ai/internal/config"
	"github.com/wolfman30/inkstudio-ai/pkg/logging"
)

// BuildAppointmentRepository opens the store named by APPOINTMENT_STORE and
// wraps it with retries. The returned func releases the underlying
// connection.
func BuildAppointmentRepository(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (appointments.Repository, func(), error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	var (
		repo    appointments.Repository
		closeFn = func() {}
	)
	switch cfg.AppointmentStore {
	case "", "sqlite":
		sqliteRepo, err := appointments.NewSQLiteRepository(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: open sqlite: %w", err)
		}
		repo = sqliteRepo
		closeFn = func() { _ = sqliteRepo.Close() }
		logger.Info("using sqlite appointment store", "path", cfg.SQLitePath)
	case "postgres":
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return nil, nil, fmt.Errorf("bootstrap: DATABASE_URL is required for the postgres appointment store")
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("bootstrap: ping postgres: %w", err)
		}
		repo = appointments.NewPostgresRepository(pool)
		closeFn = pool.Close
		logger.Info("using postgres appointment store")
	case "memory":
		repo = appointments.NewInMemoryRepository()
		logger.Warn("using in-memory appointment store; appointments are lost on restart")
	default:
		return nil, nil, fmt.Errorf("bootstrap: unknown appointment store %q", cfg.AppointmentStore)
	}

	if cfg.StoreRetryAttempts > 1 {
		repo = appointments.NewRetryingRepository(repo, cfg.StoreRetryAttempts, cfg.StoreRetryBaseDelay, logger)
	}
	return repo, closeFn, nil
}
