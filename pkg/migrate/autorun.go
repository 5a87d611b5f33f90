package migrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/flo-app/flo-backend/pkg/config"
	"github.com/flo-app/flo-backend/pkg/db"
	"github.com/flo-app/flo-backend/pkg/logger"
)

// MaybeRunDev migrates on boot when running in dev with FLO_AUTO_MIGRATE, or always for SQLite.
// SQLite builds its schema from the models since the goose files are Postgres-specific.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if client.IsSQLite() {
		logg.Info(logg.WithField(ctx, "dsn", cfg.DB.DSN), "auto-migrating sqlite schema")
		if err := client.AutoMigrate(ctx); err != nil {
			return fmt.Errorf("sqlite auto migrate: %w", err)
		}
		return nil
	}

	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "running embedded goose migrations (dev auto-run)")

	var out strings.Builder
	if err := Run(ctx, sqlDB, Source(""), CommandUp, &out); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line != "" {
			logg.Debug(ctx, "goose: "+line)
		}
	}

	logg.Info(ctx, "goose migrations completed")
	return nil
}
