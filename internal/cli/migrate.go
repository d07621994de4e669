package cli

import (
	"context"
	"database/sql"
	"errors"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"quizshow/internal/config"
	pgmigrations "quizshow/internal/infra/postgres/migrations"
	"quizshow/internal/logging"
)

// NewMigrateCmd applies database migrations.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the question bank tables in Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			ctx, closeLog, err := commandContext(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeLog()
			return runMigrations(ctx, cfg)
		},
	}
}

func runMigrations(ctx context.Context, cfg config.Config) error {
	if cfg.Postgres.URL == "" {
		return errors.New("postgres url not configured")
	}
	logger := logging.FromContext(ctx)

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		logger.Info().Msg("no new migrations")
		return nil
	}
	logger.Info().Str("group", group.String()).Msg("migrations applied")
	return nil
}

// commandContext carries a console logger for non-interactive commands.
func commandContext(ctx context.Context, cfg config.Config) (context.Context, func() error, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger, closeLog, err := logging.New(logging.Options{
		App:     "quizshow",
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Console: true,
	})
	if err != nil {
		return nil, nil, err
	}
	return logging.IntoContext(ctx, logger), closeLog, nil
}
