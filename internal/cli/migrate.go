package cli

import (
	"fmt"
	"os"

	pgstore "cs-quiz/internal/infra/postgres"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewMigrateCmd applies the Postgres schema and optionally seeds a bank.
func NewMigrateCmd(opts *rootOptions) *cobra.Command {
	var seed string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd, opts, seed)
		},
	}
	cmd.Flags().StringVar(&seed, "seed", "", "JSON question file to store as postgres.bank")
	return cmd
}

func runMigrations(cmd *cobra.Command, opts *rootOptions, seed string) error {
	cfg, logger, err := opts.setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	ctx := cmd.Context()
	applied, err := pgstore.Migrate(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	logger.Info("migrations applied", zap.Strings("migrations", applied))

	if seed == "" {
		return nil
	}
	raw, err := os.ReadFile(seed)
	if err != nil {
		return err
	}
	if err := pgstore.SeedBank(ctx, cfg.Postgres.URL, cfg.Postgres.Bank, raw); err != nil {
		return fmt.Errorf("seed bank: %w", err)
	}
	logger.Info("bank seeded", zap.String("bank", cfg.Postgres.Bank), zap.String("file", seed))
	return nil
}
