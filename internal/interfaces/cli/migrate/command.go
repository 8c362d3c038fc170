package migrate

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"portaria/internal/infrastructure/config"
	"portaria/internal/infrastructure/database"
	"portaria/internal/infrastructure/migration"
	"portaria/internal/shared/logger"
)

var (
	env     string
	steps   int
	version int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations including running pending migrations and rolling back.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newForceCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newForceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "force",
		Short: "Force the migration version",
		Long:  `Set the migration version without running migrations. Use to recover from a dirty state.`,
		RunE:  runForce,
	}

	cmd.Flags().IntVarP(&version, "version", "v", 0, "Version to force (required)")
	cmd.MarkFlagRequired("version")

	return cmd
}

func initEnv() (string, logger.Interface, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, false); err != nil {
		return "", nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	log := logger.NewLogger()

	if err := database.Init(&cfg.Database); err != nil {
		return "", nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	scriptsPath, err := filepath.Abs("./internal/infrastructure/migration/scripts")
	if err != nil {
		return "", nil, fmt.Errorf("failed to get scripts path: %w", err)
	}

	return scriptsPath, log, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	scriptsPath, log, err := initEnv()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	log.Infow("running up migrations", "environment", env)

	strategy := migration.NewGolangMigrateStrategy(scriptsPath)

	if err := strategy.Migrate(database.Get()); err != nil {
		log.Errorw("migration failed", "error", err)
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Infow("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	scriptsPath, log, err := initEnv()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	log.Infow("running down migrations", "environment", env, "steps", steps)

	strategy := migration.NewGolangMigrateStrategy(scriptsPath)

	migrateStrategy, ok := strategy.(*migration.GolangMigrateStrategy)
	if !ok {
		return fmt.Errorf("down migration requires the versioned migration strategy")
	}

	if err := migrateStrategy.MigrateDown(database.Get(), steps); err != nil {
		log.Errorw("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	log.Infow("down migration completed successfully")
	return nil
}

func runForce(cmd *cobra.Command, args []string) error {
	scriptsPath, log, err := initEnv()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	log.Infow("forcing migration version", "environment", env, "version", version)

	strategy := migration.NewGolangMigrateStrategy(scriptsPath)

	migrateStrategy, ok := strategy.(*migration.GolangMigrateStrategy)
	if !ok {
		return fmt.Errorf("force requires the versioned migration strategy")
	}

	if err := migrateStrategy.Force(database.Get(), version); err != nil {
		log.Errorw("force failed", "error", err)
		return fmt.Errorf("force failed: %w", err)
	}

	log.Infow("migration version forced successfully")
	return nil
}
