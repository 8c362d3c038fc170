package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"portaria/internal/application/credential/usecases"
	"portaria/internal/infrastructure/config"
	"portaria/internal/infrastructure/database"
	"portaria/internal/infrastructure/enrollment"
	"portaria/internal/infrastructure/migration"
	"portaria/internal/infrastructure/repository"
	"portaria/internal/infrastructure/scheduler"
	httpRouter "portaria/internal/interfaces/http"
	"portaria/internal/shared/logger"
)

var (
	env                string
	autoMigrate        bool
	skipMigrationCheck bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the guest credential HTTP server with the specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Automatically run database migrations on startup (not recommended for production)")
	cmd.Flags().BoolVar(&skipMigrationCheck, "skip-migration-check", false, "Skip migrations on startup")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	ginMode := mapEnvToGinMode(env)

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cfg.Server.Mode = ginMode

	if err := logger.Init(&cfg.Logger, ginMode == gin.DebugMode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	log := logger.NewLogger()
	log.Infow("starting server", "environment", env, "auto_migrate", autoMigrate)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {
	}

	if err := database.Init(&cfg.Database); err != nil {
		log.Fatalw("failed to initialize database", "error", err)
	}
	defer database.Close()

	if err := handleMigrations(env, log); err != nil {
		log.Fatalw("migration handling failed", "error", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Warnw("redis unavailable, terminal rate limiting degrades to allow-all",
			"address", cfg.Redis.GetAddr(), "error", err)
	} else {
		log.Infow("redis connection established", "address", cfg.Redis.GetAddr())
	}

	credentialRepo := repository.NewCredentialRepository(database.Get(), log)
	enroller := enrollment.NewHTTPCollaborator(&cfg.Enrollment, log)
	sweepUC := usecases.NewSweepExpiredCredentialsUseCase(credentialRepo, enroller, cfg.Sweep.BatchSize, log)

	sweepInterval := time.Duration(cfg.Sweep.IntervalSeconds) * time.Second
	sweepScheduler := scheduler.NewSweepScheduler(sweepUC, sweepInterval, log)
	sweepScheduler.Start(context.Background())
	defer sweepScheduler.Stop()

	router := httpRouter.NewRouter(database.Get(), redisClient, cfg, log)
	router.SetupRoutes()

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "address", cfg.Server.GetAddr(), "mode", cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

func handleMigrations(environment string, log logger.Interface) error {
	if skipMigrationCheck {
		log.Infow("skipping migrations")
		return nil
	}

	if !autoMigrate {
		log.Infow("migrations not run on startup, use the migrate command or --auto-migrate")
		return nil
	}

	if environment == "production" {
		log.Warnw("auto-migration is enabled in production environment - this is not recommended!")
	}

	migrationManager := migration.NewManager(environment)
	if err := migrationManager.Migrate(database.Get(), migration.AutoMigrateModels()...); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	log.Infow("migrations completed", "strategy", migrationManager.GetStrategy().GetName())
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod":
		return "release"
	case "development", "dev":
		return "debug"
	case "test", "testing":
		return "test"
	case "debug":
		return "debug"
	case "release":
		return "release"
	default:
		return "debug"
	}
}
