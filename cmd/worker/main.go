package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portaria/internal/application/credential/usecases"
	"portaria/internal/infrastructure/config"
	"portaria/internal/infrastructure/database"
	"portaria/internal/infrastructure/enrollment"
	"portaria/internal/infrastructure/repository"
	"portaria/internal/infrastructure/scheduler"
	"portaria/internal/shared/logger"
)

// Standalone expiration sweep worker. Run this instead of the in-server
// scheduler when the API tier scales horizontally, so only one process
// sweeps.
func main() {
	env := "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Logger, false); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.NewLogger()
	log.Infow("starting expiration sweep worker", "environment", env)

	if err := database.Init(&cfg.Database); err != nil {
		log.Fatalw("failed to initialize database", "error", err)
	}
	defer database.Close()

	credentialRepo := repository.NewCredentialRepository(database.Get(), log)
	enroller := enrollment.NewHTTPCollaborator(&cfg.Enrollment, log)
	sweepUC := usecases.NewSweepExpiredCredentialsUseCase(credentialRepo, enroller, cfg.Sweep.BatchSize, log)

	interval := time.Duration(cfg.Sweep.IntervalSeconds) * time.Second
	sweepScheduler := scheduler.NewSweepScheduler(sweepUC, interval, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweepScheduler.Start(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Infow("shutting down sweep worker...")
	cancel()
	sweepScheduler.Stop()
	log.Infow("sweep worker exited")
}
