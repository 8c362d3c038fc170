package scheduler

import (
	"context"
	"sync"
	"time"

	credentialUsecases "portaria/internal/application/credential/usecases"
	"portaria/internal/shared/logger"
)

// SweepScheduler drives the periodic expiration sweep. It releases resources
// held by credentials whose window closed; read paths never depend on it
// because status is derived from the window at read time.
type SweepScheduler struct {
	sweepUC  *credentialUsecases.SweepExpiredCredentialsUseCase
	logger   logger.Interface
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	interval time.Duration
}

// NewSweepScheduler creates a new SweepScheduler
func NewSweepScheduler(
	sweepUC *credentialUsecases.SweepExpiredCredentialsUseCase,
	interval time.Duration,
	logger logger.Interface,
) *SweepScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SweepScheduler{
		sweepUC:  sweepUC,
		logger:   logger,
		stopChan: make(chan struct{}),
		interval: interval,
	}
}

// Start starts the scheduler
func (s *SweepScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting expiration sweep scheduler", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	}()
}

// Stop stops the scheduler gracefully, waiting for an in-flight sweep to
// finish
func (s *SweepScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping expiration sweep scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("expiration sweep scheduler stopped")
	})
}

func (s *SweepScheduler) runLoop(ctx context.Context) {
	// Run immediately on startup to clear any backlog from downtime
	s.runSweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("expiration sweep scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.runSweep(ctx)
		}
	}
}

func (s *SweepScheduler) runSweep(ctx context.Context) {
	startTime := time.Now()

	cleaned, err := s.sweepUC.Execute(ctx)
	if err != nil {
		s.logger.Errorw("expiration sweep failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if cleaned > 0 {
		s.logger.Infow("expired credentials cleaned up",
			"count", cleaned,
			"duration", time.Since(startTime),
		)
	} else {
		s.logger.Debugw("no expired credentials to clean up",
			"duration", time.Since(startTime),
		)
	}
}
