package usecases

import (
	"context"
	"fmt"
	"time"

	"portaria/internal/domain/credential"
	"portaria/internal/domain/enrollment"
	"portaria/internal/shared/biztime"
	"portaria/internal/shared/logger"
)

// SweepExpiredCredentialsUseCase releases resources held by credentials whose
// window has closed. The sweep is a cleanup pass, not the source of truth:
// reads derive expiry from the window regardless of whether the sweep has
// visited a record yet.
type SweepExpiredCredentialsUseCase struct {
	credentialRepo credential.Repository
	enroller       enrollment.Collaborator
	batchSize      int
	logger         logger.Interface
	now            func() time.Time
}

func NewSweepExpiredCredentialsUseCase(
	credentialRepo credential.Repository,
	enroller enrollment.Collaborator,
	batchSize int,
	logger logger.Interface,
) *SweepExpiredCredentialsUseCase {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &SweepExpiredCredentialsUseCase{
		credentialRepo: credentialRepo,
		enroller:       enroller,
		batchSize:      batchSize,
		logger:         logger,
		now:            biztime.NowUTC,
	}
}

// Execute processes one batch of expired credentials and returns how many
// were cleaned up. A failure on one credential is logged and skipped so the
// rest of the batch still progresses; the skipped record is retried on the
// next tick because its cleanup marker stays unset.
func (uc *SweepExpiredCredentialsUseCase) Execute(ctx context.Context) (int, error) {
	now := uc.now()

	expired, err := uc.credentialRepo.ListExpiredPendingCleanup(ctx, now, uc.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired credentials: %w", err)
	}

	if len(expired) == 0 {
		return 0, nil
	}

	uc.logger.Infow("sweeping expired credentials", "count", len(expired))

	cleaned := 0
	for _, cred := range expired {
		if err := ctx.Err(); err != nil {
			return cleaned, err
		}

		if cred.BiometricRequested() {
			if err := uc.enroller.ReleaseEnrollment(ctx, cred.ShortID()); err != nil {
				uc.logger.Warnw("failed to release biometric enrollment, will retry",
					"error", err,
					"credential_id", cred.ShortID(),
				)
				continue
			}
		}

		if err := uc.credentialRepo.MarkCleanedUp(ctx, cred.ID(), now); err != nil {
			uc.logger.Errorw("failed to mark credential cleaned up",
				"error", err,
				"credential_id", cred.ShortID(),
			)
			continue
		}

		cleaned++
		uc.logger.Debugw("credential cleaned up", "credential_id", cred.ShortID())
	}

	return cleaned, nil
}
