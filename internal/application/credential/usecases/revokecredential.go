package usecases

import (
	"context"
	"fmt"
	"time"

	"portaria/internal/application/credential/dto"
	"portaria/internal/domain/credential"
	"portaria/internal/domain/enrollment"
	"portaria/internal/shared/biztime"
	apperrors "portaria/internal/shared/errors"
	"portaria/internal/shared/goroutine"
	"portaria/internal/shared/logger"
)

type RevokeCredentialCommand struct {
	ShortID string
	Actor   string
	Reason  string
}

type RevokeCredentialUseCase struct {
	credentialRepo credential.Repository
	enroller       enrollment.Collaborator
	logger         logger.Interface
	now            func() time.Time
}

func NewRevokeCredentialUseCase(
	credentialRepo credential.Repository,
	enroller enrollment.Collaborator,
	logger logger.Interface,
) *RevokeCredentialUseCase {
	return &RevokeCredentialUseCase{
		credentialRepo: credentialRepo,
		enroller:       enroller,
		logger:         logger,
		now:            biztime.NowUTC,
	}
}

// Execute administratively kills a credential. Idempotent: revoking an
// already-revoked credential returns its current state without error.
// Biometric material release runs in the background and never blocks.
func (uc *RevokeCredentialUseCase) Execute(ctx context.Context, cmd RevokeCredentialCommand) (*dto.CredentialDTO, error) {
	cred, err := uc.credentialRepo.GetByShortID(ctx, cmd.ShortID)
	if err != nil {
		if err == credential.ErrCredentialNotFound {
			return nil, apperrors.NewNotFoundError("credential not found")
		}
		uc.logger.Errorw("failed to get credential", "error", err, "credential_id", cmd.ShortID)
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	now := uc.now()
	alreadyRevoked := !cred.IsActive()
	cred.Revoke(cmd.Actor, cmd.Reason, now)

	if !alreadyRevoked {
		if err := uc.credentialRepo.Update(ctx, cred); err != nil {
			if err == credential.ErrVersionConflict {
				return nil, apperrors.NewConflictError("credential was modified concurrently, retry")
			}
			uc.logger.Errorw("failed to update revoked credential", "error", err, "credential_id", cmd.ShortID)
			return nil, fmt.Errorf("failed to update credential: %w", err)
		}

		if cred.BiometricRequested() {
			uc.releaseEnrollment(cred.ShortID())
		}

		uc.logger.Infow("credential revoked",
			"credential_id", cred.ShortID(),
			"actor", cmd.Actor,
			"reason", cmd.Reason,
		)
	}

	return dto.ToCredentialDTO(cred, now), nil
}

func (uc *RevokeCredentialUseCase) releaseEnrollment(credentialShortID string) {
	goroutine.SafeGo(uc.logger, "release-enrollment", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := uc.enroller.ReleaseEnrollment(ctx, credentialShortID); err != nil {
			uc.logger.Warnw("biometric enrollment release failed",
				"error", err,
				"credential_id", credentialShortID,
			)
		}
	})
}
