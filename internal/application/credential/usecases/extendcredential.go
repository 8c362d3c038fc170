package usecases

import (
	"context"
	"fmt"
	"time"

	"portaria/internal/application/credential/dto"
	"portaria/internal/domain/credential"
	"portaria/internal/shared/biztime"
	apperrors "portaria/internal/shared/errors"
	"portaria/internal/shared/logger"
)

type ExtendCredentialCommand struct {
	ShortID           string
	AdditionalMinutes int
	Actor             string
	Reason            string
}

type ExtendCredentialUseCase struct {
	credentialRepo credential.Repository
	logger         logger.Interface
	now            func() time.Time
}

func NewExtendCredentialUseCase(
	credentialRepo credential.Repository,
	logger logger.Interface,
) *ExtendCredentialUseCase {
	return &ExtendCredentialUseCase{
		credentialRepo: credentialRepo,
		logger:         logger,
		now:            biztime.NowUTC,
	}
}

// Execute pushes a credential's window end forward. Extending an expired
// credential resurrects it when the new end lands in the future; extending a
// revoked one is rejected. The issuance window cap does not apply here.
func (uc *ExtendCredentialUseCase) Execute(ctx context.Context, cmd ExtendCredentialCommand) (*dto.CredentialDTO, error) {
	if cmd.AdditionalMinutes <= 0 {
		return nil, apperrors.NewValidationError("extension must be a positive number of minutes")
	}

	cred, err := uc.credentialRepo.GetByShortID(ctx, cmd.ShortID)
	if err != nil {
		if err == credential.ErrCredentialNotFound {
			return nil, apperrors.NewNotFoundError("credential not found")
		}
		uc.logger.Errorw("failed to get credential", "error", err, "credential_id", cmd.ShortID)
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	now := uc.now()
	additional := time.Duration(cmd.AdditionalMinutes) * time.Minute
	if err := cred.ExtendUntil(additional, cmd.Actor, cmd.Reason, now); err != nil {
		if err == credential.ErrCredentialRevoked {
			return nil, apperrors.NewConflictError("cannot extend a revoked credential")
		}
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := uc.credentialRepo.Update(ctx, cred); err != nil {
		if err == credential.ErrVersionConflict {
			return nil, apperrors.NewConflictError("credential was modified concurrently, retry")
		}
		uc.logger.Errorw("failed to update extended credential", "error", err, "credential_id", cmd.ShortID)
		return nil, fmt.Errorf("failed to update credential: %w", err)
	}

	uc.logger.Infow("credential extended",
		"credential_id", cred.ShortID(),
		"additional_minutes", cmd.AdditionalMinutes,
		"valid_until", cred.ValidUntil(),
		"actor", cmd.Actor,
	)

	return dto.ToCredentialDTO(cred, now), nil
}
