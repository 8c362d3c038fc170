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

type GetCredentialUseCase struct {
	credentialRepo credential.Repository
	logger         logger.Interface
	now            func() time.Time
}

func NewGetCredentialUseCase(
	credentialRepo credential.Repository,
	logger logger.Interface,
) *GetCredentialUseCase {
	return &GetCredentialUseCase{
		credentialRepo: credentialRepo,
		logger:         logger,
		now:            biztime.NowUTC,
	}
}

// Execute returns a credential by its public identifier with its lifecycle
// status derived at call time.
func (uc *GetCredentialUseCase) Execute(ctx context.Context, shortID string) (*dto.CredentialDTO, error) {
	cred, err := uc.credentialRepo.GetByShortID(ctx, shortID)
	if err != nil {
		if err == credential.ErrCredentialNotFound {
			return nil, apperrors.NewNotFoundError("credential not found")
		}
		uc.logger.Errorw("failed to get credential", "error", err, "credential_id", shortID)
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	return dto.ToCredentialDTO(cred, uc.now()), nil
}
