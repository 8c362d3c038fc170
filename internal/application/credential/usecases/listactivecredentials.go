package usecases

import (
	"context"
	"fmt"
	"time"

	"portaria/internal/application/credential/dto"
	"portaria/internal/domain/credential"
	"portaria/internal/shared/biztime"
	"portaria/internal/shared/logger"
)

type ListActiveCredentialsUseCase struct {
	credentialRepo credential.Repository
	logger         logger.Interface
	now            func() time.Time
}

func NewListActiveCredentialsUseCase(
	credentialRepo credential.Repository,
	logger logger.Interface,
) *ListActiveCredentialsUseCase {
	return &ListActiveCredentialsUseCase{
		credentialRepo: credentialRepo,
		logger:         logger,
		now:            biztime.NowUTC,
	}
}

// Execute lists live credentials for a condominium ordered soonest-to-expire
// first. All statuses in one response are derived against the same instant.
func (uc *ListActiveCredentialsUseCase) Execute(ctx context.Context, condominiumID uint) ([]*dto.CredentialDTO, error) {
	now := uc.now()

	creds, err := uc.credentialRepo.ListActiveByCondominium(ctx, condominiumID, now)
	if err != nil {
		uc.logger.Errorw("failed to list active credentials", "error", err, "condominium_id", condominiumID)
		return nil, fmt.Errorf("failed to list active credentials: %w", err)
	}

	return dto.ToCredentialDTOList(creds, now), nil
}
