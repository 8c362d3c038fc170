package usecases

import (
	"context"
	"fmt"

	"portaria/internal/application/credential/dto"
	"portaria/internal/domain/credential"
	apperrors "portaria/internal/shared/errors"
	"portaria/internal/shared/logger"
)

// DefaultAccessEventLimit caps the event history returned per request.
const DefaultAccessEventLimit = 100

type ListAccessEventsUseCase struct {
	credentialRepo credential.Repository
	logger         logger.Interface
}

func NewListAccessEventsUseCase(
	credentialRepo credential.Repository,
	logger logger.Interface,
) *ListAccessEventsUseCase {
	return &ListAccessEventsUseCase{
		credentialRepo: credentialRepo,
		logger:         logger,
	}
}

// Execute returns the most recent gate decisions for a credential, newest
// first.
func (uc *ListAccessEventsUseCase) Execute(ctx context.Context, shortID string, limit int) ([]*dto.AccessEventDTO, error) {
	if limit <= 0 || limit > DefaultAccessEventLimit {
		limit = DefaultAccessEventLimit
	}

	cred, err := uc.credentialRepo.GetByShortID(ctx, shortID)
	if err != nil {
		if err == credential.ErrCredentialNotFound {
			return nil, apperrors.NewNotFoundError("credential not found")
		}
		uc.logger.Errorw("failed to get credential", "error", err, "credential_id", shortID)
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	events, err := uc.credentialRepo.ListAccessEvents(ctx, cred.ID(), limit)
	if err != nil {
		uc.logger.Errorw("failed to list access events", "error", err, "credential_id", shortID)
		return nil, fmt.Errorf("failed to list access events: %w", err)
	}

	return dto.ToAccessEventDTOList(events), nil
}
