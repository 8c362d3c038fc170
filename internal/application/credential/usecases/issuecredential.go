package usecases

import (
	"context"
	"fmt"
	"time"

	"portaria/internal/application/credential/dto"
	"portaria/internal/domain/credential"
	"portaria/internal/domain/enrollment"
	"portaria/internal/domain/sponsor"
	"portaria/internal/shared/accesscode"
	"portaria/internal/shared/biztime"
	apperrors "portaria/internal/shared/errors"
	"portaria/internal/shared/goroutine"
	"portaria/internal/shared/id"
	"portaria/internal/shared/logger"
)

// IssuancePolicy carries the configured issuance limits.
type IssuancePolicy struct {
	MaxWindowHours int
	MinEntries     int
	MaxEntries     int
	CodeLength     int
	CodeRetryLimit int
}

// IssueCredentialCommand carries the issuance request. ValidFrom and
// ValidUntil must already be in UTC; the interface layer normalizes them.
type IssueCredentialCommand struct {
	Name       string
	Document   string
	Phone      string
	SponsorID  uint
	EmployeeID uint
	ValidFrom  time.Time
	ValidUntil time.Time
	MaxEntries int
	Locations  []string
	Biometric  bool
}

type IssueCredentialUseCase struct {
	credentialRepo credential.Repository
	sponsors       sponsor.Directory
	enroller       enrollment.Collaborator
	policy         IssuancePolicy
	logger         logger.Interface
	now            func() time.Time
}

func NewIssueCredentialUseCase(
	credentialRepo credential.Repository,
	sponsors sponsor.Directory,
	enroller enrollment.Collaborator,
	policy IssuancePolicy,
	logger logger.Interface,
) *IssueCredentialUseCase {
	return &IssueCredentialUseCase{
		credentialRepo: credentialRepo,
		sponsors:       sponsors,
		enroller:       enroller,
		policy:         policy,
		logger:         logger,
		now:            biztime.NowUTC,
	}
}

// Execute validates issuance policy, allocates a unique access code, and
// persists the new credential. Biometric capture, when requested, is kicked
// off after the credential is durably stored and never blocks the response.
func (uc *IssueCredentialUseCase) Execute(ctx context.Context, cmd IssueCredentialCommand) (*dto.CredentialDTO, error) {
	now := uc.now()

	if err := uc.validatePolicy(cmd, now); err != nil {
		return nil, err
	}

	sp, err := uc.sponsors.GetActiveSponsor(ctx, cmd.SponsorID)
	if err != nil {
		if err == sponsor.ErrSponsorNotFound {
			return nil, apperrors.NewValidationError("sponsor not found or inactive")
		}
		uc.logger.Errorw("failed to look up sponsor", "error", err, "sponsor_id", cmd.SponsorID)
		return nil, fmt.Errorf("failed to look up sponsor: %w", err)
	}

	code, err := uc.allocateCode(ctx)
	if err != nil {
		return nil, err
	}

	shortID, err := id.NewCredentialID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate credential ID: %w", err)
	}

	cred, err := credential.NewCredential(
		shortID,
		code,
		cmd.Name,
		cmd.Document,
		cmd.Phone,
		sp.ID(),
		cmd.EmployeeID,
		cmd.ValidFrom,
		cmd.ValidUntil,
		cmd.MaxEntries,
		cmd.Locations,
		cmd.Biometric,
	)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := uc.credentialRepo.Create(ctx, cred); err != nil {
		if apperrors.IsDuplicateError(err) {
			// The code collided with a concurrent issuance after our
			// uniqueness probe. Rare enough to surface as retryable.
			return nil, apperrors.NewCodeExhaustionError("could not allocate a unique access code")
		}
		uc.logger.Errorw("failed to persist credential", "error", err, "credential_id", shortID)
		return nil, fmt.Errorf("failed to persist credential: %w", err)
	}

	if cmd.Biometric {
		uc.requestEnrollment(cred.ShortID())
	}

	uc.logger.Infow("credential issued",
		"credential_id", cred.ShortID(),
		"sponsor_id", sp.ID(),
		"valid_from", cred.ValidFrom(),
		"valid_until", cred.ValidUntil(),
		"max_entries", cred.MaxEntries(),
		"biometric", cmd.Biometric,
	)

	return dto.ToCredentialDTO(cred, now), nil
}

func (uc *IssueCredentialUseCase) validatePolicy(cmd IssueCredentialCommand, now time.Time) error {
	if cmd.ValidFrom.Before(now.Add(-time.Minute)) {
		return apperrors.NewValidationError("validity window cannot start in the past")
	}
	if !cmd.ValidFrom.Before(cmd.ValidUntil) {
		return apperrors.NewValidationError("validity window start must precede its end")
	}

	maxWindow := time.Duration(uc.policy.MaxWindowHours) * time.Hour
	if cmd.ValidUntil.Sub(cmd.ValidFrom) > maxWindow {
		return apperrors.NewValidationError(
			fmt.Sprintf("validity window exceeds the %d hour limit", uc.policy.MaxWindowHours))
	}

	if cmd.MaxEntries < uc.policy.MinEntries || cmd.MaxEntries > uc.policy.MaxEntries {
		return apperrors.NewValidationError(
			fmt.Sprintf("max entries must be between %d and %d", uc.policy.MinEntries, uc.policy.MaxEntries))
	}

	if len(cmd.Locations) == 0 {
		return apperrors.NewValidationError("at least one authorized location is required")
	}

	return nil
}

// allocateCode draws random codes until one is free or the retry budget is
// exhausted. The store's unique index remains the final arbiter; this probe
// just keeps the happy path from hitting it.
func (uc *IssueCredentialUseCase) allocateCode(ctx context.Context) (string, error) {
	length := accesscode.ClampLength(uc.policy.CodeLength)

	for attempt := 0; attempt < uc.policy.CodeRetryLimit; attempt++ {
		code, err := accesscode.Generate(length)
		if err != nil {
			return "", fmt.Errorf("failed to generate access code: %w", err)
		}

		inUse, err := uc.credentialRepo.CodeInUse(ctx, code)
		if err != nil {
			uc.logger.Errorw("failed to check code uniqueness", "error", err)
			return "", fmt.Errorf("failed to check code uniqueness: %w", err)
		}
		if !inUse {
			return code, nil
		}
	}

	uc.logger.Warnw("access code allocation exhausted retries",
		"attempts", uc.policy.CodeRetryLimit,
		"code_length", length,
	)
	return "", apperrors.NewCodeExhaustionError("could not allocate a unique access code")
}

func (uc *IssueCredentialUseCase) requestEnrollment(credentialShortID string) {
	goroutine.SafeGo(uc.logger, "request-enrollment", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := uc.enroller.RequestEnrollment(ctx, credentialShortID); err != nil {
			uc.logger.Warnw("biometric enrollment request failed",
				"error", err,
				"credential_id", credentialShortID,
			)
		}
	})
}
