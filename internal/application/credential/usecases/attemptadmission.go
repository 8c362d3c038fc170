package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portaria/internal/application/credential/dto"
	"portaria/internal/domain/credential"
	"portaria/internal/shared/accesscode"
	"portaria/internal/shared/biztime"
	"portaria/internal/shared/logger"
)

// AttemptAdmissionCommand carries one checkpoint decision request.
type AttemptAdmissionCommand struct {
	Code      string
	Direction credential.Direction
	Location  string
}

// AttemptAdmissionUseCase decides whether a presented code passes a
// checkpoint. The gate fails closed: any fault between the terminal and the
// store produces a denial, never a silent grant.
type AttemptAdmissionUseCase struct {
	credentialRepo credential.Repository
	timeout        time.Duration
	logger         logger.Interface
	now            func() time.Time
}

func NewAttemptAdmissionUseCase(
	credentialRepo credential.Repository,
	timeout time.Duration,
	logger logger.Interface,
) *AttemptAdmissionUseCase {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &AttemptAdmissionUseCase{
		credentialRepo: credentialRepo,
		timeout:        timeout,
		logger:         logger,
		now:            biztime.NowUTC,
	}
}

// Execute runs the ordered admission checks and records exactly one access
// event for the decision. Entry attempts consume a quota slot atomically with
// the final check; exit attempts are validated and recorded but never consume
// quota. The returned error is non-nil only for malformed requests; gate
// faults surface as denial decisions.
func (uc *AttemptAdmissionUseCase) Execute(ctx context.Context, cmd AttemptAdmissionCommand) (*dto.AdmissionDecisionDTO, error) {
	if !cmd.Direction.IsValid() {
		return nil, fmt.Errorf("invalid direction: %s", cmd.Direction)
	}
	if cmd.Location == "" {
		return nil, fmt.Errorf("location is required")
	}

	code := accesscode.Normalize(cmd.Code)
	if code == "" {
		return nil, fmt.Errorf("access code is required")
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	now := uc.now()
	decision := uc.decide(ctx, code, cmd.Direction, cmd.Location, now)

	uc.recordDecision(code, cmd.Direction, cmd.Location, decision, now)

	if decision.outcome == credential.OutcomeDenied {
		uc.logger.Infow("admission denied",
			"location", cmd.Location,
			"direction", cmd.Direction.String(),
			"reason", decision.reason.String(),
		)
		return &dto.AdmissionDecisionDTO{
			Outcome:      credential.OutcomeDenied.String(),
			DenialReason: decision.reason.String(),
		}, nil
	}

	uc.logger.Infow("admission granted",
		"credential_id", decision.cred.ShortID(),
		"location", cmd.Location,
		"direction", cmd.Direction.String(),
	)
	return &dto.AdmissionDecisionDTO{
		Outcome:      credential.OutcomeGranted.String(),
		CredentialID: decision.cred.ShortID(),
		VisitorName:  decision.cred.Name(),
	}, nil
}

type gateDecision struct {
	outcome credential.Outcome
	reason  credential.DenialReason
	cred    *credential.Credential
}

func deny(reason credential.DenialReason, cred *credential.Credential) gateDecision {
	return gateDecision{outcome: credential.OutcomeDenied, reason: reason, cred: cred}
}

// decide runs the checks in a fixed order so the denial reason reported is
// the first failing condition, not an arbitrary one: unknown code, revoked,
// window, location, then quota.
func (uc *AttemptAdmissionUseCase) decide(
	ctx context.Context,
	code string,
	direction credential.Direction,
	location string,
	now time.Time,
) gateDecision {
	cred, err := uc.credentialRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, credential.ErrCredentialNotFound) {
			return deny(credential.DenialUnknownCode, nil)
		}
		return deny(uc.faultReason(ctx, err, "lookup"), nil)
	}

	st := credential.DeriveStatus(cred, now)
	switch st.Status {
	case credential.StatusRevoked:
		return deny(credential.DenialRevoked, cred)
	case credential.StatusExpired:
		return deny(credential.DenialExpired, cred)
	}

	if !cred.WindowOpen(now) {
		// Live credential whose window has not opened yet.
		return deny(credential.DenialWindowNotOpen, cred)
	}

	if !cred.AuthorizedAt(location) {
		return deny(credential.DenialLocationNotAuthorized, cred)
	}

	if direction == credential.DirectionExit {
		return gateDecision{outcome: credential.OutcomeGranted, cred: cred}
	}

	consumed, err := uc.credentialRepo.ConsumeEntry(ctx, cred.ID(), now)
	if err != nil {
		return deny(uc.faultReason(ctx, err, "consume"), cred)
	}
	if !consumed {
		// The conditional update found no slot. Something changed between the
		// read and the write; re-read to report the precise reason.
		return deny(uc.consumeFailureReason(ctx, cred.ID(), now), cred)
	}

	return gateDecision{outcome: credential.OutcomeGranted, cred: cred}
}

// faultReason classifies a gate fault. Deadline expiry means the terminal
// already gave up waiting; anything else is a store fault. Both deny.
func (uc *AttemptAdmissionUseCase) faultReason(ctx context.Context, err error, stage string) credential.DenialReason {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		uc.logger.Warnw("admission check timed out", "stage", stage, "error", err)
		return credential.DenialTimeout
	}
	uc.logger.Errorw("admission check hit a store fault", "stage", stage, "error", err)
	return credential.DenialStoreError
}

// consumeFailureReason re-reads the credential after a failed conditional
// consume to name the condition that blocked it.
func (uc *AttemptAdmissionUseCase) consumeFailureReason(ctx context.Context, id uint, now time.Time) credential.DenialReason {
	cred, err := uc.credentialRepo.GetByID(ctx, id)
	if err != nil {
		return uc.faultReason(ctx, err, "consume-reread")
	}

	switch credential.DeriveStatus(cred, now).Status {
	case credential.StatusRevoked:
		return credential.DenialRevoked
	case credential.StatusExpired:
		return credential.DenialExpired
	}
	if !cred.WindowOpen(now) {
		return credential.DenialWindowNotOpen
	}
	return credential.DenialEntryLimitReached
}

// recordDecision appends the access event for a gate decision. Uses a fresh
// context so an attempt that timed out still leaves its audit record; an
// append failure is logged, never surfaced to the terminal.
func (uc *AttemptAdmissionUseCase) recordDecision(
	code string,
	direction credential.Direction,
	location string,
	decision gateDecision,
	now time.Time,
) {
	var credentialID uint
	if decision.cred != nil {
		credentialID = decision.cred.ID()
	}

	event, err := credential.NewAccessEvent(credentialID, code, direction, location, decision.outcome, decision.reason, now)
	if err != nil {
		uc.logger.Errorw("failed to build access event", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := uc.credentialRepo.AppendAccessEvent(ctx, event); err != nil {
		uc.logger.Errorw("failed to record access event",
			"error", err,
			"location", location,
			"outcome", decision.outcome.String(),
		)
	}
}
