package credential

import (
	"fmt"
	"time"
)

// AccessEvent is the immutable record of one admission attempt, granted or
// denied. Every gate decision produces exactly one event; denials are never
// silently dropped.
type AccessEvent struct {
	id           uint
	credentialID uint
	code         string
	direction    Direction
	location     string
	outcome      Outcome
	denialReason DenialReason
	occurredAt   time.Time
}

// NewAccessEvent creates an access event for a gate decision. credentialID is
// zero for attempts with an unknown code; the attempted code is recorded for
// audit either way.
func NewAccessEvent(
	credentialID uint,
	code string,
	direction Direction,
	location string,
	outcome Outcome,
	denialReason DenialReason,
	occurredAt time.Time,
) (*AccessEvent, error) {
	if code == "" {
		return nil, fmt.Errorf("attempted code is required")
	}
	if !direction.IsValid() {
		return nil, fmt.Errorf("invalid direction: %s", direction)
	}
	if location == "" {
		return nil, fmt.Errorf("location is required")
	}
	if outcome == OutcomeGranted && denialReason != "" {
		return nil, fmt.Errorf("granted event cannot carry a denial reason")
	}
	if outcome == OutcomeDenied && denialReason == "" {
		return nil, fmt.Errorf("denied event requires a denial reason")
	}

	return &AccessEvent{
		credentialID: credentialID,
		code:         code,
		direction:    direction,
		location:     location,
		outcome:      outcome,
		denialReason: denialReason,
		occurredAt:   occurredAt.UTC(),
	}, nil
}

// ReconstructAccessEvent reconstructs an access event from persistence.
func ReconstructAccessEvent(
	id uint,
	credentialID uint,
	code string,
	direction Direction,
	location string,
	outcome Outcome,
	denialReason DenialReason,
	occurredAt time.Time,
) (*AccessEvent, error) {
	if id == 0 {
		return nil, fmt.Errorf("access event ID cannot be zero")
	}

	return &AccessEvent{
		id:           id,
		credentialID: credentialID,
		code:         code,
		direction:    direction,
		location:     location,
		outcome:      outcome,
		denialReason: denialReason,
		occurredAt:   occurredAt,
	}, nil
}

// ID returns the event ID
func (e *AccessEvent) ID() uint {
	return e.id
}

// CredentialID returns the referenced credential ID, zero for unknown codes
func (e *AccessEvent) CredentialID() uint {
	return e.credentialID
}

// Code returns the attempted access code
func (e *AccessEvent) Code() string {
	return e.code
}

// Direction returns entry or exit
func (e *AccessEvent) Direction() Direction {
	return e.direction
}

// Location returns the checkpoint identifier
func (e *AccessEvent) Location() string {
	return e.location
}

// Outcome returns granted or denied
func (e *AccessEvent) Outcome() Outcome {
	return e.outcome
}

// DenialReason returns the reason code for denied events, empty for grants
func (e *AccessEvent) DenialReason() DenialReason {
	return e.denialReason
}

// OccurredAt returns when the gate decision was made
func (e *AccessEvent) OccurredAt() time.Time {
	return e.occurredAt
}

// SetID sets the event ID (only for persistence layer use)
func (e *AccessEvent) SetID(id uint) error {
	if e.id != 0 {
		return fmt.Errorf("access event ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("access event ID cannot be zero")
	}
	e.id = id
	return nil
}
