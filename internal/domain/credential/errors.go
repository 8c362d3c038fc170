package credential

import "errors"

var (
	// ErrCredentialNotFound is returned when a credential is not found
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrCredentialRevoked is returned when an operation requires a live
	// credential but the kill switch is set
	ErrCredentialRevoked = errors.New("credential revoked")

	// ErrWindowClosed is returned when an entry is recorded outside the
	// validity window
	ErrWindowClosed = errors.New("credential validity window closed")

	// ErrEntryLimitReached is returned when the admission quota is exhausted
	ErrEntryLimitReached = errors.New("entry limit reached")

	// ErrVersionConflict is returned by the store when an optimistic
	// concurrency check fails; callers re-read and retry
	ErrVersionConflict = errors.New("credential version conflict")

	// ErrCodeInUse is returned when an access code collides with a live one
	ErrCodeInUse = errors.New("access code already in use")
)
