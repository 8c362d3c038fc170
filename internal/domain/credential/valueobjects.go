// Package credential provides the guest credential aggregate and the pure
// status derivation used by every read path. A credential's lifecycle state is
// never stored: it is a function of the administrative kill switch and the
// validity window against the current instant.
package credential

// Status represents the derived lifecycle status of a guest credential
type Status string

const (
	// StatusActive indicates the credential is usable
	StatusActive Status = "active"
	// StatusExpiringSoon indicates the credential is within the warning window
	StatusExpiringSoon Status = "expiring_soon"
	// StatusExpired indicates the validity window has closed
	StatusExpired Status = "expired"
	// StatusRevoked indicates the credential was administratively killed
	StatusRevoked Status = "revoked"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusExpiringSoon, StatusExpired, StatusRevoked:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// Admissible reports whether a credential in this status may pass a checkpoint.
func (s Status) Admissible() bool {
	return s == StatusActive || s == StatusExpiringSoon
}

// Direction represents the direction of an admission attempt
type Direction string

const (
	DirectionEntry Direction = "entry"
	DirectionExit  Direction = "exit"
)

// IsValid checks if the direction is valid
func (d Direction) IsValid() bool {
	switch d {
	case DirectionEntry, DirectionExit:
		return true
	default:
		return false
	}
}

// String returns the string representation of the direction
func (d Direction) String() string {
	return string(d)
}

// Outcome represents the result of an admission attempt
type Outcome string

const (
	OutcomeGranted Outcome = "granted"
	OutcomeDenied  Outcome = "denied"
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	return string(o)
}

// DenialReason is the machine-readable reason code attached to a denied
// admission attempt. Checkpoints display these codes; they never see raw
// internal error text.
type DenialReason string

const (
	DenialUnknownCode           DenialReason = "unknown_code"
	DenialExpired               DenialReason = "expired"
	DenialRevoked               DenialReason = "revoked"
	DenialWindowNotOpen         DenialReason = "window_not_open"
	DenialLocationNotAuthorized DenialReason = "location_not_authorized"
	DenialEntryLimitReached     DenialReason = "entry_limit_reached"
	DenialTimeout               DenialReason = "timeout"
	DenialStoreError            DenialReason = "store_error"
)

// String returns the string representation of the denial reason
func (r DenialReason) String() string {
	return string(r)
}
