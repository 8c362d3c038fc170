package credential

import (
	"fmt"
	"time"
)

// Note is a single timestamped entry in a credential's append-only audit trail.
type Note struct {
	Actor     string    `json:"actor"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Credential represents the guest credential aggregate root. It is a
// time-bounded visitor authorization with a gate access code and a bounded
// entry quota. All mutations go through domain methods so the version counter
// stays in step for optimistic locking.
type Credential struct {
	id             uint
	shortID        string // public Stripe-style identifier
	code           string // gate access code
	name           string
	document       string
	phone          string
	sponsorID      uint // sponsoring resident, required
	employeeID     uint // optional sponsoring employee annotation
	validFrom      time.Time
	validUntil     time.Time
	maxEntries     int
	currentEntries int
	autoExpire     bool
	locations      []string // authorized checkpoint identifiers
	isActive       bool
	notes          []Note
	biometric      bool       // biometric enrollment was requested at issuance
	cleanedUpAt    *time.Time // set by the expiration sweep after resource release
	createdAt      time.Time
	updatedAt      time.Time
	version        int
}

// NewCredential creates a new guest credential. Policy-level validation
// (window length, entry bounds against configured limits, sponsor existence)
// belongs to the application layer; this factory enforces structural
// invariants only.
func NewCredential(
	shortID string,
	code string,
	name string,
	document string,
	phone string,
	sponsorID uint,
	employeeID uint,
	validFrom, validUntil time.Time,
	maxEntries int,
	locations []string,
	biometric bool,
) (*Credential, error) {
	if shortID == "" {
		return nil, fmt.Errorf("short ID is required")
	}
	if code == "" {
		return nil, fmt.Errorf("access code is required")
	}
	if name == "" {
		return nil, fmt.Errorf("visitor name is required")
	}
	if sponsorID == 0 {
		return nil, fmt.Errorf("sponsor ID is required")
	}
	if !validFrom.Before(validUntil) {
		return nil, fmt.Errorf("validity window start must precede its end")
	}
	if maxEntries < 1 {
		return nil, fmt.Errorf("max entries must be at least 1")
	}
	if len(locations) == 0 {
		return nil, fmt.Errorf("at least one authorized location is required")
	}

	now := time.Now().UTC()
	return &Credential{
		shortID:        shortID,
		code:           code,
		name:           name,
		document:       document,
		phone:          phone,
		sponsorID:      sponsorID,
		employeeID:     employeeID,
		validFrom:      validFrom.UTC(),
		validUntil:     validUntil.UTC(),
		maxEntries:     maxEntries,
		currentEntries: 0,
		autoExpire:     true,
		locations:      locations,
		isActive:       true,
		notes:          []Note{},
		biometric:      biometric,
		createdAt:      now,
		updatedAt:      now,
		version:        1,
	}, nil
}

// ReconstructCredential reconstructs a credential from persistence.
func ReconstructCredential(
	id uint,
	shortID string,
	code string,
	name string,
	document string,
	phone string,
	sponsorID uint,
	employeeID uint,
	validFrom, validUntil time.Time,
	maxEntries int,
	currentEntries int,
	autoExpire bool,
	locations []string,
	isActive bool,
	notes []Note,
	biometric bool,
	cleanedUpAt *time.Time,
	createdAt, updatedAt time.Time,
	version int,
) (*Credential, error) {
	if id == 0 {
		return nil, fmt.Errorf("credential ID cannot be zero")
	}
	if shortID == "" {
		return nil, fmt.Errorf("short ID is required")
	}
	if code == "" {
		return nil, fmt.Errorf("access code is required")
	}
	if sponsorID == 0 {
		return nil, fmt.Errorf("sponsor ID is required")
	}
	if !validFrom.Before(validUntil) && isActive {
		// A revoked credential has its window collapsed to a point; only live
		// records must keep an open interval.
		return nil, fmt.Errorf("validity window start must precede its end")
	}
	if currentEntries < 0 || currentEntries > maxEntries {
		return nil, fmt.Errorf("entry counter %d outside [0, %d]", currentEntries, maxEntries)
	}

	if notes == nil {
		notes = []Note{}
	}

	return &Credential{
		id:             id,
		shortID:        shortID,
		code:           code,
		name:           name,
		document:       document,
		phone:          phone,
		sponsorID:      sponsorID,
		employeeID:     employeeID,
		validFrom:      validFrom,
		validUntil:     validUntil,
		maxEntries:     maxEntries,
		currentEntries: currentEntries,
		autoExpire:     autoExpire,
		locations:      locations,
		isActive:       isActive,
		notes:          notes,
		biometric:      biometric,
		cleanedUpAt:    cleanedUpAt,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
		version:        version,
	}, nil
}

// ID returns the credential ID
func (c *Credential) ID() uint {
	return c.id
}

// ShortID returns the public short identifier
func (c *Credential) ShortID() string {
	return c.shortID
}

// Code returns the gate access code
func (c *Credential) Code() string {
	return c.code
}

// Name returns the visitor name
func (c *Credential) Name() string {
	return c.name
}

// Document returns the visitor document, if recorded
func (c *Credential) Document() string {
	return c.document
}

// Phone returns the visitor phone, if recorded
func (c *Credential) Phone() string {
	return c.phone
}

// SponsorID returns the sponsoring resident ID
func (c *Credential) SponsorID() uint {
	return c.sponsorID
}

// EmployeeID returns the sponsoring employee ID, zero when absent
func (c *Credential) EmployeeID() uint {
	return c.employeeID
}

// ValidFrom returns the start of the validity window
func (c *Credential) ValidFrom() time.Time {
	return c.validFrom
}

// ValidUntil returns the end of the validity window
func (c *Credential) ValidUntil() time.Time {
	return c.validUntil
}

// MaxEntries returns the admission quota
func (c *Credential) MaxEntries() int {
	return c.maxEntries
}

// CurrentEntries returns the consumed admission count
func (c *Credential) CurrentEntries() int {
	return c.currentEntries
}

// AutoExpire reports whether the credential expires passively (always true
// under current policy)
func (c *Credential) AutoExpire() bool {
	return c.autoExpire
}

// Locations returns the authorized checkpoint identifiers
func (c *Credential) Locations() []string {
	return c.locations
}

// IsActive returns the administrative kill switch state, independent of the
// time window
func (c *Credential) IsActive() bool {
	return c.isActive
}

// Notes returns the append-only audit trail
func (c *Credential) Notes() []Note {
	return c.notes
}

// BiometricRequested reports whether biometric enrollment was requested
func (c *Credential) BiometricRequested() bool {
	return c.biometric
}

// CleanedUpAt returns when the expiration sweep released associated resources,
// nil while cleanup is pending
func (c *Credential) CleanedUpAt() *time.Time {
	return c.cleanedUpAt
}

// CreatedAt returns when the credential was issued
func (c *Credential) CreatedAt() time.Time {
	return c.createdAt
}

// UpdatedAt returns when the credential was last mutated
func (c *Credential) UpdatedAt() time.Time {
	return c.updatedAt
}

// Version returns the aggregate version for optimistic locking
func (c *Credential) Version() int {
	return c.version
}

// SetID sets the credential ID (only for persistence layer use)
func (c *Credential) SetID(id uint) error {
	if c.id != 0 {
		return fmt.Errorf("credential ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("credential ID cannot be zero")
	}
	c.id = id
	return nil
}

// WindowOpen reports whether now falls inside [validFrom, validUntil).
func (c *Credential) WindowOpen(now time.Time) bool {
	return !now.Before(c.validFrom) && now.Before(c.validUntil)
}

// AuthorizedAt reports whether the given checkpoint is in the credential's
// authorization scope.
func (c *Credential) AuthorizedAt(location string) bool {
	for _, l := range c.locations {
		if l == location {
			return true
		}
	}
	return false
}

// ExtendUntil pushes the end of the validity window forward and records an
// audit note. Extending a revoked credential is rejected; there is no upper
// bound re-check against the issuance window cap under current policy.
func (c *Credential) ExtendUntil(additional time.Duration, actor, reason string, now time.Time) error {
	if additional <= 0 {
		return fmt.Errorf("extension duration must be positive")
	}
	if !c.isActive {
		return ErrCredentialRevoked
	}

	c.validUntil = c.validUntil.Add(additional)
	c.appendNote(actor, fmt.Sprintf("extended by %s: %s", additional, reason), now)
	c.touch(now)
	return nil
}

// Revoke administratively kills the credential and collapses the validity
// window to the revocation instant. Revoking an already-revoked credential is
// a no-op, not an error.
func (c *Credential) Revoke(actor, reason string, now time.Time) {
	if !c.isActive {
		return
	}

	c.isActive = false
	c.validUntil = now.UTC()
	c.appendNote(actor, fmt.Sprintf("revoked: %s", reason), now)
	c.touch(now)
}

// RecordEntry consumes one admission slot. It enforces the same conditions the
// store-side conditional update enforces; in-memory stores serialize calls to
// this method per credential to get the atomicity the SQL path gets from the
// conditional UPDATE.
func (c *Credential) RecordEntry(now time.Time) error {
	if !c.isActive {
		return ErrCredentialRevoked
	}
	if !c.WindowOpen(now) {
		return ErrWindowClosed
	}
	if c.currentEntries >= c.maxEntries {
		return ErrEntryLimitReached
	}

	c.currentEntries++
	c.touch(now)
	return nil
}

// MarkCleanedUp records that the expiration sweep released the credential's
// temporary resources. Idempotent.
func (c *Credential) MarkCleanedUp(at time.Time) {
	if c.cleanedUpAt != nil {
		return
	}
	t := at.UTC()
	c.cleanedUpAt = &t
	c.touch(at)
}

// AppendNote adds a timestamped entry to the audit trail.
func (c *Credential) AppendNote(actor, text string, now time.Time) {
	c.appendNote(actor, text, now)
	c.touch(now)
}

func (c *Credential) appendNote(actor, text string, now time.Time) {
	c.notes = append(c.notes, Note{
		Actor:     actor,
		Text:      text,
		CreatedAt: now.UTC(),
	})
}

func (c *Credential) touch(now time.Time) {
	c.updatedAt = now.UTC()
	c.version++
}
