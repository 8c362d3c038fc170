package credential

import (
	"context"
	"time"
)

// Repository defines the persistence contract for guest credentials and their
// access events. It is the only boundary that touches the durable store; no
// component caches credential state across calls beyond one logical operation.
type Repository interface {
	// Create persists a new credential and assigns its ID
	Create(ctx context.Context, c *Credential) error

	// GetByID retrieves a credential by internal ID.
	// Returns ErrCredentialNotFound when absent.
	GetByID(ctx context.Context, id uint) (*Credential, error)

	// GetByShortID retrieves a credential by its public short identifier.
	// Returns ErrCredentialNotFound when absent.
	GetByShortID(ctx context.Context, shortID string) (*Credential, error)

	// FindByCode retrieves a credential by access code.
	// Returns ErrCredentialNotFound when absent.
	FindByCode(ctx context.Context, code string) (*Credential, error)

	// CodeInUse reports whether an access code is already assigned.
	// Uniqueness is enforced globally (see design notes).
	CodeInUse(ctx context.Context, code string) (bool, error)

	// Update persists aggregate mutations with an optimistic version check.
	// Returns ErrVersionConflict when a concurrent writer got there first.
	Update(ctx context.Context, c *Credential) error

	// ConsumeEntry atomically increments the entry counter if and only if the
	// credential is active, its window is open at now, and the quota is not
	// exhausted. Returns true when a slot was consumed. The check and the
	// increment are a single atomic unit with respect to concurrent attempts
	// on the same credential.
	ConsumeEntry(ctx context.Context, id uint, now time.Time) (bool, error)

	// ListActiveByCondominium returns credentials of sponsors in the given
	// condominium whose window has not closed and which are not revoked,
	// ordered by ascending validUntil (soonest to expire first).
	ListActiveByCondominium(ctx context.Context, condominiumID uint, now time.Time) ([]*Credential, error)

	// ListExpiredPendingCleanup returns credentials past their window that the
	// expiration sweep has not yet cleaned up, capped at limit.
	ListExpiredPendingCleanup(ctx context.Context, now time.Time, limit int) ([]*Credential, error)

	// MarkCleanedUp sets the sweep marker so later ticks skip the credential
	MarkCleanedUp(ctx context.Context, id uint, at time.Time) error

	// AppendAccessEvent persists one gate decision record
	AppendAccessEvent(ctx context.Context, e *AccessEvent) error

	// ListAccessEvents returns the most recent gate decisions for a
	// credential, newest first, capped at limit.
	ListAccessEvents(ctx context.Context, credentialID uint, limit int) ([]*AccessEvent, error)
}
