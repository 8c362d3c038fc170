package credential

import (
	"time"

	"portaria/internal/shared/biztime"
)

// ExpiringSoonThreshold is the remaining-time window in which a live
// credential reports expiring_soon instead of active.
const ExpiringSoonThreshold = 10 * time.Minute

// StatusResult carries the derived lifecycle status together with the whole
// minutes remaining until the window closes (0 for expired and revoked).
type StatusResult struct {
	Status           Status
	MinutesRemaining int
}

// DeriveStatus maps a credential and the current instant to its lifecycle
// status. Pure: no side effects, no clock reads. Callers must not cache the
// result beyond the instant it was computed for; nothing invalidates it except
// the passage of time.
//
// Precedence: revoked wins over everything, then expired, then the
// expiring-soon warning band, then active.
func DeriveStatus(c *Credential, now time.Time) StatusResult {
	if !c.IsActive() {
		return StatusResult{Status: StatusRevoked, MinutesRemaining: 0}
	}

	if !now.Before(c.ValidUntil()) {
		return StatusResult{Status: StatusExpired, MinutesRemaining: 0}
	}

	mins := biztime.MinutesRemaining(c.ValidUntil(), now)
	if c.ValidUntil().Sub(now) <= ExpiringSoonThreshold {
		return StatusResult{Status: StatusExpiringSoon, MinutesRemaining: mins}
	}

	return StatusResult{Status: StatusActive, MinutesRemaining: mins}
}
