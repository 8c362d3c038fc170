// Package sponsor provides the read model for credential sponsors. The
// resident/unit management system owns these records; the credential manager
// only needs identity, unit linkage, and the active flag.
package sponsor

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrSponsorNotFound is returned when a sponsor is absent or inactive
	ErrSponsorNotFound = errors.New("sponsor not found")
)

// Sponsor is a resident who may issue guest credentials for their unit.
type Sponsor struct {
	id            uint
	shortID       string
	name          string
	unitID        uint
	condominiumID uint
	active        bool
}

// ReconstructSponsor reconstructs a sponsor from persistence.
func ReconstructSponsor(id uint, shortID, name string, unitID, condominiumID uint, active bool) (*Sponsor, error) {
	if id == 0 {
		return nil, fmt.Errorf("sponsor ID cannot be zero")
	}
	if name == "" {
		return nil, fmt.Errorf("sponsor name is required")
	}
	if unitID == 0 {
		return nil, fmt.Errorf("unit ID is required")
	}

	return &Sponsor{
		id:            id,
		shortID:       shortID,
		name:          name,
		unitID:        unitID,
		condominiumID: condominiumID,
		active:        active,
	}, nil
}

// ID returns the sponsor ID
func (s *Sponsor) ID() uint {
	return s.id
}

// ShortID returns the public short identifier
func (s *Sponsor) ShortID() string {
	return s.shortID
}

// Name returns the sponsor name
func (s *Sponsor) Name() string {
	return s.name
}

// UnitID returns the sponsored unit
func (s *Sponsor) UnitID() uint {
	return s.unitID
}

// CondominiumID returns the condominium the unit belongs to
func (s *Sponsor) CondominiumID() uint {
	return s.condominiumID
}

// IsActive reports whether the sponsor may currently issue credentials
func (s *Sponsor) IsActive() bool {
	return s.active
}

// Directory is the consumed lookup interface over the externally managed
// sponsor records. Deactivating a sponsor does not cascade to credentials
// they issued; issuance consults this directory at call time instead.
type Directory interface {
	// GetActiveSponsor returns the sponsor if it exists and is active,
	// ErrSponsorNotFound otherwise.
	GetActiveSponsor(ctx context.Context, id uint) (*Sponsor, error)
}
