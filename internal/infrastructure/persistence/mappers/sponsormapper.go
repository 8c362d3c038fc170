package mappers

import (
	"fmt"

	"portaria/internal/domain/sponsor"
	"portaria/internal/infrastructure/persistence/models"
)

// SponsorMapper converts sponsor rows to the read model. Sponsors are never
// written by this service, so there is no ToModel direction.
type SponsorMapper interface {
	ToEntity(model *models.SponsorModel) (*sponsor.Sponsor, error)
}

type sponsorMapper struct{}

// NewSponsorMapper creates a new sponsor mapper
func NewSponsorMapper() SponsorMapper {
	return &sponsorMapper{}
}

// ToEntity converts a persistence model to the sponsor read model
func (m *sponsorMapper) ToEntity(model *models.SponsorModel) (*sponsor.Sponsor, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := sponsor.ReconstructSponsor(
		model.ID,
		model.ShortID,
		model.Name,
		model.UnitID,
		model.CondominiumID,
		model.IsActive,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct sponsor entity: %w", err)
	}

	return entity, nil
}
