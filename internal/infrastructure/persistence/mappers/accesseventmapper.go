package mappers

import (
	"fmt"

	"portaria/internal/domain/credential"
	"portaria/internal/infrastructure/persistence/models"
)

// AccessEventMapper handles the conversion between gate decision entities and
// persistence models
type AccessEventMapper interface {
	ToEntity(model *models.AccessEventModel) (*credential.AccessEvent, error)
	ToModel(entity *credential.AccessEvent) *models.AccessEventModel
	ToEntities(models []*models.AccessEventModel) ([]*credential.AccessEvent, error)
}

type accessEventMapper struct{}

// NewAccessEventMapper creates a new access event mapper
func NewAccessEventMapper() AccessEventMapper {
	return &accessEventMapper{}
}

// ToEntity converts a persistence model to a domain entity
func (m *accessEventMapper) ToEntity(model *models.AccessEventModel) (*credential.AccessEvent, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := credential.ReconstructAccessEvent(
		model.ID,
		model.CredentialID,
		model.Code,
		credential.Direction(model.Direction),
		model.Location,
		credential.Outcome(model.Outcome),
		credential.DenialReason(model.DenialReason),
		model.OccurredAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct access event entity: %w", err)
	}

	return entity, nil
}

// ToModel converts a domain entity to a persistence model
func (m *accessEventMapper) ToModel(entity *credential.AccessEvent) *models.AccessEventModel {
	if entity == nil {
		return nil
	}

	return &models.AccessEventModel{
		ID:           entity.ID(),
		CredentialID: entity.CredentialID(),
		Code:         entity.Code(),
		Direction:    entity.Direction().String(),
		Location:     entity.Location(),
		Outcome:      entity.Outcome().String(),
		DenialReason: entity.DenialReason().String(),
		OccurredAt:   entity.OccurredAt(),
	}
}

// ToEntities converts multiple persistence models to domain entities
func (m *accessEventMapper) ToEntities(eventModels []*models.AccessEventModel) ([]*credential.AccessEvent, error) {
	entities := make([]*credential.AccessEvent, 0, len(eventModels))

	for i, model := range eventModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, fmt.Errorf("failed to map model at index %d (ID %d): %w", i, model.ID, err)
		}
		if entity != nil {
			entities = append(entities, entity)
		}
	}

	return entities, nil
}
