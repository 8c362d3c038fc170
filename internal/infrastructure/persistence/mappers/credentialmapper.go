package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"portaria/internal/domain/credential"
	"portaria/internal/infrastructure/persistence/models"
)

// CredentialMapper handles the conversion between domain entities and persistence models
type CredentialMapper interface {
	// ToEntity converts a persistence model to a domain entity
	ToEntity(model *models.CredentialModel) (*credential.Credential, error)

	// ToModel converts a domain entity to a persistence model
	ToModel(entity *credential.Credential) (*models.CredentialModel, error)

	// ToEntities converts multiple persistence models to domain entities
	ToEntities(models []*models.CredentialModel) ([]*credential.Credential, error)
}

// credentialMapper is the concrete implementation of CredentialMapper
type credentialMapper struct{}

// NewCredentialMapper creates a new credential mapper
func NewCredentialMapper() CredentialMapper {
	return &credentialMapper{}
}

// ToEntity converts a persistence model to a domain entity
func (m *credentialMapper) ToEntity(model *models.CredentialModel) (*credential.Credential, error) {
	if model == nil {
		return nil, nil
	}

	var locations []string
	if len(model.Locations) > 0 {
		if err := json.Unmarshal(model.Locations, &locations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal locations for credential %d: %w", model.ID, err)
		}
	}

	var notes []credential.Note
	if len(model.Notes) > 0 {
		if err := json.Unmarshal(model.Notes, &notes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal notes for credential %d: %w", model.ID, err)
		}
	}

	entity, err := credential.ReconstructCredential(
		model.ID,
		model.ShortID,
		model.Code,
		model.Name,
		model.Document,
		model.Phone,
		model.SponsorID,
		model.EmployeeID,
		model.ValidFrom,
		model.ValidUntil,
		model.MaxEntries,
		model.CurrentEntries,
		model.AutoExpire,
		locations,
		model.IsActive,
		notes,
		model.Biometric,
		model.CleanedUpAt,
		model.CreatedAt,
		model.UpdatedAt,
		model.Version,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct credential entity: %w", err)
	}

	return entity, nil
}

// ToModel converts a domain entity to a persistence model
func (m *credentialMapper) ToModel(entity *credential.Credential) (*models.CredentialModel, error) {
	if entity == nil {
		return nil, nil
	}

	locations, err := json.Marshal(entity.Locations())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal locations: %w", err)
	}

	notes, err := json.Marshal(entity.Notes())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notes: %w", err)
	}

	return &models.CredentialModel{
		ID:             entity.ID(),
		ShortID:        entity.ShortID(),
		Code:           entity.Code(),
		Name:           entity.Name(),
		Document:       entity.Document(),
		Phone:          entity.Phone(),
		SponsorID:      entity.SponsorID(),
		EmployeeID:     entity.EmployeeID(),
		ValidFrom:      entity.ValidFrom(),
		ValidUntil:     entity.ValidUntil(),
		MaxEntries:     entity.MaxEntries(),
		CurrentEntries: entity.CurrentEntries(),
		AutoExpire:     entity.AutoExpire(),
		Locations:      datatypes.JSON(locations),
		IsActive:       entity.IsActive(),
		Notes:          datatypes.JSON(notes),
		Biometric:      entity.BiometricRequested(),
		CleanedUpAt:    entity.CleanedUpAt(),
		CreatedAt:      entity.CreatedAt(),
		UpdatedAt:      entity.UpdatedAt(),
		Version:        entity.Version(),
	}, nil
}

// ToEntities converts multiple persistence models to domain entities
func (m *credentialMapper) ToEntities(credModels []*models.CredentialModel) ([]*credential.Credential, error) {
	entities := make([]*credential.Credential, 0, len(credModels))

	for i, model := range credModels {
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
