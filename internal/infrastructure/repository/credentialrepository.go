package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"portaria/internal/domain/credential"
	"portaria/internal/infrastructure/persistence/mappers"
	"portaria/internal/infrastructure/persistence/models"
	"portaria/internal/shared/constants"
	apperrors "portaria/internal/shared/errors"
	"portaria/internal/shared/logger"
)

// CredentialRepositoryImpl implements the credential.Repository interface
type CredentialRepositoryImpl struct {
	db          *gorm.DB
	mapper      mappers.CredentialMapper
	eventMapper mappers.AccessEventMapper
	logger      logger.Interface
}

// NewCredentialRepository creates a new credential repository instance
func NewCredentialRepository(db *gorm.DB, logger logger.Interface) credential.Repository {
	return &CredentialRepositoryImpl{
		db:          db,
		mapper:      mappers.NewCredentialMapper(),
		eventMapper: mappers.NewAccessEventMapper(),
		logger:      logger,
	}
}

// Create persists a new credential and assigns its ID
func (r *CredentialRepositoryImpl) Create(ctx context.Context, c *credential.Credential) error {
	model, err := r.mapper.ToModel(c)
	if err != nil {
		return fmt.Errorf("failed to map credential: %w", err)
	}
	model.ID = 0

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return err
		}
		r.logger.Errorw("failed to create credential", "credential_sid", c.ShortID(), "error", err)
		return fmt.Errorf("failed to create credential: %w", err)
	}

	if err := c.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set credential ID: %w", err)
	}

	return nil
}

// GetByID retrieves a credential by internal ID
func (r *CredentialRepositoryImpl) GetByID(ctx context.Context, id uint) (*credential.Credential, error) {
	var model models.CredentialModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, credential.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

// GetByShortID retrieves a credential by its public identifier
func (r *CredentialRepositoryImpl) GetByShortID(ctx context.Context, shortID string) (*credential.Credential, error) {
	var model models.CredentialModel
	if err := r.db.WithContext(ctx).Where("short_id = ?", shortID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, credential.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

// FindByCode retrieves a credential by access code
func (r *CredentialRepositoryImpl) FindByCode(ctx context.Context, code string) (*credential.Credential, error) {
	var model models.CredentialModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, credential.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("failed to find credential by code: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

// CodeInUse reports whether an access code is already assigned
func (r *CredentialRepositoryImpl) CodeInUse(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CredentialModel{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check code uniqueness: %w", err)
	}
	return count > 0, nil
}

// Update persists aggregate mutations with an optimistic version check. The
// WHERE clause pins the version the aggregate was loaded at; zero rows
// affected means a concurrent writer won.
func (r *CredentialRepositoryImpl) Update(ctx context.Context, c *credential.Credential) error {
	model, err := r.mapper.ToModel(c)
	if err != nil {
		return fmt.Errorf("failed to map credential: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&models.CredentialModel{}).
		Where("id = ? AND version < ?", c.ID(), c.Version()).
		Updates(map[string]interface{}{
			"valid_from":      model.ValidFrom,
			"valid_until":     model.ValidUntil,
			"max_entries":     model.MaxEntries,
			"current_entries": model.CurrentEntries,
			"is_active":       model.IsActive,
			"notes":           model.Notes,
			"cleaned_up_at":   model.CleanedUpAt,
			"updated_at":      model.UpdatedAt,
			"version":         model.Version,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update credential", "credential_sid", c.ShortID(), "error", result.Error)
		return fmt.Errorf("failed to update credential: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return credential.ErrVersionConflict
	}

	return nil
}

// ConsumeEntry atomically increments the entry counter. The conditions live
// in the WHERE clause so the check and the increment are one statement; two
// concurrent attempts at the last slot cannot both match.
func (r *CredentialRepositoryImpl) ConsumeEntry(ctx context.Context, id uint, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CredentialModel{}).
		Where("id = ? AND is_active = ? AND valid_from <= ? AND valid_until > ? AND current_entries < max_entries",
			id, true, now, now).
		Updates(map[string]interface{}{
			"current_entries": gorm.Expr("current_entries + 1"),
			"version":         gorm.Expr("version + 1"),
			"updated_at":      now,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to consume entry", "credential_id", id, "error", result.Error)
		return false, fmt.Errorf("failed to consume entry: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// ListActiveByCondominium returns live credentials of the condominium's
// sponsors, soonest to expire first
func (r *CredentialRepositoryImpl) ListActiveByCondominium(ctx context.Context, condominiumID uint, now time.Time) ([]*credential.Credential, error) {
	var credModels []*models.CredentialModel
	err := r.db.WithContext(ctx).
		Joins(fmt.Sprintf("JOIN %s ON %s.id = %s.sponsor_id",
			constants.TableSponsors, constants.TableSponsors, constants.TableCredentials)).
		Where(fmt.Sprintf("%s.condominium_id = ?", constants.TableSponsors), condominiumID).
		Where(fmt.Sprintf("%s.is_active = ? AND %s.valid_until > ?",
			constants.TableCredentials, constants.TableCredentials), true, now).
		Order(fmt.Sprintf("%s.valid_until ASC", constants.TableCredentials)).
		Find(&credModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active credentials: %w", err)
	}

	return r.mapper.ToEntities(credModels)
}

// ListExpiredPendingCleanup returns active credentials past their window
// without a cleanup marker. Revoked credentials are excluded: their resources
// are released on the revoke path, not by the sweep.
func (r *CredentialRepositoryImpl) ListExpiredPendingCleanup(ctx context.Context, now time.Time, limit int) ([]*credential.Credential, error) {
	var credModels []*models.CredentialModel
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND valid_until <= ? AND cleaned_up_at IS NULL", true, now).
		Order("id ASC").
		Limit(limit).
		Find(&credModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expired credentials: %w", err)
	}

	return r.mapper.ToEntities(credModels)
}

// MarkCleanedUp sets the sweep marker without touching the rest of the row
func (r *CredentialRepositoryImpl) MarkCleanedUp(ctx context.Context, id uint, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&models.CredentialModel{}).
		Where("id = ? AND cleaned_up_at IS NULL", id).
		Updates(map[string]interface{}{
			"cleaned_up_at": at,
			"updated_at":    at,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark credential cleaned up: %w", err)
	}
	return nil
}

// AppendAccessEvent persists one gate decision record
func (r *CredentialRepositoryImpl) AppendAccessEvent(ctx context.Context, e *credential.AccessEvent) error {
	model := r.eventMapper.ToModel(e)
	model.ID = 0

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to append access event", "location", e.Location(), "error", err)
		return fmt.Errorf("failed to append access event: %w", err)
	}

	if err := e.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set access event ID: %w", err)
	}
	return nil
}

// ListAccessEvents returns the most recent gate decisions for a credential
func (r *CredentialRepositoryImpl) ListAccessEvents(ctx context.Context, credentialID uint, limit int) ([]*credential.AccessEvent, error) {
	var eventModels []*models.AccessEventModel
	err := r.db.WithContext(ctx).
		Where("credential_id = ?", credentialID).
		Order("occurred_at DESC, id DESC").
		Limit(limit).
		Find(&eventModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list access events: %w", err)
	}

	return r.eventMapper.ToEntities(eventModels)
}
