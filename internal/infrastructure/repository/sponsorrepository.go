package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"portaria/internal/domain/sponsor"
	"portaria/internal/infrastructure/persistence/mappers"
	"portaria/internal/infrastructure/persistence/models"
	"portaria/internal/shared/logger"
)

// SponsorDirectoryImpl implements the sponsor.Directory read interface over
// the sponsor table owned by the resident management system.
type SponsorDirectoryImpl struct {
	db     *gorm.DB
	mapper mappers.SponsorMapper
	logger logger.Interface
}

// NewSponsorDirectory creates a new sponsor directory instance
func NewSponsorDirectory(db *gorm.DB, logger logger.Interface) sponsor.Directory {
	return &SponsorDirectoryImpl{
		db:     db,
		mapper: mappers.NewSponsorMapper(),
		logger: logger,
	}
}

// GetActiveSponsor returns the sponsor if present and active
func (r *SponsorDirectoryImpl) GetActiveSponsor(ctx context.Context, id uint) (*sponsor.Sponsor, error) {
	var model models.SponsorModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sponsor.ErrSponsorNotFound
		}
		r.logger.Errorw("failed to get sponsor", "sponsor_id", id, "error", err)
		return nil, fmt.Errorf("failed to get sponsor: %w", err)
	}

	return r.mapper.ToEntity(&model)
}
