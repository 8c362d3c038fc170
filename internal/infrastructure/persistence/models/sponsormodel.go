package models

import (
	"time"

	"portaria/internal/shared/constants"
)

// SponsorModel represents the database persistence model for sponsors. The
// resident management system owns these rows; the credential manager reads
// them and never writes.
type SponsorModel struct {
	ID            uint   `gorm:"primarykey"`
	ShortID       string `gorm:"not null;size:16;uniqueIndex:idx_sponsor_short_id"`
	Name          string `gorm:"not null;size:120"`
	UnitID        uint   `gorm:"not null;index"`
	CondominiumID uint   `gorm:"not null;index:idx_sponsor_condominium"`
	IsActive      bool   `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName specifies the table name for GORM
func (SponsorModel) TableName() string {
	return constants.TableSponsors
}
