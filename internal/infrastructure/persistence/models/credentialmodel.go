package models

import (
	"time"

	"gorm.io/datatypes"

	"portaria/internal/shared/constants"
)

// CredentialModel represents the database persistence model for guest
// credentials. This is the anti-corruption layer between domain and database.
// Lifecycle status is intentionally absent: it is derived from the window and
// the active flag at read time, never stored.
type CredentialModel struct {
	ID             uint           `gorm:"primarykey"`
	ShortID        string         `gorm:"not null;size:16;uniqueIndex:idx_credential_short_id"`
	Code           string         `gorm:"not null;size:8;uniqueIndex:idx_credential_code"`
	Name           string         `gorm:"not null;size:120"`
	Document       string         `gorm:"size:32"`
	Phone          string         `gorm:"size:32"`
	SponsorID      uint           `gorm:"not null;index:idx_credential_sponsor"`
	EmployeeID     uint           `gorm:"index"`
	ValidFrom      time.Time      `gorm:"not null"`
	ValidUntil     time.Time      `gorm:"not null;index:idx_credential_valid_until"`
	MaxEntries     int            `gorm:"not null;default:1"`
	CurrentEntries int            `gorm:"not null;default:0"`
	AutoExpire     bool           `gorm:"not null;default:true"`
	Locations      datatypes.JSON `gorm:"not null"`
	IsActive       bool           `gorm:"not null;default:true;index:idx_credential_active"`
	Notes          datatypes.JSON
	Biometric      bool       `gorm:"not null;default:false"`
	CleanedUpAt    *time.Time `gorm:"index:idx_credential_cleanup"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Version        int `gorm:"not null;default:1"`
}

// TableName specifies the table name for GORM
func (CredentialModel) TableName() string {
	return constants.TableCredentials
}
