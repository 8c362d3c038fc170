package models

import (
	"time"

	"portaria/internal/shared/constants"
)

// AccessEventModel represents the database persistence model for gate
// decisions. Rows are append-only; there is no update path.
type AccessEventModel struct {
	ID           uint      `gorm:"primarykey"`
	CredentialID uint      `gorm:"index:idx_event_credential"`
	Code         string    `gorm:"not null;size:8"`
	Direction    string    `gorm:"not null;size:8"`
	Location     string    `gorm:"not null;size:64"`
	Outcome      string    `gorm:"not null;size:8"`
	DenialReason string    `gorm:"size:32"`
	OccurredAt   time.Time `gorm:"not null;index:idx_event_occurred"`
}

// TableName specifies the table name for GORM
func (AccessEventModel) TableName() string {
	return constants.TableAccessEvents
}
