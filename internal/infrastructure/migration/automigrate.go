package migration

import (
	"portaria/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.SponsorModel{},
		&models.CredentialModel{},
		&models.AccessEventModel{},
	}
}
