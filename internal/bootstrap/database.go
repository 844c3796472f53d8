package bootstrap

import (
	"fmt"

	"gorm.io/gorm"

	"studentportal/internal/models"
)

// Migrate ensures required tables exist.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}

func allModels() []interface{} {
	return []interface{}{
		&models.Student{},
		&models.Subject{},
		&models.Registration{},
		&models.Schedule{},
		&models.TuitionFee{},
		&models.PaymentAttempt{},
	}
}
