package db

import (
	"log/slog"

	"compliance-portal/internal/domain"

	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return err
	}

	slog.Info("database schema migrated successfully")
	return nil
}
