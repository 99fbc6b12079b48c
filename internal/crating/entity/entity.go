package entity

import "gorm.io/gorm"

// AutoMigrate creates the crating subsystem tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Draft{},
		&SettingsVersion{},
	)
}
