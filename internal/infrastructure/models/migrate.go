package models

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema in dependency order
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Store{},
		&User{},
		&Product{},
		&SupplyRequest{},
	)
}
