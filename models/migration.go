package models

import "gorm.io/gorm"

// AllModels is the target schema, parents before children.
func AllModels() []interface{} {
	return []interface{}{
		&User{}, &DailyReport{}, &Assessment{},
		&Program{}, &Activity{}, &Account{}, &Budget{}, &Realization{},
	}
}

// MigrateTable creates or upgrades the target schema.
func MigrateTable(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
