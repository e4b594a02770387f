package database

import (
	"gorm.io/gorm"
)

// DB is the global database handle initialized by SetupDatabase.
var DB *gorm.DB

// GetDB returns the global database handle.
func GetDB() *gorm.DB {
	return DB
}

// SetDB replaces the global database handle. Used by tests to inject an
// in-memory database.
func SetDB(db *gorm.DB) {
	DB = db
}
