package database

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewSqlite opens the single-file local variant of the item store.
func NewSqlite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(),
	})
	return db, err
}
