// Package repository provides data access layer implementations for the application.
package repository

import (
	"inkwell/internal/database"

	"gorm.io/gorm"
)

// readDB prefers the read replica for feed reads and falls back to primary.
func readDB(primary *gorm.DB) *gorm.DB {
	if db := database.GetReadDB(); db != nil {
		return db
	}
	return primary
}
