package database

import "inkwell/internal/models"

// PersistentModels returns the schema-managed GORM models in dependency order.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	}
}
