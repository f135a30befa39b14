// Package service holds the business logic between HTTP handlers and repositories.
package service

import (
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// notFoundOr maps a missing row to a NOT_FOUND AppError and leaves other errors alone.
func notFoundOr(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return err
}
