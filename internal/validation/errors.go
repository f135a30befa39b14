// Package validation provides input validation for forms and identifiers.
package validation

import "inkwell/internal/models"

// Messages shown next to form fields.
const (
	MsgRequired      = "This field is required."
	MsgInvalidChoice = "Select a valid choice."
	MsgInvalidImage  = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
)

// FieldErrors collects messages per form field.
type FieldErrors map[string][]string

// Add appends msg to field.
func (f FieldErrors) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

// Err returns a field validation AppError, or nil when nothing was recorded.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return models.NewFieldValidationError(f)
}
