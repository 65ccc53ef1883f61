package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrMissingField is returned when a required recipe field is empty.
var ErrMissingField = errors.New("required field missing")

// Recipe represents a shared recipe.
type Recipe struct {
	ID            string
	Title         string
	Description   string
	Rating        float64
	TimeToPrepare string
	// Image is an encoded image payload stored as-is.
	Image       string
	Ingredients []string
	Directions  []string
	// UserID references the creating user. Empty when the recipe has no owner.
	UserID string
	// Owner is populated by store reads when UserID resolves to a user.
	Owner     *Owner
	CreatedAt time.Time
}

// HasOwner returns true if the recipe references a user.
func (r *Recipe) HasOwner() bool {
	return r.UserID != ""
}

// Validate performs the required-field check applied before a recipe is
// stored. Values are not range- or format-checked, and ingredients and
// directions may be empty.
func (r *Recipe) Validate() error {
	required := []struct {
		field string
		empty bool
	}{
		{"title", r.Title == ""},
		{"discription", r.Description == ""},
		{"timeToPrepare", r.TimeToPrepare == ""},
		{"image", r.Image == ""},
	}

	for _, f := range required {
		if f.empty {
			return MissingFieldError(f.field)
		}
	}

	return nil
}

// FieldError names the required field that was missing.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingField, e.Field)
}

// Unwrap lets errors.Is match ErrMissingField.
func (e *FieldError) Unwrap() error {
	return ErrMissingField
}

// MissingFieldError wraps ErrMissingField with the offending field name.
func MissingFieldError(field string) error {
	return &FieldError{Field: field}
}
