package repository

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	apperrors "github.com/roozanaryal/TwitterClone-sub000/internal/errors"
	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
	"gorm.io/gorm"
)

// ErrInvalidInput is returned when a repository method receives a nil or
// incomplete model.
var ErrInvalidInput = apperrors.ValidationError("", "invalid input")

// wrap converts a gorm error into the typed error taxonomy. Typed errors
// pass through unchanged; everything else is a store failure.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *apperrors.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return apperrors.Store(err)
}

// validID reports whether id can name a stored row. Every key is a UUID;
// anything else cannot match, and postgres rejects it in a uuid comparison.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// lookup is wrap for single-row reads: a missing row becomes NotFound.
func lookup(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(resource)
	}
	return wrap(err)
}

// NormalizeBody trims surrounding whitespace from a post or comment body
// and checks that 1 to MaxBodyLength characters remain.
func NormalizeBody(body string) (string, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return "", apperrors.ValidationError("body", "body must not be empty")
	}
	if utf8.RuneCountInString(trimmed) > models.MaxBodyLength {
		return "", apperrors.ValidationError("body", "body must be at most 280 characters")
	}
	return trimmed, nil
}
