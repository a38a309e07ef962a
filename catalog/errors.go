package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/camden-git/moviearchive/models"
)

var (
	// ErrValidationFailed matches every *ValidationError.
	ErrValidationFailed = errors.New("validation failed")
	// ErrMissingRequiredField matches a *ValidationError in which the release
	// date or the age rating was absent.
	ErrMissingRequiredField = errors.New("missing required field")
	// ErrUnknownRole is returned when a role is outside the closed role set.
	ErrUnknownRole = models.ErrUnknownRole
	// ErrNotFound is returned by lookups that match nothing.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a unique constraint rejected the write.
	ErrConflict = errors.New("conflict")
	// ErrConstraint means a foreign key, check or not-null constraint rejected the write.
	ErrConstraint = errors.New("constraint violation")
	// ErrEmptyQuery is returned for blank title lookups and autocomplete queries.
	ErrEmptyQuery = errors.New("query must not be empty")
	// ErrInvalidSortOrder is returned for an unknown movie list order.
	ErrInvalidSortOrder = errors.New("invalid sort order")
)

// Field error codes.
const (
	CodeMissing = "missing"
	CodeInvalid = "invalid"
)

// FieldError describes one violated field of a submission.
type FieldError struct {
	Field   string
	Code    string
	Message string
}

func (fe FieldError) String() string {
	return fmt.Sprintf("%s: %s", fe.Field, fe.Message)
}

// ValidationError aggregates every violation found in a submission.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, fe := range e.Fields {
		parts = append(parts, fe.String())
	}
	return fmt.Sprintf("%s: %s", ErrValidationFailed, strings.Join(parts, "; "))
}

// Is lets callers test with errors.Is against ErrValidationFailed and ErrMissingRequiredField.
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrValidationFailed:
		return true
	case ErrMissingRequiredField:
		for _, fe := range e.Fields {
			if fe.Code == CodeMissing {
				return true
			}
		}
	}
	return false
}

func (e *ValidationError) add(field, code, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Code: code, Message: message})
}
