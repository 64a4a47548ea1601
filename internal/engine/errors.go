package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrNotFound = errors.New("not found")

// ValidationError indicates input that fails a structural precondition.
// Nothing is mutated when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// InvalidTransitionError indicates a status change not permitted from the
// entity's current state. The entity is left unchanged.
type InvalidTransitionError struct {
	Entity string
	ID     string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s transition %s -> %s for %s", e.Entity, e.From, e.To, e.ID)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

// fromValidator converts the first validator failure into a ValidationError.
func fromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Reason: err.Error()}
	}
	fe := verrs[0]
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return invalid(field, "is required")
	case "gte", "min":
		return invalid(field, "must be at least "+fe.Param())
	case "oneof":
		return invalid(field, "must be one of "+strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		return invalid(field, "must be a date in "+fe.Param()+" format")
	default:
		return invalid(field, "failed "+fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
