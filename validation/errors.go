package validation

import (
	"github.com/go-playground/validator/v10"
	"github.com/rpupo63/devsearch-backend/errs"
)

var validate = validator.New()

// Errors maps a field to every message it failed with.
type Errors map[string][]string

func (e Errors) Add(field string, messages ...string) {
	if len(messages) == 0 {
		return
	}
	e[field] = append(e[field], messages...)
}

// Check runs a validator tag against value and records message when it fails.
func (e Errors) Check(field string, value any, tag, message string) {
	if err := validate.Var(value, tag); err != nil {
		e.Add(field, message)
	}
}

func (e Errors) Empty() bool {
	return len(e) == 0
}

// Err is nil when nothing failed, otherwise a ValidationFailed error carrying the whole mapping.
func (e Errors) Err() error {
	if e.Empty() {
		return nil
	}
	return errs.NewValidationError(e)
}

// ValidEmail reports whether s is a syntactically valid address.
func ValidEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}
