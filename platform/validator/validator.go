// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// usStatePattern matches a two-letter US state or territory code.
var usStatePattern = regexp.MustCompile(`^[A-Za-z]{2}$`)

// Validator wraps the go-playground validator for structured validation.
// Using a struct allows for dependency injection and easier testing.
type Validator struct {
	v *validator.Validate
}

// New creates a new Validator instance with the domain rules registered.
func New() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("us_state", validateUSState)
	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

// validateUSState accepts two-letter state codes in either case. Empty values
// pass so the rule composes with omitempty.
func validateUSState(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	return usStatePattern.MatchString(s)
}
