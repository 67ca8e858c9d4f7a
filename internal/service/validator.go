package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/mtlprog/internfinder/internal/domain"
)

// fieldRule ties a payload field to its domain error and visitor message.
type fieldRule struct {
	err     error
	message string
}

var payloadRules = map[string]fieldRule{
	"Education": {
		err:     domain.ErrMissingEducation,
		message: "Please select your education field",
	},
	"Skills": {
		err:     domain.ErrNoSkillsSelected,
		message: "Please select at least one skill from the updated list",
	},
	"LocationPreference": {
		err:     domain.ErrMissingLocation,
		message: "Please select your preferred work location",
	},
}

// Validator checks a form payload before it is sent.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// ValidatePayload returns a *domain.SubmissionError for the first failing
// field in declaration order, or nil.
func (v *Validator) ValidatePayload(p domain.FormPayload) error {
	err := v.validate.Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate payload: %w", err)
	}

	first := fieldErrs[0]
	rule, ok := payloadRules[first.StructField()]
	if !ok {
		return &domain.SubmissionError{
			Kind:    domain.KindValidation,
			Message: fmt.Sprintf("Invalid value for %s", first.Field()),
			Err:     fmt.Errorf("%s failed %q", first.StructNamespace(), first.Tag()),
		}
	}

	return &domain.SubmissionError{
		Kind:    domain.KindValidation,
		Message: rule.message,
		Err:     rule.err,
	}
}
