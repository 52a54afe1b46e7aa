package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks request bodies against their validate tags.
type Validator struct {
	validate *validator.Validate
}

// NewValidator returns a Validator.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Struct validates data and folds field failures into one error.
func (v *Validator) Struct(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	messages := make([]string, len(validationErrors))
	for i, ve := range validationErrors {
		messages[i] = "field '" + ve.Namespace() + "' failed validation tag '" + ve.Tag() + "'"
	}

	return errors.New(strings.Join(messages, "; "))
}
