package task

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type createInput struct {
	Title       string `validate:"required"`
	Description string `validate:"required"`
}

type updateInput struct {
	Title       *string `validate:"required_without=Description"`
	Description *string `validate:"required_without=Title"`
}

func validateCreate(title, description string) (createInput, error) {
	in := createInput{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
	}
	if err := validateStruct(in, ErrMissingFields); err != nil {
		return createInput{}, err
	}
	return in, nil
}

// validateUpdate treats blank values the same as absent ones.
func validateUpdate(title, description *string) (updateInput, error) {
	in := updateInput{
		Title:       nonBlank(title),
		Description: nonBlank(description),
	}
	if err := validateStruct(in, ErrNoFieldsToUpdate); err != nil {
		return updateInput{}, err
	}
	return in, nil
}

func validateStruct(v any, sentinel error) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return sentinel
	}
	return err
}

func nonBlank(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
