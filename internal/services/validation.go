package services

import (
	"Drivebox/internal/errs"
	"Drivebox/internal/helpers"
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validateInput runs struct tags and reports the first failure as a Validation error.
func validateInput(input interface{}) error {
	if err := validate.Struct(input); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			e := validationErrs[0]
			return errs.Validation("%s: validation failed on '%s' tag", e.Field(), e.Tag())
		}
		return errs.Validation("%s", err.Error())
	}
	return nil
}

func cleanName(name string) (string, error) {
	cleaned, ok := helpers.CleanItemName(name)
	if !ok {
		return "", errs.Validation("invalid item name %q", name)
	}
	return cleaned, nil
}
