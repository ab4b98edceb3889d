package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	ierr "github.com/parsapay/checkout/internal/errors"
)

var validate *validator.Validate

func NewValidator() *validator.Validate {
	validate = validator.New()
	return validate
}

func GetValidator() *validator.Validate {
	return validate
}

// ValidateRequest runs struct tag validation and converts failures into a
// validation error whose per-field details are safe to echo back to the
// storefront
func ValidateRequest(req interface{}) error {
	if validate == nil {
		return ierr.NewError("validator not initialized").
			WithHint("Request could not be validated").
			Mark(ierr.ErrSystem)
	}

	if err := validate.Struct(req); err != nil {
		details := make(map[string]any)
		var validateErrs validator.ValidationErrors
		if ierr.As(err, &validateErrs) {
			for _, fieldErr := range validateErrs {
				details[fieldErr.Field()] = fmt.Sprintf("failed on the %s rule", fieldErr.Tag())
			}
		}
		return ierr.WithError(err).
			WithHint("Request payload failed validation").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}
