package validator

import (
	"github.com/go-playground/validator/v10"
	ierr "github.com/recurly/checkout-pricing/internal/errors"
	"github.com/recurly/checkout-pricing/internal/types"
)

var validate *validator.Validate

// NewValidator builds the validator with the checkout's custom rules
// registered. Estimate payloads carry currency codes in several places;
// the currency_code tag validates them centrally instead of per-field
// length checks.
func NewValidator() *validator.Validate {
	validate = validator.New()
	_ = validate.RegisterValidation("currency_code", func(fl validator.FieldLevel) bool {
		return types.IsValidCurrencyCode(fl.Field().String())
	})
	return validate
}

func GetValidator() *validator.Validate {
	return validate
}

func ValidateRequest(req interface{}) error {
	if validate == nil {
		return ierr.NewError("validator not initialized").
			WithHint("Validator must be initialized before using it").
			Mark(ierr.ErrSystem)
	}

	if err := validate.Struct(req); err != nil {
		details := make(map[string]any)
		var validateErrs validator.ValidationErrors
		if ierr.As(err, &validateErrs) {
			for _, err := range validateErrs {
				details[err.Field()] = err.Error()
			}
		}
		return ierr.WithError(err).
			WithHint("Fix the listed fields and resubmit the estimate").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}
