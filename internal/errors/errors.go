package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound                    = New(ErrCodeNotFound, "resource not found")
	ErrValidation                  = New(ErrCodeValidation, "validation error")
	ErrInvalidOperation            = New(ErrCodeInvalidOperation, "invalid operation")
	ErrInvalidCurrency             = New(ErrCodeInvalidCurrency, "currency is not supported by the checkout")
	ErrInvalidSubscriptionCurrency = New(ErrCodeInvalidSubscriptionCurrency, "subscription currencies do not intersect with the checkout")
	ErrInvalidPlanCurrency         = New(ErrCodeInvalidPlanCurrency, "plan currencies conflict with a sibling subscription")
	ErrGiftCardCurrencyMismatch    = New(ErrCodeGiftCardCurrencyMismatch, "gift card currency does not match the checkout currency")
	ErrHTTPClient                  = New(ErrCodeHTTPClient, "http client error")
	ErrSystem                      = New(ErrCodeSystemError, "system error")
	// maps errors to http status codes
	statusCodeMap = map[error]int{
		ErrHTTPClient:                  http.StatusInternalServerError,
		ErrNotFound:                    http.StatusNotFound,
		ErrValidation:                  http.StatusBadRequest,
		ErrInvalidOperation:            http.StatusBadRequest,
		ErrInvalidCurrency:             http.StatusUnprocessableEntity,
		ErrInvalidSubscriptionCurrency: http.StatusUnprocessableEntity,
		ErrInvalidPlanCurrency:         http.StatusUnprocessableEntity,
		ErrGiftCardCurrencyMismatch:    http.StatusUnprocessableEntity,
		ErrSystem:                      http.StatusInternalServerError,
	}
)

const (
	ErrCodeHTTPClient                  = "http_client_error"
	ErrCodeSystemError                 = "system_error"
	ErrCodeNotFound                    = "not_found"
	ErrCodeValidation                  = "invalid_option"
	ErrCodeInvalidOperation            = "invalid_operation"
	ErrCodeInvalidCurrency             = "invalid_currency"
	ErrCodeInvalidSubscriptionCurrency = "invalid_subscription_currency"
	ErrCodeInvalidPlanCurrency         = "invalid_plan_currency"
	ErrCodeGiftCardCurrencyMismatch    = "gift_card_currency_mismatch"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

// New creates a new InternalError
func New(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidOperation checks if an error is an invalid operation error
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsInvalidCurrency checks if an error is any of the currency resolution errors
func IsInvalidCurrency(err error) bool {
	return errors.Is(err, ErrInvalidCurrency) ||
		errors.Is(err, ErrInvalidSubscriptionCurrency) ||
		errors.Is(err, ErrInvalidPlanCurrency)
}

// IsGiftCardCurrencyMismatch checks if an error is a gift card currency mismatch
func IsGiftCardCurrencyMismatch(err error) bool {
	return errors.Is(err, ErrGiftCardCurrencyMismatch)
}

// IsHTTPClient checks if an error is an http client error
func IsHTTPClient(err error) bool {
	return errors.Is(err, ErrHTTPClient)
}

func HTTPStatusFromErr(err error) int {
	for e, status := range statusCodeMap {
		if errors.Is(err, e) {
			return status
		}
	}
	return http.StatusInternalServerError
}
