package validator

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	ErrRequired       = "is required"
	ErrMinLength      = "must be at least %s characters long"
	ErrMaxLength      = "must be at most %s characters long"
	ErrMaxItems       = "must contain at most %s items"
	ErrPositive       = "must be greater than zero"
	ErrNotBlank       = "must not be blank"
	ErrPrintable      = "must contain only printable characters"
	ErrDefaultInvalid = "is invalid"
)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("notblank", validateNotBlank)
	validator.RegisterValidation("printable", validatePrintable)

	return validator
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validatePrintable rejects control characters in free-text fields such as voucher codes.
func validatePrintable(fl validator.FieldLevel) bool {
	for _, ch := range fl.Field().String() {
		if !unicode.IsPrint(ch) {
			return false
		}
	}

	return true
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return ErrRequired
	case "min":
		return fmt.Sprintf(ErrMinLength, err.Param())
	case "max":
		if err.Kind() == reflect.Slice {
			return fmt.Sprintf(ErrMaxItems, err.Param())
		}
		return fmt.Sprintf(ErrMaxLength, err.Param())
	case "gt":
		if err.Param() == "0" {
			return ErrPositive
		}
		return ErrDefaultInvalid
	case "notblank":
		return ErrNotBlank
	case "printable":
		return ErrPrintable
	default:
		return ErrDefaultInvalid
	}
}
