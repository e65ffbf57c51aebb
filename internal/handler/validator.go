package handler

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the validator instance for request validation
type Validator struct {
	validate *validator.Validate
}

var (
	globalValidator *Validator
	validatorOnce   sync.Once
)

// InitValidator initializes the global validator instance
func InitValidator() {
	validatorOnce.Do(func() {
		globalValidator = &Validator{
			validate: validator.New(validator.WithRequiredStructEnabled()),
		}
	})
}

// GetValidator returns the global validator instance, initializing it if needed
func GetValidator() *Validator {
	InitValidator()
	return globalValidator
}

// ValidateStruct validates a struct based on its validation tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError converts validator errors into a field -> message
// map suitable for a 400 response body.
func FormatValidationError(err error) map[string]string {
	errs := make(map[string]string)

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["request"] = err.Error()
		return errs
	}

	for _, fieldErr := range validationErrors {
		field := strings.ToLower(fieldErr.Field())
		switch fieldErr.Tag() {
		case "required":
			errs[field] = fmt.Sprintf("%s is required", field)
		case "min":
			errs[field] = fmt.Sprintf("%s must be at least %s", field, fieldErr.Param())
		case "max":
			errs[field] = fmt.Sprintf("%s must be at most %s", field, fieldErr.Param())
		case "gt":
			errs[field] = fmt.Sprintf("%s must be greater than %s", field, fieldErr.Param())
		case "oneof":
			errs[field] = fmt.Sprintf("%s must be one of: %s", field, fieldErr.Param())
		default:
			errs[field] = fmt.Sprintf("%s is invalid", field)
		}
	}

	return errs
}
