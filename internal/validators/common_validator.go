package validators

import (
	"fmt"
	"strings"

	"dentastore/internal/utils"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// ValidateStruct runs tag validation and returns detailed errors
func ValidateStruct(s interface{}) ValidationErrors {
	var validationErrors ValidationErrors

	err := utils.ValidateStruct(s)
	if err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				validationErrors = append(validationErrors, ValidationError{
					Field:   strings.ToLower(fe.Field()),
					Tag:     fe.Tag(),
					Message: getErrorMessage(fe),
				})
			}
		}
	}

	return validationErrors
}

func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
	case "promo_code":
		return "Code must be 3-32 letters, digits, dashes or underscores"
	case "strong_password":
		return "Password must contain uppercase, lowercase and a digit"
	case "siret":
		return "SIRET must be a 14-digit number"
	default:
		return fmt.Sprintf("%s is invalid", err.Field())
	}
}
