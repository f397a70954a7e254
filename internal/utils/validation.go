package utils

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func init() {
	validate = validator.New()

	validate.RegisterValidation("promo_code", validatePromoCode)
	validate.RegisterValidation("strong_password", validateStrongPassword)
	validate.RegisterValidation("siret", validateSIRET)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidationErrors flattens validator errors into a field -> tag map for the
// response envelope.
func ValidationErrors(err error) map[string]string {
	details := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			details[strings.ToLower(fe.Field())] = fe.Tag()
		}
	}
	return details
}

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func validatePromoCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if len(code) < 3 || len(code) > MaxPromoCodeLength {
		return false
	}
	for _, r := range code {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
			return false
		}
	}
	return true
}

func validateStrongPassword(fl validator.FieldLevel) bool {
	return ValidatePasswordStrength(fl.Field().String()) == nil
}

// validateSIRET checks the 14-digit French business registration number.
func validateSIRET(fl validator.FieldLevel) bool {
	siret := fl.Field().String()
	if siret == "" {
		return true // optional field
	}
	if len(siret) != 14 {
		return false
	}
	for _, r := range siret {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func ValidatePasswordStrength(password string) error {
	if len(password) < PasswordMinLength {
		return ErrPasswordTooShort
	}
	if len(password) > PasswordMaxLength {
		return ErrPasswordTooLong
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return ErrPasswordTooWeak
	}
	return nil
}
