package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AllowedEmailDomains are the institutional domains accepted by the OTP
// login flow. The domain also decides the user's role.
var AllowedEmailDomains = map[string]string{
	"@mail.aub.edu": "student",
	"@aub.edu.lb":   "professor",
}

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationErrors converts validation errors to a user-friendly format
func FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			field := strings.ToLower(e.Field())
			switch e.Tag() {
			case "required":
				errors[field] = fmt.Sprintf("%s is required", e.Field())
			case "email":
				errors[field] = "Invalid email format"
			case "min":
				errors[field] = fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
			case "max":
				errors[field] = fmt.Sprintf("%s must be at most %s", e.Field(), e.Param())
			case "gte":
				errors[field] = fmt.Sprintf("%s must be greater than or equal to %s", e.Field(), e.Param())
			case "lte":
				errors[field] = fmt.Sprintf("%s must be less than or equal to %s", e.Field(), e.Param())
			case "oneof":
				errors[field] = fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param())
			default:
				errors[field] = fmt.Sprintf("%s is invalid", e.Field())
			}
		}
	}

	return errors
}

// IsAllowedDomain reports whether the email belongs to an accepted
// institutional domain.
func IsAllowedDomain(email string) bool {
	e := strings.ToLower(email)
	for domain := range AllowedEmailDomains {
		if strings.HasSuffix(e, domain) {
			return true
		}
	}
	return false
}

// RoleFromEmailDomain maps an allowed email to its role. Student addresses
// end with @mail.aub.edu; everything else on the allow list is professor.
func RoleFromEmailDomain(email string) string {
	e := strings.ToLower(email)
	if strings.HasSuffix(e, "@mail.aub.edu") {
		return "student"
	}
	return "professor"
}
