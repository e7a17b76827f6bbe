package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)

// registerCustomRules adds project-specific validation tags.
func registerCustomRules(v *validator.Validate) {
	// "username": lowercase letters, digits, underscores; 3-30 chars.
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
}
