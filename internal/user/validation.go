// AngelaMos | 2026
// validation.go

package user

import (
	"unicode"

	"github.com/go-playground/validator/v10"
)

const passwordPatternTag = "password_pattern"

// rule pairs a validator tag with the message reported when it fails. Rules
// for a field run in declaration order; a failing "required" rule skips the
// rest of that field's rules.
type rule struct {
	field   string
	tag     string
	message string
}

var registerRules = []rule{
	{"username", "required", "Username is required"},
	{"username", "alphanum", "Username must only contain alphanumeric characters"},
	{"username", "min=3", "Username must be at least 3 characters long"},
	{"username", "max=30", "Username cannot exceed 30 characters"},
	{"password", "required", "Password is required"},
	{"password", "min=6", "Password must be at least 6 characters long"},
	{
		"password",
		passwordPatternTag,
		"Password must contain at least one uppercase letter, one lowercase letter, and one number",
	},
}

var loginRules = []rule{
	{"username", "required", "Username is required"},
	{"password", "required", "Password is required"},
}

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	//nolint:errcheck // tag and func are static
	_ = v.RegisterValidation(passwordPatternTag, validatePasswordPattern)

	return &Validator{validate: v}
}

func (v *Validator) ValidateRegister(req RegisterRequest) []string {
	return v.run(registerRules, map[string]string{
		"username": req.Username,
		"password": req.Password,
	})
}

func (v *Validator) ValidateLogin(req LoginRequest) []string {
	return v.run(loginRules, map[string]string{
		"username": req.Username,
		"password": req.Password,
	})
}

func (v *Validator) run(rules []rule, values map[string]string) []string {
	var violations []string
	missing := make(map[string]bool)

	for _, r := range rules {
		if missing[r.field] {
			continue
		}

		if err := v.validate.Var(values[r.field], r.tag); err != nil {
			violations = append(violations, r.message)
			if r.tag == "required" {
				missing[r.field] = true
			}
		}
	}

	return violations
}

func validatePasswordPattern(fl validator.FieldLevel) bool {
	var upper, lower, digit bool
	for _, c := range fl.Field().String() {
		switch {
		case unicode.IsUpper(c):
			upper = true
		case unicode.IsLower(c):
			lower = true
		case unicode.IsDigit(c):
			digit = true
		}
	}
	return upper && lower && digit
}
