// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"
	"unicode"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/keywhiz/internal/errors"
)

// emailRegex is a basic email validation pattern.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// SecretName validates a secret series name. Names must be non-empty,
// printable, and must not contain the ".." display-name delimiter, which is
// reserved for composing "name..version" identifiers.
var SecretName = validation.NewStringRuleWithError(
	func(s string) bool {
		if s == "" || strings.Contains(s, "..") {
			return false
		}
		return isPrintable(s)
	},
	validation.NewError("validation_secret_name", "must be non-empty, printable and must not contain '..'"),
)

// KeyID validates a content key identifier: at most 16 printable ASCII characters.
var KeyID = validation.NewStringRuleWithError(
	func(s string) bool {
		if s == "" || len(s) > 16 {
			return false
		}
		for _, r := range s {
			if r < '!' || r > '~' {
				return false
			}
		}
		return true
	},
	validation.NewError("validation_key_id", "must be at most 16 printable ASCII characters"),
)

// MetadataKeys validates a metadata map: every key must be a non-empty
// printable string. Values are opaque and not checked.
type MetadataKeys struct{}

// Validate checks all keys of a map[string]string value.
func (MetadataKeys) Validate(value interface{}) error {
	m, ok := value.(map[string]string)
	if !ok {
		if value == nil {
			return nil
		}
		return validation.NewError("validation_metadata", "metadata must be a string map")
	}
	for key := range m {
		if key == "" || !isPrintable(key) {
			return validation.NewError("validation_metadata_key", "metadata keys must be printable non-empty strings")
		}
	}
	return nil
}

// Email validates email format.
var Email = validation.NewStringRuleWithError(
	func(s string) bool {
		return emailRegex.MatchString(s)
	},
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// PasswordStrength validates that a password meets minimum security requirements.
type PasswordStrength struct {
	MinLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireNumber  bool
	RequireSpecial bool
}

// Validate checks if the password meets the configured requirements.
func (p PasswordStrength) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_password_strength", "password must be a string")
	}

	if len(s) < p.MinLength {
		return validation.NewError("validation_password_min_length", "password is too short")
	}

	if p.RequireUpper && !containsClass(s, unicode.IsUpper) {
		return validation.NewError(
			"validation_password_uppercase",
			"password must contain at least one uppercase letter",
		)
	}

	if p.RequireLower && !containsClass(s, unicode.IsLower) {
		return validation.NewError(
			"validation_password_lowercase",
			"password must contain at least one lowercase letter",
		)
	}

	if p.RequireNumber && !containsClass(s, unicode.IsNumber) {
		return validation.NewError("validation_password_number", "password must contain at least one number")
	}

	if p.RequireSpecial && !containsClass(s, isSpecialChar) {
		return validation.NewError(
			"validation_password_special",
			"password must contain at least one special character",
		)
	}

	return nil
}

func containsClass(s string, class func(rune) bool) bool {
	for _, r := range s {
		if class(r) {
			return true
		}
	}
	return false
}

func isSpecialChar(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// isPrintable reports whether every rune of s is printable (no control characters).
func isPrintable(s string) bool {
	for _, r := range s {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
