// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"
	"unicode"

	validation "github.com/jellydator/validation"

	apperrors "github.com/farmapp/licensing/internal/errors"
)

var (
	// licenseKeyRegex matches license keys: an uppercase alphanumeric prefix
	// followed by dash-separated alphanumeric groups (e.g. FA-TEST-0001).
	licenseKeyRegex = regexp.MustCompile(`^[A-Za-z0-9]+(-[A-Za-z0-9]+)+$`)

	// hexRegex matches lowercase or uppercase hex strings.
	hexRegex = regexp.MustCompile(`^[0-9a-fA-F]+$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// LicenseKey validates the dash-separated license key format
var LicenseKey = validation.NewStringRuleWithError(
	func(s string) bool {
		return licenseKeyRegex.MatchString(s)
	},
	validation.NewError("validation_license_key", "must be a dash-separated license key"),
)

// HexString validates that a string contains only hexadecimal characters.
// Device fingerprints are hex-encoded digests.
var HexString = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == "" || hexRegex.MatchString(s)
	},
	validation.NewError("validation_hex", "must be a hex-encoded string"),
)

// PasswordStrength validates password meets minimum security requirements
type PasswordStrength struct {
	MinLength     int
	RequireUpper  bool
	RequireLower  bool
	RequireNumber bool
}

// Validate checks if the password meets the configured requirements
func (p PasswordStrength) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_password_strength", "password must be a string")
	}

	if len(s) < p.MinLength {
		return validation.NewError(
			"validation_password_min_length",
			"password is too short",
		)
	}

	if p.RequireUpper && !hasRune(s, unicode.IsUpper) {
		return validation.NewError(
			"validation_password_uppercase",
			"password must contain at least one uppercase letter",
		)
	}

	if p.RequireLower && !hasRune(s, unicode.IsLower) {
		return validation.NewError(
			"validation_password_lowercase",
			"password must contain at least one lowercase letter",
		)
	}

	if p.RequireNumber && !hasRune(s, unicode.IsNumber) {
		return validation.NewError("validation_password_number", "password must contain at least one number")
	}

	return nil
}

// hasRune checks if string contains a rune matching the predicate
func hasRune(s string, pred func(rune) bool) bool {
	for _, r := range s {
		if pred(r) {
			return true
		}
	}
	return false
}
