package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/farmapp/licensing/internal/errors"
)

func TestWrapValidationError(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.Nil(t, WrapValidationError(nil))
	})

	t.Run("wraps as invalid input", func(t *testing.T) {
		err := WrapValidationError(assert.AnError)
		assert.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, NotBlank.Validate("FA-TEST-0001"))
	assert.Error(t, NotBlank.Validate(""))
	assert.Error(t, NotBlank.Validate("   "))
	assert.Error(t, NotBlank.Validate("\t\n"))
}

func TestLicenseKey(t *testing.T) {
	valid := []string{
		"FA-TEST-0001",
		"FA-0001",
		"fa-demo-1",
		"ABC-123-XYZ-999",
	}
	for _, key := range valid {
		assert.NoError(t, LicenseKey.Validate(key), "expected %q to be valid", key)
	}

	invalid := []string{
		"FATEST0001",
		"FA-",
		"-TEST",
		"FA TEST",
		"FA--TEST",
	}
	for _, key := range invalid {
		assert.Error(t, LicenseKey.Validate(key), "expected %q to be invalid", key)
	}
}

func TestHexString(t *testing.T) {
	assert.NoError(t, HexString.Validate("deadbeef0123456789ABCDEF"))
	assert.NoError(t, HexString.Validate(""))
	assert.Error(t, HexString.Validate("not-hex"))
	assert.Error(t, HexString.Validate("zzzz"))
}

func TestPasswordStrength(t *testing.T) {
	rule := PasswordStrength{
		MinLength:     8,
		RequireUpper:  true,
		RequireLower:  true,
		RequireNumber: true,
	}

	assert.NoError(t, rule.Validate("Sup3rSecret"))
	assert.Error(t, rule.Validate("short1A"))
	assert.Error(t, rule.Validate("alllowercase1"))
	assert.Error(t, rule.Validate("ALLUPPERCASE1"))
	assert.Error(t, rule.Validate("NoNumbersHere"))
	assert.Error(t, rule.Validate(42))
}
