package licenseclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	fp := Fingerprint()

	// SHA-256 hex digest
	assert.Len(t, fp, 64)
	assert.Regexp(t, "^[0-9a-f]+$", fp)

	// Stable across calls on the same machine
	assert.Equal(t, fp, Fingerprint())
}
