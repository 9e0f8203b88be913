package domain

import (
	"time"

	"github.com/google/uuid"
)

// RevokedToken is an append-only denylist entry keyed by the literal token
// string. A revoked token can never be un-revoked; the set only grows. The
// denylist is the authoritative veto over signature validity: a structurally
// valid, unexpired token must still fail verification if present here.
type RevokedToken struct {
	ID        uuid.UUID
	Token     string
	CreatedAt time.Time
}
