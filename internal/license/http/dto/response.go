package dto

import (
	licenseDomain "github.com/farmapp/licensing/internal/license/domain"
)

// ActivateResponse carries the freshly issued token.
type ActivateResponse struct {
	Token string `json:"token"`
}

// VerifyResponse reports whether a token is currently valid. Message is only
// set on failure.
type VerifyResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// DeactivateResponse acknowledges a deactivation.
type DeactivateResponse struct {
	OK bool `json:"ok"`
}

// MapVerifyResultToResponse converts a domain verification result to a response.
func MapVerifyResultToResponse(result *licenseDomain.VerifyResult) VerifyResponse {
	return VerifyResponse{
		OK:      result.OK,
		Message: result.Message,
	}
}
