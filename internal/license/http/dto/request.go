// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/farmapp/licensing/internal/validation"
)

// ActivateRequest contains the parameters for an activation request.
type ActivateRequest struct {
	LicenseKey  string `json:"license_key"`
	HWID        string `json:"hwid"`
	DeviceLimit int    `json:"device_limit"`
}

// Validate checks if the activation request is valid.
func (r *ActivateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.LicenseKey,
			validation.Required,
			customValidation.NotBlank,
			customValidation.LicenseKey,
		),
		validation.Field(&r.HWID,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.DeviceLimit,
			validation.Min(0),
		),
	)
}

// DeactivateRequest contains the token whose device slot should be freed.
type DeactivateRequest struct {
	Token string `json:"token"`
}

// Validate checks if the deactivation request is valid.
func (r *DeactivateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}
