// Package dto contains the form objects for the admin console.
package dto

// LoginForm represents the operator login form.
type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// CreateLicenseForm represents the license creation form. Blank customer
// and plan fall back to the defaults; the device limit floors at one.
type CreateLicenseForm struct {
	LicenseKey  string `form:"license_key"`
	Customer    string `form:"customer"`
	Plan        string `form:"plan"`
	DeviceLimit int    `form:"limit"`
	Active      bool   `form:"active"`
}

// ToggleLicenseForm represents the license enable/disable form.
type ToggleLicenseForm struct {
	LicenseKey string `form:"license_key"`
	Active     int    `form:"active"`
}

// TokenForm carries a single activation token, used by the revoke and
// remove forms.
type TokenForm struct {
	Token string `form:"token"`
}
