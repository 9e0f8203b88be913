// Package licenseclient is the client-side library for the activation
// protocol. It activates a device against the licensing server, persists the
// issued token, verifies it on later runs, and releases the device slot on
// deactivation.
package licenseclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the licensing server used when the settings store has no
// api_base override.
const DefaultBaseURL = "https://ahmedhussein.online"

const requestTimeout = 10 * time.Second

// TransportError indicates the licensing server could not be reached or
// answered with garbage. The license state is unknown, not rejected.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("licensing server unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RejectionError indicates the server understood the request and said no,
// carrying the server's message (inactive license, device limit, bad key).
type RejectionError struct {
	StatusCode int
	Message    string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("activation rejected (%d): %s", e.StatusCode, e.Message)
}

// Client talks to the licensing server and persists client state in a Store.
type Client struct {
	baseURL    string
	store      Store
	httpClient *http.Client

	// fingerprint is resolved once per client
	fingerprint string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithFingerprint overrides the derived device fingerprint.
func WithFingerprint(fingerprint string) Option {
	return func(c *Client) {
		c.fingerprint = fingerprint
	}
}

// NewClient creates a licensing client. baseURL may be empty, in which case
// the store's api_base setting and then DefaultBaseURL apply.
func NewClient(baseURL string, store Store, opts ...Option) *Client {
	if baseURL == "" {
		if stored, err := store.Get(SettingAPIBase); err == nil && stored != "" {
			baseURL = stored
		}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		store:      store,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.fingerprint == "" {
		c.fingerprint = Fingerprint()
	}
	return c
}

type activateRequest struct {
	LicenseKey  string `json:"license_key"`
	HWID        string `json:"hwid"`
	DeviceLimit int    `json:"device_limit"`
}

type activateResponse struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type deactivateRequest struct {
	Token string `json:"token"`
}

// Activate sends the license key and device fingerprint to the server and
// persists the issued token. Returns the token, a *RejectionError when the
// server refuses, or a *TransportError when it cannot be reached.
func (c *Client) Activate(ctx context.Context, licenseKey string, deviceLimit int) (string, error) {
	if deviceLimit < 1 {
		deviceLimit = 1
	}
	payload := activateRequest{
		LicenseKey:  strings.TrimSpace(licenseKey),
		HWID:        c.fingerprint,
		DeviceLimit: deviceLimit,
	}

	var result activateResponse
	if _, err := c.postJSON(ctx, "/api/v1/activate", payload, &result); err != nil {
		return "", err
	}
	if result.Token == "" {
		return "", &TransportError{Err: fmt.Errorf("empty token in activation response")}
	}

	if err := c.store.Set(SettingLicenseToken, result.Token); err != nil {
		return "", fmt.Errorf("failed to persist token: %w", err)
	}
	return result.Token, nil
}

// Verify asks the server whether token is still good. Unreachable server or
// malformed response count as invalid: verification fails closed.
func (c *Client) Verify(ctx context.Context, token string) bool {
	token = strings.TrimSpace(token)
	if token == "" {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/verify", nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var result verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false
	}
	return result.OK
}

// Deactivate frees the device slot on the server and clears the saved token.
// The local token is cleared even when the server call fails, so the device
// never keeps using a slot it tried to give up. Returns whether the server
// acknowledged the deactivation.
func (c *Client) Deactivate(ctx context.Context, token string) bool {
	token = strings.TrimSpace(token)
	if token == "" {
		return true
	}

	var acknowledged bool
	status, err := c.postJSON(ctx, "/api/v1/deactivate", deactivateRequest{Token: token}, &struct{}{})
	if err == nil && status == http.StatusOK {
		acknowledged = true
	}

	_ = c.store.Set(SettingLicenseToken, "")
	return acknowledged
}

// SavedToken returns the persisted token, or an empty string.
func (c *Client) SavedToken() string {
	token, err := c.store.Get(SettingLicenseToken)
	if err != nil {
		return ""
	}
	return token
}

// IsValid verifies the persisted token against the server.
func (c *Client) IsValid(ctx context.Context) bool {
	return c.Verify(ctx, c.SavedToken())
}

// postJSON posts payload and decodes a 200 response body into result. For
// non-200 responses it decodes the server's error message into a
// *RejectionError instead.
func (c *Client) postJSON(ctx context.Context, path string, payload, result any) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, &TransportError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, &TransportError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, &RejectionError{
			StatusCode: resp.StatusCode,
			Message:    extractErrorMessage(respBody),
		}
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return resp.StatusCode, &TransportError{Err: err}
	}
	return resp.StatusCode, nil
}

// extractErrorMessage pulls a human-readable message out of an error body.
func extractErrorMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	return strings.TrimSpace(string(body))
}
