// Package http provides the payment webhook handler. Successful payment
// events provision a license for the paying customer.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farmapp/licensing/internal/httputil"
	licenseDomain "github.com/farmapp/licensing/internal/license/domain"
	licenseUsecase "github.com/farmapp/licensing/internal/license/usecase"
	"github.com/farmapp/licensing/internal/webhook/service"
)

// SignatureHeader carries the provider's HMAC-SHA512 hex digest of the raw
// request body.
const SignatureHeader = "X-Hmac-Signature"

// paymentEvent is the slice of the provider payload the handler acts on.
type paymentEvent struct {
	Success     bool   `json:"success"`
	LicenseKey  string `json:"license_key"`
	Customer    string `json:"customer"`
	Plan        string `json:"plan"`
	DeviceLimit int    `json:"device_limit"`
}

// WebhookHandler handles payment provider callbacks.
type WebhookHandler struct {
	licenseUseCase licenseUsecase.LicenseUseCase
	verifier       service.SignatureVerifier
	logger         *slog.Logger
}

// NewWebhookHandler creates a new WebhookHandler instance.
func NewWebhookHandler(
	licenseUseCase licenseUsecase.LicenseUseCase,
	verifier service.SignatureVerifier,
	logger *slog.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		licenseUseCase: licenseUseCase,
		verifier:       verifier,
		logger:         logger,
	}
}

// PaymentHandler verifies the body signature and provisions a license for
// successful payment events. Replayed events for an already-provisioned key
// still answer ok.
func (h *WebhookHandler) PaymentHandler(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if h.verifier.Enabled() {
		signature := c.GetHeader(SignatureHeader)
		if !h.verifier.Verify(body, signature) {
			h.logger.Warn("webhook signature mismatch", "remote_addr", c.ClientIP())
			c.JSON(http.StatusForbidden, httputil.ErrorResponse{
				Error:   "forbidden",
				Message: "Invalid HMAC",
			})
			return
		}
	}

	var event paymentEvent
	if err := json.Unmarshal(body, &event); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if event.Success && event.LicenseKey != "" {
		input := &licenseDomain.CreateLicenseInput{
			Key:         event.LicenseKey,
			Customer:    event.Customer,
			Plan:        event.Plan,
			DeviceLimit: event.DeviceLimit,
			IsActive:    true,
		}
		if _, err := h.licenseUseCase.CreateLicense(c.Request.Context(), input); err != nil &&
			!errors.Is(err, licenseDomain.ErrLicenseExists) {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		h.logger.Info("license provisioned from payment event", "license_key", event.LicenseKey)
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
