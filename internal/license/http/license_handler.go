// Package http provides the public HTTP handlers for the licensing protocol:
// activation, verification and deactivation.
package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/farmapp/licensing/internal/httputil"
	licenseDomain "github.com/farmapp/licensing/internal/license/domain"
	"github.com/farmapp/licensing/internal/license/http/dto"
	licenseUseCase "github.com/farmapp/licensing/internal/license/usecase"
	customValidation "github.com/farmapp/licensing/internal/validation"
)

// LicenseHandler handles HTTP requests for the activation protocol.
type LicenseHandler struct {
	useCase licenseUseCase.LicenseUseCase
	logger  *slog.Logger
}

// NewLicenseHandler creates a new license handler with required dependencies.
func NewLicenseHandler(useCase licenseUseCase.LicenseUseCase, logger *slog.Logger) *LicenseHandler {
	return &LicenseHandler{
		useCase: useCase,
		logger:  logger,
	}
}

// ActivateHandler binds a device fingerprint to a license.
// POST /api/v1/activate
// Returns 200 OK with a signed token, 400 for invalid keys, 403 for inactive
// licenses and exhausted device limits.
func (h *LicenseHandler) ActivateHandler(c *gin.Context) {
	var req dto.ActivateRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.useCase.Activate(c.Request.Context(), &licenseDomain.ActivateInput{
		LicenseKey:  strings.TrimSpace(req.LicenseKey),
		HWID:        req.HWID,
		DeviceLimit: req.DeviceLimit,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ActivateResponse{Token: output.Token})
}

// VerifyHandler checks the bearer token from the Authorization header.
// GET /api/v1/verify
// Returns 200 {ok:true} for valid tokens, 200 {ok:false, message} for
// revoked or invalid tokens, 401 when the header is missing.
func (h *LicenseHandler) VerifyHandler(c *gin.Context) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		c.JSON(http.StatusUnauthorized, httputil.ErrorResponse{
			Error:   "unauthorized",
			Message: "Missing token",
		})
		return
	}

	result, err := h.useCase.Verify(c.Request.Context(), token)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapVerifyResultToResponse(result))
}

// DeactivateHandler frees the device slot held by a token.
// POST /api/v1/deactivate
// Returns 200 {ok:true}; unknown tokens deactivate successfully.
func (h *LicenseHandler) DeactivateHandler(c *gin.Context) {
	var req dto.DeactivateRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.useCase.Deactivate(c.Request.Context(), req.Token); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DeactivateResponse{OK: true})
}

// bearerToken extracts the token from an Authorization header value. The
// scheme comparison is case-insensitive.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
