// Package http provides the HTTP handlers for the admin console: session
// authentication, the dashboard, and the operator-side license controls.
package http

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/farmapp/licensing/internal/admin/http/dto"
	adminUsecase "github.com/farmapp/licensing/internal/admin/usecase"
	"github.com/farmapp/licensing/internal/httputil"
	licenseDomain "github.com/farmapp/licensing/internal/license/domain"
	licenseUsecase "github.com/farmapp/licensing/internal/license/usecase"
)

// SessionCookieName is the cookie carrying the operator session token.
const SessionCookieName = "fa_admin"

// sessionCookieMaxAge bounds the cookie lifetime; the server-side store
// enforces the real TTL.
const sessionCookieMaxAge = 12 * 60 * 60

//go:embed templates/*.html
var templatesFS embed.FS

// Templates parses the embedded admin console templates. The router installs
// them on the gin engine at startup.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templatesFS, "templates/*.html"))
}

// AdminHandler handles the admin console HTTP requests.
type AdminHandler struct {
	adminUseCase   adminUsecase.AdminUseCase
	licenseUseCase licenseUsecase.LicenseUseCase
	logger         *slog.Logger
}

// NewAdminHandler creates a new AdminHandler instance.
func NewAdminHandler(
	adminUseCase adminUsecase.AdminUseCase,
	licenseUseCase licenseUsecase.LicenseUseCase,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		adminUseCase:   adminUseCase,
		licenseUseCase: licenseUseCase,
		logger:         logger,
	}
}

// RequireSession redirects requests without a live operator session to the
// login page.
func (h *AdminHandler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || !h.adminUseCase.IsAuthenticated(token) {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoginFormHandler renders the login page. Operators with a live session are
// sent straight to the dashboard.
func (h *AdminHandler) LoginFormHandler(c *gin.Context) {
	if token, err := c.Cookie(SessionCookieName); err == nil && h.adminUseCase.IsAuthenticated(token) {
		c.Redirect(http.StatusFound, "/admin")
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{"Error": ""})
}

// LoginSubmitHandler verifies the submitted credentials and starts a session.
func (h *AdminHandler) LoginSubmitHandler(c *gin.Context) {
	var form dto.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	token, err := h.adminUseCase.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		c.HTML(http.StatusOK, "login.html", gin.H{"Error": "Invalid username or password"})
		return
	}

	c.SetCookie(SessionCookieName, token, sessionCookieMaxAge, "/", "", false, true)
	c.Redirect(http.StatusFound, "/admin")
}

// LogoutHandler destroys the session and clears the cookie.
func (h *AdminHandler) LogoutHandler(c *gin.Context) {
	if token, err := c.Cookie(SessionCookieName); err == nil {
		h.adminUseCase.Logout(token)
	}
	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/admin/login")
}

// activationRow is an activation joined with its license key for display.
type activationRow struct {
	LicenseKey string
	HWID       string
	Token      string
}

// DashboardHandler renders the totals and the license and activation tables.
func (h *AdminHandler) DashboardHandler(c *gin.Context) {
	var (
		stats       *licenseDomain.Stats
		licenses    []*licenseDomain.License
		activations []*licenseDomain.Activation
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		stats, err = h.licenseUseCase.Stats(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		licenses, err = h.licenseUseCase.ListLicenses(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		activations, err = h.licenseUseCase.ListActivations(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	keysByID := make(map[string]string, len(licenses))
	for _, l := range licenses {
		keysByID[l.ID.String()] = l.Key
	}
	rows := make([]activationRow, 0, len(activations))
	for _, a := range activations {
		rows = append(rows, activationRow{
			LicenseKey: keysByID[a.LicenseID.String()],
			HWID:       a.HWID,
			Token:      a.Token,
		})
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"TotalLicenses":    stats.Licenses,
		"TotalActivations": stats.Activations,
		"TotalRevoked":     stats.RevokedTokens,
		"Licenses":         licenses,
		"Activations":      rows,
	})
}

// LicenseCreateHandler creates a license from the dashboard form.
func (h *AdminHandler) LicenseCreateHandler(c *gin.Context) {
	var form dto.CreateLicenseForm
	if err := c.ShouldBind(&form); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	input := &licenseDomain.CreateLicenseInput{
		Key:         form.LicenseKey,
		Customer:    form.Customer,
		Plan:        form.Plan,
		DeviceLimit: form.DeviceLimit,
		IsActive:    form.Active,
	}
	if _, err := h.licenseUseCase.CreateLicense(c.Request.Context(), input); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Redirect(http.StatusFound, "/admin")
}

// LicenseToggleHandler enables or disables a license.
func (h *AdminHandler) LicenseToggleHandler(c *gin.Context) {
	var form dto.ToggleLicenseForm
	if err := c.ShouldBind(&form); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	active := form.Active != 0
	if _, err := h.licenseUseCase.SetLicenseActive(c.Request.Context(), form.LicenseKey, active); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Redirect(http.StatusFound, "/admin")
}

// TokenRevokeHandler denylists a token and removes its activation.
func (h *AdminHandler) TokenRevokeHandler(c *gin.Context) {
	var form dto.TokenForm
	if err := c.ShouldBind(&form); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := h.licenseUseCase.RevokeToken(c.Request.Context(), form.Token); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Redirect(http.StatusFound, "/admin")
}

// ActivationRemoveHandler frees a device slot without revoking the token.
func (h *AdminHandler) ActivationRemoveHandler(c *gin.Context) {
	var form dto.TokenForm
	if err := c.ShouldBind(&form); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := h.licenseUseCase.RemoveActivation(c.Request.Context(), form.Token); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Redirect(http.StatusFound, "/admin")
}
