// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	otelmetric "go.opentelemetry.io/otel/metric"

	adminHTTP "github.com/farmapp/licensing/internal/admin/http"
	adminRepository "github.com/farmapp/licensing/internal/admin/repository"
	adminService "github.com/farmapp/licensing/internal/admin/service"
	adminUsecase "github.com/farmapp/licensing/internal/admin/usecase"
	"github.com/farmapp/licensing/internal/config"
	"github.com/farmapp/licensing/internal/database"
	"github.com/farmapp/licensing/internal/http"
	licenseHTTP "github.com/farmapp/licensing/internal/license/http"
	licenseRepository "github.com/farmapp/licensing/internal/license/repository"
	licenseService "github.com/farmapp/licensing/internal/license/service"
	licenseUsecase "github.com/farmapp/licensing/internal/license/usecase"
	"github.com/farmapp/licensing/internal/metrics"
	webhookHTTP "github.com/farmapp/licensing/internal/webhook/http"
	webhookService "github.com/farmapp/licensing/internal/webhook/service"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger *slog.Logger
	db     *sql.DB

	// Managers
	txManager database.TxManager

	// Repositories
	licenseRepo      licenseUsecase.LicenseRepository
	activationRepo   licenseUsecase.ActivationRepository
	revokedTokenRepo licenseUsecase.RevokedTokenRepository
	adminRepo        adminUsecase.AdminUserRepository

	// Services
	tokenAuthority  licenseService.TokenAuthority
	passwordService adminService.PasswordService
	sessionStore    adminService.SessionStore

	// Use Cases
	licenseUseCase licenseUsecase.LicenseUseCase
	adminUseCase   adminUsecase.AdminUseCase

	// Metrics
	metricsProvider *metrics.Provider

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	txManagerInit       sync.Once
	licenseRepoInit     sync.Once
	activationRepoInit  sync.Once
	revokedRepoInit     sync.Once
	adminRepoInit       sync.Once
	tokenAuthorityInit  sync.Once
	passwordServiceInit sync.Once
	sessionStoreInit    sync.Once
	licenseUseCaseInit  sync.Once
	adminUseCaseInit    sync.Once
	metricsInit         sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := database.Connect(database.Config{
			Driver:             c.config.DBDriver,
			ConnectionString:   c.config.DBConnectionString,
			MaxOpenConnections: c.config.DBMaxOpenConnections,
			MaxIdleConnections: c.config.DBMaxIdleConnections,
			ConnMaxLifetime:    c.config.DBConnMaxLifetime,
		})
		if err != nil {
			c.initErrors["db"] = fmt.Errorf("failed to connect to database: %w", err)
			return
		}
		c.db = db
	})
	if err, exists := c.initErrors["db"]; exists {
		return nil, err
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["txManager"] = fmt.Errorf("failed to get database for tx manager: %w", err)
			return
		}
		c.txManager = database.NewTxManager(db)
	})
	if err, exists := c.initErrors["txManager"]; exists {
		return nil, err
	}
	return c.txManager, nil
}

// LicenseRepository returns the license repository instance.
func (c *Container) LicenseRepository() (licenseUsecase.LicenseRepository, error) {
	c.licenseRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["licenseRepo"] = err
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.licenseRepo = licenseRepository.NewMySQLLicenseRepository(db)
		case "postgres":
			c.licenseRepo = licenseRepository.NewPostgreSQLLicenseRepository(db)
		default:
			c.initErrors["licenseRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["licenseRepo"]; exists {
		return nil, err
	}
	return c.licenseRepo, nil
}

// ActivationRepository returns the activation repository instance.
func (c *Container) ActivationRepository() (licenseUsecase.ActivationRepository, error) {
	c.activationRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["activationRepo"] = err
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.activationRepo = licenseRepository.NewMySQLActivationRepository(db)
		case "postgres":
			c.activationRepo = licenseRepository.NewPostgreSQLActivationRepository(db)
		default:
			c.initErrors["activationRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["activationRepo"]; exists {
		return nil, err
	}
	return c.activationRepo, nil
}

// RevokedTokenRepository returns the revoked token repository instance.
func (c *Container) RevokedTokenRepository() (licenseUsecase.RevokedTokenRepository, error) {
	c.revokedRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["revokedRepo"] = err
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.revokedTokenRepo = licenseRepository.NewMySQLRevokedTokenRepository(db)
		case "postgres":
			c.revokedTokenRepo = licenseRepository.NewPostgreSQLRevokedTokenRepository(db)
		default:
			c.initErrors["revokedRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["revokedRepo"]; exists {
		return nil, err
	}
	return c.revokedTokenRepo, nil
}

// AdminUserRepository returns the admin user repository instance.
func (c *Container) AdminUserRepository() (adminUsecase.AdminUserRepository, error) {
	c.adminRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["adminRepo"] = err
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.adminRepo = adminRepository.NewMySQLAdminUserRepository(db)
		case "postgres":
			c.adminRepo = adminRepository.NewPostgreSQLAdminUserRepository(db)
		default:
			c.initErrors["adminRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["adminRepo"]; exists {
		return nil, err
	}
	return c.adminRepo, nil
}

// TokenAuthority returns the token signing service.
// Loading the keypair may hit a KMS keeper, hence the context.
func (c *Container) TokenAuthority(ctx context.Context) (licenseService.TokenAuthority, error) {
	c.tokenAuthorityInit.Do(func() {
		keys, err := licenseService.LoadSigningKeys(
			ctx,
			c.config.PrivateKeyPath,
			c.config.PublicKeyPath,
			c.config.KMSKeyURI,
		)
		if err != nil {
			c.initErrors["tokenAuthority"] = fmt.Errorf("failed to load signing keys: %w", err)
			return
		}

		authority, err := licenseService.NewTokenAuthority(
			keys.PrivateKey,
			keys.PublicKey,
			c.config.TokenIssuer,
			c.config.TokenAudience,
			c.config.TokenValidity,
		)
		if err != nil {
			c.initErrors["tokenAuthority"] = fmt.Errorf("failed to create token authority: %w", err)
			return
		}
		c.tokenAuthority = authority
	})
	if err, exists := c.initErrors["tokenAuthority"]; exists {
		return nil, err
	}
	return c.tokenAuthority, nil
}

// PasswordService returns the password hashing service.
func (c *Container) PasswordService() adminService.PasswordService {
	c.passwordServiceInit.Do(func() {
		c.passwordService = adminService.NewPasswordService()
	})
	return c.passwordService
}

// SessionStore returns the admin session store.
func (c *Container) SessionStore() adminService.SessionStore {
	c.sessionStoreInit.Do(func() {
		c.sessionStore = adminService.NewMemorySessionStore(c.config.AdminSessionTTL)
	})
	return c.sessionStore
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metrics"] = fmt.Errorf("failed to create metrics provider: %w", err)
			return
		}
		c.metricsProvider = provider
	})
	if err, exists := c.initErrors["metrics"]; exists {
		return nil, err
	}
	return c.metricsProvider, nil
}

// LicenseUseCase returns the license use case instance, wrapped with business
// metrics when metrics are enabled.
func (c *Container) LicenseUseCase(ctx context.Context) (licenseUsecase.LicenseUseCase, error) {
	c.licenseUseCaseInit.Do(func() {
		useCase, err := c.initLicenseUseCase(ctx)
		if err != nil {
			c.initErrors["licenseUseCase"] = err
			return
		}
		c.licenseUseCase = useCase
	})
	if err, exists := c.initErrors["licenseUseCase"]; exists {
		return nil, err
	}
	return c.licenseUseCase, nil
}

// AdminUseCase returns the admin use case instance.
func (c *Container) AdminUseCase() (adminUsecase.AdminUseCase, error) {
	c.adminUseCaseInit.Do(func() {
		adminRepo, err := c.AdminUserRepository()
		if err != nil {
			c.initErrors["adminUseCase"] = fmt.Errorf("failed to get admin repository: %w", err)
			return
		}
		c.adminUseCase = adminUsecase.NewAdminUseCase(adminRepo, c.PasswordService(), c.SessionStore())
	})
	if err, exists := c.initErrors["adminUseCase"]; exists {
		return nil, err
	}
	return c.adminUseCase, nil
}

// HTTPServer returns the HTTP server instance.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer(ctx)
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if err, exists := c.initErrors["httpServer"]; exists {
		return nil, err
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server instance, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if err, exists := c.initErrors["metricsServer"]; exists {
		return nil, err
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initLicenseUseCase creates the license use case with all its dependencies.
func (c *Container) initLicenseUseCase(ctx context.Context) (licenseUsecase.LicenseUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager: %w", err)
	}

	licenseRepo, err := c.LicenseRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get license repository: %w", err)
	}

	activationRepo, err := c.ActivationRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get activation repository: %w", err)
	}

	revokedTokenRepo, err := c.RevokedTokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get revoked token repository: %w", err)
	}

	tokenAuthority, err := c.TokenAuthority(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get token authority: %w", err)
	}

	useCase := licenseUsecase.NewLicenseUseCase(
		txManager,
		licenseRepo,
		activationRepo,
		revokedTokenRepo,
		tokenAuthority,
		c.config.SelfServiceKeyPrefix,
	)

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider != nil {
		businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			return nil, fmt.Errorf("failed to create business metrics: %w", err)
		}
		useCase = licenseUsecase.NewLicenseUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer(ctx context.Context) (*http.Server, error) {
	logger := c.Logger()

	licenseUseCase, err := c.LicenseUseCase(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get license use case: %w", err)
	}

	adminUseCase, err := c.AdminUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get admin use case: %w", err)
	}

	licenseHandler := licenseHTTP.NewLicenseHandler(licenseUseCase, logger)
	adminHandler := adminHTTP.NewAdminHandler(adminUseCase, licenseUseCase, logger)
	webhookHandler := webhookHTTP.NewWebhookHandler(
		licenseUseCase,
		webhookService.NewHMACSignatureVerifier(c.config.WebhookHMACKey),
		logger,
	)

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	var meterProvider otelmetric.MeterProvider
	if provider != nil {
		meterProvider = provider.MeterProvider()
	}

	return http.NewServer(
		c.config,
		logger,
		licenseHandler,
		adminHandler,
		webhookHandler,
		meterProvider,
	), nil
}
