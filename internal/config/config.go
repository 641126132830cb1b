package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/straye-as/relation-sync/internal/secrets"
	"go.uber.org/zap"
)

// Config holds all application configuration
type Config struct {
	App            AppConfig
	Gateway        GatewayConfig
	Session        SessionConfig
	ServiceAccount ServiceAccountConfig
	Database       DatabaseConfig
	Refresh        RefreshConfig
	Secrets        SecretsConfig
	Logging        LoggingConfig
	Server         ServerConfig
	CORS           CORSConfig
	Security       SecurityConfig
	RateLimit      RateLimitConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

// IsProduction reports whether cookies and headers should use production settings
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// GatewayConfig describes the remote CRM REST API
type GatewayConfig struct {
	// BaseURL is the API root, e.g. http://127.0.0.1:8000/api
	BaseURL string
	// RequestTimeout bounds every Gateway call (seconds)
	RequestTimeout int
	// CalendarTaskPageSize is the task page fetched for calendar projection
	CalendarTaskPageSize int
	// IdempotencyKeys attaches an Idempotency-Key header to create calls
	IdempotencyKeys bool
}

// SessionConfig controls the browser credential cookie
type SessionConfig struct {
	CookieName string
	CookiePath string
}

// ServiceAccountConfig is the credential used by background refresh jobs
type ServiceAccountConfig struct {
	Username string
	Password string // Loaded from secrets or environment
}

// Configured reports whether background jobs can log in on their own
func (s *ServiceAccountConfig) Configured() bool {
	return s.Username != "" && s.Password != ""
}

// DatabaseConfig holds the snapshot cache database settings
type DatabaseConfig struct {
	// Driver is "sqlite" (default) or "postgres"
	Driver          string
	Path            string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	// AutoMigrate runs embedded migrations on start-up
	AutoMigrate bool
}

// RefreshConfig controls the scheduled store reload
type RefreshConfig struct {
	Enabled bool
	Cron    string
	// Timeout bounds one refresh run (seconds)
	Timeout int
}

type SecretsConfig struct {
	// Source determines where secrets are loaded from: "environment", "vault", or "auto"
	// "auto" uses environment in development, vault in staging/production
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	// AllowedOrigins is a list of allowed origins for CORS requests
	// Use "*" to allow all origins (not recommended for production)
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	// MaxAge is the max age (in seconds) for preflight cache
	MaxAge int
}

// SecurityConfig holds security header configuration
type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	ContentSecurityPolicy string
	FrameOptions          string
	ContentTypeNosniff    bool
	ReferrerPolicy        string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	// WhitelistPaths is a list of paths that bypass rate limiting (e.g., /health)
	WhitelistPaths []string
}

// ConnectionString builds PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// RequestTimeoutDuration returns the Gateway request timeout as duration
func (g *GatewayConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(g.RequestTimeout) * time.Second
}

// TimeoutDuration returns the refresh timeout as duration
func (r *RefreshConfig) TimeoutDuration() time.Duration {
	return time.Duration(r.Timeout) * time.Second
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// RequestTimeoutDuration returns request timeout as duration
func (s *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// Load loads configuration from file and environment variables.
// It does not resolve secrets; use LoadWithSecrets for that.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// The original frontend read API_URL; keep honouring it
	if apiURL := v.GetString("API_URL"); apiURL != "" {
		cfg.Gateway.BaseURL = apiURL
	}
	if cfg.ServiceAccount.Username == "" {
		cfg.ServiceAccount.Username = v.GetString("CRM_SERVICE_USERNAME")
	}
	if cfg.Secrets.KeyVaultName == "" {
		cfg.Secrets.KeyVaultName = v.GetString("AZURE_KEY_VAULT_NAME")
	}

	return &cfg, nil
}

// LoadWithSecrets loads configuration and resolves the service-account
// password and database password from the configured secret source.
// In development secrets come from environment variables; in staging and
// production (or when secrets.source = "vault") from Azure Key Vault.
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SecretSource(cfg.Secrets.Source),
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets provider: %w", err)
	}

	if err := applySecrets(ctx, cfg, provider, logger); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SecretSource is the part of the secrets provider used by configuration
type SecretSource interface {
	GetSecretOrEnv(ctx context.Context, secretName, envName string) (string, error)
	IsVaultEnabled() bool
}

func applySecrets(ctx context.Context, cfg *Config, provider SecretSource, logger *zap.Logger) error {
	if password, err := provider.GetSecretOrEnv(ctx, "crm-service-password", "CRM_SERVICE_PASSWORD"); err == nil && password != "" {
		cfg.ServiceAccount.Password = password
	} else if cfg.Refresh.Enabled && cfg.ServiceAccount.Username != "" {
		logger.Warn("Service account password not available, scheduled refresh will rely on an interactive session",
			zap.Bool("vault_enabled", provider.IsVaultEnabled()),
		)
	}

	if cfg.Database.Driver == "postgres" {
		if password, err := provider.GetSecretOrEnv(ctx, "snapshot-db-password", "DATABASE_PASSWORD"); err == nil && password != "" {
			cfg.Database.Password = password
		}
	}

	if provider.IsVaultEnabled() {
		logger.Info("Secrets loaded from vault successfully",
			zap.String("key_vault_name", cfg.Secrets.KeyVaultName))
	}

	// Database name can vary per environment without touching the vault
	if name := os.Getenv("DEFAULT_DATABASE"); name != "" {
		cfg.Database.Name = name
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Straye Relation Sync")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8081)

	// Gateway defaults
	v.SetDefault("gateway.baseURL", "http://127.0.0.1:8000/api")
	v.SetDefault("gateway.requestTimeout", 30)
	v.SetDefault("gateway.calendarTaskPageSize", 100)
	v.SetDefault("gateway.idempotencyKeys", true)

	// Session defaults
	v.SetDefault("session.cookieName", "token")
	v.SetDefault("session.cookiePath", "/")

	// Snapshot database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/snapshots.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "relation_sync")
	v.SetDefault("database.user", "relation_sync")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 5)
	v.SetDefault("database.maxIdleConns", 2)
	v.SetDefault("database.connMaxLifetime", 300)
	v.SetDefault("database.autoMigrate", true)

	// Refresh defaults
	v.SetDefault("refresh.enabled", false)
	v.SetDefault("refresh.cron", "0 */5 * * * *")
	v.SetDefault("refresh.timeout", 60)

	// Secrets defaults
	v.SetDefault("secrets.source", "auto")
	v.SetDefault("secrets.cacheEnabled", true)
	v.SetDefault("secrets.cacheTTL", 300)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Server defaults
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 60)
	v.SetDefault("server.requestTimeout", 60)

	// CORS defaults - restrictive by default
	v.SetDefault("cors.allowedOrigins", []string{})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"X-Request-ID"})
	v.SetDefault("cors.allowCredentials", true)
	v.SetDefault("cors.maxAge", 300)

	// Security header defaults
	v.SetDefault("security.enableHSTS", false)
	v.SetDefault("security.hstsMaxAge", 31536000)
	v.SetDefault("security.contentSecurityPolicy", "default-src 'self'")
	v.SetDefault("security.frameOptions", "DENY")
	v.SetDefault("security.contentTypeNosniff", true)
	v.SetDefault("security.referrerPolicy", "strict-origin-when-cross-origin")

	// Rate limiting defaults
	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 300)
	v.SetDefault("rateLimit.whitelistPaths", []string{"/health"})
}
