// Package config provides configuration loading and management for the donation coordinator.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stacklok/donation-coordinator/internal/telemetry"
)

// Storage backends
const (
	// StorageTypeMemory keeps all state in process memory
	StorageTypeMemory = "memory"

	// StorageTypeDatabase persists state in PostgreSQL
	StorageTypeDatabase = "database"
)

// Authentication modes
const (
	// AuthModeAnonymous trusts the X-Actor-Role and X-Actor-ID request headers
	AuthModeAnonymous = "anonymous"

	// AuthModeJWT requires an HS256 bearer token carrying the actor
	AuthModeJWT = "jwt"
)

// GeocodingProviderLocationIQ is the only supported geocoding provider
const GeocodingProviderLocationIQ = "locationiq"

// EnvPrefix prefixes every environment variable the server reads
const EnvPrefix = "DONATION"

// Environment variables consulted when a secret file is not configured
const (
	EnvDatabasePassword  = "DONATION_DATABASE_PASSWORD"
	EnvMigrationPassword = "DONATION_MIGRATION_PASSWORD"
	EnvJWTSecret         = "DONATION_JWT_SECRET"
	EnvGeocodingAPIKey   = "DONATION_GEOCODING_API_KEY"
)

// Defaults applied by the getters below
const (
	DefaultAddress        = ":8080"
	DefaultRequestTimeout = 10 * time.Second
	DefaultMatchTimeout   = 2 * time.Minute
	DefaultWriteTimeout   = 15 * time.Second
	WriteTimeoutMargin    = 10 * time.Second
	DefaultPollInterval   = time.Second
	DefaultMaxAttempts    = 10
	DefaultScoringTimeout = 10 * time.Second
	DefaultGeocodeTimeout = 5 * time.Second
	DefaultEventsTopic    = "donation-events"
	DefaultMaxConcurrency = 4
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	Server    ServerConfig      `yaml:"server"`
	Scoring   ScoringConfig     `yaml:"scoring"`
	Geocoding *GeocodingConfig  `yaml:"geocoding,omitempty"`
	Storage   StorageConfig     `yaml:"storage"`
	Database  *DatabaseConfig   `yaml:"database,omitempty"`
	Auth      *AuthConfig       `yaml:"auth,omitempty"`
	Events    *EventsConfig     `yaml:"events,omitempty"`
	Telemetry *telemetry.Config `yaml:"telemetry,omitempty"`
}

// ServerConfig defines the HTTP listener
type ServerConfig struct {
	// Address is the listen address, e.g. ":8080"
	Address string `yaml:"address,omitempty"`

	// RequestTimeout bounds ordinary API requests
	RequestTimeout time.Duration `yaml:"requestTimeout,omitempty"`

	// MatchTimeout bounds a matching session request, which polls the scoring service
	MatchTimeout time.Duration `yaml:"matchTimeout,omitempty"`

	// WriteTimeout is the connection write deadline. It never drops below the
	// longest route timeout plus WriteTimeoutMargin.
	WriteTimeout time.Duration `yaml:"writeTimeout,omitempty"`
}

// ScoringConfig defines the external scoring service
type ScoringConfig struct {
	// BaseURL is the root of the scoring service; /call/predict is appended
	BaseURL string `yaml:"baseURL"`

	PollInterval   time.Duration `yaml:"pollInterval,omitempty"`
	MaxAttempts    int           `yaml:"maxAttempts,omitempty"`
	SuccessMarker  string        `yaml:"successMarker,omitempty"`
	Timeout        time.Duration `yaml:"timeout,omitempty"`
	MaxConcurrency int           `yaml:"maxConcurrency,omitempty"`
}

// GeocodingConfig defines the address resolver used for location updates
type GeocodingConfig struct {
	// Provider is "locationiq"
	Provider string `yaml:"provider"`

	// Endpoint overrides the provider's search URL
	Endpoint string `yaml:"endpoint,omitempty"`

	// APIKeyFile is the path to a file holding the provider API key
	APIKeyFile string `yaml:"apiKeyFile,omitempty"`

	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// StorageConfig selects the storage backend
type StorageConfig struct {
	// Type is "memory" (default) or "database"
	Type string `yaml:"type,omitempty"`
}

// DatabaseConfig defines database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname or IP address
	Host string `yaml:"host"`

	// Port is the database server port
	Port int `yaml:"port"`

	// User is the database username
	User string `yaml:"user"`

	// PasswordFile is the path to a file containing the database password.
	// The file should contain only the password with optional trailing whitespace
	PasswordFile string `yaml:"passwordFile,omitempty"`

	// Database is the database name
	Database string `yaml:"database"`

	// SSLMode is the SSL mode for the connection (disable, require, verify-ca, verify-full)
	SSLMode string `yaml:"sslMode,omitempty"`

	// MaxOpenConns is the maximum number of open connections to the database
	MaxOpenConns int32 `yaml:"maxOpenConns,omitempty"`

	// MaxIdleConns is the maximum number of idle connections in the pool
	MaxIdleConns int32 `yaml:"maxIdleConns,omitempty"`

	// ConnMaxLifetime is the maximum lifetime of a connection (e.g., "1h", "30m")
	ConnMaxLifetime string `yaml:"connMaxLifetime,omitempty"`

	// MigrationUser owns the schema and runs migrations. Defaults to User.
	MigrationUser string `yaml:"migrationUser,omitempty"`

	// MigrationPasswordFile holds the password of MigrationUser
	MigrationPasswordFile string `yaml:"migrationPasswordFile,omitempty"`

	// DynamicAuth replaces static passwords with short-lived tokens
	DynamicAuth *DynamicAuthConfig `yaml:"dynamicAuth,omitempty"`
}

// DynamicAuthConfig selects a token-based database authentication method
type DynamicAuthConfig struct {
	AWSRDSIAM *DynamicAuthAWSRDSIAM `yaml:"awsRdsIam,omitempty"`
}

// DynamicAuthAWSRDSIAM authenticates with AWS RDS IAM tokens
type DynamicAuthAWSRDSIAM struct {
	// Region is an AWS region, or "detect" to read it from instance metadata
	Region string `yaml:"region"`
}

// AuthConfig defines how callers are identified
type AuthConfig struct {
	// Mode is "anonymous" (default) or "jwt"
	Mode string     `yaml:"mode,omitempty"`
	JWT  *JWTConfig `yaml:"jwt,omitempty"`

	// PublicPaths bypass authentication. Health, readiness, version and metrics are always public.
	PublicPaths []string `yaml:"publicPaths,omitempty"`
}

// JWTConfig defines HS256 bearer token validation
type JWTConfig struct {
	Issuer     string `yaml:"issuer,omitempty"`
	Audience   string `yaml:"audience,omitempty"`
	SecretFile string `yaml:"secretFile,omitempty"`

	// Realm is reported in WWW-Authenticate challenges
	Realm string `yaml:"realm,omitempty"`
}

// EventsConfig defines the Kafka sink for lifecycle events
type EventsConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers,omitempty"`
	Topic   string   `yaml:"topic,omitempty"`
}

// readSecret reads a secret from file when configured, then from the environment.
// File content has leading and trailing whitespace trimmed.
func readSecret(file, envVar, what string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(filepath.Clean(file))
		if err != nil {
			return "", fmt.Errorf("failed to read %s from file %s: %w", what, file, err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	if v := os.Getenv(envVar); v != "" {
		return v, nil
	}

	return "", fmt.Errorf("no %s configured: set the file option or %s environment variable", what, envVar)
}

// GetPassword returns the database password from PasswordFile, then DONATION_DATABASE_PASSWORD
func (d *DatabaseConfig) GetPassword() (string, error) {
	return readSecret(d.PasswordFile, EnvDatabasePassword, "database password")
}

// GetMigrationUser returns the user that runs migrations
func (d *DatabaseConfig) GetMigrationUser() string {
	if d.MigrationUser != "" {
		return d.MigrationUser
	}
	return d.User
}

// GetMigrationPassword returns the password of the migration user. Without a
// dedicated migration user this is the application password.
func (d *DatabaseConfig) GetMigrationPassword() (string, error) {
	if d.MigrationUser == "" || d.MigrationUser == d.User {
		return d.GetPassword()
	}
	return readSecret(d.MigrationPasswordFile, EnvMigrationPassword, "migration password")
}

// GetSSLMode returns the SSL mode, defaulting to require
func (d *DatabaseConfig) GetSSLMode() string {
	if d.SSLMode == "" {
		return "require"
	}
	return d.SSLMode
}

// BuildConnectionString builds a postgres:// URL for user. User and password
// are URL-escaped; an empty password is left out.
func (d *DatabaseConfig) BuildConnectionString(user, password string) string {
	userInfo := url.QueryEscape(user)
	if password != "" {
		userInfo += ":" + url.QueryEscape(password)
	}
	return fmt.Sprintf("postgres://%s@%s:%d/%s?sslmode=%s",
		userInfo, d.Host, d.Port, d.Database, d.GetSSLMode())
}

// GetConnectionString builds the connection string of the application user.
// With dynamic auth the password is supplied per connection instead.
func (d *DatabaseConfig) GetConnectionString() (string, error) {
	if d.DynamicAuth != nil {
		return d.BuildConnectionString(d.User, ""), nil
	}
	password, err := d.GetPassword()
	if err != nil {
		return "", err
	}
	return d.BuildConnectionString(d.User, password), nil
}

// GetSecret returns the JWT signing secret from SecretFile, then DONATION_JWT_SECRET
func (j *JWTConfig) GetSecret() ([]byte, error) {
	s, err := readSecret(j.SecretFile, EnvJWTSecret, "JWT secret")
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// GetAPIKey returns the geocoding API key from APIKeyFile, then DONATION_GEOCODING_API_KEY
func (g *GeocodingConfig) GetAPIKey() (string, error) {
	return readSecret(g.APIKeyFile, EnvGeocodingAPIKey, "geocoding API key")
}

// GetStorageType returns the storage backend, defaulting to memory
func (c *Config) GetStorageType() string {
	if c.Storage.Type == "" {
		return StorageTypeMemory
	}
	return c.Storage.Type
}

// GetAuthMode returns the auth mode, defaulting to anonymous
func (c *Config) GetAuthMode() string {
	if c.Auth == nil || c.Auth.Mode == "" {
		return AuthModeAnonymous
	}
	return c.Auth.Mode
}

// GetAddress returns the listen address
func (s *ServerConfig) GetAddress() string {
	if s.Address == "" {
		return DefaultAddress
	}
	return s.Address
}

// GetRequestTimeout returns the per-request timeout
func (s *ServerConfig) GetRequestTimeout() time.Duration {
	if s.RequestTimeout <= 0 {
		return DefaultRequestTimeout
	}
	return s.RequestTimeout
}

// GetMatchTimeout returns the matching session timeout
func (s *ServerConfig) GetMatchTimeout() time.Duration {
	if s.MatchTimeout <= 0 {
		return DefaultMatchTimeout
	}
	return s.MatchTimeout
}

// GetWriteTimeout returns the server write deadline, raised so that a route
// answering at its own timeout still has WriteTimeoutMargin to send the response
func (s *ServerConfig) GetWriteTimeout() time.Duration {
	write := s.WriteTimeout
	if write <= 0 {
		write = DefaultWriteTimeout
	}
	floor := max(s.GetRequestTimeout(), s.GetMatchTimeout()) + WriteTimeoutMargin
	return max(write, floor)
}

// GetPollInterval returns the scoring poll interval
func (s *ScoringConfig) GetPollInterval() time.Duration {
	if s.PollInterval <= 0 {
		return DefaultPollInterval
	}
	return s.PollInterval
}

// GetMaxAttempts returns the scoring poll budget
func (s *ScoringConfig) GetMaxAttempts() int {
	if s.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return s.MaxAttempts
}

// GetTimeout returns the scoring HTTP timeout
func (s *ScoringConfig) GetTimeout() time.Duration {
	if s.Timeout <= 0 {
		return DefaultScoringTimeout
	}
	return s.Timeout
}

// GetMaxConcurrency returns the number of homes scored in parallel
func (s *ScoringConfig) GetMaxConcurrency() int {
	if s.MaxConcurrency <= 0 {
		return DefaultMaxConcurrency
	}
	return s.MaxConcurrency
}

// GetTimeout returns the geocoding HTTP timeout
func (g *GeocodingConfig) GetTimeout() time.Duration {
	if g.Timeout <= 0 {
		return DefaultGeocodeTimeout
	}
	return g.Timeout
}

// GetTopic returns the Kafka topic for lifecycle events
func (e *EventsConfig) GetTopic() string {
	if e.Topic == "" {
		return DefaultEventsTopic
	}
	return e.Topic
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := validateScoringConfig(&c.Scoring); err != nil {
		return err
	}

	switch c.GetStorageType() {
	case StorageTypeMemory:
	case StorageTypeDatabase:
		if c.Database == nil {
			return fmt.Errorf("storage.type %q requires a database section", StorageTypeDatabase)
		}
		if err := validateDatabaseConfig(c.Database); err != nil {
			return err
		}
	default:
		return fmt.Errorf("storage.type must be one of: %s, %s", StorageTypeMemory, StorageTypeDatabase)
	}

	switch c.GetAuthMode() {
	case AuthModeAnonymous:
	case AuthModeJWT:
		if c.Auth.JWT == nil {
			return fmt.Errorf("auth.mode %q requires a jwt section", AuthModeJWT)
		}
	default:
		return fmt.Errorf("auth.mode must be one of: %s, %s", AuthModeAnonymous, AuthModeJWT)
	}

	if c.Geocoding != nil && c.Geocoding.Provider != GeocodingProviderLocationIQ {
		return fmt.Errorf("geocoding.provider must be %q", GeocodingProviderLocationIQ)
	}

	if c.Events != nil && c.Events.Enabled && len(c.Events.Brokers) == 0 {
		return fmt.Errorf("events.brokers is required when events are enabled")
	}

	if c.Telemetry != nil {
		if err := c.Telemetry.Validate(); err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
	}

	return nil
}

func validateScoringConfig(s *ScoringConfig) error {
	if s.BaseURL == "" {
		return fmt.Errorf("scoring.baseURL is required")
	}
	u, err := url.Parse(s.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("scoring.baseURL must be an absolute http(s) URL")
	}
	if s.PollInterval < 0 {
		return fmt.Errorf("scoring.pollInterval cannot be negative")
	}
	if s.MaxAttempts < 0 {
		return fmt.Errorf("scoring.maxAttempts cannot be negative")
	}
	return nil
}

func validateDatabaseConfig(d *DatabaseConfig) error {
	if d.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if d.Port <= 0 || d.Port > 65535 {
		return fmt.Errorf("database.port must be between 1 and 65535")
	}
	if d.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if d.Database == "" {
		return fmt.Errorf("database.database is required")
	}
	if d.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(d.ConnMaxLifetime); err != nil {
			return fmt.Errorf("database.connMaxLifetime: %w", err)
		}
	}
	if d.DynamicAuth != nil {
		if d.DynamicAuth.AWSRDSIAM == nil {
			return fmt.Errorf("database.dynamicAuth requires awsRdsIam")
		}
		if d.DynamicAuth.AWSRDSIAM.Region == "" {
			return fmt.Errorf("database.dynamicAuth.awsRdsIam.region is required")
		}
	}
	return nil
}
