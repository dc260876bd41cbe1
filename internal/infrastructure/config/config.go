package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment names recognised by the service.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// minTokenSecretLength is the minimum accepted length for a token signing secret.
const minTokenSecretLength = 32

// Config is the root configuration structure for Storefront Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Store       StoreConfig    `yaml:"store"`
	Environment string         `yaml:"environment"`
	Database    DatabaseConfig `yaml:"database"`
	API         APIConfig      `yaml:"api"`
	Session     SessionConfig  `yaml:"session"`
	MQTT        MQTTConfig     `yaml:"mqtt"`
	InfluxDB    InfluxDBConfig `yaml:"influxdb"`
	Logging     LoggingConfig  `yaml:"logging"`
	Security    SecurityConfig `yaml:"security"`
	Seed        SeedConfig     `yaml:"seed"`
}

// StoreConfig identifies the storefront instance.
type StoreConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	TLS      TLSConfig        `yaml:"tls"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// TLSConfig contains TLS certificate settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// APITimeoutConfig contains HTTP timeout settings (seconds).
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// SessionConfig contains session cookie scoping.
// The Secure attribute is derived from Environment, not configured here.
type SessionConfig struct {
	CookiePath   string `yaml:"cookie_path"`
	CookieDomain string `yaml:"cookie_domain"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings (seconds).
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// SecurityConfig contains security settings.
type SecurityConfig struct {
	Tokens TokensConfig `yaml:"tokens"`
}

// TokensConfig holds the two independent signing secrets and lifetimes.
type TokensConfig struct {
	AccessSecret     string `yaml:"access_secret"`
	RefreshSecret    string `yaml:"refresh_secret"`
	AccessTTLMinutes int    `yaml:"access_ttl_minutes"`
	RefreshTTLHours  int    `yaml:"refresh_ttl_hours"`
}

// SeedConfig controls first-boot account creation.
// The password is only read when the account directory is empty and
// should be supplied through STOREFRONT_SEED_PASSWORD.
type SeedConfig struct {
	SuperAdminEmail    string `yaml:"super_admin_email"`
	SuperAdminName     string `yaml:"super_admin_name"`
	SuperAdminPassword string `yaml:"super_admin_password"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: STOREFRONT_SECTION_KEY
// For example: STOREFRONT_DATABASE_PATH, STOREFRONT_API_PORT
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			ID:   "store-001",
			Name: "Storefront",
		},
		Environment: EnvDevelopment,
		Database: DatabaseConfig{
			Path:        "./data/storefront.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8000,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		Session: SessionConfig{
			CookiePath: "/",
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "storefront-core",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Security: SecurityConfig{
			Tokens: TokensConfig{
				AccessTTLMinutes: 15,
				RefreshTTLHours:  7 * 24,
			},
		},
		Seed: SeedConfig{
			SuperAdminEmail: "superadmin@localhost",
			SuperAdminName:  "Super Admin",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STOREFRONT_ENV"); v != "" {
		cfg.Environment = v
	}

	// Database
	if v := os.Getenv("STOREFRONT_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// API
	if v := os.Getenv("STOREFRONT_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("STOREFRONT_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}

	// MQTT
	if v := os.Getenv("STOREFRONT_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("STOREFRONT_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("STOREFRONT_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("STOREFRONT_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	if v := os.Getenv("STOREFRONT_SEED_PASSWORD"); v != "" {
		cfg.Seed.SuperAdminPassword = v
	}

	// Token secrets (IMPORTANT: always set via environment in production)
	if v := os.Getenv("STOREFRONT_ACCESS_TOKEN_SECRET"); v != "" {
		cfg.Security.Tokens.AccessSecret = v
	}
	if v := os.Getenv("STOREFRONT_REFRESH_TOKEN_SECRET"); v != "" {
		cfg.Security.Tokens.RefreshSecret = v
	}
}

// Validate checks the configuration for errors and security issues.
func (c *Config) Validate() error {
	var errs []string

	if c.Store.ID == "" {
		errs = append(errs, "store.id is required")
	}

	if c.Environment != EnvDevelopment && c.Environment != EnvProduction {
		errs = append(errs, fmt.Sprintf("environment must be %q or %q", EnvDevelopment, EnvProduction))
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	// Credentialed CORS needs an explicit allowlist in production.
	if c.IsProduction() {
		switch {
		case len(c.API.CORS.AllowedOrigins) == 0:
			errs = append(errs, "api.cors.allowed_origins is required in production")
		case slices.Contains(c.API.CORS.AllowedOrigins, "*"):
			errs = append(errs, `api.cors.allowed_origins must not contain "*" in production`)
		}
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	// Both signing secrets are REQUIRED and must differ: an access token
	// must never verify under the refresh secret and vice versa.
	tok := c.Security.Tokens
	switch {
	case tok.AccessSecret == "":
		errs = append(errs, "security.tokens.access_secret is required (set STOREFRONT_ACCESS_TOKEN_SECRET)")
	case len(tok.AccessSecret) < minTokenSecretLength:
		errs = append(errs, "security.tokens.access_secret must be at least 32 characters")
	}
	switch {
	case tok.RefreshSecret == "":
		errs = append(errs, "security.tokens.refresh_secret is required (set STOREFRONT_REFRESH_TOKEN_SECRET)")
	case len(tok.RefreshSecret) < minTokenSecretLength:
		errs = append(errs, "security.tokens.refresh_secret must be at least 32 characters")
	}
	if tok.AccessSecret != "" && tok.AccessSecret == tok.RefreshSecret {
		errs = append(errs, "security.tokens access and refresh secrets must differ")
	}
	if tok.AccessTTLMinutes <= 0 {
		errs = append(errs, "security.tokens.access_ttl_minutes must be positive")
	}
	if tok.RefreshTTLHours <= 0 {
		errs = append(errs, "security.tokens.refresh_ttl_hours must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// IsProduction reports whether the service runs in the production environment.
// Session cookies are marked Secure only in production.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// AccessTokenTTL returns the access token lifetime.
func (t TokensConfig) AccessTokenTTL() time.Duration {
	return time.Duration(t.AccessTTLMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh token lifetime.
func (t TokensConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(t.RefreshTTLHours) * time.Hour
}

// ReadTimeout returns the read timeout as a Duration.
func (a APIConfig) ReadTimeout() time.Duration {
	return time.Duration(a.Timeouts.Read) * time.Second
}

// WriteTimeout returns the write timeout as a Duration.
func (a APIConfig) WriteTimeout() time.Duration {
	return time.Duration(a.Timeouts.Write) * time.Second
}

// IdleTimeout returns the keep-alive idle timeout as a Duration.
func (a APIConfig) IdleTimeout() time.Duration {
	return time.Duration(a.Timeouts.Idle) * time.Second
}
