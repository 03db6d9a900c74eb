package config

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/relaypoint-io/relaypoint/src/lib/errors"
	"github.com/relaypoint-io/relaypoint/src/lib/slog"
)

// Environments
const (
	EnvLocal       = "local"
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Signing backends
const (
	SigningBackendTimestamp = "timestamp"
	SigningBackendJWT       = "jwt"
)

// DefaultSigningSalt namespaces signatures produced by this service.
const DefaultSigningSalt = "relaypoint-generic-signing"

// HTTPTimeouts are the timeouts used by the api server.
type HTTPTimeouts struct {
	ReadTimeout  time.Duration `validate:"gt=0"`
	WriteTimeout time.Duration `validate:"gt=0"`
	IdleTimeout  time.Duration `validate:"gt=0"`

	// HandlerTimeout bounds the time spent inside a single handler.
	HandlerTimeout time.Duration `validate:"gt=0"`
}

// SigningConfig configures the installation token signer.
type SigningConfig struct {
	Secret    string `validate:"required"`
	Backend   string `validate:"oneof=timestamp jwt"`
	Salt      string `validate:"required"`
	Algorithm string `validate:"oneof=sha1 sha256"`
}

// TrackingConfig configures metrics.
type TrackingConfig struct {
	Prometheus     bool
	PrometheusPort string `validate:"omitempty,numeric"`
}

// IntegrationsConfig configures the integration installation flows.
type IntegrationsConfig struct {
	// StrictMetadata validates decoded installation metadata against the
	// provider's JSON schema.
	StrictMetadata bool
}

// Config is the process wide configuration.
type Config struct {
	Env            string `validate:"oneof=local development production test"`
	HTTPPort       string `validate:"required,numeric"`
	AllowedOrigins []string
	HTTPTimeouts   *HTTPTimeouts   `validate:"required"`
	Signing        *SigningConfig  `validate:"required"`
	Tracking       *TrackingConfig `validate:"required"`
	Integrations   *IntegrationsConfig
}

var (
	cnf *Config
	mu  sync.Mutex
)

// Get returns the configuration. It is loaded once from the environment
// and panics if the environment is invalid.
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if cnf == nil {
		c, err := Load()

		if err != nil {
			panic(err)
		}

		cnf = c
	}

	return cnf
}

// Set replaces the current configuration. Tests use it to inject values.
func Set(c *Config) {
	mu.Lock()
	cnf = c
	mu.Unlock()
}

// Reset discards the cached configuration so that the next Get reloads it.
func Reset() {
	Set(nil)
}

// Load reads the configuration from the environment. Variables defined in a
// .env file in the working directory are loaded first, without overriding
// variables that are already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Errorf("failed to load .env file: %s", err.Error())
	}

	env := getEnv("RELAYPOINT_ENV", EnvLocal)

	if isTestBinary() {
		env = EnvTest
	}

	c := &Config{
		Env:            env,
		HTTPPort:       getEnv("RELAYPOINT_HTTP_PORT", "8080"),
		AllowedOrigins: splitList(os.Getenv("RELAYPOINT_ALLOWED_ORIGINS")),
		HTTPTimeouts: &HTTPTimeouts{
			ReadTimeout:    getDuration("RELAYPOINT_HTTP_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getDuration("RELAYPOINT_HTTP_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getDuration("RELAYPOINT_HTTP_IDLE_TIMEOUT", 120*time.Second),
			HandlerTimeout: getDuration("RELAYPOINT_HTTP_HANDLER_TIMEOUT", 10*time.Second),
		},
		Signing: &SigningConfig{
			Secret:    os.Getenv("RELAYPOINT_APP_SECRET"),
			Backend:   getEnv("RELAYPOINT_SIGNING_BACKEND", SigningBackendTimestamp),
			Salt:      getEnv("RELAYPOINT_SIGNING_SALT", DefaultSigningSalt),
			Algorithm: strings.ToLower(getEnv("RELAYPOINT_SIGNING_ALGORITHM", "sha1")),
		},
		Tracking: &TrackingConfig{
			Prometheus:     os.Getenv("RELAYPOINT_PROMETHEUS") == "true",
			PrometheusPort: getEnv("RELAYPOINT_PROMETHEUS_PORT", "9090"),
		},
		Integrations: &IntegrationsConfig{
			StrictMetadata: os.Getenv("RELAYPOINT_STRICT_METADATA") == "true",
		},
	}

	if c.Env == EnvTest && c.Signing.Secret == "" {
		c.Signing.Secret = "test-secret-that-is-32-chars-long"
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks the struct tags and the rules that depend on the environment.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfiguration, "invalid configuration")
	}

	if c.Env != EnvTest && len(c.Signing.Secret) < 32 {
		return errors.New(errors.ErrorTypeConfiguration, "RELAYPOINT_APP_SECRET must be at least 32 characters long")
	}

	return nil
}

// IsTest returns true when the code runs inside a test binary.
func IsTest() bool {
	return isTestBinary() || os.Getenv("RELAYPOINT_ENV") == EnvTest
}

// IsDevelopment returns true for local and development environments.
func IsDevelopment() bool {
	env := Get().Env
	return env == EnvLocal || env == EnvDevelopment
}

// IsProduction returns true for the production environment.
func IsProduction() bool {
	return Get().Env == EnvProduction
}

func isTestBinary() bool {
	return strings.HasSuffix(os.Args[0], ".test") || strings.Contains(os.Args[0], "_test")
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}

	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)

	if val == "" {
		return fallback
	}

	d, err := time.ParseDuration(val)

	if err != nil {
		slog.Errorf("invalid duration for %s=%s, using %s", key, val, fallback)
		return fallback
	}

	return d
}

func splitList(s string) []string {
	items := []string{}

	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}
