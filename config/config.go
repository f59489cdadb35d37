// Package config provides configuration management for the load planning service.
//
// Values come from an optional YAML file named by CONFIG_FILE, overridden by
// environment variables. Secrets (API keys, JWT secret, Swagger password) are
// read from the environment only.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Cache    CacheConfig    `yaml:"cache"`
	Planning PlanningConfig `yaml:"planning"`
	Auth     AuthConfig     `yaml:"auth"`
	Database DatabaseConfig `yaml:"database"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `yaml:"port"`
	RateLimit       int           `yaml:"rate_limit"`
	RateWindow      time.Duration `yaml:"rate_window"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	SwaggerUser     string        `yaml:"swagger_user"`
	SwaggerPass     string        `yaml:"-"`
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// CacheConfig holds plan cache configuration.
type CacheConfig struct {
	Size   int           `yaml:"size"`
	TTL    time.Duration `yaml:"ttl"`
	Shards int           `yaml:"shards"`
}

// PlanningConfig holds planning limits and defaults.
type PlanningConfig struct {
	// ContainerPadding is applied when a request sets no padding
	ContainerPadding float64 `yaml:"container_padding"`
	MaxQuantity      int     `yaml:"max_quantity"`
	MaxShipments     int     `yaml:"max_shipments"`
	BatchConcurrency int     `yaml:"batch_concurrency"`
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
	// APIKeys maps each accepted key to the label recorded as caller
	APIKeys      map[string]string `yaml:"-"`
	JWTSecretKey string            `yaml:"-"`
	JWTIssuer    string            `yaml:"jwt_issuer"`
}

// DatabaseConfig holds MongoDB configuration.
type DatabaseConfig struct {
	URI          string        `yaml:"uri"`
	DatabaseName string        `yaml:"name"`
	LogsTTL      time.Duration `yaml:"logs_ttl"`
	Enabled      bool          `yaml:"enabled"`
	// SeedFile is a YAML catalog loaded into the collections at startup
	SeedFile string `yaml:"catalog_seed_file"`
	// CircuitBreaker configuration
	CircuitBreakerFailureThreshold int           `yaml:"circuit_breaker_failure_threshold"`
	CircuitBreakerSuccessThreshold int           `yaml:"circuit_breaker_success_threshold"`
	CircuitBreakerTimeout          time.Duration `yaml:"circuit_breaker_timeout"`
}

// TracingConfig holds OpenTelemetry configuration.
type TracingConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Endpoint       string `yaml:"endpoint"`
	ServiceVersion string `yaml:"service_version"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8080",
			RateLimit:       100,
			RateWindow:      time.Minute,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     defaultCORSOrigins(),
		},
		Log: LogConfig{
			Level: "info",
		},
		Cache: CacheConfig{
			Size:   1000,
			TTL:    5 * time.Minute,
			Shards: 16,
		},
		Planning: PlanningConfig{
			MaxQuantity:      1_000_000,
			MaxShipments:     10_000,
			BatchConcurrency: 4,
		},
		Database: DatabaseConfig{
			URI:                            "mongodb://localhost:27017",
			DatabaseName:                   "loadplan_service",
			LogsTTL:                        30 * 24 * time.Hour,
			CircuitBreakerFailureThreshold: 5,
			CircuitBreakerSuccessThreshold: 2,
			CircuitBreakerTimeout:          30 * time.Second,
		},
		Tracing: TracingConfig{
			ServiceVersion: "dev",
		},
	}
}

// Load builds the configuration from defaults, the CONFIG_FILE overlay and
// the environment, in that order.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("RATE_LIMIT must be >= 0")
	}
	if c.Planning.ContainerPadding < 0 {
		return fmt.Errorf("CONTAINER_PADDING must be >= 0")
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("CACHE_SIZE must be >= 0")
	}
	return nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	s := &cfg.Server
	s.Port = getEnv("PORT", s.Port)
	s.RateLimit = getEnvInt("RATE_LIMIT", s.RateLimit)
	s.RateWindow = getEnvDuration("RATE_WINDOW", s.RateWindow)
	s.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", s.RequestTimeout)
	s.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", s.ShutdownTimeout)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		s.CORSOrigins = parseCORSOrigins(origins)
	}
	s.SwaggerUser = getEnv("SWAGGER_USER", s.SwaggerUser)
	s.SwaggerPass = getEnv("SWAGGER_PASS", s.SwaggerPass)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Pretty = getEnvBool("LOG_PRETTY", cfg.Log.Pretty)

	c := &cfg.Cache
	c.Size = getEnvInt("CACHE_SIZE", c.Size)
	c.TTL = getEnvDuration("CACHE_TTL", c.TTL)
	c.Shards = getEnvInt("CACHE_SHARDS", c.Shards)

	p := &cfg.Planning
	p.ContainerPadding = getEnvFloat("CONTAINER_PADDING", p.ContainerPadding)
	p.MaxQuantity = getEnvInt("MAX_QUANTITY", p.MaxQuantity)
	p.MaxShipments = getEnvInt("MAX_SHIPMENTS", p.MaxShipments)
	p.BatchConcurrency = getEnvInt("BATCH_CONCURRENCY", p.BatchConcurrency)

	a := &cfg.Auth
	a.Enabled = getEnvBool("AUTH_ENABLED", a.Enabled)
	if keys := parseAPIKeys(os.Getenv("API_KEYS")); keys != nil {
		a.APIKeys = keys
	}
	a.JWTSecretKey = getEnv("JWT_SECRET_KEY", a.JWTSecretKey)
	a.JWTIssuer = getEnv("JWT_ISSUER", a.JWTIssuer)

	d := &cfg.Database
	d.URI = getEnv("MONGODB_URI", d.URI)
	d.DatabaseName = getEnv("MONGODB_DATABASE", d.DatabaseName)
	d.LogsTTL = getEnvDuration("MONGODB_LOGS_TTL", d.LogsTTL)
	d.Enabled = getEnvBool("MONGODB_ENABLED", d.Enabled)
	d.SeedFile = getEnv("CATALOG_SEED_FILE", d.SeedFile)
	d.CircuitBreakerFailureThreshold = getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", d.CircuitBreakerFailureThreshold)
	d.CircuitBreakerSuccessThreshold = getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", d.CircuitBreakerSuccessThreshold)
	d.CircuitBreakerTimeout = getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", d.CircuitBreakerTimeout)

	t := &cfg.Tracing
	t.Enabled = getEnvBool("TRACING_ENABLED", t.Enabled)
	t.Endpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", t.Endpoint)
	t.ServiceVersion = getEnv("SERVICE_VERSION", t.ServiceVersion)
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

// parseAPIKeys reads "label:key" pairs. A bare key is labeled by its position.
func parseAPIKeys(s string) map[string]string {
	if s == "" {
		return nil
	}
	entries := strings.Split(s, ",")
	result := make(map[string]string, len(entries))
	for i, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		label, key, found := strings.Cut(entry, ":")
		if !found {
			label, key = "key-"+strconv.Itoa(i+1), entry
		}
		label, key = strings.TrimSpace(label), strings.TrimSpace(key)
		if key != "" {
			result[key] = label
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func defaultCORSOrigins() []string {
	// Default origins for local development
	return []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
}

func parseCORSOrigins(s string) []string {
	defaults := defaultCORSOrigins()
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts)+len(defaults))
	result = append(result, defaults...)
	for _, p := range parts {
		if origin := strings.TrimSpace(p); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}
