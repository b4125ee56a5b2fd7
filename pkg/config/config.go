package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigSource defines an interface for loading configuration from various sources.
type ConfigSource interface {
	Get(key string) (string, bool)
	GetWithDefault(key, defaultValue string) string
}

// EnvConfigSource loads configuration from environment variables.
type EnvConfigSource struct{}

// Get retrieves an environment variable.
func (e *EnvConfigSource) Get(key string) (string, bool) {
	val := os.Getenv(key)
	return val, val != ""
}

// GetWithDefault retrieves an environment variable or returns a default value.
func (e *EnvConfigSource) GetWithDefault(key, defaultValue string) string {
	if val, ok := e.Get(key); ok {
		return val
	}
	return defaultValue
}

// FileConfigSource loads configuration from a JSON or YAML file.
type FileConfigSource struct {
	data map[string]interface{}
}

// NewFileConfigSource creates a new file-based config source.
// Supports both JSON and YAML files based on file extension.
func NewFileConfigSource(filePath string) (*FileConfigSource, error) {
	data := make(map[string]interface{})

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	switch {
	case strings.HasSuffix(filePath, ".yaml"), strings.HasSuffix(filePath, ".yml"):
		if err := yaml.Unmarshal(fileData, &data); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case strings.HasSuffix(filePath, ".json"):
		if err := json.Unmarshal(fileData, &data); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format, use .json, .yaml, or .yml")
	}

	return &FileConfigSource{data: data}, nil
}

// Get retrieves a value from the config file.
func (f *FileConfigSource) Get(key string) (string, bool) {
	val, exists := f.data[key]
	if !exists {
		return "", false
	}
	if str, ok := val.(string); ok {
		return str, true
	}
	return fmt.Sprintf("%v", val), true
}

// GetWithDefault retrieves a value from the config file or returns a default.
func (f *FileConfigSource) GetWithDefault(key, defaultValue string) string {
	if val, ok := f.Get(key); ok {
		return val
	}
	return defaultValue
}

// CompositeConfigSource checks multiple config sources in order.
type CompositeConfigSource struct {
	sources []ConfigSource
}

// Get retrieves a value from the first source that has it.
func (c *CompositeConfigSource) Get(key string) (string, bool) {
	for _, source := range c.sources {
		if val, ok := source.Get(key); ok {
			return val, true
		}
	}
	return "", false
}

// GetWithDefault retrieves a value from sources or returns default.
func (c *CompositeConfigSource) GetWithDefault(key, defaultValue string) string {
	if val, ok := c.Get(key); ok {
		return val
	}
	return defaultValue
}

// DefaultMaxUploadBytes caps uploads before any PDF processing occurs.
const DefaultMaxUploadBytes = 16 * 1024 * 1024

// Config holds application configuration.
type Config struct {
	// HTTP server configuration
	Port             int
	HTTPReadTimeout  int // seconds
	HTTPWriteTimeout int // seconds
	HTTPIdleTimeout  int // seconds
	MaxUploadBytes   int64
	AllowedOrigins   []string
	RateLimitRPS     float64
	RateLimitBurst   int

	// Storage configuration
	StorageBackend string // local, azure
	StorageDir     string
	BlobAccountName string
	BlobAccountKey  string
	BlobContainer   string

	// Upload event notifications (optional)
	ServiceBusNamespace string
	ServiceBusKeyName   string
	ServiceBusKeyValue  string
	ServiceBusQueue     string

	// Auth (optional; endpoints are open when the secret is empty)
	JWTSecret string

	// PDF engine licensing
	UnidocLicenseKey string

	// Telemetry (optional)
	NewRelicLicenseKey string
	NewRelicAppName    string

	// Logging configuration
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, console

	// Application configuration
	AppName     string
	AppVersion  string
	Environment string // dev, staging, prod
}

// LoadConfig loads configuration from the provided source.
func LoadConfig(source ConfigSource) (*Config, error) {
	getInt := func(key string, defaultValue int) int {
		str := source.GetWithDefault(key, strconv.Itoa(defaultValue))
		val, err := strconv.Atoi(str)
		if err != nil {
			return defaultValue
		}
		return val
	}
	getFloat := func(key string, defaultValue float64) float64 {
		str := source.GetWithDefault(key, fmt.Sprintf("%g", defaultValue))
		val, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return defaultValue
		}
		return val
	}

	cfg := &Config{}

	cfg.Port = getInt("PORT", 5000)
	cfg.HTTPReadTimeout = getInt("HTTP_READ_TIMEOUT", 30)
	cfg.HTTPWriteTimeout = getInt("HTTP_WRITE_TIMEOUT", 60)
	cfg.HTTPIdleTimeout = getInt("HTTP_IDLE_TIMEOUT", 120)
	cfg.MaxUploadBytes = int64(getInt("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes))
	cfg.RateLimitRPS = getFloat("RATE_LIMIT_RPS", 0)
	cfg.RateLimitBurst = getInt("RATE_LIMIT_BURST", 0)

	if origins := source.GetWithDefault("ALLOWED_ORIGINS", "*"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	cfg.StorageBackend = source.GetWithDefault("STORAGE_BACKEND", "local")
	cfg.StorageDir = source.GetWithDefault("STORAGE_DIR", "uploads")
	cfg.BlobAccountName = source.GetWithDefault("BLOB_STORAGE_ACCOUNT_NAME", "")
	cfg.BlobAccountKey = source.GetWithDefault("BLOB_STORAGE_ACCOUNT_KEY", "")
	cfg.BlobContainer = source.GetWithDefault("BLOB_CONTAINER", "documents")

	cfg.ServiceBusNamespace = source.GetWithDefault("SERVICE_BUS_NAMESPACE", "")
	cfg.ServiceBusKeyName = source.GetWithDefault("SERVICE_BUS_KEY_NAME", "")
	cfg.ServiceBusKeyValue = source.GetWithDefault("SERVICE_BUS_KEY_VALUE", "")
	cfg.ServiceBusQueue = source.GetWithDefault("SERVICE_BUS_QUEUE", "pdf-uploads")

	cfg.JWTSecret = source.GetWithDefault("JWT_SECRET", "")
	cfg.UnidocLicenseKey = source.GetWithDefault("UNIDOC_LICENSE_KEY", "")
	cfg.NewRelicLicenseKey = source.GetWithDefault("NEW_RELIC_LICENSE_KEY", "")
	cfg.NewRelicAppName = source.GetWithDefault("NEW_RELIC_APP_NAME", "pdf-editor-service")

	cfg.LogLevel = source.GetWithDefault("LOG_LEVEL", "info")
	cfg.LogFormat = source.GetWithDefault("LOG_FORMAT", "json")

	cfg.AppName = source.GetWithDefault("APP_NAME", "pdf-editor-service")
	cfg.AppVersion = source.GetWithDefault("APP_VERSION", "1.0.0")
	cfg.Environment = source.GetWithDefault("ENVIRONMENT", "dev")

	return cfg, nil
}

// LoadConfigFromEnv loads configuration from environment variables.
func LoadConfigFromEnv() (*Config, error) {
	return LoadConfig(&EnvConfigSource{})
}

// LoadConfigFromFile loads configuration from a JSON or YAML file.
// Environment variables override file values if both are set.
func LoadConfigFromFile(filePath string) (*Config, error) {
	fileSource, err := NewFileConfigSource(filePath)
	if err != nil {
		return nil, err
	}

	composite := &CompositeConfigSource{
		sources: []ConfigSource{&EnvConfigSource{}, fileSource},
	}

	return LoadConfig(composite)
}
