package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config contains runtime configuration required by the service.
type Config struct {
	Environment string
	Server      ServerConfig
	Storage     StorageConfig
	Auth        AuthConfig
	Log         LogConfig
	Metrics     MetricsConfig
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port         int
	MaxBodyBytes int64
}

// StorageConfig selects and tunes the storage backend.
type StorageConfig struct {
	Backend               string
	AzureConnectionString string
	CreateContainer       bool
	MaxRetries            int32
	Timeout               time.Duration
	StartupTimeout        time.Duration
	DBURL                 string
	FileRoot              string
}

// AuthConfig holds the function keys accepted on the ingest route.
type AuthConfig struct {
	// FunctionKeys is empty when the hosting platform enforces the key.
	FunctionKeys []string
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig toggles the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool
}

// Load reads configuration from environment variables.
// FUNCTION_KEYS format: "key1,key2"
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("app_env", "")
	v.SetDefault("functions_customhandler_port", 0)
	v.SetDefault("port", 8080)
	v.SetDefault("storage_backend", "azure")
	v.SetDefault("azure_storage_connection_string", "")
	v.SetDefault("storage_create_container", false)
	v.SetDefault("storage_max_retries", 0)
	v.SetDefault("storage_timeout_seconds", 30)
	v.SetDefault("startup_timeout_seconds", 30)
	v.SetDefault("db_url", "")
	v.SetDefault("storage_file_root", "blobs")
	v.SetDefault("function_keys", "")
	v.SetDefault("max_body_bytes", 32<<20)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("metrics_enabled", true)

	// The Functions host hands a custom handler its port; it wins over PORT.
	port := v.GetInt("functions_customhandler_port")
	if port == 0 {
		port = v.GetInt("port")
	}
	if port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("invalid port: %d", port)
	}

	maxBody := v.GetInt64("max_body_bytes")
	if maxBody <= 0 {
		maxBody = 32 << 20
	}

	retries := v.GetInt("storage_max_retries")
	if retries < 0 {
		retries = 0
	}
	if retries > 10 {
		retries = 10
	}

	cfg := Config{
		Environment: strings.ToLower(strings.TrimSpace(v.GetString("app_env"))),
		Server: ServerConfig{
			Port:         port,
			MaxBodyBytes: maxBody,
		},
		Storage: StorageConfig{
			Backend:               strings.ToLower(strings.TrimSpace(v.GetString("storage_backend"))),
			AzureConnectionString: strings.TrimSpace(v.GetString("azure_storage_connection_string")),
			CreateContainer:       v.GetBool("storage_create_container"),
			MaxRetries:            int32(retries),
			Timeout:               seconds(v.GetInt("storage_timeout_seconds"), 30),
			StartupTimeout:        seconds(v.GetInt("startup_timeout_seconds"), 30),
			DBURL:                 strings.TrimSpace(v.GetString("db_url")),
			FileRoot:              strings.TrimSpace(v.GetString("storage_file_root")),
		},
		Auth: AuthConfig{
			FunctionKeys: parseKeys(v.GetString("function_keys")),
		},
		Log: LogConfig{
			Level:  strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
			Format: strings.ToLower(strings.TrimSpace(v.GetString("log_format"))),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics_enabled"),
		},
	}

	if err := cfg.validateStorage(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validateStorage() error {
	switch c.Storage.Backend {
	case "azure":
		if c.Storage.AzureConnectionString == "" {
			return errors.New("AZURE_STORAGE_CONNECTION_STRING required")
		}
	case "postgres":
		if c.Storage.DBURL == "" {
			return errors.New("DB_URL required")
		}
	case "file":
		if c.Storage.FileRoot == "" {
			return errors.New("STORAGE_FILE_ROOT required")
		}
	case "memory":
		if !c.IsLocalDevelopment() {
			return errors.New("memory storage is only allowed in local/dev environments")
		}
	default:
		return fmt.Errorf(`STORAGE_BACKEND must be one of "azure", "postgres", "file", "memory", got %q`, c.Storage.Backend)
	}
	return nil
}

func parseKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

func seconds(n, fallback int) time.Duration {
	if n <= 0 {
		n = fallback
	}
	return time.Duration(n) * time.Second
}

// IsLocalDevelopment reports whether APP_ENV names a local environment.
func (c Config) IsLocalDevelopment() bool {
	switch c.Environment {
	case "", "local", "dev", "development", "test":
		return true
	default:
		return false
	}
}
