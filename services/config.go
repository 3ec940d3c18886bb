package services

import (
	"fmt"
	"log/slog"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	AI       AIConfig
	JWT      JWTConfig
	Call     CallConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	URL          string
	Seed         bool
	LogLevel     string
	MaxIdleConns int
	MaxOpenConns int
}

type AIConfig struct {
	GeminiAPIKey string
}

type JWTConfig struct {
	Secret string
}

type CallConfig struct {
	APIKey  string
	BaseURL string
}

type StorageConfig struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Domain    string
}

// LoadConfig loads configuration from environment variables and config files
func LoadConfig() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("database.url", "")
	viper.SetDefault("database.seed", "true")
	viper.SetDefault("database.log_level", "silent")
	viper.SetDefault("database.max_idle_conns", "10")
	viper.SetDefault("database.max_open_conns", "100")
	viper.SetDefault("gemini.api_key", "")
	viper.SetDefault("jwt.secret", "")
	viper.SetDefault("call.api_key", "")
	viper.SetDefault("call.base_url", "https://api.retellai.com")
	viper.SetDefault("storage.access_key", "")
	viper.SetDefault("storage.secret_key", "")
	viper.SetDefault("storage.bucket", "")
	viper.SetDefault("storage.domain", "")

	// Map environment variables to config keys
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("database.url", "DATABASE_URL")
	viper.BindEnv("database.seed", "DATABASE_SEED")
	viper.BindEnv("database.log_level", "DATABASE_LOG_LEVEL")
	viper.BindEnv("database.max_idle_conns", "DATABASE_MAX_IDLE_CONNS")
	viper.BindEnv("database.max_open_conns", "DATABASE_MAX_OPEN_CONNS")
	viper.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	viper.BindEnv("jwt.secret", "JWT_SECRET")
	viper.BindEnv("call.api_key", "CALL_PROVIDER_API_KEY")
	viper.BindEnv("call.base_url", "CALL_PROVIDER_BASE_URL")
	viper.BindEnv("storage.access_key", "STORAGE_ACCESS_KEY")
	viper.BindEnv("storage.secret_key", "STORAGE_SECRET_KEY")
	viper.BindEnv("storage.bucket", "STORAGE_BUCKET")
	viper.BindEnv("storage.domain", "STORAGE_DOMAIN")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Warn("Config file not found, using defaults and environment variables")
		} else {
			slog.Error("Error reading config file", "error", err)
		}
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("server.port"),
		},
		Database: DatabaseConfig{
			URL:          viper.GetString("database.url"),
			Seed:         viper.GetBool("database.seed"),
			LogLevel:     viper.GetString("database.log_level"),
			MaxIdleConns: viper.GetInt("database.max_idle_conns"),
			MaxOpenConns: viper.GetInt("database.max_open_conns"),
		},
		AI: AIConfig{
			GeminiAPIKey: viper.GetString("gemini.api_key"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("jwt.secret"),
		},
		Call: CallConfig{
			APIKey:  viper.GetString("call.api_key"),
			BaseURL: viper.GetString("call.base_url"),
		},
		Storage: StorageConfig{
			AccessKey: viper.GetString("storage.access_key"),
			SecretKey: viper.GetString("storage.secret_key"),
			Bucket:    viper.GetString("storage.bucket"),
			Domain:    viper.GetString("storage.domain"),
		},
	}
}

// ValidateCall reports whether the voice-call provider is usable. A missing
// key fails fast with an explicit configuration error instead of surfacing
// later as a generic 500.
func (c *Config) ValidateCall() error {
	if c.Call.APIKey == "" {
		return fmt.Errorf("%w: CALL_PROVIDER_API_KEY is not set", ErrConfig)
	}
	return nil
}

// ValidateStorage reports whether the object-storage provider is usable.
func (c *Config) ValidateStorage() error {
	if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
		return fmt.Errorf("%w: STORAGE_ACCESS_KEY / STORAGE_SECRET_KEY are not set", ErrConfig)
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("%w: STORAGE_BUCKET is not set", ErrConfig)
	}
	if c.Storage.Domain == "" {
		return fmt.Errorf("%w: STORAGE_DOMAIN is not set", ErrConfig)
	}
	return nil
}
