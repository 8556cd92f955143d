package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server
	GinMode    string `mapstructure:"GIN_MODE"`
	ServerPort string `mapstructure:"API_PORT"`

	// MongoDB
	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	// Store calls derive a per-request deadline from this.
	StoreTimeout time.Duration `mapstructure:"STORE_TIMEOUT_SECONDS"`

	// Auth
	JWTSecret string `mapstructure:"JWT_SECRET"`

	// Notification gateways
	EmailAPIURL      string        `mapstructure:"EMAIL_API_URL"`
	EmailAPIKey      string        `mapstructure:"EMAIL_API_KEY"`
	EmailFrom        string        `mapstructure:"EMAIL_FROM"`
	WhatsAppAPIURL   string        `mapstructure:"WHATSAPP_API_URL"`
	WhatsAppAPIKey   string        `mapstructure:"WHATSAPP_API_KEY"`
	NotifyTimeout    time.Duration `mapstructure:"NOTIFY_TIMEOUT_SECONDS"`
	CORSAllowOrigins []string      `mapstructure:"-"`

	// Logging
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()

	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("API_PORT", "8080")

	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "booking")
	v.SetDefault("STORE_TIMEOUT_SECONDS", 10)

	v.SetDefault("JWT_SECRET", "")

	v.SetDefault("EMAIL_API_URL", "")
	v.SetDefault("EMAIL_API_KEY", "")
	v.SetDefault("EMAIL_FROM", "no-reply@careflow.local")
	v.SetDefault("WHATSAPP_API_URL", "")
	v.SetDefault("WHATSAPP_API_KEY", "")
	v.SetDefault("NOTIFY_TIMEOUT_SECONDS", 15)
	v.SetDefault("CORS_ALLOW_ORIGINS", []string{"*"})

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Durations are configured as whole seconds; the origins list as a
	// space- or comma-separated env value.
	cfg.StoreTimeout = time.Duration(v.GetInt("STORE_TIMEOUT_SECONDS")) * time.Second
	cfg.NotifyTimeout = time.Duration(v.GetInt("NOTIFY_TIMEOUT_SECONDS")) * time.Second
	cfg.CORSAllowOrigins = v.GetStringSlice("CORS_ALLOW_ORIGINS")

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	return &cfg, nil
}
