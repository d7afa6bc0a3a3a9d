package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config struct holds all configuration values needed by the application.
// The struct tags (mapstructure) tell Viper how to map environment variables to struct fields.
type Config struct {
	ServerAddress      string        `mapstructure:"SERVER_ADDRESS"`        // Address where the server will run (e.g., "localhost:8080")
	LightningAPIURL    string        `mapstructure:"LIGHTNING_API_URL"`     // Inference endpoint used for skill-gap analysis
	LightningAPIToken  string        `mapstructure:"LIGHTNING_API_TOKEN"`   // Bearer token sent to the inference endpoint
	FrontendURL        string        `mapstructure:"FRONTEND_URL"`          // Allowed CORS origin; empty disables CORS
	LogLevel           string        `mapstructure:"LOG_LEVEL"`             // debug, info, warn or error
	HTTPClientTimeout  time.Duration `mapstructure:"HTTP_CLIENT_TIMEOUT"`   // 0 leaves the outbound client without a timeout
	TrustedProxies     []string      `mapstructure:"TRUSTED_PROXIES"`       // Comma-separated IPs/CIDRs allowed to set X-Forwarded-For; empty trusts none
	RateLimitPerMinute int           `mapstructure:"RATE_LIMIT_PER_MINUTE"` // 0 disables inbound rate limiting
	RateLimitBurst     int           `mapstructure:"RATE_LIMIT_BURST"`
	ShutdownTimeout    time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

// LoadConfig loads environment variables from a file and environment into the Config struct.
// A missing app.env is not an error: every key can come from the environment alone.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()

	// Add the directory where the config file is located
	v.AddConfigPath(path)

	// Specify the name of the config file (without extension)
	v.SetConfigName("app")

	// Specify the file type. In this case, we're using a .env-style file
	v.SetConfigType("env")

	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("LIGHTNING_API_URL", "")
	v.SetDefault("LIGHTNING_API_TOKEN", "")
	v.SetDefault("FRONTEND_URL", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_CLIENT_TIMEOUT", time.Duration(0))
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 30)
	v.SetDefault("RATE_LIMIT_BURST", 5)
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("TRUSTED_PROXIES", []string{})

	// Automatically read in any environment variables that match the keys
	v.AutomaticEnv()

	// Read the config file
	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("failed to read config: %w", err)
		}
		err = nil
	}

	// Unmarshal the config values into the Config struct
	err = v.Unmarshal(&config)
	return
}

// Validate reports configuration that would make every extraction fail.
func (c Config) Validate() error {
	if c.LightningAPIURL == "" {
		return errors.New("LIGHTNING_API_URL is required")
	}
	if c.LightningAPIToken == "" {
		return errors.New("LIGHTNING_API_TOKEN is required")
	}
	if c.RateLimitPerMinute < 0 || c.RateLimitBurst < 0 {
		return errors.New("rate limit settings must not be negative")
	}
	return nil
}
