package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	WhatsApp WhatsAppConfig
	Assets   AssetsConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

type AuthConfig struct {
	APIKeys []string // Optional API keys; empty disables auth
}

type WhatsAppConfig struct {
	GatewayURL  string
	Session     string
	Token       string
	Recipient   string // Fixed destination chat; never per-request
	BrowserPath string // Optional browser executable forwarded to the gateway
}

type AssetsConfig struct {
	Dir string // Base directory for item images
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "3000"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 120),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Auth: AuthConfig{
			APIKeys: getEnvAsSlice("API_KEYS", nil),
		},
		WhatsApp: WhatsAppConfig{
			GatewayURL:  getEnv("WA_GATEWAY_URL", "http://localhost:21465"),
			Session:     getEnv("WA_SESSION", "rural-dung-cakes"),
			Token:       getEnv("WA_TOKEN", ""),
			Recipient:   getEnv("WA_RECIPIENT", "919301680755@c.us"),
			BrowserPath: getEnv("CHROMIUM_PATH", ""),
		},
		Assets: AssetsConfig{
			Dir: getEnv("ASSET_DIR", "public"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.WhatsApp.GatewayURL == "" {
		return fmt.Errorf("WA_GATEWAY_URL is required")
	}

	if c.WhatsApp.Recipient == "" {
		return fmt.Errorf("WA_RECIPIENT is required")
	}

	if c.Assets.Dir == "" {
		return fmt.Errorf("ASSET_DIR is required")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
