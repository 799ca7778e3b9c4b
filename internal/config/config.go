package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the client.
type Config struct {
	AppName     string
	AppEnv      string
	APIBaseURL  string
	AdminEmail  string
	HTTPTimeout time.Duration
	SessionFile string
}

// Load reads configuration values from environment variables and an
// optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CARBON")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Carbon Tracker CLI")
	v.SetDefault("app.env", "development")
	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("admin.email", "admin@carbontracker.com")
	v.SetDefault("http.timeout", "30s")

	timeoutString := v.GetString("http.timeout")
	if timeoutString == "" {
		timeoutString = "30s"
	}

	timeout, err := time.ParseDuration(timeoutString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid http timeout: %w", err)
	}

	cfg := Config{
		AppName:     v.GetString("app.name"),
		AppEnv:      v.GetString("app.env"),
		APIBaseURL:  v.GetString("api.base_url"),
		AdminEmail:  v.GetString("admin.email"),
		HTTPTimeout: timeout,
		SessionFile: v.GetString("session.file"),
	}

	if cfg.APIBaseURL == "" {
		return Config{}, fmt.Errorf("api base url must be provided")
	}
	if cfg.AdminEmail == "" {
		return Config{}, fmt.Errorf("admin email must be provided")
	}

	if cfg.SessionFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.SessionFile = filepath.Join(home, ".carbontracker", "session.json")
	}

	return cfg, nil
}
