package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Addr        string   `yaml:"addr"`
		Development bool     `yaml:"development"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Storage struct {
		// Driver selects the prediction store backend:
		// "sqlite", "postgres" or "csv".
		Driver string `yaml:"driver"`
		// Path is the database file for sqlite or the log file for csv.
		Path string `yaml:"path"`
		// URL is the DSN for postgres.
		URL string `yaml:"url"`
	} `yaml:"storage"`
	Classifier struct {
		// Mode selects the inference backend: "local" or "remote".
		Mode           string `yaml:"mode"`
		ModelPath      string `yaml:"model_path"`
		VectorizerPath string `yaml:"vectorizer_path"`
		ServiceURL     string `yaml:"service_url"`
	} `yaml:"classifier"`
	Auth struct {
		Enabled       bool   `yaml:"enabled"`
		JWTSecret     string `yaml:"jwt_secret"`
		AdminUsername string `yaml:"admin_username"`
		AdminPassword string `yaml:"admin_password"`
	} `yaml:"auth"`
	Alerts struct {
		TelegramBotToken    string  `yaml:"telegram_bot_token"`
		TelegramChatID      int64   `yaml:"telegram_chat_id"`
		ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	} `yaml:"alerts"`
}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.applyDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "sqlite"
	}
	if c.Storage.Driver == "sqlite" && c.Storage.Path == "" {
		c.Storage.Path = "data/jobguard.db"
	}
	if c.Storage.Driver == "csv" && c.Storage.Path == "" {
		c.Storage.Path = "data/predictions_log.csv"
	}
	if c.Classifier.Mode == "" {
		c.Classifier.Mode = "local"
	}
	if c.Alerts.ConfidenceThreshold == 0 {
		c.Alerts.ConfidenceThreshold = 90
	}
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "sqlite", "csv":
	case "postgres":
		if c.Storage.URL == "" {
			return fmt.Errorf("storage.url is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	switch c.Classifier.Mode {
	case "local":
		if c.Classifier.ModelPath == "" || c.Classifier.VectorizerPath == "" {
			return fmt.Errorf("classifier.model_path and classifier.vectorizer_path are required in local mode")
		}
	case "remote":
		if c.Classifier.ServiceURL == "" {
			return fmt.Errorf("classifier.service_url is required in remote mode")
		}
	default:
		return fmt.Errorf("unknown classifier mode %q", c.Classifier.Mode)
	}

	if c.Auth.Enabled {
		if c.Storage.Driver == "csv" {
			return fmt.Errorf("auth requires a relational storage driver, got %q", c.Storage.Driver)
		}
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("auth.jwt_secret is required when auth is enabled")
		}
		if c.Auth.AdminUsername == "" || c.Auth.AdminPassword == "" {
			return fmt.Errorf("auth.admin_username and auth.admin_password are required when auth is enabled")
		}
	}

	return nil
}
