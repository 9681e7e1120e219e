package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "SYMPAC"

// ConfigFileEnv names the environment variable that points at an explicit config file.
const ConfigFileEnv = EnvPrefix + "_CONFIG_FILE"

// scalarKeys lists the keys that may be supplied through the environment.
// The category table is a list and can only come from a config file.
var scalarKeys = []string{
	"server.port",
	"server.log_level",
	"ilsws.scheme",
	"ilsws.hostname",
	"ilsws.port",
	"ilsws.webapp",
	"ilsws.client_id",
	"ilsws.originating_app_id",
	"ilsws.reset_pin_url",
	"patron.language.enabled",
	"patron.language.field",
	"patron.language.default_key",
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	// A missing .env file is normal outside of local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path := os.Getenv(ConfigFileEnv); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range scalarKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("ilsws.scheme", "https")
	v.SetDefault("ilsws.port", 443)
	v.SetDefault("ilsws.originating_app_id", "sympactools")
	v.SetDefault("patron.language.enabled", false)
	v.SetDefault("patron.language.field", "language")
}
