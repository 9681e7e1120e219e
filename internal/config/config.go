package config

import (
	"fmt"
	"strings"

	"github.com/phrazzld/sympac-api/internal/domain"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	ILSWS  ILSWSConfig  `mapstructure:"ilsws"  validate:"required"`
	Patron PatronConfig `mapstructure:"patron"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// ILSWSConfig describes how to reach the upstream ILS web service.
type ILSWSConfig struct {
	Scheme           string `mapstructure:"scheme"             validate:"required,oneof=http https"`
	Hostname         string `mapstructure:"hostname"           validate:"required"`
	Port             int    `mapstructure:"port"               validate:"required,gt=0,lt=65536"`
	Webapp           string `mapstructure:"webapp"             validate:"required"`
	ClientID         string `mapstructure:"client_id"          validate:"required"`
	OriginatingAppID string `mapstructure:"originating_app_id" validate:"required"`
	// ResetPinURL is the landing page the ILS links to from reset emails.
	// The gateway appends the one-time token placeholder.
	ResetPinURL string `mapstructure:"reset_pin_url" validate:"required,url"`
}

// BaseURL returns the root URL of the web service, e.g.
// https://ils.example.org:443/ilsws.
func (c ILSWSConfig) BaseURL() string {
	return fmt.Sprintf("%s://%s:%d/%s", c.Scheme, c.Hostname, c.Port, strings.Trim(c.Webapp, "/"))
}

// PatronConfig holds the defaults applied to patron records.
type PatronConfig struct {
	CategoryDefaults []CategoryDefaultConfig `mapstructure:"category_defaults" validate:"unique=Slot,dive"`
	Language         LanguageConfig          `mapstructure:"language"`
}

// CategoryDefaultConfig is one row of the category defaults table.
type CategoryDefaultConfig struct {
	Slot        string `mapstructure:"slot"         validate:"required,alphanum"`
	Key         string `mapstructure:"key"          validate:"required"`
	DisplayName string `mapstructure:"display_name"`
}

// LanguageConfig controls the language enrichment done after registration.
type LanguageConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Field      string `mapstructure:"field"       validate:"required_if=Enabled true"`
	DefaultKey string `mapstructure:"default_key" validate:"required_if=Enabled true"`
}

// Categories converts the configured table to domain values, preserving order.
func (c PatronConfig) Categories() []domain.CategoryDefault {
	out := make([]domain.CategoryDefault, 0, len(c.CategoryDefaults))
	for _, cat := range c.CategoryDefaults {
		out = append(out, domain.CategoryDefault{
			Slot:        cat.Slot,
			Key:         cat.Key,
			DisplayName: cat.DisplayName,
		})
	}
	return out
}
