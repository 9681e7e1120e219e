// Package config handles configuration loading, parsing, and validation
// from various sources (environment variables, an optional .env file and a
// YAML config file). It provides type-safe access to the server, upstream
// ILS and patron-default settings, which are read-only after startup.
package config
