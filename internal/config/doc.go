// Package config loads runtime configuration from environment variables.
package config
