// Package config loads the service configuration from defaults, a YAML file,
// a .env file, environment variables and command-line flags, in increasing
// order of precedence, and validates the result.
package config
