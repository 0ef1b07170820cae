// Package logger builds the application's slog.Logger. Production emits JSON;
// every other environment gets human-readable output from charmbracelet/log.
package logger
