// Package log wraps log/slog so every line a binary emits carries its
// component name.
package log

import (
	"log/slog"
	"os"
)

// Component names for the binaries.
const (
	ComponentAPI    = "api"
	ComponentPeers  = "peers"
	ComponentWorker = "worker"
)

// Config holds logger configuration
type Config struct {
	Level     slog.Level
	Component string
	Handler   slog.Handler
}

// DefaultConfig returns sensible defaults for logging
func DefaultConfig() Config {
	return Config{
		Level:     slog.LevelInfo,
		Component: ComponentAPI,
	}
}

// New builds a logger whose handler stamps every record with the configured
// component, so plain slog calls carry it after SetDefault.
func New(config Config) *slog.Logger {
	handler := config.Handler
	if handler == nil {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: config.Level})
	}
	component := config.Component
	if component == "" {
		component = DefaultConfig().Component
	}
	handler = handler.WithAttrs([]slog.Attr{slog.String("component", component)})
	return slog.New(handler)
}

// SetDefault sets the default logger for the application
func SetDefault(logger *slog.Logger) {
	slog.SetDefault(logger)
}
