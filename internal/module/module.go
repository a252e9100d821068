// Package module defines the interface server modules implement and the
// registry that manages their lifecycle. Modules are composed at compile
// time in main and mounted onto the HTTP server by route.
package module

import (
	"context"
	"net/http"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Route represents an HTTP route exposed by a module.
type Route struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

// Module defines the interface all shapelift server modules implement.
type Module interface {
	// Name returns the module's unique identifier (e.g., "dataset").
	Name() string

	// Version returns the module's semantic version.
	Version() string

	// Init initializes the module with its configuration subtree and logger.
	Init(config *viper.Viper, logger *zap.Logger) error

	// Start begins the module's background operations.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the module.
	Stop() error

	// Routes returns the HTTP routes this module exposes.
	Routes() []Route
}
