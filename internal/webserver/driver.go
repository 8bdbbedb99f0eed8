// Package webserver writes and activates reverse-proxy site configurations
// for the web servers the workflows integrate with (Nginx, Apache).
package webserver

import (
	"fmt"

	"github.com/ksyq12/dropship/internal/executor"
)

// Driver is the interface both web server integrations implement
type Driver interface {
	// Name returns the driver name (nginx, apache)
	Name() string

	// Service returns the systemd unit controlling the server
	Service() string

	// Install writes a site config and activates it via symlink
	Install(domain, configContent string) error

	// Remove deactivates and deletes a site config
	Remove(domain string) error

	// IsEnabled checks if a site is activated
	IsEnabled(domain string) (bool, error)

	// Test validates the server config syntax
	Test() error

	// Reload reloads the server, falling back to the binary's own
	// reload when systemd rejects it
	Reload() error

	// Paths returns the driver's config paths
	Paths() Paths
}

// Paths contains the server config directory paths
type Paths struct {
	Available string // config available directory
	Enabled   string // config enabled directory
}

// New creates the driver for the named web server.
func New(name string, exec executor.CommandExecutor) (Driver, error) {
	switch name {
	case "nginx":
		return NewNginx(exec), nil
	case "apache":
		return NewApache(exec), nil
	default:
		return nil, fmt.Errorf("unknown web server: %s (available: nginx, apache)", name)
	}
}

// Services returns the systemd units the renewal hook considers.
// The fixed set matches the servers certificate issuance integrates with.
func Services() []string {
	return []string{"nginx", "apache2"}
}
