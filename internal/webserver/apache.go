package webserver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ksyq12/dropship/internal/executor"
)

// ApacheDriver implements the Driver interface for Apache2
type ApacheDriver struct {
	paths Paths
	exec  executor.CommandExecutor
}

// NewApache creates a new Apache driver with default Debian/Ubuntu paths
func NewApache(exec executor.CommandExecutor) *ApacheDriver {
	return &ApacheDriver{
		paths: Paths{
			Available: "/etc/apache2/sites-available",
			Enabled:   "/etc/apache2/sites-enabled",
		},
		exec: exec,
	}
}

// NewApacheWithPaths creates a new Apache driver with custom paths (for testing)
func NewApacheWithPaths(available, enabled string, exec executor.CommandExecutor) *ApacheDriver {
	return &ApacheDriver{
		paths: Paths{
			Available: available,
			Enabled:   enabled,
		},
		exec: exec,
	}
}

// Name returns the driver name
func (a *ApacheDriver) Name() string {
	return "apache"
}

// Service returns the systemd unit name
func (a *ApacheDriver) Service() string {
	return "apache2"
}

// Paths returns the config paths
func (a *ApacheDriver) Paths() Paths {
	return a.paths
}

// configFileName returns the config file name with .conf extension
func (a *ApacheDriver) configFileName(domain string) string {
	return domain + ".conf"
}

// Install writes a site config with .conf extension and activates it
func (a *ApacheDriver) Install(domain, configContent string) error {
	if err := os.MkdirAll(a.paths.Available, 0755); err != nil {
		return fmt.Errorf("failed to create sites-available directory: %w", err)
	}
	if err := os.MkdirAll(a.paths.Enabled, 0755); err != nil {
		return fmt.Errorf("failed to create sites-enabled directory: %w", err)
	}

	configPath := filepath.Join(a.paths.Available, a.configFileName(domain))
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to write site config: %w", err)
	}

	target := filepath.Join(a.paths.Enabled, a.configFileName(domain))
	if _, err := os.Lstat(target); err == nil {
		return nil
	}
	if err := os.Symlink(configPath, target); err != nil {
		return fmt.Errorf("failed to enable site: %w", err)
	}

	return nil
}

// Remove deactivates and deletes a site config
func (a *ApacheDriver) Remove(domain string) error {
	target := filepath.Join(a.paths.Enabled, a.configFileName(domain))
	if info, err := os.Lstat(target); err == nil {
		if info.Mode()&os.ModeSymlink == 0 {
			return fmt.Errorf("site %s is not a symlink, refusing to remove", domain)
		}
		if err := os.Remove(target); err != nil {
			return fmt.Errorf("failed to disable site: %w", err)
		}
	}

	configPath := filepath.Join(a.paths.Available, a.configFileName(domain))
	if err := os.Remove(configPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("site %s not found", domain)
		}
		return fmt.Errorf("failed to remove site config: %w", err)
	}

	return nil
}

// IsEnabled checks if a site is activated
func (a *ApacheDriver) IsEnabled(domain string) (bool, error) {
	_, err := os.Lstat(filepath.Join(a.paths.Enabled, a.configFileName(domain)))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check site status: %w", err)
	}
	return true, nil
}

// Test validates the apache config syntax
func (a *ApacheDriver) Test() error {
	out, err := a.exec.Execute("apachectl", "configtest")
	if err != nil {
		return fmt.Errorf("apache config test failed: %s", string(out))
	}
	return nil
}

// Reload reloads apache to apply changes
func (a *ApacheDriver) Reload() error {
	out, err := a.exec.Execute("systemctl", "reload", "apache2")
	if err != nil {
		out, err = a.exec.Execute("apachectl", "graceful")
		if err != nil {
			return fmt.Errorf("failed to reload apache: %s", string(out))
		}
	}
	return nil
}
