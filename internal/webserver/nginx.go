package webserver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ksyq12/dropship/internal/executor"
)

// NginxDriver implements the Driver interface for Nginx
type NginxDriver struct {
	paths Paths
	exec  executor.CommandExecutor
}

// NewNginx creates a new Nginx driver with default Debian/Ubuntu paths
func NewNginx(exec executor.CommandExecutor) *NginxDriver {
	return &NginxDriver{
		paths: Paths{
			Available: "/etc/nginx/sites-available",
			Enabled:   "/etc/nginx/sites-enabled",
		},
		exec: exec,
	}
}

// NewNginxWithPaths creates a new Nginx driver with custom paths (for testing)
func NewNginxWithPaths(available, enabled string, exec executor.CommandExecutor) *NginxDriver {
	return &NginxDriver{
		paths: Paths{
			Available: available,
			Enabled:   enabled,
		},
		exec: exec,
	}
}

// Name returns the driver name
func (n *NginxDriver) Name() string {
	return "nginx"
}

// Service returns the systemd unit name
func (n *NginxDriver) Service() string {
	return "nginx"
}

// Paths returns the config paths
func (n *NginxDriver) Paths() Paths {
	return n.paths
}

// Install writes a site config to sites-available and links it into
// sites-enabled. Re-installing an enabled site rewrites the config in
// place and keeps the existing symlink.
func (n *NginxDriver) Install(domain, configContent string) error {
	if err := os.MkdirAll(n.paths.Available, 0755); err != nil {
		return fmt.Errorf("failed to create sites-available directory: %w", err)
	}
	if err := os.MkdirAll(n.paths.Enabled, 0755); err != nil {
		return fmt.Errorf("failed to create sites-enabled directory: %w", err)
	}

	configPath := filepath.Join(n.paths.Available, domain)
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to write site config: %w", err)
	}

	target := filepath.Join(n.paths.Enabled, domain)
	if _, err := os.Lstat(target); err == nil {
		return nil // already enabled
	}
	if err := os.Symlink(configPath, target); err != nil {
		return fmt.Errorf("failed to enable site: %w", err)
	}

	return nil
}

// Remove deactivates and deletes a site config
func (n *NginxDriver) Remove(domain string) error {
	target := filepath.Join(n.paths.Enabled, domain)
	if info, err := os.Lstat(target); err == nil {
		if info.Mode()&os.ModeSymlink == 0 {
			return fmt.Errorf("site %s is not a symlink, refusing to remove", domain)
		}
		if err := os.Remove(target); err != nil {
			return fmt.Errorf("failed to disable site: %w", err)
		}
	}

	configPath := filepath.Join(n.paths.Available, domain)
	if err := os.Remove(configPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("site %s not found", domain)
		}
		return fmt.Errorf("failed to remove site config: %w", err)
	}

	return nil
}

// IsEnabled checks if a site is activated
func (n *NginxDriver) IsEnabled(domain string) (bool, error) {
	_, err := os.Lstat(filepath.Join(n.paths.Enabled, domain))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check site status: %w", err)
	}
	return true, nil
}

// Test validates the nginx config syntax
func (n *NginxDriver) Test() error {
	out, err := n.exec.Execute("nginx", "-t")
	if err != nil {
		return fmt.Errorf("nginx config test failed: %s", string(out))
	}
	return nil
}

// Reload reloads nginx to apply changes
func (n *NginxDriver) Reload() error {
	out, err := n.exec.Execute("systemctl", "reload", "nginx")
	if err != nil {
		// Try nginx -s reload as fallback
		out, err = n.exec.Execute("nginx", "-s", "reload")
		if err != nil {
			return fmt.Errorf("failed to reload nginx: %s", string(out))
		}
	}
	return nil
}
