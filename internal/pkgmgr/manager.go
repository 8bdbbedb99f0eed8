// Package pkgmgr ensures required capabilities are present on the host.
//
// Every install is guarded by a presence check, so re-running a workflow
// on a fully provisioned host performs no installation side effects. The
// package index refresh runs at most once per Manager lifetime no matter
// how many installs need it.
package pkgmgr

import (
	"fmt"
	"os"

	apperrors "github.com/ksyq12/dropship/internal/errors"
	"github.com/ksyq12/dropship/internal/executor"
	"github.com/ksyq12/dropship/internal/logger"
	"github.com/ksyq12/dropship/internal/output"
)

// geteuid is swapped out in tests.
var geteuid = os.Geteuid

// snapCertbotLink is where the classic snap exposes the certbot binary.
const snapCertbotLink = "/snap/bin/certbot"

// Manager installs packages through apt-get, tracking whether the package
// index has been refreshed during this run.
type Manager struct {
	exec    executor.CommandExecutor
	hasSnap bool
	updated bool
}

// New creates a Manager. hasSnap controls whether the sandboxed channel
// is attempted for certbot.
func New(exec executor.CommandExecutor, hasSnap bool) *Manager {
	return &Manager{exec: exec, hasSnap: hasSnap}
}

// RequireRoot fails when the process does not run with root privileges.
// Package installation and service control need them.
func RequireRoot() error {
	if geteuid() != 0 {
		return apperrors.ErrRootRequired
	}
	return nil
}

// Installed checks whether a binary is available on PATH.
func (m *Manager) Installed(binary string) bool {
	_, err := m.exec.LookPath(binary)
	return err == nil
}

// refreshIndex runs apt-get update at most once per Manager lifetime.
func (m *Manager) refreshIndex() error {
	if m.updated {
		return nil
	}

	logger.Info("refreshing package index")
	if out, err := m.exec.Execute("apt-get", "update", "-qq"); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInstall, fmt.Sprintf("apt-get update failed: %s", string(out)), err)
	}
	m.updated = true
	return nil
}

// EnsurePackage installs pkg via apt-get unless the binary is already on
// PATH. It reports whether an installation happened.
func (m *Manager) EnsurePackage(binary, pkg string) (bool, error) {
	if m.Installed(binary) {
		logger.Debug("%s already installed, skipping", binary)
		return false, nil
	}

	if err := m.refreshIndex(); err != nil {
		return false, err
	}

	output.Info("Installing %s...", pkg)
	if out, err := m.exec.Execute("apt-get", "install", "-y", pkg); err != nil {
		return false, apperrors.Wrap(apperrors.ErrCodeInstall, fmt.Sprintf("apt-get install %s failed: %s", pkg, string(out)), err)
	}
	return true, nil
}

// EnsureCertbot installs the ACME client. The sandboxed snap channel is
// preferred; when it is unavailable or fails, the system package manager
// is tried once as the alternate path. No further retries.
func (m *Manager) EnsureCertbot() error {
	if m.Installed("certbot") {
		logger.Debug("certbot already installed, skipping")
		return nil
	}

	if m.hasSnap {
		output.Info("Installing certbot from snap...")
		if _, err := m.exec.Execute("snap", "install", "--classic", "certbot"); err == nil {
			m.linkSnapCertbot()
			return nil
		}
		logger.Warn("snap install failed, falling back to apt")
		output.Warn("Snap install failed, falling back to the system package manager")
	}

	if _, err := m.EnsurePackage("certbot", "certbot"); err != nil {
		return err
	}
	return nil
}

// linkSnapCertbot puts the snap binary on the standard PATH. Best-effort:
// the snap bin directory is usually on PATH anyway.
func (m *Manager) linkSnapCertbot() {
	if _, err := m.exec.Execute("ln", "-sf", snapCertbotLink, "/usr/bin/certbot"); err != nil {
		logger.Warn("could not link %s: %v", snapCertbotLink, err)
	}
}

// EnsureWebServer installs the web server required by a plugin mode.
func (m *Manager) EnsureWebServer(mode string) error {
	var binary, pkg string
	switch mode {
	case "nginx":
		binary, pkg = "nginx", "nginx"
	case "apache":
		binary, pkg = "apache2", "apache2"
	default:
		return nil // certonly modes need no web server
	}

	_, err := m.EnsurePackage(binary, pkg)
	return err
}
