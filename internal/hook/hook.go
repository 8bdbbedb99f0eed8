// Package hook installs the certificate renewal deploy hook: a script the
// ACME client's scheduler runs after every future successful renewal.
package hook

import (
	"fmt"
	"os"
	"path/filepath"

	apperrors "github.com/ksyq12/dropship/internal/errors"
	"github.com/ksyq12/dropship/internal/logger"
	"github.com/ksyq12/dropship/internal/template"
	"github.com/ksyq12/dropship/internal/webserver"
)

// DeployHookDir is where certbot discovers deploy hooks.
const DeployHookDir = "/etc/letsencrypt/renewal-hooks/deploy"

// hookFileName is the installed script name.
const hookFileName = "dropship-reload.sh"

// Installer writes the renewal deploy hook.
type Installer struct {
	dir string
}

// NewInstaller creates an Installer targeting the standard certbot
// deploy-hook directory.
func NewInstaller() *Installer {
	return &Installer{dir: DeployHookDir}
}

// NewInstallerWithDir creates an Installer with a custom directory (for testing).
func NewInstallerWithDir(dir string) *Installer {
	return &Installer{dir: dir}
}

// Path returns where the hook script is installed.
func (i *Installer) Path() string {
	return filepath.Join(i.dir, hookFileName)
}

// Install renders and writes the hook script, executable. The script
// reloads each candidate web server that is active, restarts it when the
// reload is rejected, and never fails the overall hook. Re-installing
// overwrites the previous script, so the operation is repeatable.
func (i *Installer) Install() (string, error) {
	content, err := template.RenderDeployHook(template.HookData{
		Services: webserver.Services(),
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeHook, "failed to render deploy hook", err)
	}

	if err := os.MkdirAll(i.dir, 0755); err != nil {
		return "", wrapFS(fmt.Sprintf("failed to create %s", i.dir), err)
	}

	path := i.Path()
	if err := os.WriteFile(path, []byte(content), 0755); err != nil {
		return "", wrapFS(fmt.Sprintf("failed to write %s", path), err)
	}

	logger.Info("deploy hook installed at %s", path)
	return path, nil
}

// wrapFS codes a filesystem failure: hooks live under /etc, so a denied
// write means the process lacks privileges rather than a hook problem.
func wrapFS(msg string, err error) error {
	if os.IsPermission(err) {
		return apperrors.Wrap(apperrors.ErrCodePermission, msg, err)
	}
	return apperrors.Wrap(apperrors.ErrCodeHook, msg, err)
}
