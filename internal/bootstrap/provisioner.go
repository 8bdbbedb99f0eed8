// Package bootstrap provisions a single droplet for a Node.js content
// application: source checkout, PostgreSQL database, runtime and process
// supervisor, environment file and firewall rules.
//
// Each step checks current state before acting, so a re-run on an already
// provisioned host performs no duplicate work. Steps do not roll back:
// installed software is kept even when a later step fails.
package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ksyq12/dropship/internal/config"
	apperrors "github.com/ksyq12/dropship/internal/errors"
	"github.com/ksyq12/dropship/internal/executor"
	"github.com/ksyq12/dropship/internal/logger"
	"github.com/ksyq12/dropship/internal/output"
	"github.com/ksyq12/dropship/internal/pkgmgr"
	"github.com/ksyq12/dropship/internal/template"
)

// Provisioner runs the droplet bootstrap steps for one application.
type Provisioner struct {
	exec   executor.CommandExecutor
	pkgs   *pkgmgr.Manager
	cfg    config.DeployConfig
	appDir string
}

// New creates a Provisioner for the resolved deploy configuration.
func New(exec executor.CommandExecutor, pkgs *pkgmgr.Manager, cfg config.DeployConfig) *Provisioner {
	return &Provisioner{
		exec:   exec,
		pkgs:   pkgs,
		cfg:    cfg,
		appDir: cfg.AppDir(),
	}
}

// AppDir returns the application checkout directory.
func (p *Provisioner) AppDir() string {
	return p.appDir
}

// InstallBasePackages ensures the system-level collaborators are present.
func (p *Provisioner) InstallBasePackages() error {
	packages := []struct{ binary, pkg string }{
		{"git", "git"},
		{"nginx", "nginx"},
		{"psql", "postgresql"},
		{"ufw", "ufw"},
	}
	for _, entry := range packages {
		if _, err := p.pkgs.EnsurePackage(entry.binary, entry.pkg); err != nil {
			return err
		}
	}
	return nil
}

// EnsureNode installs the Node.js runtime from the NodeSource channel
// when the binary is absent.
func (p *Provisioner) EnsureNode() error {
	if p.pkgs.Installed("node") {
		logger.Debug("node already installed, skipping")
		return nil
	}

	output.Info("Installing Node.js %d.x...", p.cfg.NodeMajor)
	setup := fmt.Sprintf("curl -fsSL https://deb.nodesource.com/setup_%d.x | bash -", p.cfg.NodeMajor)
	if out, err := p.exec.Execute("bash", "-c", setup); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInstall, fmt.Sprintf("nodesource setup failed: %s", string(out)), err)
	}
	if _, err := p.pkgs.EnsurePackage("node", "nodejs"); err != nil {
		return err
	}
	return nil
}

// EnsurePM2 installs the process supervisor globally through npm.
func (p *Provisioner) EnsurePM2() error {
	if p.pkgs.Installed("pm2") {
		logger.Debug("pm2 already installed, skipping")
		return nil
	}

	output.Info("Installing PM2...")
	if out, err := p.exec.Execute("npm", "install", "-g", "pm2"); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInstall, fmt.Sprintf("pm2 install failed: %s", string(out)), err)
	}
	return nil
}

// SetupDatabase creates the application role and database. Existing
// objects are left untouched; only presence is checked, never content.
func (p *Provisioner) SetupDatabase() error {
	exists, err := p.databaseExists()
	if err != nil {
		return err
	}
	if exists {
		logger.Debug("database %s already exists, skipping", p.cfg.DBName)
		return nil
	}

	output.Info("Creating database %s...", p.cfg.DBName)
	// single quotes doubled to stay inside the SQL string literal
	password := strings.ReplaceAll(p.cfg.DBPassword, "'", "''")
	stmts := fmt.Sprintf(
		"DO $$ BEGIN IF NOT EXISTS (SELECT FROM pg_roles WHERE rolname = '%s') THEN CREATE ROLE \"%s\" LOGIN PASSWORD '%s'; END IF; END $$;\n"+
			"CREATE DATABASE \"%s\" OWNER \"%s\";\n",
		p.cfg.DBUser, p.cfg.DBUser, password, p.cfg.DBName, p.cfg.DBUser)

	if out, err := p.exec.ExecuteInput(stmts, "sudo", "-u", "postgres", "psql", "-v", "ON_ERROR_STOP=1"); err != nil {
		return apperrors.WrapStep(apperrors.ErrCodeInstall, "database", fmt.Sprintf("creation failed: %s", string(out)), err)
	}
	return nil
}

func (p *Provisioner) databaseExists() (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM pg_database WHERE datname = '%s'", p.cfg.DBName)
	out, err := p.exec.Execute("sudo", "-u", "postgres", "psql", "-tAc", query)
	if err != nil {
		return false, apperrors.WrapStep(apperrors.ErrCodeInstall, "database", fmt.Sprintf("existence check failed: %s", string(out)), err)
	}
	return strings.TrimSpace(string(out)) == "1", nil
}

// WriteEnvFile renders the application environment file with generated
// secrets and the database connection parameters.
func (p *Provisioner) WriteEnvFile() error {
	secrets := NewSecrets()
	content, err := template.RenderEnv(template.EnvData{
		Domain:        p.cfg.Domain,
		AppPort:       p.cfg.AppPort,
		DBName:        p.cfg.DBName,
		DBUser:        p.cfg.DBUser,
		DBPassword:    p.cfg.DBPassword,
		SessionSecret: secrets.Session,
		JWTSecret:     secrets.JWT,
		AdminEmail:    p.cfg.AdminEmail,
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to render env file", err)
	}

	path := filepath.Join(p.appDir, ".env")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInstall, fmt.Sprintf("failed to write %s", path), err)
	}
	logger.Info("environment file written to %s", path)
	return nil
}

// BuildApp installs dependencies and runs the application build.
func (p *Provisioner) BuildApp() error {
	output.Info("Installing application dependencies...")
	if out, err := p.execInAppDir("npm", "ci"); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInstall, fmt.Sprintf("npm ci failed: %s", string(out)), err)
	}

	output.Info("Building application...")
	if out, err := p.execInAppDir("npm", "run", "build"); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInstall, fmt.Sprintf("npm run build failed: %s", string(out)), err)
	}
	return nil
}

// StartApp registers the application with PM2 and persists the process
// list across reboots.
func (p *Provisioner) StartApp() error {
	output.Info("Starting %s under PM2...", p.cfg.AppName)
	if out, err := p.execInAppDir("pm2", "start", "npm", "--name", p.cfg.AppName, "--", "start"); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInstall, fmt.Sprintf("pm2 start failed: %s", string(out)), err)
	}
	if out, err := p.exec.Execute("pm2", "save"); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInstall, fmt.Sprintf("pm2 save failed: %s", string(out)), err)
	}
	if out, err := p.exec.Execute("pm2", "startup", "systemd", "-u", "root", "--hp", "/root"); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInstall, fmt.Sprintf("pm2 startup failed: %s", string(out)), err)
	}
	return nil
}

// ConfigureFirewall opens SSH and web traffic and enables ufw.
func (p *Provisioner) ConfigureFirewall() error {
	rules := [][]string{
		{"allow", "OpenSSH"},
		{"allow", "Nginx Full"},
	}
	for _, rule := range rules {
		args := append([]string{}, rule...)
		if out, err := p.exec.Execute("ufw", args...); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInstall, fmt.Sprintf("ufw %s failed: %s", strings.Join(rule, " "), string(out)), err)
		}
	}
	if out, err := p.exec.Execute("ufw", "--force", "enable"); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInstall, fmt.Sprintf("ufw enable failed: %s", string(out)), err)
	}
	return nil
}

// execInAppDir runs a command with the app directory as working dir.
// The executor interface has no working-dir support, so cd through sh.
func (p *Provisioner) execInAppDir(name string, args ...string) ([]byte, error) {
	joined := name + " " + strings.Join(args, " ")
	return p.exec.Execute("sh", "-c", fmt.Sprintf("cd %s && %s", p.appDir, joined))
}
