package workflow

import (
	"fmt"

	"github.com/ksyq12/dropship/internal/certbot"
	"github.com/ksyq12/dropship/internal/config"
	"github.com/ksyq12/dropship/internal/output"
	"github.com/ksyq12/dropship/internal/pkgmgr"
	"github.com/ksyq12/dropship/internal/platform"
)

// Cert runs the certificate workflow against the host: detect the
// environment, install the required capabilities (web server for plugin
// modes, certbot, firewall tool), invoke certbot exactly once, and
// install the renewal deploy hook.
func (r *Runner) Cert(cfg config.CertConfig) (*certbot.Cert, error) {
	if err := r.requireRoot(); err != nil {
		return nil, err
	}

	var env *platform.HostEnvironment
	err := r.run("Detecting host environment", func() error {
		var derr error
		env, derr = r.detect(r.exec)
		return derr
	})
	if err != nil {
		return nil, err
	}
	if !env.Supported() {
		output.Warn("Unsupported distribution %q, continuing anyway", env.OS.ID)
		r.record("Distribution check", StatusWarned, fmt.Sprintf("unsupported distribution: %s", env.OS.ID))
	}

	pkgs := pkgmgr.New(r.exec, env.HasSnap)

	if cfg.UsesPlugin() {
		err = r.run(fmt.Sprintf("Ensuring %s is installed", cfg.Mode), func() error {
			return pkgs.EnsureWebServer(cfg.Mode)
		})
		if err != nil {
			return nil, err
		}
	} else {
		r.record("Ensuring web server is installed", StatusSkipped, fmt.Sprintf("%s mode needs no web server", cfg.Mode))
	}

	if err = r.run("Ensuring certbot is installed", pkgs.EnsureCertbot); err != nil {
		return nil, err
	}

	err = r.run("Ensuring firewall tool is installed", func() error {
		_, ferr := pkgs.EnsurePackage("ufw", "ufw")
		return ferr
	})
	if err != nil {
		return nil, err
	}

	certbot.SetExecutor(r.exec)
	defer certbot.ResetExecutor()

	var cert *certbot.Cert
	err = r.run("Requesting certificate", func() error {
		var ierr error
		cert, ierr = certbot.Issue(cfg)
		return ierr
	})
	if err != nil {
		return nil, err
	}

	err = r.run("Installing renewal hook", func() error {
		path, herr := r.hook.Install()
		if herr != nil {
			return herr
		}
		output.Info("Renewal hook installed at %s", path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.runSoft("Verifying renewal configuration", certbot.RenewDryRun)

	return cert, nil
}
