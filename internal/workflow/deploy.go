package workflow

import (
	"fmt"

	"github.com/ksyq12/dropship/internal/config"
	"github.com/ksyq12/dropship/internal/output"
	"github.com/ksyq12/dropship/internal/pkgmgr"
	"github.com/ksyq12/dropship/internal/platform"
	"github.com/ksyq12/dropship/internal/template"
)

// Deploy runs the droplet bootstrap workflow: base packages, runtime,
// source checkout, database, environment file, application build and
// supervision, reverse proxy and firewall. Certificates are issued
// separately by the cert workflow once DNS points at the host.
func (r *Runner) Deploy(cfg config.DeployConfig) error {
	if err := r.requireRoot(); err != nil {
		return err
	}

	var env *platform.HostEnvironment
	err := r.run("Detecting host environment", func() error {
		var derr error
		env, derr = r.detect(r.exec)
		return derr
	})
	if err != nil {
		return err
	}
	if !env.Supported() {
		output.Warn("Unsupported distribution %q, continuing anyway", env.OS.ID)
		r.record("Distribution check", StatusWarned, fmt.Sprintf("unsupported distribution: %s", env.OS.ID))
	}

	pkgs := pkgmgr.New(r.exec, env.HasSnap)
	prov := r.newProvisioner(r.exec, pkgs, cfg)

	stages := []struct {
		name string
		fn   func() error
	}{
		{"Installing base packages", prov.InstallBasePackages},
		{"Installing Node.js runtime", prov.EnsureNode},
		{"Installing PM2 supervisor", prov.EnsurePM2},
		{"Cloning application repository", prov.CloneApp},
		{"Setting up PostgreSQL database", prov.SetupDatabase},
		{"Writing environment file", prov.WriteEnvFile},
		{"Building application", prov.BuildApp},
		{"Starting application under PM2", prov.StartApp},
	}
	for _, stage := range stages {
		if err := r.run(stage.name, stage.fn); err != nil {
			return err
		}
	}

	driver, err := r.newDriver("nginx", r.exec)
	if err != nil {
		return err
	}

	err = r.run("Configuring reverse proxy", func() error {
		content, rerr := template.RenderSite("nginx", template.SiteData{
			Domain:  cfg.Domain,
			AppPort: cfg.AppPort,
		})
		if rerr != nil {
			return rerr
		}
		if ierr := driver.Install(cfg.Domain, content); ierr != nil {
			return ierr
		}
		return driver.Test()
	})
	if err != nil {
		return err
	}

	r.runSoft("Reloading nginx", driver.Reload)

	if err := r.run("Configuring firewall", prov.ConfigureFirewall); err != nil {
		return err
	}

	output.Success("Deployment of %s complete", cfg.AppName)
	output.Info("Point DNS for %s at this host, then run: dropship cert", cfg.Domain)
	return nil
}
