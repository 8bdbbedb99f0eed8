// Package workflow runs the provisioning sequences end to end. A workflow
// is a fixed list of stages executed top to bottom in a single run; there
// is no state file and no resume. Completed stages are never rolled back
// when a later stage fails.
//
// Stage failures fall into two classes. Hard preconditions and
// installation or dispatch failures abort the run. Environmental
// soft spots (unsupported distribution, renewal dry run, service reload)
// degrade to warnings so a mostly healthy run still finishes.
package workflow

import (
	"github.com/ksyq12/dropship/internal/bootstrap"
	"github.com/ksyq12/dropship/internal/config"
	"github.com/ksyq12/dropship/internal/executor"
	"github.com/ksyq12/dropship/internal/hook"
	"github.com/ksyq12/dropship/internal/output"
	"github.com/ksyq12/dropship/internal/pkgmgr"
	"github.com/ksyq12/dropship/internal/platform"
	"github.com/ksyq12/dropship/internal/webserver"
)

// Status classifies the outcome of a single workflow stage.
type Status string

const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
	StatusWarned  Status = "warned"
	StatusFailed  Status = "failed"
)

// ActionResult records the outcome of one workflow stage.
type ActionResult struct {
	Step   string `json:"step"`
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// provisioner is the set of bootstrap steps the deploy workflow drives.
// Satisfied by bootstrap.Provisioner; faked in tests.
type provisioner interface {
	InstallBasePackages() error
	EnsureNode() error
	EnsurePM2() error
	CloneApp() error
	SetupDatabase() error
	WriteEnvFile() error
	BuildApp() error
	StartApp() error
	ConfigureFirewall() error
}

// Runner executes workflow stages against one host, numbering the stages
// as it goes and collecting their results.
type Runner struct {
	exec    executor.CommandExecutor
	hook    *hook.Installer
	results []ActionResult
	step    int

	// swapped in tests
	requireRoot    func() error
	detect         func(executor.CommandExecutor) (*platform.HostEnvironment, error)
	newDriver      func(string, executor.CommandExecutor) (webserver.Driver, error)
	newProvisioner func(executor.CommandExecutor, *pkgmgr.Manager, config.DeployConfig) provisioner
}

// NewRunner creates a Runner using the given command executor.
func NewRunner(exec executor.CommandExecutor) *Runner {
	return &Runner{
		exec:        exec,
		hook:        hook.NewInstaller(),
		requireRoot: pkgmgr.RequireRoot,
		detect:      platform.Detect,
		newDriver:   webserver.New,
		newProvisioner: func(e executor.CommandExecutor, m *pkgmgr.Manager, cfg config.DeployConfig) provisioner {
			return bootstrap.New(e, m, cfg)
		},
	}
}

// Results returns the recorded stage outcomes in execution order.
func (r *Runner) Results() []ActionResult {
	return r.results
}

func (r *Runner) record(step string, status Status, detail string) {
	r.results = append(r.results, ActionResult{Step: step, Status: status, Detail: detail})
}

// run announces and executes a stage whose failure aborts the workflow.
func (r *Runner) run(step string, fn func() error) error {
	r.step++
	output.Step(r.step, "%s", step)
	if err := fn(); err != nil {
		r.record(step, StatusFailed, err.Error())
		return err
	}
	r.record(step, StatusOK, "")
	return nil
}

// runSoft announces and executes a stage whose failure only warns.
func (r *Runner) runSoft(step string, fn func() error) {
	r.step++
	output.Step(r.step, "%s", step)
	if err := fn(); err != nil {
		output.Warn("%s: %v", step, err)
		r.record(step, StatusWarned, err.Error())
		return
	}
	r.record(step, StatusOK, "")
}
