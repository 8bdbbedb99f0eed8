package cli

import (
	"fmt"
	"strings"

	"github.com/ksyq12/dropship/internal/certbot"
	"github.com/ksyq12/dropship/internal/executor"
	"github.com/ksyq12/dropship/internal/output"
	"github.com/ksyq12/dropship/internal/platform"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check host status and diagnose issues",
	Long: `Run diagnostic checks on the host.

Checks:
  - Operating system support
  - Package channels (apt, snap)
  - External collaborators (git, node, psql, certbot, nginx, ufw)
  - Issued certificates

Examples:
  dropship doctor
  dropship doctor --json`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// CheckResult represents a single diagnostic check result
type CheckResult struct {
	Status  string `json:"status"` // "success", "warning", "error"
	Message string `json:"message"`
}

// DoctorReport contains all diagnostic results
type DoctorReport struct {
	OS            string        `json:"os"`
	Supported     bool          `json:"supported"`
	Collaborators []CheckResult `json:"collaborators"`
	Certificates  []string      `json:"certificates"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	exec := executor.NewSystemExecutor()

	env, err := platform.Detect(exec)
	if err != nil {
		return err
	}

	report := &DoctorReport{
		OS:        env.OS.Pretty,
		Supported: env.Supported(),
	}
	report.Collaborators = checkCollaborators(env)

	if env.HasCertbot {
		certs, err := certbot.List()
		if err == nil {
			report.Certificates = certs
		}
	}

	if jsonOutput {
		return output.JSON(report)
	}

	displayDoctorResults(report)
	return nil
}

func checkCollaborators(env *platform.HostEnvironment) []CheckResult {
	collaborators := []struct {
		name     string
		present  bool
		optional bool
	}{
		{"apt", env.HasApt, false},
		{"snap", env.HasSnap, true},
		{"systemd", env.HasSystemd, false},
		{"git", env.HasGit, true},
		{"node", env.HasNode, true},
		{"psql", env.HasPsql, true},
		{"certbot", env.HasCertbot, true},
		{"nginx", env.HasNginx, true},
		{"apache2", env.HasApache, true},
		{"ufw", env.HasUfw, true},
	}

	results := make([]CheckResult, 0, len(collaborators))
	for _, c := range collaborators {
		switch {
		case c.present:
			results = append(results, CheckResult{
				Status:  "success",
				Message: fmt.Sprintf("%s installed", c.name),
			})
		case c.optional:
			results = append(results, CheckResult{
				Status:  "warning",
				Message: fmt.Sprintf("%s not installed (installed on demand)", c.name),
			})
		default:
			results = append(results, CheckResult{
				Status:  "error",
				Message: fmt.Sprintf("%s not installed", c.name),
			})
		}
	}
	return results
}

func displayDoctorResults(report *DoctorReport) {
	output.Print("Host:")
	if report.Supported {
		output.Success("%s", report.OS)
	} else {
		output.Warn("%s (unsupported, expected one of: %s)", report.OS, strings.Join(platform.SupportedIDs(), ", "))
	}

	output.Print("")
	output.Print("Collaborators:")
	for _, check := range report.Collaborators {
		switch check.Status {
		case "success":
			output.Success("%s", check.Message)
		case "warning":
			output.Warn("%s", check.Message)
		default:
			output.Error("%s", check.Message)
		}
	}

	output.Print("")
	output.Print("Certificates:")
	if len(report.Certificates) == 0 {
		output.Info("none issued yet")
		return
	}
	for _, name := range report.Certificates {
		output.Success("%s", name)
	}
}
