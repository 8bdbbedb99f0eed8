package cli

import (
	"github.com/ksyq12/dropship/internal/config"
	"github.com/ksyq12/dropship/internal/executor"
	"github.com/ksyq12/dropship/internal/output"
	"github.com/ksyq12/dropship/internal/resolver"
	"github.com/ksyq12/dropship/internal/workflow"
	"github.com/spf13/cobra"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Bootstrap the droplet and deploy the application",
	Long: `Run the droplet bootstrap workflow.

Installs the base packages (git, nginx, postgresql, ufw), the Node.js
runtime and PM2, clones the application repository, creates the
database role and database, writes the environment file with generated
secrets, builds and starts the application, configures the reverse
proxy and opens the firewall.

Inputs are resolved from flags, DROPSHIP_* environment variables, and
interactive prompts, in that order.

Examples:
  dropship deploy
  dropship deploy --app blog --repo https://github.com/example/blog.git --domain blog.example.com`,
	RunE: runDeploy,
}

var (
	deployApp        string
	deployRepo       string
	deployBranch     string
	deployDomain     string
	deployPort       string
	deployNodeMajor  string
	deployDBName     string
	deployDBUser     string
	deployDBPassword string
	deployAdminEmail string
)

func init() {
	deployCmd.Flags().StringVar(&deployApp, "app", "", "Application name")
	deployCmd.Flags().StringVar(&deployRepo, "repo", "", "Git repository URL")
	deployCmd.Flags().StringVar(&deployBranch, "branch", "", "Git branch to deploy")
	deployCmd.Flags().StringVar(&deployDomain, "domain", "", "Public domain for the application")
	deployCmd.Flags().StringVar(&deployPort, "port", "", "Port the application listens on")
	deployCmd.Flags().StringVar(&deployNodeMajor, "node", "", "Node.js major version to install")
	deployCmd.Flags().StringVar(&deployDBName, "db-name", "", "PostgreSQL database name")
	deployCmd.Flags().StringVar(&deployDBUser, "db-user", "", "PostgreSQL role name")
	deployCmd.Flags().StringVar(&deployDBPassword, "db-password", "", "PostgreSQL role password")
	deployCmd.Flags().StringVar(&deployAdminEmail, "admin-email", "", "Administrator email address")

	rootCmd.AddCommand(deployCmd)
}

// deployFlagPresets maps set flags onto the preset layer, ahead of the
// environment values.
func deployFlagPresets(cmd *cobra.Command) config.DeployPresets {
	presets := config.LoadDeployPresets()
	setIfChanged := func(flag string, dst *string, value string) {
		if cmd.Flags().Changed(flag) {
			*dst = value
		}
	}
	setIfChanged("app", &presets.AppName, deployApp)
	setIfChanged("repo", &presets.RepoURL, deployRepo)
	setIfChanged("branch", &presets.Branch, deployBranch)
	setIfChanged("domain", &presets.Domain, deployDomain)
	setIfChanged("port", &presets.AppPort, deployPort)
	setIfChanged("node", &presets.NodeMajor, deployNodeMajor)
	setIfChanged("db-name", &presets.DBName, deployDBName)
	setIfChanged("db-user", &presets.DBUser, deployDBUser)
	setIfChanged("db-password", &presets.DBPassword, deployDBPassword)
	setIfChanged("admin-email", &presets.AdminEmail, deployAdminEmail)
	return presets
}

func runDeploy(cmd *cobra.Command, args []string) error {
	defaults, err := config.LoadSettings()
	if err != nil {
		return err
	}

	res := resolver.New(resolver.NewStdinReader())
	cfg, err := res.ResolveDeploy(deployFlagPresets(cmd), defaults)
	if err != nil {
		return err
	}

	runner := workflow.NewRunner(executor.NewSystemExecutor())
	if err := runner.Deploy(cfg); err != nil {
		return err
	}

	// remember the operator's choices as future prompt defaults
	defaults.NodeMajor = cfg.NodeMajor
	defaults.Branch = cfg.Branch
	defaults.Email = cfg.AdminEmail
	if err := defaults.Save(); err != nil {
		output.Warn("Could not save defaults: %v", err)
	}

	if jsonOutput {
		return output.JSON(runner.Results())
	}
	return nil
}
