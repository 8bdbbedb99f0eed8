package cli

import (
	"github.com/ksyq12/dropship/internal/certbot"
	apperrors "github.com/ksyq12/dropship/internal/errors"
	"github.com/ksyq12/dropship/internal/output"
	"github.com/spf13/cobra"
)

var renewCmd = &cobra.Command{
	Use:   "renew [cert-name]",
	Short: "Renew Let's Encrypt certificates",
	Long: `Renew certificates through certbot.

Without arguments all due certificates are renewed. A certificate name
restricts the renewal to that certificate. With --dry-run the renewal
is simulated against the staging environment without touching the
installed certificates.

Examples:
  dropship renew
  dropship renew example.com
  dropship renew --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRenew,
}

var renewDryRun bool

func init() {
	renewCmd.Flags().BoolVar(&renewDryRun, "dry-run", false, "Simulate renewal without replacing certificates")

	rootCmd.AddCommand(renewCmd)
}

func runRenew(cmd *cobra.Command, args []string) error {
	if !certbot.IsInstalled() {
		return apperrors.ErrCertbotNotInstalled
	}

	if renewDryRun {
		if err := certbot.RenewDryRun(); err != nil {
			return err
		}
		output.Success("Renewal dry run passed")
		return nil
	}

	if len(args) == 1 {
		if err := certbot.Renew(args[0]); err != nil {
			return err
		}
		output.Success("Certificate %s renewed", args[0])
		return nil
	}

	if err := certbot.RenewAll(); err != nil {
		return err
	}
	output.Success("All due certificates renewed")
	return nil
}
