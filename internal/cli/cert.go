package cli

import (
	"github.com/ksyq12/dropship/internal/config"
	"github.com/ksyq12/dropship/internal/executor"
	"github.com/ksyq12/dropship/internal/output"
	"github.com/ksyq12/dropship/internal/resolver"
	"github.com/ksyq12/dropship/internal/workflow"
	"github.com/spf13/cobra"
)

var certCmd = &cobra.Command{
	Use:   "cert",
	Short: "Acquire a Let's Encrypt certificate",
	Long: `Run the certificate acquisition workflow.

Inputs are resolved from flags, DROPSHIP_* environment variables, and
interactive prompts, in that order. The workflow detects the host
environment, installs certbot (and the web server for plugin modes),
requests the certificate, and installs a renewal deploy hook.

Examples:
  dropship cert
  dropship cert --mode nginx --domains "example.com www.example.com" --email admin@example.com
  dropship cert --mode webroot --webroot-path /var/www/html --staging`,
	RunE: runCert,
}

var (
	certMode        string
	certDomains     string
	certEmail       string
	certRedirect    bool
	certStaging     bool
	certKeyType     string
	certCurve       string
	certWebrootPath string
)

func init() {
	certCmd.Flags().StringVar(&certMode, "mode", "", "Server mode: nginx, apache, standalone, webroot")
	certCmd.Flags().StringVar(&certDomains, "domains", "", "Domains, separated by commas or spaces")
	certCmd.Flags().StringVarP(&certEmail, "email", "e", "", "Contact email for Let's Encrypt")
	certCmd.Flags().BoolVar(&certRedirect, "redirect", false, "Redirect HTTP to HTTPS (plugin modes)")
	certCmd.Flags().BoolVar(&certStaging, "staging", false, "Use the Let's Encrypt staging environment")
	certCmd.Flags().StringVar(&certKeyType, "key-type", "", "Certificate key type: rsa or ecdsa")
	certCmd.Flags().StringVar(&certCurve, "curve", "", "ECDSA curve: secp256r1 or secp384r1")
	certCmd.Flags().StringVar(&certWebrootPath, "webroot-path", "", "Webroot directory (webroot mode)")

	rootCmd.AddCommand(certCmd)
}

// certReport is the JSON output of the cert command.
type certReport struct {
	Domains  []string                `json:"domains"`
	CertPath string                  `json:"cert_path"`
	KeyPath  string                  `json:"key_path"`
	Results  []workflow.ActionResult `json:"results"`
}

// certFlagPresets maps set flags onto the preset layer, ahead of the
// environment values.
func certFlagPresets(cmd *cobra.Command) config.CertPresets {
	presets := config.LoadCertPresets()
	setIfChanged := func(flag string, dst *string, value string) {
		if cmd.Flags().Changed(flag) {
			*dst = value
		}
	}
	setIfChanged("mode", &presets.Mode, certMode)
	setIfChanged("domains", &presets.Domains, certDomains)
	setIfChanged("email", &presets.Email, certEmail)
	setIfChanged("key-type", &presets.KeyType, certKeyType)
	setIfChanged("curve", &presets.Curve, certCurve)
	setIfChanged("webroot-path", &presets.Webroot, certWebrootPath)
	if cmd.Flags().Changed("redirect") {
		presets.Redirect = boolPreset(certRedirect)
	}
	if cmd.Flags().Changed("staging") {
		presets.Staging = boolPreset(certStaging)
	}
	return presets
}

func runCert(cmd *cobra.Command, args []string) error {
	defaults, err := config.LoadSettings()
	if err != nil {
		return err
	}

	res := resolver.New(resolver.NewStdinReader())
	cfg, err := res.ResolveCert(certFlagPresets(cmd), defaults)
	if err != nil {
		return err
	}

	runner := workflow.NewRunner(executor.NewSystemExecutor())
	cert, err := runner.Cert(cfg)
	if err != nil {
		return err
	}

	// remember the operator's choices as future prompt defaults
	defaults.Email = cfg.Email
	defaults.KeyType = cfg.KeyType
	defaults.RSAKeySize = cfg.RSAKeySize
	defaults.Curve = cfg.Curve
	defaults.Staging = cfg.Staging
	if err := defaults.Save(); err != nil {
		output.Warn("Could not save defaults: %v", err)
	}

	if jsonOutput {
		return output.JSON(certReport{
			Domains:  cert.Domains,
			CertPath: cert.CertPath,
			KeyPath:  cert.KeyPath,
			Results:  runner.Results(),
		})
	}

	output.Success("Certificate issued for %s", cert.Domains[0])
	output.Info("Certificate: %s", cert.CertPath)
	output.Info("Private key: %s", cert.KeyPath)
	printRenewalNote(cfg)
	return nil
}

func printRenewalNote(cfg config.CertConfig) {
	if cfg.Staging {
		output.Warn("Staging certificate: not trusted by browsers, re-run without --staging for production")
		return
	}
	output.Info("Automatic renewal is active; run 'dropship renew --dry-run' to verify")
}
