package certbot

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ksyq12/dropship/internal/config"
	apperrors "github.com/ksyq12/dropship/internal/errors"
	"github.com/ksyq12/dropship/internal/executor"
	"github.com/ksyq12/dropship/internal/logger"
)

// Cert represents an issued certificate
type Cert struct {
	Domains  []string
	CertPath string
	KeyPath  string
}

// letsencryptDir is the base directory for Let's Encrypt certificates
const letsencryptDir = "/etc/letsencrypt/live"

// cmdExecutor is the command executor (can be replaced for testing)
var cmdExecutor executor.CommandExecutor = executor.NewSystemExecutor()

// SetExecutor allows tests to inject a mock executor
func SetExecutor(exec executor.CommandExecutor) {
	cmdExecutor = exec
}

// ResetExecutor resets the executor to the default system executor
func ResetExecutor() {
	cmdExecutor = executor.NewSystemExecutor()
}

// IsInstalled checks if certbot is installed
func IsInstalled() bool {
	_, err := cmdExecutor.LookPath("certbot")
	return err == nil
}

// runCertbot executes certbot with the given arguments
func runCertbot(args []string) error {
	if !IsInstalled() {
		return apperrors.ErrCertbotNotInstalled
	}

	logger.Debug("certbot %s", strings.Join(args, " "))
	out, err := cmdExecutor.Execute("certbot", args...)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeDispatch, fmt.Sprintf("certbot failed: %s", string(out)), err)
	}
	return nil
}

// CertPaths returns the certificate paths for the primary domain
func CertPaths(domains []string) *Cert {
	primary := ""
	if len(domains) > 0 {
		primary = domains[0]
	}
	return &Cert{
		Domains:  domains,
		CertPath: filepath.Join(letsencryptDir, primary, "fullchain.pem"),
		KeyPath:  filepath.Join(letsencryptDir, primary, "privkey.pem"),
	}
}

// commonArgs builds the parameter set shared by every issuance mode:
// terms acceptance, contact address, non-interactive operation, staging
// (only when requested) and the key-type parameters. RSA key size and
// ECDSA curve are mutually exclusive by construction.
func commonArgs(cfg config.CertConfig) []string {
	args := []string{
		"--non-interactive",
		"--agree-tos",
		"-m", cfg.Email,
	}

	if cfg.Staging {
		args = append(args, "--staging")
	}

	switch cfg.KeyType {
	case config.KeyTypeRSA:
		size := cfg.RSAKeySize
		if size == 0 {
			size = config.DefaultRSAKeySize
		}
		args = append(args, "--key-type", "rsa", "--rsa-key-size", strconv.Itoa(size))
	case config.KeyTypeECDSA:
		args = append(args, "--key-type", "ecdsa", "--elliptic-curve", cfg.Curve)
	}

	return args
}

func domainArgs(domains []string) []string {
	args := make([]string, 0, len(domains)*2)
	for _, d := range domains {
		args = append(args, "-d", d)
	}
	return args
}

// Issue dispatches exactly one certbot invocation for the resolved
// configuration. Webroot existence is a hard precondition verified
// before certbot runs.
func Issue(cfg config.CertConfig) (*Cert, error) {
	var args []string

	switch cfg.Mode {
	case config.ModeNginx:
		args = append([]string{"--nginx"}, domainArgs(cfg.Domains)...)
		if cfg.Redirect {
			args = append(args, "--redirect")
		}
	case config.ModeApache:
		args = append([]string{"--apache"}, domainArgs(cfg.Domains)...)
		if cfg.Redirect {
			args = append(args, "--redirect")
		}
	case config.ModeWebroot:
		if info, err := os.Stat(cfg.WebrootPath); err != nil || !info.IsDir() {
			return nil, apperrors.Wrap(apperrors.ErrCodePrecondition,
				fmt.Sprintf("webroot path %s does not exist", cfg.WebrootPath), apperrors.ErrWebrootMissing)
		}
		args = append([]string{"certonly", "--webroot", "-w", cfg.WebrootPath}, domainArgs(cfg.Domains)...)
	case config.ModeStandalone:
		// Port 80 must be free; the caller is responsible for that.
		args = append([]string{"certonly", "--standalone", "--preferred-challenges", "http"}, domainArgs(cfg.Domains)...)
	default:
		return nil, apperrors.ErrUnknownMode
	}

	args = append(args, commonArgs(cfg)...)

	if err := runCertbot(args); err != nil {
		return nil, err
	}

	return CertPaths(cfg.Domains), nil
}

// Renew renews a specific certificate
func Renew(certName string) error {
	return runCertbot([]string{"renew", "--cert-name", certName, "--non-interactive"})
}

// RenewAll renews all certificates
func RenewAll() error {
	return runCertbot([]string{"renew", "--non-interactive"})
}

// RenewDryRun validates the renewal path without touching live
// certificate state.
func RenewDryRun() error {
	return runCertbot([]string{"renew", "--dry-run"})
}

// List returns all managed certificate names
func List() ([]string, error) {
	if !IsInstalled() {
		return nil, apperrors.ErrCertbotNotInstalled
	}

	out, err := cmdExecutor.Execute("certbot", "certificates")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeDispatch, fmt.Sprintf("certbot certificates failed: %s", string(out)), err)
	}

	var names []string
	for _, line := range strings.Split(string(out), "\n") {
		if strings.Contains(line, "Certificate Name:") {
			parts := strings.Split(line, ":")
			if len(parts) >= 2 {
				names = append(names, strings.TrimSpace(parts[1]))
			}
		}
	}

	return names, nil
}
