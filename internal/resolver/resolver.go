// Package resolver gathers workflow configuration from environment presets
// or interactive prompts, applying defaults and normalizing input.
//
// Pre-set values are accepted as-is; only missing fields are prompted for.
// Boolean questions accept y/n (case-insensitive) and re-ask on anything
// else, up to a fixed retry budget. An exhausted budget is a typed error
// rather than an endless loop, so a closed input stream fails cleanly.
package resolver

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ksyq12/dropship/internal/config"
	apperrors "github.com/ksyq12/dropship/internal/errors"
	"github.com/ksyq12/dropship/internal/logger"
)

// maxBoolAttempts bounds the re-prompt loop on invalid y/n answers.
const maxBoolAttempts = 5

// Resolver prompts the operator for any configuration not supplied
// through presets.
type Resolver struct {
	reader Reader
	out    io.Writer
}

// New creates a Resolver reading answers from the given Reader.
func New(reader Reader) *Resolver {
	return &Resolver{reader: reader, out: os.Stdout}
}

// NewWithOutput creates a Resolver with a custom prompt destination (for testing).
func NewWithOutput(reader Reader, out io.Writer) *Resolver {
	return &Resolver{reader: reader, out: out}
}

// readLine reads one answer and strips the trailing newline.
func (r *Resolver) readLine() (string, error) {
	line, err := r.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("input stream closed: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// PromptString asks a question, offering def on empty input.
func (r *Resolver) PromptString(question, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(r.out, "%s [%s]: ", question, def)
	} else {
		fmt.Fprintf(r.out, "%s: ", question)
	}

	answer, err := r.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// PromptBool asks a y/n question, offering def on empty input. Invalid
// answers re-ask the same question up to maxBoolAttempts times.
func (r *Resolver) PromptBool(question string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}

	for attempt := 0; attempt < maxBoolAttempts; attempt++ {
		fmt.Fprintf(r.out, "%s [%s]: ", question, hint)

		answer, err := r.readLine()
		if err != nil {
			return false, err
		}
		if answer == "" {
			return def, nil
		}

		value, err := ParseBool(answer)
		if err == nil {
			return value, nil
		}
		fmt.Fprintln(r.out, "Please answer y or n.")
	}

	return false, apperrors.ErrPromptExhausted
}

// ParseBool interprets a y/n style answer.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true":
		return true, nil
	case "n", "no", "false":
		return false, nil
	default:
		return false, apperrors.Validation(fmt.Sprintf("answer must be y or n, got %q", s))
	}
}

// ParseDomains splits a comma- or space-separated domain list into an
// ordered sequence of trimmed, non-empty hostname tokens.
func ParseDomains(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	domains := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			domains = append(domains, f)
		}
	}
	return domains
}

// stringField returns the preset when set, otherwise prompts.
func (r *Resolver) stringField(preset, question, def string) (string, error) {
	if preset != "" {
		logger.Debug("using preset for %q: %s", question, preset)
		return preset, nil
	}
	return r.PromptString(question, def)
}

// boolField parses the preset when set, otherwise prompts. A malformed
// preset is a hard validation error, not a prompt.
func (r *Resolver) boolField(preset, question string, def bool) (bool, error) {
	if preset != "" {
		return ParseBool(preset)
	}
	return r.PromptBool(question, def)
}

// intField parses the preset when set, otherwise prompts with a default.
func (r *Resolver) intField(preset, question string, def int) (int, error) {
	raw := preset
	if raw == "" {
		answer, err := r.PromptString(question, strconv.Itoa(def))
		if err != nil {
			return 0, err
		}
		raw = answer
	}

	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, apperrors.Validation(fmt.Sprintf("%s must be a number, got %q", question, raw))
	}
	return value, nil
}

// ResolveCert produces a validated certificate workflow configuration.
// Fields irrelevant to the chosen mode or key type are never asked for.
func (r *Resolver) ResolveCert(presets config.CertPresets, defaults *config.Settings) (config.CertConfig, error) {
	var cfg config.CertConfig

	mode, err := r.stringField(presets.Mode, "Server mode (nginx, apache, standalone, webroot)", config.ModeNginx)
	if err != nil {
		return cfg, err
	}
	cfg.Mode = strings.ToLower(mode)
	if !config.IsValidMode(cfg.Mode) {
		return cfg, apperrors.Validation(fmt.Sprintf("unknown server mode %q (valid: %s)", cfg.Mode, strings.Join(config.ValidModes(), ", ")))
	}

	rawDomains, err := r.stringField(presets.Domains, "Domains (comma or space separated)", "")
	if err != nil {
		return cfg, err
	}
	cfg.Domains = ParseDomains(rawDomains)

	cfg.Email, err = r.stringField(presets.Email, "Contact email for the certificate authority", defaults.Email)
	if err != nil {
		return cfg, err
	}

	if cfg.UsesPlugin() {
		cfg.Redirect, err = r.boolField(presets.Redirect, "Redirect HTTP to HTTPS?", true)
		if err != nil {
			return cfg, err
		}
	}

	cfg.Staging, err = r.boolField(presets.Staging, "Use the staging certificate authority?", defaults.Staging)
	if err != nil {
		return cfg, err
	}

	keyType, err := r.stringField(presets.KeyType, "Key type (rsa, ecdsa)", defaults.KeyType)
	if err != nil {
		return cfg, err
	}
	cfg.KeyType = strings.ToLower(keyType)

	switch cfg.KeyType {
	case config.KeyTypeRSA:
		cfg.RSAKeySize = defaults.RSAKeySize
		if cfg.RSAKeySize == 0 {
			cfg.RSAKeySize = config.DefaultRSAKeySize
		}
	case config.KeyTypeECDSA:
		cfg.Curve, err = r.stringField(presets.Curve, fmt.Sprintf("Curve (%s)", strings.Join(config.ValidCurves(), ", ")), defaults.Curve)
		if err != nil {
			return cfg, err
		}
		cfg.Curve = strings.ToLower(cfg.Curve)
	}

	if cfg.Mode == config.ModeWebroot {
		cfg.WebrootPath, err = r.stringField(presets.Webroot, "Webroot path", "")
		if err != nil {
			return cfg, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	logger.InfoFields("certificate configuration resolved", map[string]interface{}{
		"mode":     cfg.Mode,
		"domains":  len(cfg.Domains),
		"key_type": cfg.KeyType,
		"staging":  cfg.Staging,
	})
	return cfg, nil
}

// ResolveDeploy produces a validated bootstrap workflow configuration.
func (r *Resolver) ResolveDeploy(presets config.DeployPresets, defaults *config.Settings) (config.DeployConfig, error) {
	var cfg config.DeployConfig
	var err error

	cfg.AppName, err = r.stringField(presets.AppName, "Application name", "")
	if err != nil {
		return cfg, err
	}
	cfg.AppName = strings.ToLower(cfg.AppName)

	cfg.RepoURL, err = r.stringField(presets.RepoURL, "Git repository URL", "")
	if err != nil {
		return cfg, err
	}

	cfg.Branch, err = r.stringField(presets.Branch, "Branch", defaults.Branch)
	if err != nil {
		return cfg, err
	}

	cfg.Domain, err = r.stringField(presets.Domain, "Public domain", "")
	if err != nil {
		return cfg, err
	}
	cfg.Domain = strings.ToLower(cfg.Domain)

	cfg.AppPort, err = r.intField(presets.AppPort, "Application port", 3000)
	if err != nil {
		return cfg, err
	}

	cfg.NodeMajor, err = r.intField(presets.NodeMajor, "Node.js major version", defaults.NodeMajor)
	if err != nil {
		return cfg, err
	}

	dbDefault := strings.ReplaceAll(cfg.AppName, "-", "_")
	cfg.DBName, err = r.stringField(presets.DBName, "Database name", dbDefault)
	if err != nil {
		return cfg, err
	}

	cfg.DBUser, err = r.stringField(presets.DBUser, "Database user", cfg.DBName)
	if err != nil {
		return cfg, err
	}

	cfg.DBPassword, err = r.stringField(presets.DBPassword, "Database password", "")
	if err != nil {
		return cfg, err
	}

	cfg.AdminEmail, err = r.stringField(presets.AdminEmail, "Admin email", defaults.Email)
	if err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}
