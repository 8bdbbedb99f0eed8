package certbot

import (
	"errors"
	"testing"

	"github.com/ksyq12/dropship/internal/config"
	apperrors "github.com/ksyq12/dropship/internal/errors"
	"github.com/ksyq12/dropship/internal/executor"
)

func baseConfig() config.CertConfig {
	return config.CertConfig{
		Mode:       config.ModeNginx,
		Domains:    []string{"example.com", "www.example.com"},
		Email:      "admin@example.com",
		Redirect:   true,
		KeyType:    config.KeyTypeRSA,
		RSAKeySize: 4096,
	}
}

func installMock() *executor.MockExecutor {
	return &executor.MockExecutor{
		ExecuteFunc: func(name string, args ...string) ([]byte, error) {
			return []byte("Successfully received certificate"), nil
		},
	}
}

func hasArg(call executor.CommandCall, arg string) bool {
	for _, a := range call.Args {
		if a == arg {
			return true
		}
	}
	return false
}

func argAfter(call executor.CommandCall, flag string) string {
	for i, a := range call.Args {
		if a == flag && i+1 < len(call.Args) {
			return call.Args[i+1]
		}
	}
	return ""
}

func TestIsInstalled(t *testing.T) {
	t.Run("certbot installed", func(t *testing.T) {
		SetExecutor(&executor.MockExecutor{})
		defer ResetExecutor()

		if !IsInstalled() {
			t.Error("IsInstalled should return true")
		}
	})

	t.Run("certbot not installed", func(t *testing.T) {
		SetExecutor(&executor.MockExecutor{
			LookPathFunc: func(file string) (string, error) {
				return "", errors.New("not found")
			},
		})
		defer ResetExecutor()

		if IsInstalled() {
			t.Error("IsInstalled should return false")
		}
	})
}

func TestCertPaths(t *testing.T) {
	cert := CertPaths([]string{"example.com", "www.example.com"})

	if cert.CertPath != "/etc/letsencrypt/live/example.com/fullchain.pem" {
		t.Errorf("unexpected cert path: %s", cert.CertPath)
	}
	if cert.KeyPath != "/etc/letsencrypt/live/example.com/privkey.pem" {
		t.Errorf("unexpected key path: %s", cert.KeyPath)
	}
}

func TestIssueDispatchesExactlyOnce(t *testing.T) {
	for _, mode := range []string{config.ModeNginx, config.ModeApache, config.ModeStandalone, config.ModeWebroot} {
		t.Run(mode, func(t *testing.T) {
			mock := installMock()
			SetExecutor(mock)
			defer ResetExecutor()

			cfg := baseConfig()
			cfg.Mode = mode
			if mode == config.ModeWebroot {
				cfg.WebrootPath = t.TempDir()
			}

			if _, err := Issue(cfg); err != nil {
				t.Fatalf("Issue failed: %v", err)
			}

			certbotCalls := 0
			for _, call := range mock.Calls {
				if call.Name == "certbot" {
					certbotCalls++
				}
			}
			if certbotCalls != 1 {
				t.Errorf("expected exactly one certbot invocation, got %d", certbotCalls)
			}
		})
	}
}

func TestIssueNginxArgs(t *testing.T) {
	mock := installMock()
	SetExecutor(mock)
	defer ResetExecutor()

	if _, err := Issue(baseConfig()); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	call := mock.Calls[len(mock.Calls)-1]
	for _, want := range []string{"--nginx", "--redirect", "--agree-tos", "--non-interactive"} {
		if !hasArg(call, want) {
			t.Errorf("missing %s in %v", want, call.Args)
		}
	}
	if got := argAfter(call, "-m"); got != "admin@example.com" {
		t.Errorf("contact = %q", got)
	}
	if got := argAfter(call, "--rsa-key-size"); got != "4096" {
		t.Errorf("rsa key size = %q", got)
	}
	// Both domains passed in order
	if call.Args[1] != "-d" || call.Args[2] != "example.com" || call.Args[4] != "www.example.com" {
		t.Errorf("unexpected domain args: %v", call.Args)
	}
}

func TestIssueRedirectOmittedWhenFalse(t *testing.T) {
	mock := installMock()
	SetExecutor(mock)
	defer ResetExecutor()

	cfg := baseConfig()
	cfg.Redirect = false
	if _, err := Issue(cfg); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if hasArg(mock.Calls[len(mock.Calls)-1], "--redirect") {
		t.Error("--redirect must be omitted when redirect is false")
	}
}

func TestIssueStagingOmittedWhenFalse(t *testing.T) {
	mock := installMock()
	SetExecutor(mock)
	defer ResetExecutor()

	cfg := baseConfig()
	cfg.Staging = false
	if _, err := Issue(cfg); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if hasArg(mock.Calls[len(mock.Calls)-1], "--staging") {
		t.Error("--staging must be omitted entirely when false")
	}

	cfg.Staging = true
	if _, err := Issue(cfg); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if !hasArg(mock.Calls[len(mock.Calls)-1], "--staging") {
		t.Error("--staging must be passed when true")
	}
}

func TestKeyTypeParamsMutuallyExclusive(t *testing.T) {
	t.Run("rsa never passes a curve", func(t *testing.T) {
		mock := installMock()
		SetExecutor(mock)
		defer ResetExecutor()

		if _, err := Issue(baseConfig()); err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		call := mock.Calls[len(mock.Calls)-1]
		if hasArg(call, "--elliptic-curve") {
			t.Error("rsa config must not pass --elliptic-curve")
		}
		if !hasArg(call, "--rsa-key-size") {
			t.Error("rsa config must pass --rsa-key-size")
		}
	})

	t.Run("ecdsa never passes a key size", func(t *testing.T) {
		mock := installMock()
		SetExecutor(mock)
		defer ResetExecutor()

		cfg := baseConfig()
		cfg.KeyType = config.KeyTypeECDSA
		cfg.RSAKeySize = 0
		cfg.Curve = config.CurveP384
		if _, err := Issue(cfg); err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		call := mock.Calls[len(mock.Calls)-1]
		if hasArg(call, "--rsa-key-size") {
			t.Error("ecdsa config must not pass --rsa-key-size")
		}
		if got := argAfter(call, "--elliptic-curve"); got != config.CurveP384 {
			t.Errorf("curve = %q", got)
		}
	})
}

func TestIssueWebrootRequiresExistingPath(t *testing.T) {
	mock := installMock()
	SetExecutor(mock)
	defer ResetExecutor()

	cfg := baseConfig()
	cfg.Mode = config.ModeWebroot
	cfg.WebrootPath = "/nonexistent/path/for/testing"

	_, err := Issue(cfg)
	if !apperrors.Is(err, apperrors.ErrWebrootMissing) {
		t.Fatalf("expected ErrWebrootMissing, got %v", err)
	}
	if len(mock.Calls) != 0 {
		t.Error("certbot must not run when the webroot is missing")
	}
}

func TestIssueStandaloneArgs(t *testing.T) {
	mock := installMock()
	SetExecutor(mock)
	defer ResetExecutor()

	cfg := baseConfig()
	cfg.Mode = config.ModeStandalone
	if _, err := Issue(cfg); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	call := mock.Calls[len(mock.Calls)-1]
	if call.Args[0] != "certonly" || !hasArg(call, "--standalone") {
		t.Errorf("unexpected args: %v", call.Args)
	}
	if got := argAfter(call, "--preferred-challenges"); got != "http" {
		t.Errorf("challenge = %q", got)
	}
}

func TestIssueUnknownMode(t *testing.T) {
	mock := installMock()
	SetExecutor(mock)
	defer ResetExecutor()

	cfg := baseConfig()
	cfg.Mode = "caddy"
	if _, err := Issue(cfg); !apperrors.Is(err, apperrors.ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
	if len(mock.Calls) != 0 {
		t.Error("unknown mode must not invoke certbot")
	}
}

func TestIssueWithoutCertbot(t *testing.T) {
	SetExecutor(&executor.MockExecutor{
		LookPathFunc: func(file string) (string, error) {
			return "", errors.New("not found")
		},
	})
	defer ResetExecutor()

	if _, err := Issue(baseConfig()); !apperrors.Is(err, apperrors.ErrCertbotNotInstalled) {
		t.Fatalf("expected ErrCertbotNotInstalled, got %v", err)
	}
}

func TestRenewDryRun(t *testing.T) {
	mock := installMock()
	SetExecutor(mock)
	defer ResetExecutor()

	if err := RenewDryRun(); err != nil {
		t.Fatalf("RenewDryRun failed: %v", err)
	}
	call := mock.Calls[len(mock.Calls)-1]
	if call.CommandLine() != "certbot renew --dry-run" {
		t.Errorf("unexpected dry-run invocation: %s", call.CommandLine())
	}
}

func TestList(t *testing.T) {
	mock := &executor.MockExecutor{
		ExecuteFunc: func(name string, args ...string) ([]byte, error) {
			return []byte("Found the following certs:\n  Certificate Name: example.com\n  Certificate Name: blog.example.com\n"), nil
		},
	}
	SetExecutor(mock)
	defer ResetExecutor()

	names, err := List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 2 || names[0] != "example.com" || names[1] != "blog.example.com" {
		t.Errorf("unexpected names: %v", names)
	}
}
