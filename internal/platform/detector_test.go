package platform

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/ksyq12/dropship/internal/errors"
	"github.com/ksyq12/dropship/internal/executor"
)

const ubuntuRelease = `PRETTY_NAME="Ubuntu 24.04.1 LTS"
NAME="Ubuntu"
VERSION_ID="24.04"
VERSION_CODENAME=noble
ID=ubuntu
ID_LIKE=debian
`

func writeRelease(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "os-release")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseOSRelease(t *testing.T) {
	release, err := parseOSRelease(strings.NewReader(ubuntuRelease))
	if err != nil {
		t.Fatalf("parseOSRelease failed: %v", err)
	}

	if release.ID != "ubuntu" {
		t.Errorf("ID = %q", release.ID)
	}
	if release.IDLike != "debian" {
		t.Errorf("IDLike = %q", release.IDLike)
	}
	if release.Version != "24.04" {
		t.Errorf("Version = %q", release.Version)
	}
	if release.Codename != "noble" {
		t.Errorf("Codename = %q", release.Codename)
	}
	if release.Pretty != "Ubuntu 24.04.1 LTS" {
		t.Errorf("Pretty = %q", release.Pretty)
	}
}

func TestDetect(t *testing.T) {
	present := map[string]bool{
		"apt-get": true, "systemctl": true, "git": true, "nginx": true,
	}
	mock := &executor.MockExecutor{
		LookPathFunc: func(file string) (string, error) {
			if present[file] {
				return "/usr/bin/" + file, nil
			}
			return "", errors.New("not found")
		},
	}

	env, err := detect(mock, writeRelease(t, ubuntuRelease))
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}

	if !env.Supported() {
		t.Error("ubuntu should be supported")
	}
	if !env.HasApt || !env.HasSystemd || !env.HasGit {
		t.Error("expected apt, systemd and git present")
	}
	if env.HasSnap || env.HasCertbot || env.HasPsql {
		t.Error("absent binaries should be reported missing")
	}
	if !env.HasWebServer("nginx") {
		t.Error("nginx should be reported present")
	}
	if env.HasWebServer("apache") {
		t.Error("apache should be reported missing")
	}
	if env.HasWebServer("caddy") {
		t.Error("unknown server names are never present")
	}
}

func TestDetectMissingDescriptor(t *testing.T) {
	mock := &executor.MockExecutor{}
	_, err := detect(mock, filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected error for missing os-release")
	}
	if !apperrors.Is(err, apperrors.ErrNoOSRelease) {
		t.Errorf("expected ErrNoOSRelease in chain, got %v", err)
	}
}

func TestUnsupportedOSIsNotFatal(t *testing.T) {
	release := "ID=fedora\nVERSION_ID=41\n"
	env, err := detect(&executor.MockExecutor{}, writeRelease(t, release))
	if err != nil {
		t.Fatalf("detect should not fail for unsupported OS: %v", err)
	}
	if env.Supported() {
		t.Error("fedora should not be in the supported set")
	}
}
