// Package platform inspects the host once at startup and reports OS
// identity and available tooling as a read-only HostEnvironment.
package platform

import (
	"bufio"
	"io"
	"os"
	"strings"

	apperrors "github.com/ksyq12/dropship/internal/errors"
	"github.com/ksyq12/dropship/internal/executor"
	"github.com/ksyq12/dropship/internal/logger"
)

// osReleasePath is the standard OS identity descriptor.
const osReleasePath = "/etc/os-release"

// supportedIDs are the distributions the workflows are written for.
// Anything else is a soft warning, not a hard block.
var supportedIDs = []string{"ubuntu", "debian"}

// OSRelease identifies the host distribution.
type OSRelease struct {
	ID       string // e.g. "ubuntu"
	IDLike   string // e.g. "debian"
	Version  string // e.g. "24.04"
	Codename string // e.g. "noble"
	Pretty   string // e.g. "Ubuntu 24.04.1 LTS"
}

// HostEnvironment is the detected state of the host. Derived once at
// startup and read-only afterwards.
type HostEnvironment struct {
	OS         OSRelease
	HasApt     bool
	HasSnap    bool
	HasUfw     bool
	HasSystemd bool
	HasGit     bool
	HasNode    bool
	HasPsql    bool
	HasCertbot bool
	HasNginx   bool
	HasApache  bool
}

// Supported reports whether the detected distribution is in the
// supported set.
func (h *HostEnvironment) Supported() bool {
	for _, id := range supportedIDs {
		if h.OS.ID == id {
			return true
		}
	}
	return false
}

// SupportedIDs returns the supported distribution identifiers.
func SupportedIDs() []string {
	return append([]string(nil), supportedIDs...)
}

// HasWebServer reports whether the named web server binary is present.
func (h *HostEnvironment) HasWebServer(name string) bool {
	switch name {
	case "nginx":
		return h.HasNginx
	case "apache":
		return h.HasApache
	default:
		return false
	}
}

// Detect inspects the host. It fails hard when the OS release descriptor
// is absent; every tool probe is a simple presence check.
func Detect(exec executor.CommandExecutor) (*HostEnvironment, error) {
	return detect(exec, osReleasePath)
}

func detect(exec executor.CommandExecutor, releasePath string) (*HostEnvironment, error) {
	file, err := os.Open(releasePath)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeDetect, "cannot read OS release descriptor", apperrors.ErrNoOSRelease)
	}
	defer file.Close()

	osRelease, err := parseOSRelease(file)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeDetect, "malformed OS release descriptor", err)
	}

	env := &HostEnvironment{
		OS:         osRelease,
		HasApt:     binaryPresent(exec, "apt-get"),
		HasSnap:    binaryPresent(exec, "snap"),
		HasUfw:     binaryPresent(exec, "ufw"),
		HasSystemd: binaryPresent(exec, "systemctl"),
		HasGit:     binaryPresent(exec, "git"),
		HasNode:    binaryPresent(exec, "node"),
		HasPsql:    binaryPresent(exec, "psql"),
		HasCertbot: binaryPresent(exec, "certbot"),
		HasNginx:   binaryPresent(exec, "nginx"),
		HasApache:  binaryPresent(exec, "apache2"),
	}

	logger.DebugFields("host environment detected", map[string]interface{}{
		"os":      env.OS.ID,
		"version": env.OS.Version,
		"apt":     env.HasApt,
		"snap":    env.HasSnap,
		"certbot": env.HasCertbot,
	})

	return env, nil
}

// parseOSRelease reads the KEY=value pairs of an os-release file.
func parseOSRelease(r io.Reader) (OSRelease, error) {
	var release OSRelease

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := parts[0]
		value := strings.Trim(parts[1], `"`)

		switch key {
		case "ID":
			release.ID = strings.ToLower(value)
		case "ID_LIKE":
			release.IDLike = strings.ToLower(value)
		case "VERSION_ID":
			release.Version = value
		case "VERSION_CODENAME":
			release.Codename = value
		case "PRETTY_NAME":
			release.Pretty = value
		}
	}

	if err := scanner.Err(); err != nil {
		return release, err
	}

	return release, nil
}

func binaryPresent(exec executor.CommandExecutor, name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
