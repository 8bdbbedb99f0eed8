package pkgmgr

import (
	"errors"
	"strings"
	"testing"

	apperrors "github.com/ksyq12/dropship/internal/errors"
	"github.com/ksyq12/dropship/internal/executor"
)

// notFound simulates a host where none of the probed binaries exist.
func notFound(file string) (string, error) {
	return "", errors.New("not found")
}

func countCalls(mock *executor.MockExecutor, prefix string) int {
	n := 0
	for _, call := range mock.Calls {
		if strings.HasPrefix(call.CommandLine(), prefix) {
			n++
		}
	}
	return n
}

func TestRequireRoot(t *testing.T) {
	orig := geteuid
	defer func() { geteuid = orig }()

	geteuid = func() int { return 0 }
	if err := RequireRoot(); err != nil {
		t.Errorf("root should pass: %v", err)
	}

	geteuid = func() int { return 1000 }
	if err := RequireRoot(); !apperrors.Is(err, apperrors.ErrRootRequired) {
		t.Errorf("expected ErrRootRequired, got %v", err)
	}
}

func TestEnsurePackageSkipsWhenPresent(t *testing.T) {
	mock := &executor.MockExecutor{} // default LookPath finds everything
	m := New(mock, false)

	installed, err := m.EnsurePackage("nginx", "nginx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if installed {
		t.Error("present package must not be reinstalled")
	}
	if len(mock.Calls) != 0 {
		t.Errorf("expected zero side effects, got %d calls", len(mock.Calls))
	}
}

func TestEnsurePackageInstallsWhenAbsent(t *testing.T) {
	mock := &executor.MockExecutor{LookPathFunc: notFound}
	m := New(mock, false)

	installed, err := m.EnsurePackage("ufw", "ufw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !installed {
		t.Error("absent package should be installed")
	}
	if countCalls(mock, "apt-get update") != 1 {
		t.Error("expected exactly one index refresh")
	}
	if countCalls(mock, "apt-get install -y ufw") != 1 {
		t.Error("expected ufw install")
	}
}

func TestIndexRefreshOncePerRun(t *testing.T) {
	mock := &executor.MockExecutor{LookPathFunc: notFound}
	m := New(mock, false)

	for _, pkg := range []string{"nginx", "postgresql", "ufw"} {
		if _, err := m.EnsurePackage(pkg, pkg); err != nil {
			t.Fatalf("EnsurePackage(%s) failed: %v", pkg, err)
		}
	}

	if got := countCalls(mock, "apt-get update"); got != 1 {
		t.Errorf("index refresh should run once per run, ran %d times", got)
	}
	if got := countCalls(mock, "apt-get install"); got != 3 {
		t.Errorf("expected 3 installs, got %d", got)
	}
}

func TestEnsureCertbotPrefersSnap(t *testing.T) {
	mock := &executor.MockExecutor{LookPathFunc: notFound}
	m := New(mock, true)

	if err := m.EnsureCertbot(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if countCalls(mock, "snap install --classic certbot") != 1 {
		t.Error("expected snap install")
	}
	if countCalls(mock, "apt-get install") != 0 {
		t.Error("apt must not run when snap succeeds")
	}
}

func TestEnsureCertbotFallsBackToAptOnce(t *testing.T) {
	mock := &executor.MockExecutor{
		LookPathFunc: notFound,
		ExecuteFunc: func(name string, args ...string) ([]byte, error) {
			if name == "snap" {
				return []byte("snapd not seeded"), errors.New("exit status 1")
			}
			return []byte(""), nil
		},
	}
	m := New(mock, true)

	if err := m.EnsureCertbot(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if countCalls(mock, "snap install") != 1 {
		t.Error("expected a single snap attempt")
	}
	if countCalls(mock, "apt-get install -y certbot") != 1 {
		t.Error("expected a single apt fallback")
	}
}

func TestEnsureCertbotWithoutSnap(t *testing.T) {
	mock := &executor.MockExecutor{LookPathFunc: notFound}
	m := New(mock, false)

	if err := m.EnsureCertbot(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if countCalls(mock, "snap") != 0 {
		t.Error("snap must not run when unavailable")
	}
	if countCalls(mock, "apt-get install -y certbot") != 1 {
		t.Error("expected apt install")
	}
}

func TestEnsureCertbotSkipsWhenPresent(t *testing.T) {
	mock := &executor.MockExecutor{}
	m := New(mock, true)

	if err := m.EnsureCertbot(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mock.Calls) != 0 {
		t.Errorf("expected zero side effects, got %d calls", len(mock.Calls))
	}
}

func TestEnsureWebServer(t *testing.T) {
	mock := &executor.MockExecutor{LookPathFunc: notFound}
	m := New(mock, false)

	if err := m.EnsureWebServer("apache"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if countCalls(mock, "apt-get install -y apache2") != 1 {
		t.Error("expected apache2 install")
	}

	// certonly modes install nothing
	before := len(mock.Calls)
	if err := m.EnsureWebServer("standalone"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mock.Calls) != before {
		t.Error("standalone mode must not install a web server")
	}
}
