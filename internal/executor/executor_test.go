package executor

import (
	"errors"
	"strings"
	"testing"
)

func TestSystemExecutor_Execute(t *testing.T) {
	exec := NewSystemExecutor()

	t.Run("echo command", func(t *testing.T) {
		output, err := exec.Execute("echo", "hello")
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if string(output) != "hello\n" {
			t.Errorf("expected 'hello\\n', got '%s'", string(output))
		}
	})

	t.Run("nonexistent command", func(t *testing.T) {
		_, err := exec.Execute("nonexistent-command-xyz-12345")
		if err == nil {
			t.Error("expected error for nonexistent command")
		}
	})
}

func TestSystemExecutor_ExecuteInput(t *testing.T) {
	exec := NewSystemExecutor()

	output, err := exec.ExecuteInput("hello stdin", "cat")
	if err != nil {
		t.Fatalf("ExecuteInput failed: %v", err)
	}
	if string(output) != "hello stdin" {
		t.Errorf("expected 'hello stdin', got '%s'", string(output))
	}
}

func TestSystemExecutor_LookPath(t *testing.T) {
	exec := NewSystemExecutor()

	t.Run("find sh", func(t *testing.T) {
		path, err := exec.LookPath("sh")
		if err != nil {
			t.Fatalf("LookPath failed: %v", err)
		}
		if path == "" {
			t.Error("expected non-empty path")
		}
	})

	t.Run("nonexistent command", func(t *testing.T) {
		_, err := exec.LookPath("nonexistent-command-xyz-12345")
		if err == nil {
			t.Error("expected error for nonexistent command")
		}
	})
}

func TestMockExecutor_RecordsCalls(t *testing.T) {
	mock := &MockExecutor{}

	if _, err := mock.Execute("apt-get", "update"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := mock.ExecuteInput("CREATE DATABASE app;", "psql"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mock.Calls) != 2 {
		t.Fatalf("expected 2 recorded calls, got %d", len(mock.Calls))
	}
	if mock.Calls[0].CommandLine() != "apt-get update" {
		t.Errorf("unexpected first call: %s", mock.Calls[0].CommandLine())
	}
	if mock.Calls[1].Stdin != "CREATE DATABASE app;" {
		t.Errorf("stdin not recorded: %q", mock.Calls[1].Stdin)
	}
}

func TestMockExecutor_CustomFuncs(t *testing.T) {
	mock := &MockExecutor{
		ExecuteFunc: func(name string, args ...string) ([]byte, error) {
			if name == "certbot" {
				return []byte("ok"), nil
			}
			return nil, errors.New("unexpected command")
		},
		LookPathFunc: func(file string) (string, error) {
			if strings.HasPrefix(file, "apt") {
				return "/usr/bin/" + file, nil
			}
			return "", errors.New("not found")
		},
	}

	if out, err := mock.Execute("certbot", "renew"); err != nil || string(out) != "ok" {
		t.Errorf("unexpected result: %s, %v", out, err)
	}
	if _, err := mock.LookPath("nginx"); err == nil {
		t.Error("expected not-found error")
	}
	if _, err := mock.LookPath("apt-get"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
