package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ksyq12/dropship/internal/errors"
)

func TestLoadSettingsMissingFile(t *testing.T) {
	s, err := loadSettingsFrom(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoadSettingsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "email: ops@example.com\nkey_type: ecdsa\ncurve: secp256r1\nstaging: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := loadSettingsFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", s.Email)
	assert.Equal(t, KeyTypeECDSA, s.KeyType)
	assert.Equal(t, CurveP256, s.Curve)
	assert.True(t, s.Staging)
	// Untouched fields keep built-in defaults
	assert.Equal(t, DefaultRSAKeySize, s.RSAKeySize)
	assert.Equal(t, "main", s.Branch)
}

func TestLoadSettingsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n\t- bad"), 0644))

	_, err := loadSettingsFrom(path)
	require.Error(t, err)

	var provErr *apperrors.ProvisionError
	require.True(t, apperrors.As(err, &provErr))
	assert.Equal(t, apperrors.ErrCodeConfig, provErr.Code)
}

func TestLoadCertPresets(t *testing.T) {
	t.Setenv("DROPSHIP_MODE", "webroot")
	t.Setenv("DROPSHIP_DOMAINS", "a.com, b.com")
	t.Setenv("DROPSHIP_WEBROOT", "/var/www/html")

	p := LoadCertPresets()
	assert.Equal(t, "webroot", p.Mode)
	assert.Equal(t, "a.com, b.com", p.Domains)
	assert.Equal(t, "/var/www/html", p.Webroot)
	assert.Empty(t, p.Email)
	assert.Empty(t, p.Staging)
}

func TestLoadDeployPresets(t *testing.T) {
	t.Setenv("DROPSHIP_APP_NAME", "ghost-blog")
	t.Setenv("DROPSHIP_DB_PASSWORD", "s3cret")

	p := LoadDeployPresets()
	assert.Equal(t, "ghost-blog", p.AppName)
	assert.Equal(t, "s3cret", p.DBPassword)
	assert.Empty(t, p.RepoURL)
}
