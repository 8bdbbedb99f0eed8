package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ksyq12/dropship/internal/errors"
)

func validCertConfig() CertConfig {
	return CertConfig{
		Mode:       ModeNginx,
		Domains:    []string{"example.com", "www.example.com"},
		Email:      "admin@example.com",
		Redirect:   true,
		KeyType:    KeyTypeRSA,
		RSAKeySize: 4096,
	}
}

func TestCertConfigValidate(t *testing.T) {
	t.Run("valid nginx config", func(t *testing.T) {
		require.NoError(t, validCertConfig().Validate())
	})

	t.Run("valid ecdsa config", func(t *testing.T) {
		cfg := validCertConfig()
		cfg.KeyType = KeyTypeECDSA
		cfg.RSAKeySize = 0
		cfg.Curve = CurveP384
		require.NoError(t, cfg.Validate())
	})

	t.Run("valid webroot config", func(t *testing.T) {
		cfg := validCertConfig()
		cfg.Mode = ModeWebroot
		cfg.WebrootPath = "/var/www/html"
		require.NoError(t, cfg.Validate())
	})

	t.Run("empty domains rejected", func(t *testing.T) {
		cfg := validCertConfig()
		cfg.Domains = nil
		err := cfg.Validate()
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrUnknownMode) == false)
		assert.Contains(t, err.Error(), "domains")
	})

	t.Run("missing email rejected", func(t *testing.T) {
		cfg := validCertConfig()
		cfg.Email = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "email")
	})

	t.Run("contact address not format-checked", func(t *testing.T) {
		// passed to the ACME client unchanged; only presence is enforced
		cfg := validCertConfig()
		cfg.Email = "hostmaster"
		require.NoError(t, cfg.Validate())
	})

	t.Run("unknown mode rejected", func(t *testing.T) {
		cfg := validCertConfig()
		cfg.Mode = "caddy"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mode must be one of")
	})

	t.Run("ecdsa without curve rejected", func(t *testing.T) {
		cfg := validCertConfig()
		cfg.KeyType = KeyTypeECDSA
		cfg.RSAKeySize = 0
		cfg.Curve = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("webroot mode without path rejected", func(t *testing.T) {
		cfg := validCertConfig()
		cfg.Mode = ModeWebroot
		require.Error(t, cfg.Validate())
	})

	t.Run("wildcard domain accepted", func(t *testing.T) {
		cfg := validCertConfig()
		cfg.Domains = []string{"*.example.com"}
		require.NoError(t, cfg.Validate())
	})

	t.Run("blank domain entry rejected", func(t *testing.T) {
		cfg := validCertConfig()
		cfg.Domains = []string{""}
		require.Error(t, cfg.Validate())
	})
}

func TestIsValidMode(t *testing.T) {
	for _, mode := range ValidModes() {
		assert.True(t, IsValidMode(mode), mode)
	}
	assert.False(t, IsValidMode("caddy"))
	assert.False(t, IsValidMode(""))
}

func TestUsesPlugin(t *testing.T) {
	assert.True(t, CertConfig{Mode: ModeNginx}.UsesPlugin())
	assert.True(t, CertConfig{Mode: ModeApache}.UsesPlugin())
	assert.False(t, CertConfig{Mode: ModeStandalone}.UsesPlugin())
	assert.False(t, CertConfig{Mode: ModeWebroot}.UsesPlugin())
}

func TestDeployConfigValidate(t *testing.T) {
	valid := DeployConfig{
		AppName:    "ghost-blog",
		RepoURL:    "https://github.com/example/ghost-blog.git",
		Branch:     "main",
		Domain:     "blog.example.com",
		AppPort:    2368,
		NodeMajor:  20,
		DBName:     "ghost",
		DBUser:     "ghost",
		DBPassword: "s3cret",
		AdminEmail: "admin@example.com",
	}
	require.NoError(t, valid.Validate())
	assert.Equal(t, "/var/www/ghost-blog", valid.AppDir())

	t.Run("missing repo rejected", func(t *testing.T) {
		cfg := valid
		cfg.RepoURL = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("port out of range rejected", func(t *testing.T) {
		cfg := valid
		cfg.AppPort = 70000
		require.Error(t, cfg.Validate())
	})
}
