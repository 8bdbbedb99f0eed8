package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	apperrors "github.com/ksyq12/dropship/internal/errors"
)

// Settings are operator-chosen defaults offered at the interactive prompts.
type Settings struct {
	Email      string `yaml:"email,omitempty"`
	KeyType    string `yaml:"key_type,omitempty"`
	RSAKeySize int    `yaml:"rsa_key_size,omitempty"`
	Curve      string `yaml:"curve,omitempty"`
	Staging    bool   `yaml:"staging"`
	NodeMajor  int    `yaml:"node_major,omitempty"`
	Branch     string `yaml:"branch,omitempty"`
}

// configDir is the default config directory
const configDir = ".config/dropship"
const configFile = "config.yaml"

// DefaultSettings returns the built-in prompt defaults.
func DefaultSettings() *Settings {
	return &Settings{
		KeyType:    KeyTypeRSA,
		RSAKeySize: DefaultRSAKeySize,
		Curve:      CurveP384,
		Staging:    false,
		NodeMajor:  20,
		Branch:     "main",
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDir), nil
}

// ConfigPath returns the config file path
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// LoadSettings reads the settings from disk, falling back to the built-in
// defaults when no file exists.
func LoadSettings() (*Settings, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return loadSettingsFrom(path)
}

func loadSettingsFrom(path string) (*Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultSettings(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeConfig, "failed to read settings", err)
	}

	s := DefaultSettings()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeConfig, "failed to parse settings", err)
	}

	return s, nil
}

// Save writes the settings to disk.
func (s *Settings) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeConfig, "failed to create config directory", err)
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeConfig, "failed to marshal settings", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeConfig, "failed to write settings", err)
	}

	return nil
}
