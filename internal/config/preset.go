package config

import (
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the prefix for preset environment variables.
const envPrefix = "DROPSHIP"

// CertPresets carries the raw pre-set values for the certificate workflow.
// An empty string means the value was not pre-set and must be prompted for.
type CertPresets struct {
	Mode     string
	Domains  string
	Email    string
	Redirect string
	Staging  string
	KeyType  string
	Curve    string
	Webroot  string
}

// DeployPresets carries the raw pre-set values for the bootstrap workflow.
type DeployPresets struct {
	AppName    string
	RepoURL    string
	Branch     string
	Domain     string
	AppPort    string
	NodeMajor  string
	DBName     string
	DBUser     string
	DBPassword string
	AdminEmail string
}

func newPresetReader() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadCertPresets reads pre-set certificate options from the environment
// (DROPSHIP_MODE, DROPSHIP_DOMAINS, DROPSHIP_EMAIL, ...).
func LoadCertPresets() CertPresets {
	v := newPresetReader()
	return CertPresets{
		Mode:     v.GetString("mode"),
		Domains:  v.GetString("domains"),
		Email:    v.GetString("email"),
		Redirect: v.GetString("redirect"),
		Staging:  v.GetString("staging"),
		KeyType:  v.GetString("key_type"),
		Curve:    v.GetString("curve"),
		Webroot:  v.GetString("webroot"),
	}
}

// LoadDeployPresets reads pre-set bootstrap options from the environment
// (DROPSHIP_APP_NAME, DROPSHIP_REPO_URL, ...).
func LoadDeployPresets() DeployPresets {
	v := newPresetReader()
	return DeployPresets{
		AppName:    v.GetString("app_name"),
		RepoURL:    v.GetString("repo_url"),
		Branch:     v.GetString("branch"),
		Domain:     v.GetString("domain"),
		AppPort:    v.GetString("app_port"),
		NodeMajor:  v.GetString("node_major"),
		DBName:     v.GetString("db_name"),
		DBUser:     v.GetString("db_user"),
		DBPassword: v.GetString("db_password"),
		AdminEmail: v.GetString("admin_email"),
	}
}
