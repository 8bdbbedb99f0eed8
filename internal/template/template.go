// Package template renders the files the provisioning workflows write:
// reverse-proxy site configurations, the application environment file,
// and the certificate renewal deploy hook. Templates are embedded in the
// binary and rendered through typed data structs, keeping the external
// file formats fixed.
package template

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed files/*.tmpl
var files embed.FS

// SiteData feeds the reverse-proxy site templates.
type SiteData struct {
	Domain  string
	AppPort int
}

// EnvData feeds the application environment file template.
type EnvData struct {
	Domain        string
	AppPort       int
	DBName        string
	DBUser        string
	DBPassword    string
	SessionSecret string
	JWTSecret     string
	AdminEmail    string
}

// HookData feeds the renewal deploy hook template.
type HookData struct {
	Services []string
}

func render(name string, data interface{}) (string, error) {
	content, err := files.ReadFile("files/" + name + ".tmpl")
	if err != nil {
		return "", fmt.Errorf("template not found: %s", name)
	}

	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}

	return buf.String(), nil
}

// RenderSite renders the reverse-proxy site config for the named server.
func RenderSite(serverName string, data SiteData) (string, error) {
	switch serverName {
	case "nginx":
		return render("nginx-site", data)
	case "apache":
		return render("apache-site", data)
	default:
		return "", fmt.Errorf("no site template for server: %s", serverName)
	}
}

// RenderEnv renders the application environment file.
func RenderEnv(data EnvData) (string, error) {
	return render("env", data)
}

// RenderDeployHook renders the certificate renewal hook script.
func RenderDeployHook(data HookData) (string, error) {
	return render("deploy-hook", data)
}
