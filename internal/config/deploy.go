package config

// DeployConfig holds the fully resolved inputs for the droplet bootstrap
// workflow. Like CertConfig it is immutable once the workflow starts.
type DeployConfig struct {
	AppName    string `yaml:"app_name" validate:"required,hostname_rfc1123"`
	RepoURL    string `yaml:"repo_url" validate:"required"`
	Branch     string `yaml:"branch" validate:"required"`
	Domain     string `yaml:"domain" validate:"required"`
	AppPort    int    `yaml:"app_port" validate:"required,min=1,max=65535"`
	NodeMajor  int    `yaml:"node_major" validate:"required,min=16,max=24"`
	DBName     string `yaml:"db_name" validate:"required"`
	DBUser     string `yaml:"db_user" validate:"required"`
	DBPassword string `yaml:"db_password" validate:"required"`
	AdminEmail string `yaml:"admin_email" validate:"required"`
}

// Validate enforces the hard requirements on a resolved configuration.
func (c DeployConfig) Validate() error {
	return validateStruct(c)
}

// AppDir returns the directory the application is cloned into.
func (c DeployConfig) AppDir() string {
	return "/var/www/" + c.AppName
}
