package bootstrap

import "github.com/google/uuid"

// Secrets holds the generated application secrets for the env file.
// Values are random per provisioning run and never logged.
type Secrets struct {
	Session string
	JWT     string
}

// NewSecrets generates a fresh set of application secrets.
func NewSecrets() Secrets {
	return Secrets{
		Session: uuid.NewString(),
		JWT:     uuid.NewString(),
	}
}
