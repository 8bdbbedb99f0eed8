package config

// Server modes for certificate issuance. Exactly one mode is dispatched
// per run.
const (
	ModeNginx      = "nginx"
	ModeApache     = "apache"
	ModeStandalone = "standalone"
	ModeWebroot    = "webroot"
)

// Key types for the requested certificate.
const (
	KeyTypeRSA   = "rsa"
	KeyTypeECDSA = "ecdsa"
)

// ECDSA curves accepted by the ACME client.
const (
	CurveP256 = "secp256r1"
	CurveP384 = "secp384r1"
)

// DefaultRSAKeySize is used when key-type is rsa and no size was given.
const DefaultRSAKeySize = 4096

// CertConfig holds the fully resolved inputs for the certificate
// acquisition workflow. It is immutable once dispatch begins.
//
// Validation enforces presence and the closed enums only. Domains and
// the contact address are handed to the ACME client unchanged, so their
// format is not second-guessed here (wildcard names stay valid input).
type CertConfig struct {
	Mode        string   `yaml:"mode" validate:"required,oneof=nginx apache standalone webroot"`
	Domains     []string `yaml:"domains" validate:"required,min=1,dive,required"`
	Email       string   `yaml:"email" validate:"required"`
	Redirect    bool     `yaml:"redirect"`
	Staging     bool     `yaml:"staging"`
	KeyType     string   `yaml:"key_type" validate:"required,oneof=rsa ecdsa"`
	RSAKeySize  int      `yaml:"rsa_key_size" validate:"required_if=KeyType rsa,omitempty,oneof=2048 3072 4096"`
	Curve       string   `yaml:"curve" validate:"required_if=KeyType ecdsa,omitempty,oneof=secp256r1 secp384r1"`
	WebrootPath string   `yaml:"webroot_path" validate:"required_if=Mode webroot"`
}

// Validate enforces the hard requirements on a resolved configuration.
func (c CertConfig) Validate() error {
	return validateStruct(c)
}

// ValidModes returns all recognized server modes.
func ValidModes() []string {
	return []string{ModeNginx, ModeApache, ModeStandalone, ModeWebroot}
}

// IsValidMode checks if the given server mode is recognized.
func IsValidMode(mode string) bool {
	for _, m := range ValidModes() {
		if mode == m {
			return true
		}
	}
	return false
}

// ValidCurves returns all recognized ECDSA curves.
func ValidCurves() []string {
	return []string{CurveP256, CurveP384}
}

// UsesPlugin reports whether the mode integrates with a running web server
// rather than using a certonly challenge.
func (c CertConfig) UsesPlugin() bool {
	return c.Mode == ModeNginx || c.Mode == ModeApache
}
