// Package certbot dispatches certificate operations to the external
// certbot binary.
//
// The package builds one parameter set per run from a resolved
// config.CertConfig and invokes exactly one issuance mode: the nginx or
// apache plugin, webroot, or standalone. TLS negotiation and certificate
// cryptography remain certbot's responsibility; this package only shapes
// arguments and interprets exit status.
//
// # Certificate Paths
//
// Issued certificates land in Let's Encrypt's standard directory:
//
//	/etc/letsencrypt/live/{domain}/fullchain.pem  (certificate chain)
//	/etc/letsencrypt/live/{domain}/privkey.pem    (private key)
//
// # Testing
//
// The package uses a global executor that can be replaced for testing:
//
//	mockExec := &executor.MockExecutor{}
//	certbot.SetExecutor(mockExec)
//	defer certbot.ResetExecutor()
//
// # Error Handling
//
// A missing certbot binary or an unknown mode is a precondition error
// caught before any invocation. A nonzero certbot exit becomes a
// DISPATCH-coded error carrying certbot's combined output.
package certbot
