// Package config defines the immutable configuration values that drive the
// dropship provisioning workflows, plus the persisted operator defaults.
//
// Two configuration types exist, one per workflow:
//   - CertConfig: certificate acquisition (mode, domains, contact, key type)
//   - DeployConfig: droplet bootstrap (app repo, database, runtime, domain)
//
// Both are resolved once per run, validated with go-playground/validator
// struct tags, and then treated as immutable: the workflow packages take
// them by value and never write back.
//
// # Preset Values
//
// Every field can be pre-set through the environment with a DROPSHIP_
// prefix (DROPSHIP_MODE, DROPSHIP_DOMAINS, ...). Preset values are accepted
// as-is by the resolver; only fields without presets are prompted for.
//
// # Operator Defaults
//
// Defaults offered at the prompts are read from
// ~/.config/dropship/config.yaml when present:
//
//	email: admin@example.com
//	key_type: rsa
//	rsa_key_size: 4096
//	curve: secp384r1
//	staging: false
//
// Missing file means built-in defaults; a malformed file is an error.
package config
