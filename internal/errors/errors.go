// Package errors provides standardized error types for the dropship CLI tool.
//
// The errors package defines provisioning-specific error types that enable
// structured error handling and consistent error messages throughout
// the application.
//
// # Error Types
//
// ProvisionError is the primary error type, containing:
//   - Code: Categorizes the error (PRECONDITION, INSTALL, etc.)
//   - Message: Human-readable error description
//   - Step: The workflow step that failed (if applicable)
//   - Err: The underlying wrapped error (if any)
//
// # Sentinel Errors
//
// Common error scenarios have pre-defined sentinel errors:
//
//	errors.ErrRootRequired     // workflow must run as root
//	errors.ErrNoOSRelease      // /etc/os-release is missing
//	errors.ErrPromptExhausted  // operator input retries used up
//	errors.ErrWebrootMissing   // webroot directory does not exist
//
// # Usage
//
// Creating step-specific errors:
//
//	// Hard precondition failure
//	return errors.Precondition("webroot path does not exist")
//
//	// Input validation failure
//	return errors.Validation("domain list must not be empty")
//
//	// Wrapping an underlying error
//	return errors.Wrap(errors.ErrCodeInstall, "snap install failed", err)
//
// # Error Checking
//
// Use errors.Is for sentinel error comparison:
//
//	if errors.Is(err, errors.ErrPromptExhausted) {
//	    // Handle exhausted prompt retries
//	}
//
// Use errors.As for type assertion:
//
//	var provErr *errors.ProvisionError
//	if errors.As(err, &provErr) {
//	    fmt.Printf("Error code: %s, Step: %s\n", provErr.Code, provErr.Step)
//	}
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes errors for programmatic handling.
type ErrorCode string

// Error codes for different error categories.
const (
	ErrCodePrecondition ErrorCode = "PRECONDITION" // Hard precondition not met
	ErrCodeValidation   ErrorCode = "VALIDATION"   // Input validation failed
	ErrCodePermission   ErrorCode = "PERMISSION"   // Insufficient privileges
	ErrCodeDetect       ErrorCode = "DETECT"       // Host environment detection failed
	ErrCodeInstall      ErrorCode = "INSTALL"      // Capability installation failed
	ErrCodeDispatch     ErrorCode = "DISPATCH"     // External action invocation failed
	ErrCodeHook         ErrorCode = "HOOK"         // Post-action hook installation failed
	ErrCodeConfig       ErrorCode = "CONFIG"       // Configuration error
	ErrCodeInternal     ErrorCode = "INTERNAL"     // Internal/unexpected error
)

// ProvisionError represents a structured error with context about the
// workflow step that produced it.
type ProvisionError struct {
	Code    ErrorCode // Error category
	Message string    // Human-readable message
	Step    string    // Workflow step (if applicable)
	Err     error     // Underlying error (if any)
}

// Error implements the error interface.
func (e *ProvisionError) Error() string {
	if e.Step != "" && e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Step, e.Message, e.Err)
	}
	if e.Step != "" {
		return fmt.Sprintf("%s: %s", e.Step, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain traversal.
func (e *ProvisionError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error.
// Comparison is based on error code.
func (e *ProvisionError) Is(target error) bool {
	t, ok := target.(*ProvisionError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel errors for common error scenarios.
// Use these with errors.Is() for error checking.
var (
	// ErrRootRequired indicates the workflow must run with root privileges.
	ErrRootRequired = &ProvisionError{Code: ErrCodePermission, Message: "root privileges required"}

	// ErrNoOSRelease indicates the OS release descriptor is absent.
	ErrNoOSRelease = &ProvisionError{Code: ErrCodeDetect, Message: "/etc/os-release not found"}

	// ErrPromptExhausted indicates the operator input retry budget was used up.
	ErrPromptExhausted = &ProvisionError{Code: ErrCodeValidation, Message: "too many invalid answers"}

	// ErrWebrootMissing indicates the webroot directory does not exist.
	ErrWebrootMissing = &ProvisionError{Code: ErrCodePrecondition, Message: "webroot path does not exist"}

	// ErrUnknownMode indicates an unrecognized certificate issuance mode.
	ErrUnknownMode = &ProvisionError{Code: ErrCodeValidation, Message: "unknown server mode"}

	// ErrCertbotNotInstalled indicates certbot is not available on the host.
	ErrCertbotNotInstalled = &ProvisionError{Code: ErrCodePrecondition, Message: "certbot not installed"}
)

// Precondition creates a hard precondition error with a custom message.
func Precondition(msg string) error {
	return &ProvisionError{
		Code:    ErrCodePrecondition,
		Message: msg,
	}
}

// Validation creates a validation error with a custom message.
func Validation(msg string) error {
	return &ProvisionError{
		Code:    ErrCodeValidation,
		Message: msg,
	}
}

// Wrap creates an error with the specified code, message, and underlying error.
func Wrap(code ErrorCode, msg string, err error) error {
	return &ProvisionError{
		Code:    code,
		Message: msg,
		Err:     err,
	}
}

// WrapStep creates an error with workflow step context and underlying error.
func WrapStep(code ErrorCode, step, msg string, err error) error {
	return &ProvisionError{
		Code:    code,
		Message: msg,
		Step:    step,
		Err:     err,
	}
}

// Is reports whether any error in err's chain matches target.
// This is a re-export of errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// This is a re-export of errors.As for convenience.
var As = errors.As
