package helpers

import "fmt"

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type GatewayError struct {
	Message string
	Cause   error
}

func (e *GatewayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *GatewayError) Unwrap() error {
	return e.Cause
}

// Distinct error types for the gateway's failure classes. Configuration and
// authentication errors are fatal at startup; broker, cache and storage
// errors are per-call and must stay non-fatal.
type ConfigurationError struct{ GatewayError }
type AuthError struct{ GatewayError }
type BrokerError struct{ GatewayError }
type CacheError struct{ GatewayError }
type StorageError struct{ GatewayError }

// -----------------------------------------------------------------------------

func NewConfigurationError(msg string, cause error) *ConfigurationError {
	return &ConfigurationError{GatewayError{Message: msg, Cause: cause}}
}

func NewAuthError(msg string, cause error) *AuthError {
	return &AuthError{GatewayError{Message: msg, Cause: cause}}
}

func NewBrokerError(msg string, cause error) *BrokerError {
	return &BrokerError{GatewayError{Message: msg, Cause: cause}}
}
