package provider

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrSignatureMismatch indicates an inbound notification whose signature
	// does not match the recomputed value. It always means tampering or a
	// canonicalization bug; it is never a transient condition and must not be
	// retried.
	ErrSignatureMismatch = errors.New("notification signature mismatch")

	// ErrPaymentNotFound indicates the gateway has no record of the invoice
	ErrPaymentNotFound = errors.New("payment not found")
)

// ValidationError reports malformed caller input. Requests failing validation
// never reach the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// TransportError wraps network-level failures (DNS, connect, timeout)
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// GatewayError reports a non-2xx HTTP response from the gateway. Body carries
// the response verbatim so callers can act on it.
type GatewayError struct {
	StatusCode int
	Body       []byte
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway returned HTTP %d: %s", e.StatusCode, string(e.Body))
}

// ParsedBody returns the response body decoded as JSON, or nil when the body
// is not a JSON object.
func (e *GatewayError) ParsedBody() map[string]any {
	var parsed map[string]any
	if err := json.Unmarshal(e.Body, &parsed); err != nil {
		return nil
	}
	return parsed
}

// IsGatewayError reports whether err is a GatewayError and returns it
func IsGatewayError(err error) (*GatewayError, bool) {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

// IsTransportError reports whether err is a TransportError
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
