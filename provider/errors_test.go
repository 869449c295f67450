package provider

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "with field",
			err:  &ValidationError{Field: "amount", Message: "must be positive"},
			want: "amount: must be positive",
		},
		{
			name: "without field",
			err:  &ValidationError{Message: "invalid request"},
			want: "invalid request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransportError_Unwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &TransportError{Err: inner}

	if !errors.Is(err, inner) {
		t.Error("TransportError should unwrap to the inner error")
	}
	if !IsTransportError(err) {
		t.Error("IsTransportError should report true")
	}
	if IsTransportError(errors.New("plain")) {
		t.Error("IsTransportError should report false for unrelated errors")
	}
}

func TestTransportError_UnwrapThroughWrapping(t *testing.T) {
	inner := &TransportError{Err: errors.New("timeout")}
	wrapped := fmt.Errorf("create payment: %w", inner)

	if !IsTransportError(wrapped) {
		t.Error("IsTransportError should see through fmt.Errorf wrapping")
	}
}

func TestGatewayError(t *testing.T) {
	err := &GatewayError{StatusCode: 400, Body: []byte(`{"error":"bad"}`)}

	if got, ok := IsGatewayError(err); !ok || got.StatusCode != 400 {
		t.Errorf("IsGatewayError() = (%v, %v), want status 400", got, ok)
	}

	parsed := err.ParsedBody()
	if parsed == nil || parsed["error"] != "bad" {
		t.Errorf("ParsedBody() = %v, want error=bad", parsed)
	}
}

func TestGatewayError_ParsedBodyNonJSON(t *testing.T) {
	err := &GatewayError{StatusCode: 502, Body: []byte("upstream unavailable")}

	if parsed := err.ParsedBody(); parsed != nil {
		t.Errorf("ParsedBody() = %v, want nil for non-JSON body", parsed)
	}
}

func TestSentinelErrors(t *testing.T) {
	wrapped := fmt.Errorf("veripos: invoice %q: %w", "INV-404", ErrPaymentNotFound)
	if !errors.Is(wrapped, ErrPaymentNotFound) {
		t.Error("wrapped ErrPaymentNotFound should satisfy errors.Is")
	}

	if errors.Is(ErrSignatureMismatch, ErrPaymentNotFound) {
		t.Error("sentinels must be distinct")
	}
}
