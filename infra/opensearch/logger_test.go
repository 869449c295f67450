package opensearch

import (
	"context"
	"strings"
	"testing"

	"github.com/ordapay/ordapay/infra/config"
	"github.com/stretchr/testify/assert"
)

func disabledClient() *Client {
	return &Client{
		config: &config.AppConfig{EnableLogging: false},
	}
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger(disabledClient())
	assert.NotNil(t, logger)
}

func TestLogger_LogPaymentRequest_DisabledLogging(t *testing.T) {
	logger := NewLogger(disabledClient())

	err := logger.LogPaymentRequest(context.Background(), PaymentLog{
		Provider: "veripos",
		Method:   "POST",
		Endpoint: "/v1/payments",
	})
	assert.NoError(t, err)
}

func TestLogger_GetPaymentLogs_DisabledLogging(t *testing.T) {
	logger := NewLogger(disabledClient())

	_, err := logger.GetPaymentLogs(context.Background(), "acme", "veripos", "INV-001")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}

func TestLogger_LogSystemEvent_DisabledLogging(t *testing.T) {
	logger := NewLogger(disabledClient())

	err := logger.LogSystemEvent(context.Background(), map[string]string{"message": "test"})
	assert.NoError(t, err)
}

func TestClient_GetLogIndexName(t *testing.T) {
	c := disabledClient()

	assert.Equal(t, "ordapay-veripos-logs", c.GetLogIndexName("", "veripos"))
	assert.Equal(t, "ordapay-acme-veripos-logs", c.GetLogIndexName("acme", "veripos"))
}

func TestSanitizeForLog(t *testing.T) {
	tests := []struct {
		name  string
		input string
		leaks []string
	}{
		{
			name:  "secret key redacted",
			input: `{"clientId":"CID1","secretKey":"sk_live_supersecret"}`,
			leaks: []string{"sk_live_supersecret"},
		},
		{
			name:  "signature redacted",
			input: `{"signature":"HMACSHA256=abc123"}`,
			leaks: []string{"abc123"},
		},
		{
			name:  "card number redacted",
			input: `{"cardNumber":"4111111111111111","cvv":"123"}`,
			leaks: []string{"4111111111111111"},
		},
		{
			name:  "api key in url params",
			input: `apiKey=verysecret&other=1`,
			leaks: []string{"verysecret"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeForLog(tt.input)
			for _, leak := range tt.leaks {
				assert.NotContains(t, got, leak)
			}
			assert.Contains(t, got, "***REDACTED***")
		})
	}
}

func TestSanitizeForLog_LeavesSafeFieldsAlone(t *testing.T) {
	input := `{"invoiceNumber":"INV-001","amount":10000,"currency":"TRY"}`
	got := SanitizeForLog(input)

	assert.Contains(t, got, "INV-001")
	assert.Contains(t, got, "10000")
	assert.False(t, strings.Contains(got, "REDACTED"))
}
