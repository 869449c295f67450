package middle

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestTenantMiddleware(t *testing.T) {
	var seenTenant string
	handler := TenantMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTenant = GetTenantIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/payments/INV-001", nil)
	req.Header.Set("X-Tenant-Id", "acme")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "acme", seenTenant)
}

func TestTenantMiddleware_NoHeader(t *testing.T) {
	var seenTenant string
	handler := TenantMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTenant = GetTenantIDFromContext(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Empty(t, seenTenant)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{
			name:    "x-forwarded-for single",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.5"},
			remote:  "10.0.0.1:1234",
			want:    "203.0.113.5",
		},
		{
			name:    "x-forwarded-for chain",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.2"},
			remote:  "10.0.0.1:1234",
			want:    "203.0.113.5",
		},
		{
			name:    "x-real-ip",
			headers: map[string]string{"X-Real-IP": "198.51.100.7"},
			remote:  "10.0.0.1:1234",
			want:    "198.51.100.7",
		},
		{
			name:   "remote addr fallback",
			remote: "192.0.2.9:5678",
			want:   "192.0.2.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			assert.Equal(t, tt.want, GetClientIP(req))
		})
	}
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	handler := SecurityHeadersMiddleware()(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestRequestValidationMiddleware_ContentType(t *testing.T) {
	handler := RequestValidationMiddleware()(okHandler())

	tests := []struct {
		name        string
		method      string
		path        string
		contentType string
		wantStatus  int
	}{
		{
			name:        "json post accepted",
			method:      http.MethodPost,
			path:        "/v1/payments",
			contentType: "application/json",
			wantStatus:  http.StatusOK,
		},
		{
			name:       "missing content type rejected",
			method:     http.MethodPost,
			path:       "/v1/payments",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:        "wrong content type rejected",
			method:      http.MethodPost,
			path:        "/v1/payments",
			contentType: "text/plain",
			wantStatus:  http.StatusUnsupportedMediaType,
		},
		{
			name:       "webhook without content type accepted",
			method:     http.MethodPost,
			path:       "/v1/webhooks/veripos",
			wantStatus: http.StatusOK,
		},
		{
			name:       "get has no content type requirement",
			method:     http.MethodGet,
			path:       "/v1/payments/INV-001",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader("{}"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRequestValidationMiddleware_BodyTooLarge(t *testing.T) {
	handler := RequestValidationMiddleware()(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/v1/payments", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = 11 * 1024 * 1024

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestPanicRecoveryMiddleware(t *testing.T) {
	handler := PanicRecoveryMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

func TestIPWhitelistMiddleware_NoWhitelistAllowsAll(t *testing.T) {
	handler := IPWhitelistMiddleware()(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIPWhitelistMiddleware_Blocks(t *testing.T) {
	t.Setenv("IP_WHITELIST", "203.0.113.5")

	handler := IPWhitelistMiddleware()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.9:5678"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	allowed := httptest.NewRequest(http.MethodGet, "/", nil)
	allowed.RemoteAddr = "203.0.113.5:5678"

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, allowed)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExtractPaymentInfo(t *testing.T) {
	requestBody := []byte(`{"invoiceNumber":"INV-001","amount":10000,"currency":"TRY","customer":{"email":"a@b.co"}}`)
	responseBody := []byte(`{"data":{"invoiceNumber":"INV-001","status":"pending"}}`)

	info := extractPaymentInfo(requestBody, responseBody)
	assert.NotNil(t, info)
	assert.Equal(t, "INV-001", info.InvoiceNumber)
	assert.Equal(t, int64(10000), info.Amount)
	assert.Equal(t, "TRY", info.Currency)
	assert.Equal(t, "pending", info.Status)

	assert.Nil(t, extractPaymentInfo([]byte(`{}`), []byte(`{}`)))
}

func TestExtractErrorInfo(t *testing.T) {
	errInfo := extractErrorInfo([]byte(`{"message":"Validation failed","error":"amount required"}`))
	assert.NotNil(t, errInfo)
	assert.Equal(t, "Validation failed", errInfo.Message)

	assert.Nil(t, extractErrorInfo([]byte(`{}`)))
	assert.Nil(t, extractErrorInfo([]byte(`not json`)))
}
