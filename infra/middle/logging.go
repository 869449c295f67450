package middle

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ordapay/ordapay/infra/opensearch"
)

// responseWriter wraps http.ResponseWriter to capture response data
type responseWriter struct {
	http.ResponseWriter
	body       *bytes.Buffer
	statusCode int
	startTime  time.Time
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		body:           &bytes.Buffer{},
		statusCode:     http.StatusOK,
		startTime:      time.Now(),
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// PaymentLoggingMiddleware logs payment requests and responses to OpenSearch.
// Logging happens asynchronously after the response is written.
func PaymentLoggingMiddleware(osLogger *opensearch.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if osLogger == nil || !isPaymentEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			requestID := uuid.New().String()
			r.Header.Set("X-Request-ID", requestID)

			tenantID := r.Header.Get("X-Tenant-Id")

			var requestBody []byte
			if r.Body != nil {
				requestBody, _ = io.ReadAll(r.Body)
				r.Body = io.NopCloser(bytes.NewBuffer(requestBody))
			}

			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			paymentLog := opensearch.PaymentLog{
				Timestamp: rw.startTime,
				TenantID:  tenantID,
				Provider:  "veripos",
				Method:    r.Method,
				Endpoint:  r.URL.Path,
				RequestID: requestID,
				UserAgent: r.UserAgent(),
				ClientIP:  GetClientIP(r),
				Request: opensearch.RequestLog{
					Body: opensearch.SanitizeForLog(string(requestBody)),
				},
				Response: opensearch.ResponseLog{
					StatusCode:       rw.statusCode,
					Body:             opensearch.SanitizeForLog(rw.body.String()),
					ProcessingTimeMs: time.Since(rw.startTime).Milliseconds(),
				},
			}

			if info := extractPaymentInfo(requestBody, rw.body.Bytes()); info != nil {
				paymentLog.PaymentInfo = *info
			}
			if rw.statusCode >= 400 {
				if errInfo := extractErrorInfo(rw.body.Bytes()); errInfo != nil {
					paymentLog.Error = *errInfo
				}
			}

			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				// Never fail the request over a logging error
				_ = osLogger.LogPaymentRequest(ctx, paymentLog)
			}()
		})
	}
}

// isPaymentEndpoint checks if the URL path is a payment-related endpoint
func isPaymentEndpoint(path string) bool {
	paymentPaths := []string{
		"/v1/payments",
		"/v1/webhooks",
	}

	for _, paymentPath := range paymentPaths {
		if strings.HasPrefix(path, paymentPath) {
			return true
		}
	}

	return false
}

// extractPaymentInfo pulls payment fields out of the request or response body
func extractPaymentInfo(requestBody, responseBody []byte) *opensearch.PaymentInfo {
	info := &opensearch.PaymentInfo{}
	found := false

	var req struct {
		InvoiceNumber string `json:"invoiceNumber"`
		Amount        int64  `json:"amount"`
		Currency      string `json:"currency"`
		Customer      struct {
			Email string `json:"email"`
		} `json:"customer"`
	}
	if len(requestBody) > 0 && json.Unmarshal(requestBody, &req) == nil {
		if req.InvoiceNumber != "" {
			info.InvoiceNumber = req.InvoiceNumber
			found = true
		}
		if req.Amount > 0 {
			info.Amount = req.Amount
			found = true
		}
		info.Currency = req.Currency
		info.CustomerEmail = req.Customer.Email
	}

	var resp struct {
		Data struct {
			InvoiceNumber string `json:"invoiceNumber"`
			Status        string `json:"status"`
		} `json:"data"`
	}
	if len(responseBody) > 0 && json.Unmarshal(responseBody, &resp) == nil {
		if resp.Data.Status != "" {
			info.Status = resp.Data.Status
			found = true
		}
		if info.InvoiceNumber == "" && resp.Data.InvoiceNumber != "" {
			info.InvoiceNumber = resp.Data.InvoiceNumber
			found = true
		}
	}

	if !found {
		return nil
	}
	return info
}

// extractErrorInfo pulls error details out of an error response body
func extractErrorInfo(responseBody []byte) *opensearch.ErrorInfo {
	var resp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Data    struct {
			ErrorCode string `json:"errorCode"`
		} `json:"data"`
	}
	if len(responseBody) == 0 || json.Unmarshal(responseBody, &resp) != nil {
		return nil
	}

	if resp.Error == "" && resp.Message == "" && resp.Data.ErrorCode == "" {
		return nil
	}

	errInfo := &opensearch.ErrorInfo{
		Code:    resp.Data.ErrorCode,
		Message: resp.Message,
	}
	if errInfo.Message == "" {
		errInfo.Message = resp.Error
	}
	return errInfo
}
