package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/ordapay/ordapay/infra/logger"
	"github.com/ordapay/ordapay/infra/middle"
	"github.com/ordapay/ordapay/infra/response"
	"github.com/ordapay/ordapay/provider"
)

const providerName = "veripos"

// PaymentServiceInterface defines the payment operations the handler needs
type PaymentServiceInterface interface {
	CreatePayment(ctx context.Context, providerName string, request provider.PaymentRequest) (*provider.PaymentResponse, error)
	GetPaymentStatus(ctx context.Context, providerName string, request provider.GetPaymentStatusRequest) (*provider.PaymentResponse, error)
	ValidateWebhook(ctx context.Context, providerName string, rawBody []byte, headers map[string]string) (bool, map[string]string, error)
}

// PaymentHandler handles payment API requests
type PaymentHandler struct {
	paymentService PaymentServiceInterface
	validate       *validator.Validate
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService PaymentServiceInterface, validate *validator.Validate) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		validate:       validate,
	}
}

// ProcessPayment handles POST /v1/payments
func (h *PaymentHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	var req provider.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	req.ClientIP = middle.GetClientIP(r)

	resp, err := h.paymentService.CreatePayment(r.Context(), providerName, req)
	if err != nil {
		h.writePaymentError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Payment processed", resp)
}

// GetPaymentStatus handles GET /v1/payments/{invoiceNumber}
func (h *PaymentHandler) GetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	invoiceNumber := chi.URLParam(r, "invoiceNumber")
	if invoiceNumber == "" {
		response.Error(w, http.StatusBadRequest, "Invoice number is required", nil)
		return
	}

	resp, err := h.paymentService.GetPaymentStatus(r.Context(), providerName, provider.GetPaymentStatusRequest{
		InvoiceNumber: invoiceNumber,
	})
	if err != nil {
		h.writePaymentError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Payment status retrieved", resp)
}

// HandleWebhook handles POST /v1/webhooks/veripos. The body is read raw
// before any parsing so the signature covers the exact bytes received.
func (h *PaymentHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	rawBody, err := io.ReadAll(r.Body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Failed to read webhook body", err)
		return
	}

	headers := make(map[string]string, len(r.Header))
	for name := range r.Header {
		headers[name] = r.Header.Get(name)
	}

	valid, data, err := h.paymentService.ValidateWebhook(r.Context(), providerName, rawBody, headers)
	if err != nil || !valid {
		if errors.Is(err, provider.ErrSignatureMismatch) {
			logger.Warn("Webhook signature mismatch", logger.LogContext{
				TenantID: middle.GetTenantIDFromContext(r.Context()),
				Provider: providerName,
				Fields: map[string]any{
					"client_ip": middle.GetClientIP(r),
				},
			})
			response.Error(w, http.StatusUnauthorized, "Invalid webhook signature", nil)
			return
		}
		response.Error(w, http.StatusBadRequest, "Webhook validation failed", err)
		return
	}

	response.Success(w, http.StatusOK, "Webhook processed", data)
}

// writePaymentError maps service errors to HTTP responses
func (h *PaymentHandler) writePaymentError(w http.ResponseWriter, err error) {
	var validationErr *provider.ValidationError
	var gatewayErr *provider.GatewayError
	var transportErr *provider.TransportError

	switch {
	case errors.Is(err, provider.ErrPaymentNotFound):
		response.Error(w, http.StatusNotFound, "Payment not found", err)
	case errors.As(err, &validationErr):
		response.Error(w, http.StatusBadRequest, "Validation failed", err)
	case errors.As(err, &gatewayErr):
		response.Error(w, http.StatusBadGateway, fmt.Sprintf("Gateway rejected the request with status %d", gatewayErr.StatusCode), err)
	case errors.As(err, &transportErr):
		response.Error(w, http.StatusBadGateway, "Gateway unreachable", err)
	default:
		response.Error(w, http.StatusInternalServerError, "Payment operation failed", err)
	}
}
