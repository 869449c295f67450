package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ordapay/ordapay/infra/config"
	"github.com/ordapay/ordapay/infra/logger"
	"github.com/ordapay/ordapay/infra/middle"
)

// getTenantIDFromContext extracts the tenant ID from context, falling back
// to the default tenant when the caller did not identify one
func getTenantIDFromContext(ctx context.Context) string {
	tenantID, ok := ctx.Value(middle.TenantIDKey).(string)
	if !ok || tenantID == "" {
		return config.DefaultTenantID
	}
	return tenantID
}

// PaymentService manages payment operations through configured providers.
// Provider instances are created per tenant and cached.
type PaymentService struct {
	tenantConfig *config.TenantConfig
	instances    map[string]PaymentProvider
	mu           sync.RWMutex
}

// NewPaymentService creates a new payment service
func NewPaymentService(tenantConfig *config.TenantConfig) *PaymentService {
	return &PaymentService{
		tenantConfig: tenantConfig,
		instances:    make(map[string]PaymentProvider),
	}
}

// resolveProvider returns an initialized provider for the tenant, creating
// and caching the instance on first use
func (s *PaymentService) resolveProvider(tenantID, providerName string) (PaymentProvider, error) {
	key := tenantID + "_" + providerName

	s.mu.RLock()
	instance, exists := s.instances[key]
	s.mu.RUnlock()
	if exists {
		return instance, nil
	}

	cfg, err := s.tenantConfig.GetTenantConfig(tenantID, providerName)
	if err != nil {
		return nil, err
	}

	instance, err = CreateProvider(providerName)
	if err != nil {
		return nil, err
	}

	if err := instance.Initialize(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize provider %s: %w", providerName, err)
	}

	s.mu.Lock()
	s.instances[key] = instance
	s.mu.Unlock()

	return instance, nil
}

// InvalidateProvider drops the cached instance for a tenant so the next call
// picks up updated credentials
func (s *PaymentService) InvalidateProvider(tenantID, providerName string) {
	s.mu.Lock()
	delete(s.instances, tenantID+"_"+providerName)
	s.mu.Unlock()
}

// CreatePayment processes a payment using the named provider
func (s *PaymentService) CreatePayment(ctx context.Context, providerName string, request PaymentRequest) (*PaymentResponse, error) {
	tenantID := getTenantIDFromContext(ctx)
	request.TenantID = tenantID

	provider, err := s.resolveProvider(tenantID, providerName)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	response, err := provider.CreatePayment(ctx, request)
	processingMs := time.Since(startTime).Milliseconds()

	logCtx := logger.LogContext{
		TenantID: tenantID,
		Provider: providerName,
		Fields: map[string]any{
			"invoice_number":     request.InvoiceNumber,
			"amount":             request.Amount,
			"processing_time_ms": processingMs,
		},
	}

	if err != nil {
		logger.Error("Payment creation failed", err, logCtx)
		return response, err
	}

	logCtx.Fields["status"] = string(response.Status)
	logger.Info("Payment created", logCtx)
	return response, nil
}

// GetPaymentStatus queries the status of a payment by invoice number
func (s *PaymentService) GetPaymentStatus(ctx context.Context, providerName string, request GetPaymentStatusRequest) (*PaymentResponse, error) {
	tenantID := getTenantIDFromContext(ctx)

	provider, err := s.resolveProvider(tenantID, providerName)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	response, err := provider.GetPaymentStatus(ctx, request)
	processingMs := time.Since(startTime).Milliseconds()

	logCtx := logger.LogContext{
		TenantID: tenantID,
		Provider: providerName,
		Fields: map[string]any{
			"invoice_number":     request.InvoiceNumber,
			"processing_time_ms": processingMs,
		},
	}

	if err != nil {
		logger.Error("Payment status query failed", err, logCtx)
		return response, err
	}

	logCtx.Fields["status"] = string(response.Status)
	logger.Info("Payment status retrieved", logCtx)
	return response, nil
}

// ValidateWebhook verifies an inbound webhook notification against the
// tenant's credentials. rawBody must be the unmodified request body bytes.
func (s *PaymentService) ValidateWebhook(ctx context.Context, providerName string, rawBody []byte, headers map[string]string) (bool, map[string]string, error) {
	tenantID := getTenantIDFromContext(ctx)

	provider, err := s.resolveProvider(tenantID, providerName)
	if err != nil {
		return false, nil, err
	}

	valid, data, err := provider.ValidateWebhook(ctx, rawBody, headers)
	if err != nil {
		logger.Warn("Webhook validation failed", logger.LogContext{
			TenantID: tenantID,
			Provider: providerName,
			Fields: map[string]any{
				"error": err.Error(),
			},
		})
		return false, nil, err
	}

	logger.Info("Webhook validated", logger.LogContext{
		TenantID: tenantID,
		Provider: providerName,
	})
	return valid, data, nil
}
