package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/ordapay/ordapay/infra/config"
	"github.com/ordapay/ordapay/infra/middle"
	"github.com/ordapay/ordapay/infra/response"
	"github.com/ordapay/ordapay/provider"
)

// ConfigHandler manages tenant gateway credentials
type ConfigHandler struct {
	tenantConfig   *config.TenantConfig
	paymentService *provider.PaymentService
	validate       *validator.Validate
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(tenantConfig *config.TenantConfig, paymentService *provider.PaymentService, validate *validator.Validate) *ConfigHandler {
	return &ConfigHandler{
		tenantConfig:   tenantConfig,
		paymentService: paymentService,
		validate:       validate,
	}
}

type setConfigRequest struct {
	Provider string            `json:"provider" validate:"required"`
	Config   map[string]string `json:"config" validate:"required"`
}

func tenantFromRequest(r *http.Request) string {
	if tenantID := middle.GetTenantIDFromContext(r.Context()); tenantID != "" {
		return tenantID
	}
	return config.DefaultTenantID
}

// SetTenantConfig handles POST /v1/config/tenant
func (h *ConfigHandler) SetTenantConfig(w http.ResponseWriter, r *http.Request) {
	var req setConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	tenantID := tenantFromRequest(r)

	if err := h.tenantConfig.SetTenantConfig(tenantID, req.Provider, req.Config); err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to save configuration", err)
		return
	}

	// Drop any cached instance built with the old credentials
	h.paymentService.InvalidateProvider(tenantID, req.Provider)

	// Credentials never appear in the response
	response.Success(w, http.StatusOK, "Configuration saved", map[string]string{
		"tenantId": tenantID,
		"provider": req.Provider,
	})
}

// GetTenantConfig handles GET /v1/config/tenant. Only provider names are
// returned; stored secrets are never echoed back.
func (h *ConfigHandler) GetTenantConfig(w http.ResponseWriter, r *http.Request) {
	tenantID := tenantFromRequest(r)

	providers := h.tenantConfig.Providers(tenantID)

	response.Success(w, http.StatusOK, "Tenant configuration retrieved", map[string]any{
		"tenantId":  tenantID,
		"providers": providers,
	})
}

// DeleteTenantConfig handles DELETE /v1/config/tenant/{provider}
func (h *ConfigHandler) DeleteTenantConfig(w http.ResponseWriter, r *http.Request) {
	providerName := chi.URLParam(r, "provider")
	if providerName == "" {
		response.Error(w, http.StatusBadRequest, "Provider name is required", nil)
		return
	}

	tenantID := tenantFromRequest(r)

	if err := h.tenantConfig.DeleteTenantConfig(tenantID, providerName); err != nil {
		response.Error(w, http.StatusNotFound, "Configuration not found", err)
		return
	}

	h.paymentService.InvalidateProvider(tenantID, providerName)

	response.Success(w, http.StatusOK, "Configuration deleted", nil)
}
