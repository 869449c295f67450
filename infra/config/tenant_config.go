package config

import (
	"fmt"
	"strings"
	"sync"
)

// DefaultTenantID is used when a caller does not identify a tenant
const DefaultTenantID = "default"

// TenantConfig manages per-tenant gateway credentials. Configurations are
// immutable once handed out; callers always receive a copy.
type TenantConfig struct {
	configs map[string]map[string]string
	storage *SQLiteStorage
	mu      sync.RWMutex
}

// NewTenantConfig creates a tenant configuration store. storage may be nil,
// in which case the store runs memory-only.
func NewTenantConfig(storage *SQLiteStorage) *TenantConfig {
	c := &TenantConfig{
		configs: make(map[string]map[string]string),
		storage: storage,
	}

	if storage != nil {
		if stored, err := storage.LoadAllTenantConfigs(); err == nil {
			c.configs = stored
		}
	}

	return c
}

func tenantKey(tenantID, providerName string) string {
	return fmt.Sprintf("%s_%s", strings.ToLower(tenantID), strings.ToLower(providerName))
}

// SetTenantConfig sets the configuration for a tenant and provider
func (c *TenantConfig) SetTenantConfig(tenantID, providerName string, config map[string]string) error {
	if tenantID == "" {
		return fmt.Errorf("tenant ID cannot be empty")
	}
	if providerName == "" {
		return fmt.Errorf("provider name cannot be empty")
	}
	if len(config) == 0 {
		return fmt.Errorf("config cannot be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.storage != nil {
		if err := c.storage.SaveTenantConfig(tenantID, providerName, config); err != nil {
			return fmt.Errorf("failed to persist config: %w", err)
		}
	}

	stored := make(map[string]string, len(config))
	for k, v := range config {
		stored[k] = v
	}
	c.configs[tenantKey(tenantID, providerName)] = stored
	return nil
}

// GetTenantConfig returns a copy of the configuration for a tenant and provider
func (c *TenantConfig) GetTenantConfig(tenantID, providerName string) (map[string]string, error) {
	if tenantID == "" {
		tenantID = DefaultTenantID
	}

	key := tenantKey(tenantID, providerName)

	c.mu.RLock()
	config, exists := c.configs[key]
	c.mu.RUnlock()

	if !exists && c.storage != nil {
		stored, err := c.storage.LoadTenantConfig(tenantID, providerName)
		if err == nil {
			c.mu.Lock()
			c.configs[key] = stored
			c.mu.Unlock()
			config = stored
			exists = true
		}
	}

	if !exists {
		return nil, fmt.Errorf("no configuration found for tenant: %s, provider: %s", tenantID, providerName)
	}

	configCopy := make(map[string]string, len(config))
	for k, v := range config {
		configCopy[k] = v
	}
	return configCopy, nil
}

// DeleteTenantConfig removes a tenant's provider configuration
func (c *TenantConfig) DeleteTenantConfig(tenantID, providerName string) error {
	if tenantID == "" || providerName == "" {
		return fmt.Errorf("tenant ID and provider name are required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.storage != nil {
		if err := c.storage.DeleteTenantConfig(tenantID, providerName); err != nil {
			return err
		}
	}

	delete(c.configs, tenantKey(tenantID, providerName))
	return nil
}

// LoadFromEnv seeds the default tenant's VeriPOS credentials from the
// environment when present. The secret key stays inside the store; it is
// never logged or echoed.
func (c *TenantConfig) LoadFromEnv() {
	clientID := GetEnv("VERIPOS_CLIENT_ID", "")
	secretKey := GetEnv("VERIPOS_SECRET_KEY", "")
	if clientID == "" || secretKey == "" {
		return
	}

	cfg := map[string]string{
		"clientId":    clientID,
		"secretKey":   secretKey,
		"environment": GetEnv("VERIPOS_ENVIRONMENT", "sandbox"),
	}
	if currency := GetEnv("VERIPOS_CURRENCY", ""); currency != "" {
		cfg["currency"] = currency
	}
	if webhookPath := GetEnv("VERIPOS_WEBHOOK_PATH", ""); webhookPath != "" {
		cfg["webhookPath"] = webhookPath
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.configs[tenantKey(DefaultTenantID, "veripos")] = cfg
}

// Providers returns the provider names configured for a tenant
func (c *TenantConfig) Providers(tenantID string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	prefix := strings.ToLower(tenantID) + "_"
	var names []string
	for key := range c.configs {
		if strings.HasPrefix(key, prefix) {
			names = append(names, strings.TrimPrefix(key, prefix))
		}
	}
	return names
}
