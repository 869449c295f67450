package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubProvider is a minimal PaymentProvider for registry tests
type stubProvider struct {
	initialized bool
}

func (s *stubProvider) Initialize(config map[string]string) error {
	s.initialized = true
	return nil
}

func (s *stubProvider) GetRequiredConfig(environment string) []ConfigField {
	return nil
}

func (s *stubProvider) ValidateConfig(config map[string]string) error {
	return nil
}

func (s *stubProvider) CreatePayment(ctx context.Context, request PaymentRequest) (*PaymentResponse, error) {
	return &PaymentResponse{Success: true}, nil
}

func (s *stubProvider) GetPaymentStatus(ctx context.Context, request GetPaymentStatusRequest) (*PaymentResponse, error) {
	return &PaymentResponse{Success: true}, nil
}

func (s *stubProvider) ValidateWebhook(ctx context.Context, rawBody []byte, headers map[string]string) (bool, map[string]string, error) {
	return true, nil, nil
}

func TestProviderRegistry_RegisterAndCreate(t *testing.T) {
	registry := NewProviderRegistry()

	registry.Register("stub", func() PaymentProvider {
		return &stubProvider{}
	})

	p, err := registry.Create("stub")
	assert.NoError(t, err)
	assert.NotNil(t, p)
	assert.IsType(t, &stubProvider{}, p)
}

func TestProviderRegistry_CreateUnknown(t *testing.T) {
	registry := NewProviderRegistry()

	p, err := registry.Create("unknown")
	assert.Error(t, err)
	assert.Nil(t, p)
	assert.Contains(t, err.Error(), "not registered")
}

func TestProviderRegistry_CreateReturnsNewInstances(t *testing.T) {
	registry := NewProviderRegistry()
	registry.Register("stub", func() PaymentProvider {
		return &stubProvider{}
	})

	first, _ := registry.Create("stub")
	second, _ := registry.Create("stub")
	assert.NotSame(t, first, second)
}

func TestProviderRegistry_Names(t *testing.T) {
	registry := NewProviderRegistry()
	registry.Register("zeta", func() PaymentProvider { return &stubProvider{} })
	registry.Register("alpha", func() PaymentProvider { return &stubProvider{} })

	assert.Equal(t, []string{"alpha", "zeta"}, registry.Names())
}

func TestProviderRegistry_RegisterOverwrites(t *testing.T) {
	registry := NewProviderRegistry()

	called := ""
	registry.Register("stub", func() PaymentProvider {
		called = "first"
		return &stubProvider{}
	})
	registry.Register("stub", func() PaymentProvider {
		called = "second"
		return &stubProvider{}
	})

	_, err := registry.Create("stub")
	assert.NoError(t, err)
	assert.Equal(t, "second", called)
}
