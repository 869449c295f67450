package provider

import (
	"context"
	"time"
)

// PaymentStatus represents the current status of a payment
type PaymentStatus string

const (
	StatusPending    PaymentStatus = "pending"
	StatusProcessing PaymentStatus = "processing"
	StatusSuccessful PaymentStatus = "successful"
	StatusFailed     PaymentStatus = "failed"
	StatusCancelled  PaymentStatus = "cancelled"
)

// Address represents a physical address
type Address struct {
	City    string `json:"city"`
	Country string `json:"country"`
	Address string `json:"address"`
	ZipCode string `json:"zipCode,omitempty"`
}

// ConfigField describes a configuration field a gateway requires
type ConfigField struct {
	Key         string `json:"key"`
	Required    bool   `json:"required"`
	Type        string `json:"type"` // "string", "url", "boolean"
	Description string `json:"description"`
	Example     string `json:"example,omitempty"`
	Pattern     string `json:"pattern,omitempty"`
	MinLength   int    `json:"minLength,omitempty"`
	MaxLength   int    `json:"maxLength,omitempty"`
}

// Customer represents the buyer information
type Customer struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Surname     string   `json:"surname"`
	Email       string   `json:"email" validate:"omitempty,email"`
	PhoneNumber string   `json:"phoneNumber,omitempty"`
	IPAddress   string   `json:"ipAddress,omitempty"`
	Address     *Address `json:"address,omitempty"`
}

// Item represents a product or service line in the payment
type Item struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Price    int64  `json:"price"` // smallest currency unit
	Quantity int    `json:"quantity"`
}

// PaymentRequest contains all information required to create a payment.
// Amount is expressed in the smallest currency unit (kuruş, cents).
type PaymentRequest struct {
	InvoiceNumber string    `json:"invoiceNumber" validate:"required,max=64"`
	Amount        int64     `json:"amount" validate:"required,gt=0"`
	Currency      string    `json:"currency,omitempty"`
	Description   string    `json:"description,omitempty"`
	Customer      *Customer `json:"customer,omitempty"`
	Items         []Item    `json:"items,omitempty"`
	CallbackURL   string    `json:"callbackUrl,omitempty" validate:"omitempty,url"`
	WebhookURL    string    `json:"webhookUrl,omitempty" validate:"omitempty,url"`
	// AutoRedirect controls whether the gateway redirects the shopper after
	// checkout. Defaults to true when nil.
	AutoRedirect *bool  `json:"autoRedirect,omitempty"`
	TenantID     string `json:"tenantId,omitempty"`
	ClientIP     string `json:"clientIp,omitempty"`
}

// PaymentResponse contains the normalized result of a gateway call
type PaymentResponse struct {
	Success          bool          `json:"success"`
	Status           PaymentStatus `json:"status"`
	Message          string        `json:"message,omitempty"`
	ErrorCode        string        `json:"errorCode,omitempty"`
	InvoiceNumber    string        `json:"invoiceNumber,omitempty"`
	Amount           int64         `json:"amount,omitempty"`
	Currency         string        `json:"currency,omitempty"`
	RedirectURL      string        `json:"redirectUrl,omitempty"`
	SystemTime       *time.Time    `json:"systemTime,omitempty"`
	ProviderResponse any           `json:"providerResponse,omitempty"`
}

// GetPaymentStatusRequest identifies the payment to query
type GetPaymentStatusRequest struct {
	InvoiceNumber string `json:"invoiceNumber" validate:"required,max=64"`
}

// PaymentProvider defines the interface that all payment gateways must implement
type PaymentProvider interface {
	// Initialize sets up the payment provider with authentication and configuration
	Initialize(config map[string]string) error

	// GetRequiredConfig returns the configuration fields required for this provider
	GetRequiredConfig(environment string) []ConfigField

	// ValidateConfig validates the provided configuration against provider requirements
	ValidateConfig(config map[string]string) error

	// CreatePayment creates a checkout payment at the gateway
	CreatePayment(ctx context.Context, request PaymentRequest) (*PaymentResponse, error)

	// GetPaymentStatus retrieves the current status of a payment
	GetPaymentStatus(ctx context.Context, request GetPaymentStatusRequest) (*PaymentResponse, error)

	// ValidateWebhook verifies an incoming notification against its signature.
	// rawBody must be the literal bytes received on the wire; parsing and
	// re-serializing the payload before verification breaks the body digest.
	ValidateWebhook(ctx context.Context, rawBody []byte, headers map[string]string) (bool, map[string]string, error)
}

// ProviderFactory is a function type that creates a new PaymentProvider
type ProviderFactory func() PaymentProvider
