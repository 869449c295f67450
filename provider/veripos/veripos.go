package veripos

import (
	"context"
	"crypto/hmac"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ordapay/ordapay/provider"
)

const (
	// API URLs
	apiSandboxURL    = "https://checkout.sandbox.veripos.com"
	apiProductionURL = "https://checkout.veripos.com"

	// API Endpoints
	endpointPayment = "/checkout/v1/payment"
	endpointStatus  = "/checkout/v1/payment/status"

	// defaultWebhookPath is the pre-agreed request target VeriPOS signs on
	// notifications. Verification always uses this pinned path, never the
	// path of the inbound request.
	defaultWebhookPath = "/v1/webhooks/veripos"

	defaultCurrency = "TRY"

	// Authentication headers
	headerClientID  = "X-Client-Id"
	headerRequestID = "X-Request-Id"
	headerTimestamp = "X-Timestamp"
	headerSignature = "X-Signature"

	// VeriPOS status codes
	statusCreated   = "CREATED"
	statusPending   = "PENDING"
	statusApproved  = "APPROVED"
	statusDeclined  = "DECLINED"
	statusCancelled = "CANCELLED"
	statusExpired   = "EXPIRED"
)

// VeriposProvider implements the provider.PaymentProvider interface for the
// VeriPOS checkout gateway
type VeriposProvider struct {
	clientID     string
	secretKey    string
	baseURL      string
	currency     string
	webhookPath  string
	isProduction bool
	httpClient   *provider.ProviderHTTPClient

	// injectable for deterministic tests
	now          func() time.Time
	newRequestID func() string
}

// NewProvider creates a new VeriPOS payment provider
func NewProvider() provider.PaymentProvider {
	return &VeriposProvider{
		now:          time.Now,
		newRequestID: func() string { return uuid.New().String() },
	}
}

// GetRequiredConfig returns the configuration fields required for VeriPOS
func (p *VeriposProvider) GetRequiredConfig(environment string) []provider.ConfigField {
	return []provider.ConfigField{
		{
			Key:         "clientId",
			Required:    true,
			Type:        "string",
			Description: "VeriPOS merchant client ID",
			Example:     "VP-MERCHANT-001",
			MinLength:   4,
			MaxLength:   64,
		},
		{
			Key:         "secretKey",
			Required:    true,
			Type:        "string",
			Description: "VeriPOS shared signing secret (provisioned out-of-band, never transmitted)",
			Example:     "sk_live_...",
			MinLength:   8,
		},
		{
			Key:         "environment",
			Required:    true,
			Type:        "string",
			Description: "Environment setting (sandbox or production)",
			Example:     "sandbox",
			Pattern:     "^(sandbox|production)$",
		},
		{
			Key:         "currency",
			Required:    false,
			Type:        "string",
			Description: "Default currency for payments without an explicit currency",
			Example:     defaultCurrency,
			MinLength:   3,
			MaxLength:   3,
		},
		{
			Key:         "webhookPath",
			Required:    false,
			Type:        "string",
			Description: "Pinned request target used when verifying notification signatures",
			Example:     defaultWebhookPath,
		},
	}
}

// ValidateConfig validates the provided configuration against VeriPOS requirements
func (p *VeriposProvider) ValidateConfig(config map[string]string) error {
	return provider.ValidateConfigFields("veripos", config, p.GetRequiredConfig(config["environment"]))
}

// Initialize sets up the VeriPOS payment provider with authentication credentials
func (p *VeriposProvider) Initialize(conf map[string]string) error {
	p.clientID = conf["clientId"]
	p.secretKey = conf["secretKey"]

	if p.clientID == "" {
		return errors.New("veripos: clientId is required")
	}
	if p.secretKey == "" {
		return errors.New("veripos: secretKey is required")
	}

	p.currency = conf["currency"]
	if p.currency == "" {
		p.currency = defaultCurrency
	}

	p.webhookPath = conf["webhookPath"]
	if p.webhookPath == "" {
		p.webhookPath = defaultWebhookPath
	}

	p.isProduction = conf["environment"] == "production"
	if p.isProduction {
		p.baseURL = apiProductionURL
	} else {
		p.baseURL = apiSandboxURL
	}

	p.httpClient = provider.NewProviderHTTPClient(provider.CreateHTTPClientConfig(p.baseURL, p.isProduction, 0))

	if p.now == nil {
		p.now = time.Now
	}
	if p.newRequestID == nil {
		p.newRequestID = func() string { return uuid.New().String() }
	}

	return nil
}

// CreatePayment creates a checkout payment at VeriPOS.
// The wire body is marshaled exactly once; the same byte slice is digested,
// signed over and transmitted.
func (p *VeriposProvider) CreatePayment(ctx context.Context, request provider.PaymentRequest) (*provider.PaymentResponse, error) {
	if err := p.validatePaymentRequest(request); err != nil {
		return nil, err
	}

	body, err := provider.MarshalJSONBody(p.mapToVeriposRequest(request))
	if err != nil {
		return nil, fmt.Errorf("veripos: %w", err)
	}

	requestID := p.newRequestID()
	timestamp := FormatTimestamp(p.now())

	components := BodySignatureComponents{
		SignatureComponents: SignatureComponents{
			ClientID:  p.clientID,
			RequestID: requestID,
			Timestamp: timestamp,
			Target:    endpointPayment,
		},
		Digest: Digest(body),
	}

	resp, err := p.httpClient.SendJSON(ctx, &provider.HTTPRequest{
		Method:   http.MethodPost,
		Endpoint: endpointPayment,
		RawBody:  body,
		Headers:  p.authHeaders(requestID, timestamp, Sign(components, p.secretKey)),
	})
	if err != nil {
		return nil, err
	}

	if !resp.IsSuccess() {
		return nil, &provider.GatewayError{StatusCode: resp.StatusCode, Body: resp.Body}
	}

	var veriposResp veriposResponse
	if err := json.Unmarshal(resp.Body, &veriposResp); err != nil {
		return nil, fmt.Errorf("veripos: failed to parse response: %w", err)
	}

	return p.mapToPaymentResponse(veriposResp), nil
}

// GetPaymentStatus retrieves the current status of a payment. Status queries
// carry no body, so the signed components have no digest line; the invoice
// number travels as a query parameter and the signed target is the path only.
func (p *VeriposProvider) GetPaymentStatus(ctx context.Context, request provider.GetPaymentStatusRequest) (*provider.PaymentResponse, error) {
	if request.InvoiceNumber == "" {
		return nil, &provider.ValidationError{Field: "invoiceNumber", Message: "invoice number is required"}
	}

	requestID := p.newRequestID()
	timestamp := FormatTimestamp(p.now())

	components := SignatureComponents{
		ClientID:  p.clientID,
		RequestID: requestID,
		Timestamp: timestamp,
		Target:    endpointStatus,
	}

	resp, err := p.httpClient.Send(ctx, &provider.HTTPRequest{
		Method:      http.MethodGet,
		Endpoint:    endpointStatus,
		QueryParams: map[string]string{"invoice_number": request.InvoiceNumber},
		Headers:     p.authHeaders(requestID, timestamp, Sign(components, p.secretKey)),
	})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("veripos: invoice %q: %w", request.InvoiceNumber, provider.ErrPaymentNotFound)
	}
	if !resp.IsSuccess() {
		return nil, &provider.GatewayError{StatusCode: resp.StatusCode, Body: resp.Body}
	}

	var veriposResp veriposResponse
	if err := json.Unmarshal(resp.Body, &veriposResp); err != nil {
		return nil, fmt.Errorf("veripos: failed to parse response: %w", err)
	}

	return p.mapToPaymentResponse(veriposResp), nil
}

// ValidateWebhook verifies an incoming VeriPOS notification. The expected
// signature is recomputed from the inbound headers, the digest of the literal
// received bytes and the pinned webhook path; the body is only parsed after
// the signature checks out.
func (p *VeriposProvider) ValidateWebhook(ctx context.Context, rawBody []byte, headers map[string]string) (bool, map[string]string, error) {
	signature := headerValue(headers, headerSignature)
	if signature == "" {
		return false, nil, errors.New("veripos: missing signature header")
	}

	components := BodySignatureComponents{
		SignatureComponents: SignatureComponents{
			ClientID:  headerValue(headers, headerClientID),
			RequestID: headerValue(headers, headerRequestID),
			Timestamp: headerValue(headers, headerTimestamp),
			Target:    p.webhookPath,
		},
		Digest: Digest(rawBody),
	}

	expected := Sign(components, p.secretKey)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return false, nil, provider.ErrSignatureMismatch
	}

	var payload map[string]any
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return false, nil, fmt.Errorf("veripos: failed to parse notification payload: %w", err)
	}

	result := make(map[string]string, len(payload))
	for k, v := range payload {
		if str, ok := v.(string); ok {
			result[k] = str
		} else {
			result[k] = fmt.Sprintf("%v", v)
		}
	}

	return true, result, nil
}

// validatePaymentRequest validates caller input before anything is sent
func (p *VeriposProvider) validatePaymentRequest(request provider.PaymentRequest) error {
	if request.Amount <= 0 {
		return &provider.ValidationError{Field: "amount", Message: "must be a positive amount in the smallest currency unit"}
	}
	if request.InvoiceNumber == "" {
		return &provider.ValidationError{Field: "invoiceNumber", Message: "invoice number is required"}
	}
	if len(request.InvoiceNumber) > 64 {
		return &provider.ValidationError{Field: "invoiceNumber", Message: "invoice number must not exceed 64 characters"}
	}
	return nil
}

func (p *VeriposProvider) authHeaders(requestID, timestamp, signature string) map[string]string {
	return map[string]string{
		headerClientID:  p.clientID,
		headerRequestID: requestID,
		headerTimestamp: timestamp,
		headerSignature: signature,
	}
}

// headerValue performs a case-insensitive header lookup
func headerValue(headers map[string]string, key string) string {
	if v, ok := headers[key]; ok {
		return v
	}
	canonical := http.CanonicalHeaderKey(key)
	for k, v := range headers {
		if http.CanonicalHeaderKey(k) == canonical {
			return v
		}
	}
	return ""
}

// mapToVeriposRequest maps a generic payment request to the VeriPOS wire format
func (p *VeriposProvider) mapToVeriposRequest(request provider.PaymentRequest) veriposPaymentRequest {
	currency := request.Currency
	if currency == "" {
		currency = p.currency
	}

	autoRedirect := true
	if request.AutoRedirect != nil {
		autoRedirect = *request.AutoRedirect
	}

	order := veriposOrder{
		Amount:        request.Amount,
		InvoiceNumber: request.InvoiceNumber,
		Currency:      currency,
		AutoRedirect:  autoRedirect,
		Description:   request.Description,
	}
	for _, item := range request.Items {
		order.Items = append(order.Items, veriposItem{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	veriposReq := veriposPaymentRequest{Order: order}

	if c := request.Customer; c != nil {
		customer := &veriposCustomer{
			Name:    c.Name,
			Surname: c.Surname,
			Email:   c.Email,
			Phone:   c.PhoneNumber,
		}
		if a := c.Address; a != nil {
			customer.Address = &veriposAddress{
				City:    a.City,
				Country: a.Country,
				Line:    a.Address,
				ZipCode: a.ZipCode,
			}
		}
		veriposReq.Customer = customer
	}

	if request.CallbackURL != "" || request.WebhookURL != "" {
		veriposReq.URLs = &veriposURLs{
			Callback: request.CallbackURL,
			Webhook:  request.WebhookURL,
		}
	}

	return veriposReq
}

// mapToPaymentResponse maps a VeriPOS response to the generic payment response
func (p *VeriposProvider) mapToPaymentResponse(veriposResp veriposResponse) *provider.PaymentResponse {
	now := time.Now()
	resp := &provider.PaymentResponse{
		SystemTime:       &now,
		ProviderResponse: veriposResp,
	}

	if veriposResp.Result == nil {
		resp.Status = provider.StatusFailed
		if veriposResp.Error != nil {
			resp.Message = veriposResp.Error.Message
			resp.ErrorCode = veriposResp.Error.Code
		}
		return resp
	}

	result := veriposResp.Result
	resp.InvoiceNumber = result.InvoiceNumber
	resp.Amount = result.Amount
	resp.Currency = result.Currency

	switch result.Status {
	case statusCreated, statusPending:
		resp.Success = true
		resp.Status = provider.StatusPending
	case statusApproved:
		resp.Success = true
		resp.Status = provider.StatusSuccessful
	case statusDeclined, statusExpired:
		resp.Status = provider.StatusFailed
	case statusCancelled:
		resp.Status = provider.StatusCancelled
	default:
		resp.Success = true
		resp.Status = provider.StatusPending
	}

	if result.Payment != nil {
		resp.RedirectURL = result.Payment.RedirectURL
	}

	if veriposResp.Error != nil {
		resp.Message = veriposResp.Error.Message
		resp.ErrorCode = veriposResp.Error.Code
	}

	return resp
}

// veriposPaymentRequest is the VeriPOS checkout request body
type veriposPaymentRequest struct {
	Order    veriposOrder     `json:"order"`
	Customer *veriposCustomer `json:"customer,omitempty"`
	URLs     *veriposURLs     `json:"urls,omitempty"`
}

type veriposOrder struct {
	Amount        int64         `json:"amount"`
	InvoiceNumber string        `json:"invoice_number"`
	Currency      string        `json:"currency"`
	AutoRedirect  bool          `json:"auto_redirect"`
	Description   string        `json:"description,omitempty"`
	Items         []veriposItem `json:"items,omitempty"`
}

type veriposItem struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

type veriposCustomer struct {
	Name    string          `json:"name,omitempty"`
	Surname string          `json:"surname,omitempty"`
	Email   string          `json:"email,omitempty"`
	Phone   string          `json:"phone,omitempty"`
	Address *veriposAddress `json:"address,omitempty"`
}

type veriposAddress struct {
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
	Line    string `json:"line,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
}

type veriposURLs struct {
	Callback string `json:"callback,omitempty"`
	Webhook  string `json:"webhook,omitempty"`
}

// veriposResponse is the standard VeriPOS API response envelope
type veriposResponse struct {
	Result *veriposResult `json:"result,omitempty"`
	Error  *veriposError  `json:"error,omitempty"`
}

type veriposResult struct {
	Status        string          `json:"status"`
	InvoiceNumber string          `json:"invoice_number"`
	Amount        int64           `json:"amount,omitempty"`
	Currency      string          `json:"currency,omitempty"`
	Payment       *veriposPayment `json:"payment,omitempty"`
}

type veriposPayment struct {
	RedirectURL string `json:"redirect_url,omitempty"`
}

type veriposError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}
