package v1

import (
	"github.com/go-chi/chi/v5"
	"github.com/ordapay/ordapay/handler"
	"github.com/ordapay/ordapay/infra/config"
	"github.com/ordapay/ordapay/provider"
)

// Dependencies holds the shared services the v1 routes need
type Dependencies struct {
	PaymentService *provider.PaymentService
	TenantConfig   *config.TenantConfig
}

// Routes registers all v1 API routes
func Routes(r chi.Router, deps Dependencies) {
	validate := config.App().Validator

	paymentHandler := handler.NewPaymentHandler(deps.PaymentService, validate)
	configHandler := handler.NewConfigHandler(deps.TenantConfig, deps.PaymentService, validate)

	r.Route("/payments", func(r chi.Router) {
		r.Post("/", paymentHandler.ProcessPayment)
		r.Get("/{invoiceNumber}", paymentHandler.GetPaymentStatus)
	})

	r.Route("/webhooks", func(r chi.Router) {
		r.Post("/veripos", paymentHandler.HandleWebhook)
	})

	r.Route("/config", func(r chi.Router) {
		r.Post("/tenant", configHandler.SetTenantConfig)
		r.Get("/tenant", configHandler.GetTenantConfig)
		r.Delete("/tenant/{provider}", configHandler.DeleteTenantConfig)
	})
}
