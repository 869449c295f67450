package router

import (
	"github.com/go-chi/chi/v5"
	v1 "github.com/ordapay/ordapay/router/v1"

	// Import for side-effect registration
	_ "github.com/ordapay/ordapay/provider/veripos"
)

// Routes mounts the versioned API routes
func Routes(r chi.Router, deps v1.Dependencies) {
	r.Route("/v1", func(r chi.Router) {
		v1.Routes(r, deps)
	})
}
