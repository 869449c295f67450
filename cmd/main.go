package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/ordapay/ordapay/handler"
	"github.com/ordapay/ordapay/infra/config"
	"github.com/ordapay/ordapay/infra/logger"
	"github.com/ordapay/ordapay/infra/middle"
	"github.com/ordapay/ordapay/infra/opensearch"
	"github.com/ordapay/ordapay/infra/response"
	"github.com/ordapay/ordapay/provider"
	"github.com/ordapay/ordapay/router"
	v1 "github.com/ordapay/ordapay/router/v1"

	// Import for side-effect registration
	_ "github.com/ordapay/ordapay/provider/veripos"
)

var (
	PORT             string
	openSearchLogger *opensearch.Logger
)

func init() {
	// .env is optional outside development
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	_ = config.App()

	PORT = config.GetEnv("APP_PORT", "9999")

	cfg := config.GetAppConfig()
	if cfg.EnableLogging {
		osClient, err := opensearch.NewClient(cfg)
		if err != nil {
			log.Printf("Failed to initialize OpenSearch client: %v", err)
			log.Println("Continuing without OpenSearch logging...")
		} else {
			openSearchLogger = opensearch.NewLogger(osClient)
			log.Println("OpenSearch logging initialized successfully")
		}
	} else {
		log.Println("OpenSearch logging is disabled")
	}

	logger.InitGlobalLogger(openSearchLogger)
}

func main() {
	cfg := config.GetAppConfig()

	// Credential store; falls back to memory-only when the database
	// cannot be opened
	storage, err := config.NewSQLiteStorage(cfg.ConfigDBPath)
	if err != nil {
		logger.Warn("Failed to open credential store, running memory-only", logger.LogContext{
			Fields: map[string]any{
				"path":  cfg.ConfigDBPath,
				"error": err.Error(),
			},
		})
		storage = nil
	} else {
		defer storage.Close()
	}

	tenantConfig := config.NewTenantConfig(storage)
	tenantConfig.LoadFromEnv()

	paymentService := provider.NewPaymentService(tenantConfig)
	healthHandler := handler.NewHealthHandler(tenantConfig)

	r := chi.NewRouter()

	// Basic Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(60 * time.Second))

	// Security Middleware
	r.Use(middle.PanicRecoveryMiddleware())
	r.Use(middle.SecurityHeadersMiddleware())
	r.Use(middle.IPWhitelistMiddleware())
	r.Use(middle.RequestValidationMiddleware())
	r.Use(middle.TenantMiddleware())

	if openSearchLogger != nil {
		r.Use(middle.PaymentLoggingMiddleware(openSearchLogger))
		log.Println("Payment logging middleware enabled")
	}

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Origin", "X-Requested-With", "X-Tenant-Id"},
		ExposedHeaders:   []string{"Link", "Content-Length", "Access-Control-Allow-Origin"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.Health)

	router.Routes(r, v1.Dependencies{
		PaymentService: paymentService,
		TenantConfig:   tenantConfig,
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = response.WriteJSON(w, http.StatusNotFound, response.Response{Code: http.StatusNotFound, Success: false, Message: "Not Found"})
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", PORT),
		Handler:           r,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err.Error())
		}
	}()

	log.Println("API is running on", PORT)

	<-ctx.Done()

	log.Println("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
