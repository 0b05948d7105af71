package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"canchas-backend/config"
	"canchas-backend/internal/api"
	"canchas-backend/internal/auth"
	"canchas-backend/internal/calendar"
	"canchas-backend/internal/db"
	"canchas-backend/internal/mw"
	"canchas-backend/internal/notification"
	"canchas-backend/internal/store"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "canchas-backend ", log.LstdFlags)

	if err := godotenv.Load(); err == nil {
		logger.Println("environment loaded from .env")
	}

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.Auth.JWTSecret == "" {
		logger.Fatalf("auth.jwt_secret (or JWT_SECRET) must be configured to sign owner sessions.")
	}
	if cfg.Auth.LegacyOpenOwnerRoutes {
		logger.Println("WARNING: slot management routes accept requests without a session token")
	}

	loc, err := calendar.ParseOffset(cfg.Slots.UTCOffset)
	if err != nil {
		logger.Fatalf("invalid slots.utc_offset: %v", err)
	}

	// Initialize database
	gormDB, err := db.Open(&cfg.Database, loc)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close(gormDB)
	if err := db.Migrate(gormDB); err != nil {
		logger.Fatalf("failed to migrate database: %v", err)
	}
	logger.Println("database initialized successfully")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	opts := api.Options{
		Issuer:            auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, nil),
		Location:          loc,
		StrictTransitions: cfg.Slots.StrictTransitions,
		OpenOwnerRoutes:   cfg.Auth.LegacyOpenOwnerRoutes,
		CountryPrefix:     cfg.WhatsApp.CountryPrefix,
		OwnerLoginURL:     cfg.WhatsApp.OwnerLoginURL,
	}

	if cfg.Push.Enabled() {
		webpushOptions := &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, webpushOptions, cfg.WhatsApp.OwnerLoginURL)
		pool.Start(ctx)
		opts.WebPush = webpushOptions
		opts.Notifier = pool
	} else {
		logger.Println("VAPID keys not configured, push notifications disabled")
	}

	var (
		metrics  *mw.HTTPMetrics
		gatherer prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics, err = mw.NewHTTPMetrics(reg)
		if err != nil {
			logger.Fatalf("failed to register metrics: %v", err)
		}
		gatherer = reg
	}

	// Initialize router
	router := api.NewRouter(api.NewHandler(appStore, opts), cfg, metrics, gatherer)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
