package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BradenHooton/orderdesk/internal/auth"
	"github.com/BradenHooton/orderdesk/internal/background"
	"github.com/BradenHooton/orderdesk/internal/config"
	"github.com/BradenHooton/orderdesk/internal/database"
	"github.com/BradenHooton/orderdesk/internal/handlers"
	middlewareCustom "github.com/BradenHooton/orderdesk/internal/middleware"
	"github.com/BradenHooton/orderdesk/internal/models"
	"github.com/BradenHooton/orderdesk/internal/repositories"
	"github.com/BradenHooton/orderdesk/internal/routes"
	"github.com/BradenHooton/orderdesk/internal/services"
	"github.com/BradenHooton/orderdesk/migrations"
	pkglogger "github.com/BradenHooton/orderdesk/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Server.LogLevel)); err != nil {
		logger.Warn("unknown LOG_LEVEL, using info", slog.String("log_level", cfg.Server.LogLevel))
		level = slog.LevelInfo
	}
	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		slog.String("env", cfg.Server.Env),
		slog.Bool("auth_enabled", cfg.Auth.Enabled),
		slog.String("search_timezone", cfg.Search.Location.String()),
	)

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		err := db.Migrate(ctx, migrations.FS)
		cancel()
		if err != nil {
			logger.Error("failed to apply migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	// Initialize repositories
	orderRepo := repositories.NewOrderRepository(db.Pool, logger)
	customerRepo := repositories.NewCustomerRepository(db.Pool, logger)

	// Initialize services
	orderService, customerService, err := newSearchServices(cfg.Search, orderRepo, customerRepo, logger)
	if err != nil {
		logger.Error("invalid search configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize handlers
	auditLogger := pkglogger.NewAuditLogger(logger)
	parser := handlers.QueryParser{
		DefaultPageSize: cfg.Search.DefaultPageSize,
		MaxPageSize:     cfg.Search.MaxPageSize,
		Location:        cfg.Search.Location,
	}
	orderHandler := handlers.NewOrderHandler(orderService, parser, auditLogger, logger)
	customerHandler := handlers.NewCustomerHandler(customerService, parser, auditLogger, logger)

	var verifier *auth.TokenVerifier
	if cfg.Auth.Enabled {
		verifier = auth.NewTokenVerifier(cfg.Auth.JWTSecret)
	} else {
		logger.Warn("authentication disabled, listing endpoints are public")
	}

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// Register routes
	routes.RegisterRoutes(router, routes.Dependencies{
		Orders:    orderHandler,
		Customers: customerHandler,
		Verifier:  verifier,
		Health:    db,
		RateLimit: middlewareCustom.RateLimitConfig{RequestsPerMinute: cfg.Server.RateLimitPerMin},
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start pool monitor; a zero interval disables it
	monitor := background.NewPoolMonitor(db, logger, cfg.Server.PoolStatsInterval)
	monitorCtx, monitorCancel := context.WithCancel(context.Background())
	defer monitorCancel()

	if cfg.Server.PoolStatsInterval > 0 {
		go monitor.Start(monitorCtx)
	}

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	monitorCancel()
	monitor.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

// newSearchServices builds the order and customer listings from the search
// configuration. Orders are restricted to the configured customer types.
func newSearchServices(
	cfg config.SearchConfig,
	orderRepo *repositories.OrderRepository,
	customerRepo *repositories.CustomerRepository,
	logger *slog.Logger,
) (*services.SearchService[models.Order], *services.SearchService[models.Customer], error) {
	orderCfg := services.SearchConfig{
		Resource:   "orders",
		Fields:     cfg.OrderFields,
		ValidateID: repositories.ValidateUUID,
	}
	if len(cfg.OrderCustomerType) > 0 {
		orderCfg.Scope = models.In{Field: "customer.customer_type", Values: cfg.OrderCustomerType}
	}

	orders, err := services.NewSearchService[models.Order](orderRepo, orderCfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("orders: %w", err)
	}

	customers, err := services.NewSearchService[models.Customer](customerRepo, services.SearchConfig{
		Resource:   "customers",
		Fields:     cfg.CustomerFields,
		ValidateID: repositories.ValidateUUID,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("customers: %w", err)
	}

	return orders, customers, nil
}
