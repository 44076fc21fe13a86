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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"trendops/backend/internal/api"
	"trendops/backend/internal/config"
	"trendops/backend/internal/logging"
	"trendops/backend/internal/mcp"
	"trendops/backend/internal/pipeline"
	"trendops/backend/internal/repository"
	"trendops/backend/internal/services"
	"trendops/backend/internal/tlscert"
)

func main() {
	ctx := context.Background()

	logger := logging.NewLogger("trendops")

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		log.Fatalf("Configuration loading failed: %v", err)
	}

	logger.Info("Starting trend-to-content pipeline service")

	dbPool, err := initDatabase(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		log.Fatalf("Database initialization failed: %v", err)
	}
	defer dbPool.Close()

	logger.Info("Database connected")

	// Repository layer
	signalStore := repository.NewPostgresSignalStore(dbPool)
	workflowStore := repository.NewPostgresWorkflowStore(dbPool)
	campaignStore := repository.NewPostgresCampaignStore(dbPool)

	// Service layer
	generator := services.NewHTTPContentGenerator(cfg.Generator.URL)
	publisher := services.NewHTTPChannelPublisher(cfg.Publisher.URL)

	trends := services.NewTrendService(signalStore)
	strategy := services.NewStrategyService(generator, signalStore)
	producer := services.NewProducerService(generator, publisher)
	tracker := services.NewTrackerService()
	campaigns := services.NewCampaignService(campaignStore)

	orchestrator := pipeline.NewOrchestrator(trends, strategy, producer, tracker,
		workflowStore, logger, pipeline.Options{
			MinRelevance: cfg.Pipeline.MinRelevance,
			MinCoeff:     cfg.Pipeline.MinCoeff,
		})

	logger.Info("Service layer initialized")

	// Create Echo server
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Health and REST API
	apiServer := api.NewServer(orchestrator, campaigns, logger,
		time.Duration(cfg.Pipeline.RunTimeoutS)*time.Second,
		cfg.Pipeline.DefaultLimit)
	e.GET("/healthz", apiServer.HandleHealth)

	apiGroup := e.Group("/api/v1")
	apiGroup.Use(otelecho.Middleware("trendops"))
	apiServer.Register(apiGroup)

	logger.Info("REST API handlers mounted")

	// Mount MCP protocol handlers
	mcpServer := mcp.NewServer(orchestrator, campaigns)
	mcpHandlers := http.NewServeMux()
	mcp.MountHTTPHandlers(mcpHandlers, mcpServer.GetMCPServer())
	e.Any("/mcp/*", echo.WrapHandler(mcpHandlers))

	logger.Info("MCP protocol handlers mounted")

	// Create HTTP server
	addr := ":8080"
	if cfg.TLS.Enable {
		addr = ":8443"
	}
	server := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown handling
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", addr, "tls", cfg.TLS.Enable)
		if cfg.TLS.Enable {
			if cfg.TLS.CertFile == "" || cfg.TLS.KeyFile == "" {
				logger.Error("TLS enabled but cert/key file not provided")
				serverErrors <- server.ListenAndServe()
				return
			}
			if _, err := os.Stat(cfg.TLS.CertFile); os.IsNotExist(err) {
				if len(cfg.TLS.Hostnames) > 0 {
					if err := tlscert.GenerateSelfSigned(cfg.TLS.CertFile, cfg.TLS.KeyFile, cfg.TLS.Hostnames); err != nil {
						logger.Error("failed to generate self-signed cert", "error", err)
					}
				}
			}
			serverErrors <- server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	// Wait for shutdown signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		logger.Info("Shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			if err := server.Close(); err != nil {
				logger.Error("Server close error", "error", err)
			}
		}

		logger.Info("Server stopped gracefully")
	}
}

func initDatabase(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*pgxpool.Pool, error) {
	logger.Debug("Initializing database connection")

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
