package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/printworks/pricing-service/config"
	"github.com/printworks/pricing-service/internal/catalog"
	"github.com/printworks/pricing-service/internal/database"
	"github.com/printworks/pricing-service/internal/handlers"
	"github.com/printworks/pricing-service/internal/middleware"
	"github.com/printworks/pricing-service/internal/pricing"
	"github.com/printworks/pricing-service/internal/telemetry"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting pricing service")

	dbURL := config.GetDatabaseURL()
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL not set")
	}

	ctx := context.Background()

	cleanup := telemetry.MustInit(ctx, telemetry.GetConfigFromEnv())
	defer cleanup(ctx)

	if err := database.Connect(
		ctx,
		dbURL,
		cfg.Database.MaxConnections,
		cfg.Database.MinConnections,
		cfg.Database.MaxConnLifetime,
		cfg.Database.MaxConnIdleTime,
	); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	logger.Info().Msg("Database connected")

	engineConfig := pricing.DefaultEngineConfig()
	engineConfig.MaxAddOns = cfg.Pricing.MaxAddOns
	engineConfig.MaxMatrixQuantities = cfg.Pricing.MaxMatrixQuantities
	if tiers, err := database.LoadQuantityTiers(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to load quantity tiers, using defaults")
	} else if len(tiers) > 0 {
		engineConfig.Tiers = tiers
	}

	engine, err := pricing.NewEngine(engineConfig, pricing.NewMetricsRecorder())
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid pricing configuration")
	}

	productCatalog := catalog.New(database.NewCatalogSource(), cfg.Catalog.TTL)
	if err := productCatalog.Warmup(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to load product catalog")
	}

	brokerTiers, err := database.LoadBrokerTiers(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to load broker tiers, using defaults")
	}

	handlers.InitPricing(engine, productCatalog, brokerTiers, database.LoadBrokerProfile)

	// Periodic catalog refresh so price changes reach quotes without a
	// restart. A zero TTL disables staleness, so it disables the refresher too.
	if cfg.Catalog.TTL > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Catalog.TTL / 2)
			defer ticker.Stop()
			for range ticker.C {
				if err := productCatalog.Refresh(ctx); err != nil {
					logger.Error().Err(err).Msg("Catalog refresh failed")
				}
			}
		}()
	}

	if cfg.Logging.Level == "info" || cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	setupMiddleware(router, logger)

	// Public endpoints carry no API key, so they get per-IP limiting instead
	// of the shared service bucket.
	publicLimiter := middleware.RateLimitMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
	})
	router.GET("/health", publicLimiter, handlers.HealthCheck)
	router.GET("/metrics", publicLimiter, gin.WrapH(promhttp.Handler()))

	internal := router.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware(cfg.Server.InternalAPIKey))
	internal.Use(middleware.ServiceRateLimitMiddleware(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize))
	{
		internal.GET("/health", handlers.HealthCheck)

		quotes := internal.Group("/quotes")
		{
			quotes.POST("", handlers.CreateQuote)
			quotes.POST("/preview", handlers.PreviewQuote)
		}

		carts := internal.Group("/carts")
		{
			carts.POST("", handlers.CreateCart)
			carts.POST("/:cartId/items", handlers.AddCartItem)
			carts.GET("/:cartId/items", handlers.ListCartItems)
		}

		internal.POST("/checkout/:cartId", handlers.Checkout)

		brokers := internal.Group("/brokers")
		{
			brokers.GET("/projections", handlers.BrokerProjections)
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "pricing-service").Logger()
	return &logger
}

func setupMiddleware(router *gin.Engine, logger *zerolog.Logger) {
	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		end := time.Now()
		latency := end.Sub(start)

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")
	})
}
