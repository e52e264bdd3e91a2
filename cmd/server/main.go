package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/tradedoc/backend/internal/application/catalog"
	documentapp "github.com/tradedoc/backend/internal/application/document"
	ledgerapp "github.com/tradedoc/backend/internal/application/ledger"
	partnerapp "github.com/tradedoc/backend/internal/application/partner"
	"github.com/tradedoc/backend/internal/infrastructure/auth"
	"github.com/tradedoc/backend/internal/infrastructure/cache"
	"github.com/tradedoc/backend/internal/infrastructure/config"
	"github.com/tradedoc/backend/internal/infrastructure/event"
	"github.com/tradedoc/backend/internal/infrastructure/logger"
	"github.com/tradedoc/backend/internal/infrastructure/persistence"
	"github.com/tradedoc/backend/internal/interfaces/http/handler"
	"github.com/tradedoc/backend/internal/interfaces/http/middleware"
	"github.com/tradedoc/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting TradeDoc Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Topic bus with optional Redis-backed cache invalidation
	topicBus := event.NewInMemoryTopicBus(log)
	if cfg.Cache.InvalidationEnabled {
		invalidator := cache.NewRedisInvalidator(&cfg.Redis, cfg.Cache.KeyPrefix, log)
		defer func() {
			if err := invalidator.Close(); err != nil {
				log.Error("Error closing redis invalidator", zap.Error(err))
			}
		}()
		topicBus.Subscribe(invalidator)
		log.Info("Cache invalidation enabled",
			zap.String("redis", cfg.Redis.Addr()),
			zap.String("key_prefix", cfg.Cache.KeyPrefix),
		)
	}

	// Repositories and transaction scopes
	productRepo := persistence.NewGormProductRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	ledgerScope := persistence.NewGormLedgerTransactionScope(db.DB)
	documentScope := persistence.NewGormDocumentTransactionScope(db.DB)
	numberGenerator := persistence.NewGormNumberGenerator(db.DB)

	// Application services
	productService := catalogapp.NewProductService(productRepo, topicBus)
	clientService := partnerapp.NewClientService(clientRepo, topicBus)
	stockLedgerService := ledgerapp.NewStockLedgerService(ledgerScope, topicBus)
	deliveryNoteService := documentapp.NewDeliveryNoteService(documentScope, numberGenerator, topicBus)
	invoiceService := documentapp.NewInvoiceService(documentScope, numberGenerator, topicBus)

	jwtService := auth.NewJWTService(cfg.JWT)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/api/v1/health",
			"/api/v1/system/info",
		},
		Logger: log,
	}))

	systemHandler := handler.NewSystemHandler(db, version)
	engine.GET("/health", systemHandler.Health)

	router.NewRouter(engine, router.WithAPIVersion("v1")).Register(
		systemHandler,
		handler.NewProductHandler(productService),
		handler.NewClientHandler(clientService),
		handler.NewStockHandler(stockLedgerService),
		handler.NewDeliveryNoteHandler(deliveryNoteService),
		handler.NewInvoiceHandler(invoiceService),
	).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
