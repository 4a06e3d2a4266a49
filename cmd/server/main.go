package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/cosecha/backend/docs"
	partnerapp "github.com/cosecha/backend/internal/application/partner"
	tradeapp "github.com/cosecha/backend/internal/application/trade"
	"github.com/cosecha/backend/internal/domain/trade"
	"github.com/cosecha/backend/internal/infrastructure/auth"
	"github.com/cosecha/backend/internal/infrastructure/cache"
	"github.com/cosecha/backend/internal/infrastructure/config"
	"github.com/cosecha/backend/internal/infrastructure/event"
	"github.com/cosecha/backend/internal/infrastructure/logger"
	"github.com/cosecha/backend/internal/infrastructure/persistence"
	"github.com/cosecha/backend/internal/infrastructure/printing"
	"github.com/cosecha/backend/internal/infrastructure/storage"
	"github.com/cosecha/backend/internal/infrastructure/telemetry"
	"github.com/cosecha/backend/internal/interfaces/http/handler"
	"github.com/cosecha/backend/internal/interfaces/http/middleware"
	"github.com/cosecha/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

//	@title			Cosecha Marketplace API
//	@version		1.0
//	@description	Cart, checkout and producer fulfilment API of the Cosecha farm marketplace

//	@contact.name	API Support
//	@contact.url	https://github.com/cosecha/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
		Env:        cfg.App.Env,
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	log.Info("Starting Cosecha backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Telemetry: traces, metrics, logs and profiles
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Environment:       cfg.App.Env,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Environment:       cfg.App.Env,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Environment:       cfg.App.Env,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	if lp.IsEnabled() {
		level, err := zapcore.ParseLevel(cfg.Log.Level)
		if err != nil {
			level = zapcore.InfoLevel
		}
		log = telemetry.NewBridgedLogger(logger.NewCore(logCfg),
			telemetry.NewZapOTELCore(lp, cfg.Telemetry.ServiceName, level),
			zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel),
			zap.Fields(zap.String("service", cfg.App.Name), zap.String("env", cfg.App.Env)),
		)
		log.Info("Log export to OTLP enabled")
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:              cfg.Profiling.Enabled,
		ServerAddress:        cfg.Profiling.ServerAddress,
		ApplicationName:      cfg.Telemetry.ServiceName,
		Environment:          cfg.App.Env,
		UploadRate:           cfg.Profiling.UploadRate,
		MutexProfileFraction: cfg.Profiling.MutexProfileFraction,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if cfg.Profiling.Enabled {
		tp.EnableSpanProfiles()
	}

	meter := mp.Meter("github.com/cosecha/backend")

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithParameterizedQueries(!cfg.Telemetry.DBLogFullSQL))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meter, telemetry.DBMetricsConfig{
		Enabled:            cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}
	if dbMetrics != nil {
		dbMetrics.StartPoolStatsCollection(ctx)
		defer dbMetrics.Stop()
	}

	// Cart locks and checkout idempotency keys
	store, err := cache.NewStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithLockWait(cfg.Checkout.LockWait),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to initialize cache store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing cache store", zap.Error(err))
		}
	}()

	// Repositories
	articleRepo := persistence.NewGormArticleRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	producerOrderRepo := persistence.NewGormProducerOrderRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	producerRepo := persistence.NewGormProducerRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Checkout options
	orphanPolicy, err := tradeapp.ParseOrphanPolicy(cfg.Checkout.OrphanPolicy)
	if err != nil {
		log.Fatal("Invalid checkout configuration", zap.Error(err))
	}
	checkoutOpts := tradeapp.CheckoutOptions{
		Pricing: trade.PricingPolicy{
			TaxRate:               cfg.Checkout.TaxRate,
			ShippingFee:           cfg.Checkout.ShippingFee,
			FreeShippingThreshold: cfg.Checkout.FreeShippingThreshold,
		},
		OrphanPolicy:   orphanPolicy,
		IdempotencyTTL: cfg.Checkout.IdempotencyTTL,
		CartLockTTL:    cfg.Checkout.CartLockTTL,
		Now:            time.Now,
	}

	// Business metrics
	checkoutMetrics, err := telemetry.NewCheckoutMetrics(telemetry.CheckoutMetricsConfig{
		Meter:         meter,
		Logger:        log,
		StatsProvider: telemetry.NewGormTradeStatsProvider(db.DB),
	})
	if err != nil {
		log.Fatal("Failed to initialize checkout metrics", zap.Error(err))
	}
	checkoutMetrics.StartPeriodicCollection(ctx, cfg.Telemetry.MetricsInterval)
	defer checkoutMetrics.Stop()

	// Event bus: audit log of checkout and fulfilment events
	eventBus := event.NewInMemoryEventBus(log)
	orderEventHandler := tradeapp.NewOrderEventHandler(log)
	eventBus.Subscribe(orderEventHandler, orderEventHandler.EventTypes()...)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	log.Info("Event handlers registered", zap.Strings("order_events", orderEventHandler.EventTypes()))

	// Application services
	cartService := tradeapp.NewCartService(cartRepo, articleRepo, store, checkoutOpts, log)
	orderService := tradeapp.NewOrderService(txScope, customerRepo, orderRepo, producerOrderRepo, checkoutOpts, log,
		tradeapp.WithOrderLocker(store),
		tradeapp.WithIdempotencyStore(store),
		tradeapp.WithOrderEventPublisher(eventBus),
		tradeapp.WithOrderMetrics(checkoutMetrics),
	)
	producerOrderService := tradeapp.NewProducerOrderService(txScope, producerOrderRepo, orderRepo, log)
	producerOrderService.SetEventPublisher(eventBus)
	producerOrderService.SetMetrics(checkoutMetrics)

	if cfg.Printing.Enabled {
		printer, closeRenderer, err := newPackingSlipPrinter(ctx, cfg, eventBus, log)
		if err != nil {
			log.Fatal("Failed to initialize packing slip printing", zap.Error(err))
		}
		defer func() {
			if err := closeRenderer(); err != nil {
				log.Error("Error closing PDF renderer", zap.Error(err))
			}
		}()
		producerOrderService.SetPackingSlipRenderer(printer)
	}

	identityResolver := partnerapp.NewIdentityResolver(customerRepo, producerRepo)
	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP handlers
	handlers := router.Handlers{
		Cart:          handler.NewCartHandler(cartService),
		Order:         handler.NewOrderHandler(orderService),
		ProducerOrder: handler.NewProducerOrderHandler(producerOrderService),
		Health: handler.NewHealthHandler(map[string]handler.HealthCheck{
			"database": db.Ping,
			"cache":    store.Ping,
		}),
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	httpMetrics, err := middleware.HTTPMetrics(meter)
	if err != nil {
		log.Fatal("Failed to initialize HTTP metrics", zap.Error(err))
	}

	// Middleware order: request id first so every later log line and span carries it
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(httpMetrics)
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowedOrigins,
		MaxAge:       12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	jwtCfg := middleware.DefaultJWTConfig(jwtService)
	jwtCfg.Logger = log
	profilingCfg := middleware.DefaultProfilingConfig()
	profilingCfg.Enabled = cfg.Profiling.Enabled

	router.Setup(engine, handlers, router.Config{
		JWT:       jwtCfg,
		Resolver:  identityResolver,
		Profiling: profilingCfg,
		Swagger:   cfg.Swagger.Enabled,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}

	// Flush telemetry in parallel; each exporter has its own collector round trip
	var g errgroup.Group
	g.Go(func() error { return tp.Shutdown(shutdownCtx) })
	g.Go(func() error { return mp.Shutdown(shutdownCtx) })
	g.Go(func() error { return lp.Shutdown(shutdownCtx) })
	g.Go(profiler.Stop)
	if err := g.Wait(); err != nil {
		log.Error("Error shutting down telemetry", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newPackingSlipPrinter wires headless Chrome and, when storage is enabled,
// the S3 archive of rendered slips together with its cleanup on cancellation.
func newPackingSlipPrinter(ctx context.Context, cfg *config.Config, bus *event.InMemoryEventBus, log *zap.Logger) (*printing.PackingSlipPrinter, func() error, error) {
	paper, err := printing.ParsePaperSize(cfg.Printing.PaperSize)
	if err != nil {
		return nil, nil, err
	}

	renderer := printing.NewChromedpRenderer(printing.ChromedpConfig{
		ExecPath:       cfg.Printing.ChromePath,
		RemoteURL:      cfg.Printing.RemoteURL,
		DefaultTimeout: cfg.Printing.Timeout,
		NoSandbox:      cfg.Printing.NoSandbox,
		Logger:         log,
	})

	var archive printing.Archive
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			_ = renderer.Close()
			return nil, nil, fmt.Errorf("packing slip archive: %w", err)
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			_ = renderer.Close()
			return nil, nil, fmt.Errorf("packing slip archive: %w", err)
		}
		archive = s3
		cleanup := printing.NewArchiveCleanupHandler(s3, log)
		bus.Subscribe(cleanup, cleanup.EventTypes()...)
		log.Info("Packing slips are archived", zap.String("bucket", s3.Bucket()))
	}

	printer := printing.NewPackingSlipPrinter(renderer, archive, printing.PackingSlipConfig{PaperSize: paper}, log)
	log.Info("Packing slip printing enabled", zap.String("paper_size", cfg.Printing.PaperSize))
	return printer, renderer.Close, nil
}
