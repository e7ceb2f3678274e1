package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	identityapp "github.com/JakfarS/invoice-request-mceasy/internal/application/identity"
	requestapp "github.com/JakfarS/invoice-request-mceasy/internal/application/request"
	"github.com/JakfarS/invoice-request-mceasy/internal/infrastructure/auth"
	"github.com/JakfarS/invoice-request-mceasy/internal/infrastructure/config"
	"github.com/JakfarS/invoice-request-mceasy/internal/infrastructure/logger"
	"github.com/JakfarS/invoice-request-mceasy/internal/infrastructure/persistence"
	"github.com/JakfarS/invoice-request-mceasy/internal/infrastructure/printing"
	"github.com/JakfarS/invoice-request-mceasy/internal/interfaces/http/handler"
	"github.com/JakfarS/invoice-request-mceasy/internal/interfaces/http/middleware"
	"github.com/JakfarS/invoice-request-mceasy/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting invoice request service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection with a zap-backed GORM logger
	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	partnerRepo := persistence.NewGormPartnerRepository(db.DB)
	orderRepo := persistence.NewGormSaleOrderRepository(db.DB)
	requestRepo := persistence.NewGormInvoiceRequestRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	txManager := persistence.NewGormTransactionManager(db.DB)

	// Initialize PDF renderer
	renderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
		DefaultTimeout: cfg.PDF.RenderTimeout,
		RemoteURL:      cfg.PDF.ChromeRemote,
		NoSandbox:      cfg.PDF.NoSandbox,
		Logger:         log,
	})
	if err != nil {
		log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
	}
	defer func() {
		if err := renderer.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}()

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)
	portalService := requestapp.NewPortalService(partnerRepo, orderRepo, requestRepo, invoiceRepo, renderer, log)
	approvalService := requestapp.NewApprovalService(partnerRepo, orderRepo, requestRepo, invoiceRepo, txManager, log)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	portalHandler := handler.NewPortalHandler(portalService)
	requestHandler := handler.NewRequestHandler(approvalService)
	partnerHandler := handler.NewPartnerHandler(approvalService)
	systemHandler := handler.NewSystemHandler(db, cfg.App.Name)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, in order: request ID, panic recovery, request
	// logging, security headers, CORS, body size limit.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// JWT guards the internal API; login, refresh and system info stay open.
	// Portal routes live under /external and are never JWT-checked.
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/system/info",
		},
		Logger: log,
	}))

	// Internal auth routes, with a tighter limiter on login
	authLimiter := middleware.NewRateLimiter(10, time.Minute)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", middleware.AuthRateLimit(authLimiter), authHandler.Login)
	authRoutes.POST("/refresh", authHandler.RefreshToken)
	authRoutes.GET("/me", authHandler.Me)

	// Invoice request approval routes
	requestRoutes := router.NewDomainGroup("requests", "/invoice-requests")
	requestRoutes.GET("", requestHandler.List)
	requestRoutes.GET("/:id", requestHandler.Get)
	requestRoutes.POST("/:id/approve", requestHandler.Approve)
	requestRoutes.POST("/approve-batch", requestHandler.ApproveBatch)
	requestRoutes.POST("/:id/reset", requestHandler.Reset)

	// Partner administration routes
	partnerRoutes := router.NewDomainGroup("partners", "/partners")
	partnerRoutes.GET("", partnerHandler.List)
	partnerRoutes.GET("/:id/requests", partnerHandler.Requests)
	partnerRoutes.POST("/:id/token", partnerHandler.GenerateToken)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)

	// Customer portal, keyed by the partner's external token
	portalRoutes := router.NewDomainGroup("portal", "/sale-invoice/:token")
	portalRoutes.GET("", portalHandler.Form)
	portalRoutes.GET("/available_sos", portalHandler.AvailableOrders)
	portalRoutes.POST("/request", portalHandler.CreateRequest)
	portalRoutes.GET("/status", portalHandler.Status)
	portalRoutes.GET("/download/:invoice_id", portalHandler.Download)

	r.Register(authRoutes).
		Register(requestRoutes).
		Register(partnerRoutes).
		Register(systemRoutes).
		RegisterExternal(portalRoutes)
	r.Setup()

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
