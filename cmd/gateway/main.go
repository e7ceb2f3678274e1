package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JakfarS/invoice-request-mceasy/internal/infrastructure/config"
	"github.com/JakfarS/invoice-request-mceasy/internal/infrastructure/erp"
	"github.com/JakfarS/invoice-request-mceasy/internal/infrastructure/logger"
	"github.com/JakfarS/invoice-request-mceasy/internal/interfaces/http/handler"
	"github.com/JakfarS/invoice-request-mceasy/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

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

	log.Info("Starting sale order gateway",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.Gateway.Port),
		zap.String("upstream", cfg.Gateway.UpstreamURL),
	)

	client := erp.NewClient(cfg.Gateway, log)

	// Authenticate eagerly so a misconfigured upstream shows up at startup.
	// The client re-authenticates on its own if the session expires later.
	startupCtx, cancel := context.WithTimeout(context.Background(), cfg.Gateway.Timeout)
	if err := client.Authenticate(startupCtx); err != nil {
		log.Warn("Upstream authentication failed at startup, will retry lazily", zap.Error(err))
	}
	cancel()

	gatewayHandler := handler.NewGatewayHandler(client, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.GET("/health", gatewayHandler.Health)

	api := engine.Group("/api/sale-orders")
	{
		api.GET("", gatewayHandler.ListSaleOrders)
		api.GET("/:id", gatewayHandler.GetSaleOrder)
		api.POST("", gatewayHandler.CreateSaleOrder)
		api.PUT("/:id", gatewayHandler.UpdateSaleOrder)
		api.POST("/:id/confirm", gatewayHandler.SaleOrderAction("confirm"))
		api.POST("/:id/cancel", gatewayHandler.SaleOrderAction("cancel"))
		api.POST("/:id/reset", gatewayHandler.SaleOrderAction("reset"))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.Gateway.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Gateway listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Gateway server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gateway...")

	ctx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Gateway forced to shutdown", zap.Error(err))
	}

	log.Info("Gateway exited")
}
