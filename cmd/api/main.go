package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/chat"
	"storefront/internal/checkout"
	"storefront/internal/client"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/server"
	"storefront/internal/service"
	"storefront/internal/store"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	// in-flight payments need their processing delay to settle
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")
	done <- true
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}
	cfg := config.Load()

	logr, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logr.Sync()

	logr.Info("Starting storefront API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Driver),
	)

	ctx := context.Background()

	kv, closeStore, err := store.Open(ctx, cfg, "migrations", logr)
	if err != nil {
		logr.Fatal("Failed to open store", zap.Error(err))
	}

	cartStore := cart.New(kv, cfg.Store.CartKey, logr)
	result := cartStore.Hydrate(ctx)
	logr.Info("Cart loaded", zap.Stringer("result", result), zap.Int("lines", cartStore.LineCount()))

	products := catalog.NewService(
		client.NewCatalog(cfg.Catalog.BaseURL, cfg.Catalog.Timeout, logr),
		cfg.Catalog.Retries,
		cfg.Catalog.CacheTTL,
		logr,
	)

	session := chat.NewSession(
		client.NewChat(cfg.Chat.BackendURL, cfg.Chat.Timeout),
		chat.NewViewport(cfg.Reveal.ScrollThreshold),
		chat.Options{
			Greeting: cfg.Chat.Greeting,
			Pacing: chat.Pacing{
				Newline: cfg.Reveal.NewlineDelay,
				Period:  cfg.Reveal.PeriodDelay,
				Comma:   cfg.Reveal.CommaDelay,
				Default: cfg.Reveal.DefaultDelay,
			},
			ScrollEvery: cfg.Reveal.ScrollEvery,
			Timeout:     cfg.Chat.Timeout,
		},
		logr,
	)

	storefront := service.NewStorefrontService(
		products,
		cartStore,
		checkout.SimulatedProcessor{Delay: cfg.Checkout.PaymentDelay},
		session,
		logr,
	)

	var limiter *redis.Client
	if cfg.RateLimit.ChatRequests > 0 {
		limiter = store.NewRedisClient(cfg.Redis)
		logr.Info("Chat rate limiting enabled",
			zap.Int("requests", cfg.RateLimit.ChatRequests),
			zap.Duration("window", cfg.RateLimit.Window),
		)
	}

	srv := server.NewServer(cfg, logr, server.Deps{
		Storefront: storefront,
		Limiter:    limiter,
		Closers:    []func() error{closeStore},
	})

	done := make(chan bool, 1)
	go gracefulShutdown(srv, logr, done)

	logr.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logr.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	logr.Info("Graceful shutdown complete")
}
