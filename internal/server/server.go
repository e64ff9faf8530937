package server

import (
	"fmt"
	"net/http"
	"time"

	"storefront/internal/config"
	custommiddleware "storefront/internal/middleware"
	"storefront/internal/service"
	"storefront/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deps are the collaborators the HTTP server wires into its routes
type Deps struct {
	Storefront service.StorefrontService
	// Limiter backs chat send rate limiting; nil disables it
	Limiter *redis.Client
	// Closers release storage once the server stops
	Closers []func() error
}

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	deps   Deps
}

func NewServer(cfg *config.Config, logger *zap.Logger, deps Deps) *Server {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.IsDevelopment()))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	var sendLimiter func(http.Handler) http.Handler
	if deps.Limiter != nil && cfg.RateLimit.ChatRequests > 0 {
		sendLimiter = custommiddleware.RateLimitMiddleware(deps.Limiter, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.ChatRequests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "storefront:ratelimit:chat",
		}, logger)
	}

	transport.NewCatalogHandler(deps.Storefront, logger).RegisterRoutes(router)
	transport.NewCartHandler(deps.Storefront, logger).RegisterRoutes(router)
	transport.NewCheckoutHandler(deps.Storefront, logger).RegisterRoutes(router)
	transport.NewChatHandler(deps.Storefront, logger).RegisterRoutes(router, sendLimiter)

	return &Server{
		Server: &http.Server{
			Addr:        fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:     router,
			IdleTimeout: time.Minute,
			ReadTimeout: 10 * time.Second,
			// pay blocks for the simulated processing delay
			WriteTimeout: 30*time.Second + cfg.Checkout.PaymentDelay,
		},
		config: cfg,
		logger: logger,
		deps:   deps,
	}
}

// Close stops the chat session and releases storage
func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	s.deps.Storefront.Close()
	if s.deps.Limiter != nil {
		if err := s.deps.Limiter.Close(); err != nil {
			s.logger.Error("Failed to close rate limit client", zap.Error(err))
		}
	}
	for _, closeFn := range s.deps.Closers {
		if err := closeFn(); err != nil {
			s.logger.Error("Failed to close storage", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
