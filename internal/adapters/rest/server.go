package rest

import (
	"context"
	"fmt"
	"listing-web/internal/adapters/session"
	"listing-web/internal/core/port"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// ServerConfig - параметры HTTP-сервера
type ServerConfig struct {
	Port         string
	CORSOrigins  []string
	CookieSecure bool
}

// Server - HTTP-сервер сайта: HTML-страницы и JSON API.
type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

// NewRouter собирает маршруты. Вынесен отдельно, чтобы тесты могли обойтись без сетевого сервера.
func NewRouter(cfg ServerConfig, pages *PageHandler, api *APIHandler, store *session.Store, baseLogger port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	// Стандартные middleware
	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)

	r.Get("/healthz", api.Health)

	// HTML-страницы работают поверх сессии посетителя
	r.Group(func(r chi.Router) {
		r.Use(SessionMiddleware(store, cfg.CookieSecure))

		r.Get("/", pages.Listing)
		r.Get("/listings", pages.Listing)
		r.Get("/detailproduct", pages.DetailProduct)
		r.Get("/preview/{id}", pages.Preview)
		r.Post("/preview/{id}/carousel/{direction}", pages.Carousel)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			// AllowedOrigins - список доменов, с которых разрешены запросы
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Trace-ID"},
			MaxAge:         300, // 5 минут
		}))
		r.Use(middleware.SetHeader("Content-Type", "application/json"))

		r.Get("/listings", api.GetListingPage)
		r.Get("/properties/{id}", api.GetProperty)
	})

	return r
}

// NewServer создает новый экземпляр сервера.
func NewServer(cfg ServerConfig, handler http.Handler, baseLogger port.LoggerPort) *Server {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     baseLogger,
	}
}

// Start запускает HTTP-сервер.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server...", nil)
	return s.httpServer.Shutdown(ctx)
}
