package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"peram-marketplace-service/internal/config"
	"peram-marketplace-service/internal/ports/inbound"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	config     *config.Config
	logger     zerolog.Logger
}

type ServerParams struct {
	Config          *config.Config
	AuthService     inbound.AuthService
	UserService     inbound.UserService
	CategoryService inbound.CategoryService
	ProductService  inbound.ProductService
	BidService      inbound.BidService
	WebSocket       http.HandlerFunc
	Logger          zerolog.Logger
}

func NewServer(params ServerParams) *Server {
	engine := NewRouter(params)

	httpServer := &http.Server{
		Addr:              params.Config.GetServerAddress(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Minute,
	}

	return &Server{
		engine:     engine,
		httpServer: httpServer,
		config:     params.Config,
		logger:     params.Logger.With().Str("component", "http_server").Logger(),
	}
}

// Handler exposes the router for in-process tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info().Msg("Stopping HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}
