package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/upravnik/assembly-engine/internal/adapter"
	"github.com/upravnik/assembly-engine/internal/agenda"
	"github.com/upravnik/assembly-engine/internal/api/middleware"
	"github.com/upravnik/assembly-engine/internal/api/rest"
	"github.com/upravnik/assembly-engine/internal/attendance"
	"github.com/upravnik/assembly-engine/internal/broadcast"
	"github.com/upravnik/assembly-engine/internal/decision"
	"github.com/upravnik/assembly-engine/internal/ledger"
	"github.com/upravnik/assembly-engine/internal/logger"
	"github.com/upravnik/assembly-engine/internal/messaging"
	"github.com/upravnik/assembly-engine/internal/store"
	"github.com/upravnik/assembly-engine/internal/tally"
)

// Config holds the server configuration
type Config struct {
	Debug       bool
	Host        string
	Port        int
	ReadTimeout time.Duration
	IdleTimeout time.Duration
	Auth        middleware.AuthConfig
}

// Server wraps the HTTP server
type Server struct {
	config     Config
	store      store.Store
	publisher  messaging.Publisher
	hub        *broadcast.Hub
	clock      adapter.Clock
	json       adapter.JSON
	httpServer *http.Server
}

// New creates a new API server
func New(
	cfg Config,
	st store.Store,
	publisher messaging.Publisher,
	hub *broadcast.Hub,
	clock adapter.Clock,
	jsonAdapter adapter.JSON,
) *Server {
	return &Server{
		config:    cfg,
		store:     st,
		publisher: publisher,
		hub:       hub,
		clock:     clock,
		json:      jsonAdapter,
	}
}

// Start initializes and starts the HTTP server
func (s *Server) Start() error {
	// Set Gin mode based on debug flag
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Setup middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.SetupCORS())

	// Wire the domain services
	engine := tally.NewEngine(s.store, s.clock)
	agendaSvc := agenda.NewService(s.store, engine, s.publisher, s.clock)
	registry := attendance.NewRegistry(s.store, engine, s.publisher, s.clock)
	ledgerSvc := ledger.NewService(s.store, engine, s.publisher, s.clock)
	resolver := decision.NewResolver(s.store, engine, s.publisher, s.clock, s.json)

	restHandler := rest.NewHandler(
		agendaSvc,
		registry,
		ledgerSvc,
		resolver,
		engine,
		s.hub,
		s.store,
		s.clock,
		s.json,
	)

	rest.SetupRoutes(router, restHandler, s.config.Auth)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:        addr,
		Handler:     router,
		ReadTimeout: s.config.ReadTimeout,
		// Long-lived websocket subscriptions outlive any sane write timeout
		WriteTimeout: 0,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("Starting API server",
		zap.String("address", addr),
	)

	// Start server
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}
