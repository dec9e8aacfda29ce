package cli

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/adyen/productpage/internal/config"
	"github.com/adyen/productpage/internal/logging"
)

// Sweeper runs background page expiry until its context is done
type Sweeper interface {
	Run(ctx context.Context)
}

// ServerDependencies holds all dependencies needed for the server
type ServerDependencies struct {
	ServerConfig   config.ServerConfig
	Logger         *zap.Logger
	ProductHandler http.Handler
	PageHandler    http.Handler
	MediaHandler   http.Handler
	HealthHandler  http.Handler
	StaticDir      string
	Sweeper        Sweeper
	// OnShutdown runs when shutdown starts, before waiting on open requests
	OnShutdown func()
}

// RunServe starts the product page server and blocks until it is stopped
func RunServe(deps ServerDependencies) error {
	listener, server, err := StartServer(deps)
	if err != nil {
		return err
	}
	defer listener.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if deps.Sweeper != nil {
		go deps.Sweeper.Run(ctx)
	}

	return WaitForShutdown(server, deps.Logger, nil)
}

// NewRouter wires the routes and middleware
func NewRouter(deps ServerDependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)

	r.Handle("/", deps.ProductHandler)
	r.Mount("/api/pages", deps.PageHandler)
	r.Handle("/media/{imageID}", deps.MediaHandler)
	r.Handle("/healthz", deps.HealthHandler)

	if deps.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(deps.StaticDir))))
	}

	return r
}

// StartServer creates and starts the HTTP server, returning the listener and server
func StartServer(deps ServerDependencies) (net.Listener, *http.Server, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	// Create listener
	addr := fmt.Sprintf(":%s", deps.ServerConfig.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create listener: %w", err)
	}

	// Create HTTP server
	server := &http.Server{
		Handler:           NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if deps.OnShutdown != nil {
		server.RegisterOnShutdown(deps.OnShutdown)
	}

	// Start server in a goroutine
	go func() {
		deps.Logger.Info("server listening", zap.String("addr", listener.Addr().String()))
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server error", zap.Error(err))
		}
	}()

	return listener, server, nil
}

// WaitForShutdown waits for a shutdown signal and gracefully shuts down the server
// If shutdown channel is nil, a new channel will be created and registered with signal.Notify
func WaitForShutdown(server *http.Server, logger *zap.Logger, shutdown chan os.Signal) error {
	return WaitForShutdownWithTimeout(server, logger, shutdown, 30*time.Second)
}

// WaitForShutdownWithTimeout allows specifying a custom shutdown timeout (primarily for testing)
func WaitForShutdownWithTimeout(server *http.Server, logger *zap.Logger, shutdown chan os.Signal, shutdownTimeout time.Duration) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Channel to listen for interrupt or terminate signals
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(shutdown)
	}

	// Wait for shutdown signal
	sig := <-shutdown
	logger.Info("shutting down server", zap.String("signal", sig.String()))

	// Give outstanding requests time to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed, closing", zap.Error(err))
		if err := server.Close(); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}
