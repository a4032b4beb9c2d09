// Package server assembles the HTTP surface: routing, middleware and
// lifecycle management.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"3tcapital/ms_namqr_core/internal/infrastructure/config"
	"3tcapital/ms_namqr_core/internal/infrastructure/http/middleware"
)

// Server wraps the HTTP listener and its wiring.
type Server struct {
	log             *slog.Logger
	httpServer      *http.Server
	auth            *middleware.JWTAuthenticator
	shutdownTimeout time.Duration
}

// Options collects everything the server needs. Handler slots left nil fall
// back to a 503 responder so partial deployments stay diagnosable.
type Options struct {
	Config config.AppConfig
	Logger *slog.Logger

	HealthHandler  http.Handler
	QRHandler      http.Handler
	VaultHandler   http.Handler
	VoucherHandler http.Handler

	Auth *middleware.JWTAuthenticator
}

// New builds the router and the underlying http.Server.
func New(opts Options) (*Server, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.HealthHandler == nil {
		return nil, errors.New("health handler is required")
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(opts.Logger))

	if opts.Auth != nil {
		r.Use(opts.Auth.Middleware)
	}

	r.Method(http.MethodGet, "/health", opts.HealthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/qr", orUnavailable(opts.QRHandler))
		r.Mount("/vault", orUnavailable(opts.VaultHandler))
		r.With(middleware.BatchTimeout(opts.Config.HTTP)).
			Mount("/vouchers", orUnavailable(opts.VoucherHandler))
	})

	// Batch endpoints run under an extended context deadline, so the
	// server-wide write timeout must cover them too.
	writeTimeout := opts.Config.HTTP.WriteTimeout
	if opts.Config.HTTP.WriteTimeoutBatch > writeTimeout {
		writeTimeout = opts.Config.HTTP.WriteTimeoutBatch
	}

	srv := &http.Server{
		Addr:         opts.Config.HTTP.Address(),
		Handler:      r,
		ReadTimeout:  opts.Config.HTTP.ReadTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  opts.Config.HTTP.IdleTimeout,
	}

	shutdownTimeout := opts.Config.HTTP.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}

	return &Server{
		log:             opts.Logger,
		httpServer:      srv,
		auth:            opts.Auth,
		shutdownTimeout: shutdownTimeout,
	}, nil
}

// Run starts the listener and blocks until the context is cancelled or the
// listener fails. Shutdown is bounded by the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.log.Info("HTTP server started", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		s.log.Info("shutting down HTTP server")
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		return err
	}
}

// Close releases resources held by the server wiring.
func (s *Server) Close() {
	if s.auth != nil {
		s.auth.Close()
	}
}

func orUnavailable(h http.Handler) http.Handler {
	if h != nil {
		return h
	}
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	})
}
