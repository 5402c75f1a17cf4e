package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/rshade/steelcalc/internal/config"
	"github.com/rshade/steelcalc/internal/engine"
	"github.com/rshade/steelcalc/internal/logging"
	"github.com/rshade/steelcalc/internal/tables"
)

const (
	maxBodyBytes      = 1 << 20
	readHeaderTimeout = 5 * time.Second
)

// Server serves the calculator API. It is an http.Handler.
type Server struct {
	cfg      config.ServerConfig
	tables   *tables.Tables
	defaults engine.Input
	log      zerolog.Logger
	limiter  *clientLimiter
	handler  http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithDefaults sets the input that request bodies are decoded over, so
// omitted fields take these values.
func WithDefaults(in engine.Input) Option {
	return func(s *Server) { s.defaults = in }
}

// New builds the API handler over t.
func New(cfg config.ServerConfig, t *tables.Tables, logger zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		tables:   t,
		defaults: engine.DefaultInput(t),
		log:      logging.ComponentLogger(logger, "server"),
		limiter:  newClientLimiter(cfg.RateLimit, cfg.RateBurst),
	}
	for _, opt := range opts {
		opt(s)
	}

	notFound := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, req, http.StatusNotFound, errors.New("not found"))
	})
	notAllowed := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, req, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	})

	r := mux.NewRouter()
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = notAllowed

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	// Subrouters do not inherit the parent's fallback handlers.
	api.NotFoundHandler = notFound
	api.MethodNotAllowedHandler = notAllowed
	api.Use(s.limiter.Middleware)
	api.HandleFunc("/tables", s.handleTables).Methods(http.MethodGet)
	api.HandleFunc("/calc", s.handleCalc).Methods(http.MethodPost)
	api.HandleFunc("/calc/batch", s.handleBatch).Methods(http.MethodPost)
	api.HandleFunc("/report/pdf", s.handleReportPDF).Methods(http.MethodPost)

	s.handler = s.requestID(s.accessLog(s.cors(r)))
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Run listens on the configured address and serves until ctx is done,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done. In-flight requests get
// ShutdownTimeout to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")
	//nolint:contextcheck // The parent context is already cancelled.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
