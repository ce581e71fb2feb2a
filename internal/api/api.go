// Package api provides the operator HTTP surface for BarIA: health checks,
// session resets and access to completed intake reports. It also mounts the
// Twilio inbound webhook when that transport is active.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/baria-bot/baria/internal/session"
	"github.com/baria-bot/baria/internal/store"
)

// Server configuration defaults.
const (
	// DefaultAddr is the listen address when none is configured.
	DefaultAddr = ":8080"
	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 10 * time.Second
)

// Server is the operator API server. All dependencies are injected.
type Server struct {
	addr           string
	sessions       *session.Store
	reports        store.Store
	twilioWebhook  http.HandlerFunc
	httpServer     *http.Server
}

// Opts holds configuration options for the API server.
type Opts struct {
	Addr          string
	Sessions      *session.Store
	Reports       store.Store
	TwilioWebhook http.HandlerFunc
}

// Option defines a configuration option for the API server.
type Option func(*Opts)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// WithSessionStore wires the session store for the reset endpoint.
func WithSessionStore(s *session.Store) Option {
	return func(o *Opts) { o.Sessions = s }
}

// WithReportStore wires the report store for the reports endpoint.
func WithReportStore(s store.Store) Option {
	return func(o *Opts) { o.Reports = s }
}

// WithTwilioWebhook mounts the Twilio inbound message webhook.
func WithTwilioWebhook(h http.HandlerFunc) Option {
	return func(o *Opts) { o.TwilioWebhook = h }
}

// NewServer creates an API server. A session store is required; the report
// store and webhook are optional.
func NewServer(opts ...Option) (*Server, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	return &Server{
		addr:          cfg.Addr,
		sessions:      cfg.Sessions,
		reports:       cfg.Reports,
		twilioWebhook: cfg.TwilioWebhook,
	}, nil
}

// Handler builds the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/reset", s.resetHandler)
	mux.HandleFunc("/reports", s.reportsHandler)
	if s.twilioWebhook != nil {
		mux.HandleFunc("/webhook/twilio", s.twilioWebhook)
	}
	return mux
}

// Run starts the HTTP server and blocks until the context is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{Addr: s.addr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server.Run: operator API listening", "addr", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("API server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("API server shutdown failed: %w", err)
	}
	slog.Info("Server.Run: operator API stopped")
	return nil
}

// healthHandler reports liveness and the live session count.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONResponse(w, http.StatusMethodNotAllowed, Error("method not allowed"))
		return
	}
	writeJSONResponse(w, http.StatusOK, Success(map[string]interface{}{
		"sessions": s.sessions.Len(),
	}))
}

// resetHandler discards the session for the user named in the query string.
// The next message from that user starts a fresh conversation.
func (s *Server) resetHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONResponse(w, http.StatusMethodNotAllowed, Error("method not allowed"))
		return
	}
	userID := r.URL.Query().Get("user")
	if userID == "" {
		writeJSONResponse(w, http.StatusBadRequest, Error("missing user parameter"))
		return
	}
	s.sessions.Reset(userID)
	slog.Info("Server.resetHandler: session reset", "user", userID)
	writeJSONResponse(w, http.StatusOK, Success(nil))
}

// reportsHandler lists completed intake reports, optionally filtered by user.
func (s *Server) reportsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONResponse(w, http.StatusMethodNotAllowed, Error("method not allowed"))
		return
	}
	if s.reports == nil {
		writeJSONResponse(w, http.StatusNotFound, Error("report store not configured"))
		return
	}

	var (
		reports interface{}
		err     error
	)
	if userID := r.URL.Query().Get("user"); userID != "" {
		reports, err = s.reports.GetReportsByUser(r.Context(), userID)
	} else {
		reports, err = s.reports.GetReports(r.Context())
	}
	if err != nil {
		slog.Error("Server.reportsHandler: failed to load reports", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, Error("failed to load reports"))
		return
	}
	writeJSONResponse(w, http.StatusOK, Success(reports))
}
