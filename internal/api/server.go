// ABOUTME: HTTP server assembly for mes-users: routes, middleware, lifecycle
// ABOUTME: Wires the store, auth service, and CEP lookup behind one ServeMux

package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mesusers/mes-users/internal/auth"
	"github.com/mesusers/mes-users/internal/store"
	"github.com/mesusers/mes-users/internal/viacep"
)

// CepLookup resolves postal codes. Satisfied by *viacep.Client; tests
// substitute a fake.
type CepLookup interface {
	Lookup(ctx context.Context, cep string) (*viacep.Address, error)
}

// Server is the mes-users HTTP API.
type Server struct {
	store  store.Store
	auth   *auth.Service
	cep    CepLookup
	logger *slog.Logger

	httpServer *http.Server
}

// NewServer assembles the API over its dependencies and binds it to addr.
func NewServer(addr string, st store.Store, authSvc *auth.Service, cep CepLookup) *Server {
	s := &Server{
		store:  st,
		auth:   authSvc,
		cep:    cep,
		logger: slog.Default().With("component", "api"),
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler builds the full middleware-wrapped route tree.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /health/ready", s.handleReady)

	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/validate", s.handleValidate)
	mux.HandleFunc("POST /api/auth/refresh", s.handleRefresh)

	mux.HandleFunc("POST /api/users", s.handleCreateUser)
	mux.HandleFunc("GET /api/users/{id}", s.handleGetUser)
	mux.HandleFunc("GET /api/users", auth.RequireAuth(s.handleListUsers))
	mux.HandleFunc("PUT /api/users/{id}", auth.RequireAuth(s.handleUpdateUser))
	mux.HandleFunc("DELETE /api/users/{id}", auth.RequireAuth(s.handleDeleteUser))

	mux.HandleFunc("POST /api/addresses", auth.RequireAuth(s.handleCreateAddress))
	mux.HandleFunc("GET /api/addresses/{id}", auth.RequireAuth(s.handleGetAddress))
	mux.HandleFunc("GET /api/addresses", auth.RequireAuth(s.handleListAddresses))
	mux.HandleFunc("PUT /api/addresses/{id}", auth.RequireAuth(s.handleUpdateAddress))
	mux.HandleFunc("DELETE /api/addresses/{id}", auth.RequireAuth(s.handleDeleteAddress))

	var handler http.Handler = mux
	handler = auth.Authenticate(s.auth)(handler)
	handler = auth.RequestID(handler)
	return handler
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	// Fresh context: the run context is already canceled
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown stops the HTTP server and closes the store.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down")

	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("HTTP shutdown: %w", err))
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store close: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}

// handleHealth returns 200 OK if the server is alive.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady returns 200 OK once the store answers queries.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.CountUsers(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("store unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
