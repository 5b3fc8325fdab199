// Package health serves the liveness endpoint used by container probes.
// It reports process liveness only; it deliberately does not reach the
// database or the Telegram API, so a broken dependency never causes a
// restart loop.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/classworks/classbot/internal/buildinfo"
	"github.com/classworks/classbot/internal/logger"
)

// Server exposes GET /health/live on the configured listen address.
type Server struct {
	srv *http.Server
}

// NewServer builds the health server; an empty listen address disables it.
func NewServer(listen string) *Server {
	if strings.TrimSpace(listen) == "" {
		return nil
	}

	r := chi.NewRouter()
	r.Get("/health/live", handleLive)

	return &Server{
		srv: &http.Server{
			Addr:         listen,
			Handler:      r,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

func handleLive(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   buildinfo.Version,
		"service":   "classbot",
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if s == nil {
		<-ctx.Done()
		return nil
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "health", "listen",
			slog.String("addr", s.srv.Addr),
		)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info(context.Background(), "health", "stopped")
	return nil
}
