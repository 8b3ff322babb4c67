// Package opsserver exposes liveness, upstream health and Prometheus metrics over HTTP.
package opsserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"base-wallet-bot/internal/gateway"
	"base-wallet-bot/internal/infra/log"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// HealthReporter is implemented by *gateway.Gateway.
type HealthReporter interface {
	Health() []gateway.UpstreamHealth
}

type HealthResponse struct {
	Status    string                   `json:"status"`
	Timestamp string                   `json:"timestamp"`
	Upstreams []gateway.UpstreamHealth `json:"upstreams"`
}

// NewRouter builds the ops routes. It is separate from Run so tests can drive it directly.
func NewRouter(health HealthReporter) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/live", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response := HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Upstreams: health.Health(),
		}
		// An open breaker degrades replies but the bot keeps answering.
		for _, u := range response.Upstreams {
			if u.State == "open" {
				response.Status = "degraded"
			}
		}
		writeJSON(w, http.StatusOK, response)
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, health HealthReporter) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(health),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.LogInfo("Ops server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.LogWarn("Ops server shutdown failed", zap.Error(err))
		return err
	}
	log.LogInfo("Ops server stopped")
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
