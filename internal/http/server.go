package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/device-ops/warranty-cache/internal/events"
	"github.com/device-ops/warranty-cache/internal/service"
)

const usageText = "Please use /warranty/ServiceTag URL to get a warranty data.\n"

type API struct {
	service *service.Service
	hub     *events.Hub
	logger  *slog.Logger
}

func New(svc *service.Service, hub *events.Hub, logger *slog.Logger) *API {
	return &API{service: svc, hub: hub, logger: logger}
}

func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// The event stream is long-lived and hijacks the connection; only the
	// plain routes get the timeout and the logging response wrapper.
	r.Group(func(timed chi.Router) {
		timed.Use(middleware.Timeout(20 * time.Second))
		timed.Use(requestLogger(a.logger))
		timed.Get("/", a.usage)
		timed.Get("/healthz", a.health)
		timed.Get("/warranty/{serviceTag}", a.warranty)
		timed.Method(http.MethodGet, "/metrics", promhttp.Handler())
	})
	r.Get("/api/events", a.eventStream)
	return r
}

func (a *API) usage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, usageText)
}

func (a *API) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// warranty always answers 200: population failures degrade to the sentinel
// payload rather than an error status.
func (a *API) warranty(w http.ResponseWriter, r *http.Request) {
	serviceTag := chi.URLParam(r, "serviceTag")
	record := a.service.Lookup(r.Context(), serviceTag)
	writeJSON(w, http.StatusOK, record.Payload())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func RunServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil {
			logger.Error("http server failed", "err", err)
			return err
		}
		return nil
	}
}
