// Package httptransport assembles the service's HTTP surface: the member
// API, health checks, and the metrics endpoint.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pauloqxm/adatualiza/internal/transport/http/shared"
	dErrors "github.com/pauloqxm/adatualiza/pkg/domain-errors"
)

// Registrar mounts a feature's routes on the router.
type Registrar interface {
	Register(r chi.Router)
}

// HealthChecker reports readiness of a named dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// NewRouter wires all endpoints. checks maps a dependency name to its
// readiness probe; a nil checker is skipped so optional dependencies (the
// redis cache) do not gate readiness when unconfigured.
func NewRouter(logger *slog.Logger, checks map[string]HealthChecker, features ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check.Health(req.Context()); err != nil {
				logger.WarnContext(req.Context(), "readiness check failed",
					"dependency", name,
					"error", err.Error(),
				)
				shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, name+" unavailable"))
				return
			}
		}
		shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	r.Handle("/metrics", promhttp.Handler())

	for _, f := range features {
		f.Register(r)
	}

	return r
}
