package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/flo-app/flo-backend/api/responses"
	"github.com/flo-app/flo-backend/pkg/config"
	pkgerrors "github.com/flo-app/flo-backend/pkg/errors"
	"github.com/flo-app/flo-backend/pkg/logger"
)

const (
	envHeader        = "X-Flo-Env"
	readinessTimeout = 2 * time.Second
)

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every named dependency and fails with 503 listing the ones that are down.
func HealthReady(cfg *config.Config, deps map[string]Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		down := map[string]string{}
		var firstErr error
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				down[name] = "unavailable"
				if firstErr == nil {
					firstErr = err
				}
			}
		}
		if len(down) > 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, firstErr, "dependency unavailable").WithDetails(down))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
