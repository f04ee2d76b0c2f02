package controllers

import (
	"context"
	"net/http"

	"github.com/bazaarbuddy/bazaarbuddy-backend/api/responses"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/config"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db"
)

// dependencyPinger matches anything with a context-aware health probe.
type dependencyPinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-BazaarBuddy-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness, probing the database and, when
// configured, redis.
func HealthReady(cfg *config.Config, database db.Pinger, cache dependencyPinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-BazaarBuddy-Env", cfg.App.Env)
		checks := map[string]string{"status": "ready", "database": "ok"}
		status := http.StatusOK

		if database == nil || database.Ping(r.Context()) != nil {
			checks["database"] = "unavailable"
			checks["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}
		if cache != nil {
			checks["redis"] = "ok"
			if err := cache.Ping(r.Context()); err != nil {
				checks["redis"] = "unavailable"
			}
		}

		responses.WriteSuccessStatus(w, status, checks)
	}
}
