package controllers

import (
	"net/http"

	"github.com/samuelezeh/ecommapp-backend/api/responses"
	"github.com/samuelezeh/ecommapp-backend/pkg/config"
	"github.com/samuelezeh/ecommapp-backend/pkg/db"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Ecommapp-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, client *db.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Ecommapp-Env", cfg.App.Env)

		if client != nil {
			if err := client.Ping(r.Context()); err != nil {
				responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
