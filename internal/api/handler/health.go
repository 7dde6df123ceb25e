package handler

import (
	"context"
	"net/http"

	"github.com/Rrens/lookup-bot/internal/api/response"
)

// Pinger checks connectivity to a backing store
type Pinger interface {
	Ping(ctx context.Context) error
}

// Alive answers plain text so simple uptime monitors can poll the root path
func Alive(w http.ResponseWriter, r *http.Request) {
	response.Text(w, http.StatusOK, "bot is running")
}

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck returns readiness status including session store connectivity
func ReadyCheck(pinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pinger != nil {
			if err := pinger.Ping(r.Context()); err != nil {
				response.Error(w, http.StatusServiceUnavailable, "session store not ready")
				return
			}
		}

		response.OK(w, map[string]string{
			"status": "ready",
		})
	}
}
