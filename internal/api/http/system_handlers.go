package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aitutor/tutor-api/internal/seed"
)

// GET /api/health
func HealthHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := d.DB.Ping(ctx); err != nil {
			d.Log.Warn("health ping failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "database": "disconnected"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "database": "connected"})
	}
}

// POST /api/seed inserts the demo dataset into an empty database.
func SeedHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := seed.Run(r.Context(), d.Users, d.Content, d.Log)
		if err != nil {
			internalError(w, r, d.Log, "seed", err)
			return
		}
		if res.Seeded {
			invalidateMetadata(r.Context(), d)
		}
		writeJSON(w, http.StatusOK, res)
	}
}
