package handler

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HealthHandler reports service liveness and, when a database is
// configured, whether it is reachable.
func HealthHandler(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]string{"status": "ok", "storage": "memory"}
		if pool != nil {
			resp["storage"] = "postgres"
			if err := pool.Ping(r.Context()); err != nil {
				resp["status"] = "degraded"
				resp["database"] = "unreachable"
				RespondJSON(w, http.StatusServiceUnavailable, resp)
				return
			}
			resp["database"] = "ok"
		}
		RespondJSON(w, http.StatusOK, resp)
	}
}
