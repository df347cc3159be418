package handlers

import (
	"net/http"
)

// HealthHandler answers liveness probes.
type HealthHandler struct{}

// Handle implements GET /healthz.
func (HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	respondJSON(r.Context(), w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "reelvault",
	})
}
