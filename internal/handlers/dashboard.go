package handlers

import (
	"net/http"

	"github.com/reelvault/backend/internal/auth"
	"github.com/reelvault/backend/internal/logging"
)

// DashboardHandler serves the per-user dashboard statistics.
type DashboardHandler struct {
	Stats StatsProvider
}

// Handle responds to GET /api/v1/dashboard/stats. When the feed cannot be
// loaded the response still carries zeroed stats so the dashboard renders,
// alongside an error message for the banner.
func (h DashboardHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	user, ok := auth.UserFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if h.Stats == nil {
		logger.Error("stats provider unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "dashboard service unavailable"})
		return
	}

	stats, err := h.Stats.Stats(ctx, user.Email)
	if err != nil {
		logger.Error("failed to compute dashboard stats", "error", err, "userId", user.ID)
		respondJSON(ctx, w, http.StatusOK, map[string]any{
			"stats": stats,
			"error": "Failed to load your videos. Please try again later.",
		})
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"stats": stats})
}
