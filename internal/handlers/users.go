package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/reelvault/backend/internal/auth"
	"github.com/reelvault/backend/internal/logging"
	"github.com/reelvault/backend/internal/models"
	"github.com/reelvault/backend/internal/repositories"
)

const defaultHistoryLimit = 50

// UserHandler serves viewer-facing account endpoints.
type UserHandler struct {
	Engagement     EngagementStore
	Profiles       ProfileStore
	ConversionRate float64
}

// History handles GET /api/v1/users/history requests, returning the videos
// the user most recently watched.
func (h UserHandler) History(w http.ResponseWriter, r *http.Request) {
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

	if h.Engagement == nil {
		logger.Error("engagement store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "history service unavailable"})
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		if parsed < limit {
			limit = parsed
		}
	}

	videos, err := h.Engagement.History(ctx, user.ID, limit)
	if err != nil {
		logger.Error("failed to load watch history", "error", err, "userId", user.ID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to load watch history"})
		return
	}

	now := time.Now().UTC()
	items := make([]videoResponse, 0, len(videos))
	for _, video := range videos {
		items = append(items, toVideoResponse(video, now))
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"videos": items})
}

// Points handles GET /api/v1/users/points requests.
func (h UserHandler) Points(w http.ResponseWriter, r *http.Request) {
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

	if h.Profiles == nil {
		logger.Error("profile store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "points service unavailable"})
		return
	}

	profile, err := h.Profiles.Get(ctx, user.ID)
	if err != nil {
		logger.Error("failed to load points", "error", err, "userId", user.ID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to load points"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"points":          profile.Points,
		"points_earned":   profile.PointsEarned,
		"points_redeemed": profile.PointsRedeemed,
		"points_value":    float64(profile.Points) * h.ConversionRate,
		"conversion_rate": h.ConversionRate,
	})
}

type onboardingRequest struct {
	Birthday           *string  `json:"birthday"`
	Gender             *string  `json:"gender"`
	Country            *string  `json:"country"`
	City               *string  `json:"city"`
	EducationLevel     *string  `json:"education_level"`
	Occupation         *string  `json:"occupation"`
	ContentPreferences []string `json:"content_preferences"`
}

type profileResponse struct {
	Birthday            string   `json:"birthday,omitempty"`
	Gender              string   `json:"gender,omitempty"`
	Country             string   `json:"country,omitempty"`
	City                string   `json:"city,omitempty"`
	EducationLevel      string   `json:"education_level,omitempty"`
	Occupation          string   `json:"occupation,omitempty"`
	ContentPreferences  []string `json:"content_preferences"`
	Points              int64    `json:"points"`
	OnboardingCompleted bool     `json:"onboarding_completed"`
}

func toProfileResponse(profile models.ViewerProfile) profileResponse {
	resp := profileResponse{
		Gender:              profile.Gender,
		Country:             profile.Country,
		City:                profile.City,
		EducationLevel:      profile.EducationLevel,
		Occupation:          profile.Occupation,
		ContentPreferences:  profile.ContentPreferences,
		Points:              profile.Points,
		OnboardingCompleted: profile.OnboardingCompleted,
	}
	if resp.ContentPreferences == nil {
		resp.ContentPreferences = []string{}
	}
	if profile.Birthday != nil {
		resp.Birthday = profile.Birthday.Format("2006-01-02")
	}
	return resp
}

// Onboarding handles GET and PUT /api/v1/users/onboarding requests. PUT
// merges the provided answers into the profile and marks onboarding done.
func (h UserHandler) Onboarding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	user, ok := auth.UserFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if h.Profiles == nil {
		logger.Error("profile store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "profile service unavailable"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		profile, err := h.Profiles.Get(ctx, user.ID)
		if err != nil {
			logger.Error("failed to load profile", "error", err, "userId", user.ID)
			respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to load profile"})
			return
		}
		respondJSON(ctx, w, http.StatusOK, toProfileResponse(profile))

	case http.MethodPut, http.MethodPatch:
		var req onboardingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("invalid onboarding payload", "error", err)
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		if req.Birthday != nil {
			if _, err := time.Parse("2006-01-02", *req.Birthday); err != nil {
				respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "birthday must be formatted YYYY-MM-DD"})
				return
			}
		}

		profile, err := h.Profiles.Apply(ctx, user.ID, repositories.ProfileUpdate{
			Birthday:           req.Birthday,
			Gender:             req.Gender,
			Country:            req.Country,
			City:               req.City,
			EducationLevel:     req.EducationLevel,
			Occupation:         req.Occupation,
			ContentPreferences: req.ContentPreferences,
		})
		if err != nil {
			logger.Error("failed to update profile", "error", err, "userId", user.ID)
			respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to update profile"})
			return
		}

		respondJSON(ctx, w, http.StatusOK, toProfileResponse(profile))

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
