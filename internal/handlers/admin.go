package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/reelvault/backend/internal/logging"
	"github.com/reelvault/backend/internal/models"
	"github.com/reelvault/backend/internal/repositories"
)

const (
	defaultSearchLimit = 25
	defaultAdminLimit  = 100
)

// AdminHandler serves the moderation and back-office endpoints. Every route
// here sits behind the admin gate.
type AdminHandler struct {
	Users   UserStore
	Videos  VideoStore
	Webcams WebcamStore
}

// SearchUsers handles GET /api/v1/admin/users/search?q= requests.
func (h AdminHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Users == nil {
		logger.Error("user store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "user service unavailable"})
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "query parameter q is required"})
		return
	}

	users, err := h.Users.Search(ctx, query, defaultSearchLimit)
	if err != nil {
		logger.Error("user search failed", "error", err, "query", query)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "user search failed"})
		return
	}

	results := make([]*userResponse, 0, len(users))
	for _, user := range users {
		results = append(results, toUserResponse(user))
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"users": results})
}

type promoteRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// PromoteUser handles POST /api/v1/admin/users/promote requests.
func (h AdminHandler) PromoteUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Users == nil {
		logger.Error("user store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "user service unavailable"})
		return
	}

	var req promoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid promote payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "user_id is required"})
		return
	}

	switch req.Role {
	case models.RoleUser, models.RoleCompany, models.RoleAdmin:
	default:
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "role must be user, company, or admin"})
		return
	}

	if err := h.Users.Promote(ctx, req.UserID, req.Role); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "user not found"})
			return
		}
		logger.Error("failed to promote user", "error", err, "userId", req.UserID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to update role"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "role updated"})
}

// ListVideos handles GET /api/v1/admin/videos requests. Unlike the public
// feed this includes private and unlisted videos.
func (h AdminHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Videos == nil {
		logger.Error("video store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "video service unavailable"})
		return
	}

	limit := defaultAdminLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	videos, err := h.Videos.ListAll(ctx, limit)
	if err != nil {
		logger.Error("failed to list videos", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to list videos"})
		return
	}

	now := time.Now().UTC()
	items := make([]videoResponse, 0, len(videos))
	for _, video := range videos {
		items = append(items, toVideoResponse(video, now))
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"videos": items})
}

// VideoStats handles GET /api/v1/admin/videos/stats requests.
func (h AdminHandler) VideoStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Videos == nil {
		logger.Error("video store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "video service unavailable"})
		return
	}

	stats, err := h.Videos.Stats(ctx)
	if err != nil {
		logger.Error("failed to compute video stats", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to compute stats"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, stats)
}

type adminVideoPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Visibility  *string `json:"visibility"`
	ViewLimit   *int64  `json:"view_limit"`
	AutoPrivate *bool   `json:"auto_private"`
}

// Video handles GET, PATCH, and DELETE /api/v1/admin/videos/{id} requests.
func (h AdminHandler) Video(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Videos == nil {
		logger.Error("video store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "video service unavailable"})
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "video id is required"})
		return
	}

	video, err := h.Videos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "video not found"})
			return
		}
		logger.Error("failed to load video", "error", err, "videoId", id)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to load video"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		respondJSON(ctx, w, http.StatusOK, toVideoResponse(video, time.Now().UTC()))

	case http.MethodPatch:
		var patch adminVideoPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			logger.Warn("invalid video patch", "error", err)
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		if patch.Title != nil {
			video.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Description != nil {
			video.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.Category != nil {
			video.Category = strings.TrimSpace(*patch.Category)
		}
		if patch.Visibility != nil {
			switch *patch.Visibility {
			case models.VisibilityPublic, models.VisibilityPrivate, models.VisibilityUnlisted:
				video.Visibility = *patch.Visibility
			default:
				respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "visibility must be public, private, or unlisted"})
				return
			}
		}
		if patch.ViewLimit != nil {
			if *patch.ViewLimit < 0 {
				respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "view_limit must not be negative"})
				return
			}
			video.ViewLimit = *patch.ViewLimit
		}
		if patch.AutoPrivate != nil {
			video.AutoPrivate = *patch.AutoPrivate
		}

		if err := h.Videos.Update(ctx, video); err != nil {
			logger.Error("failed to update video", "error", err, "videoId", id)
			respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to update video"})
			return
		}

		respondJSON(ctx, w, http.StatusOK, toVideoResponse(video, time.Now().UTC()))

	case http.MethodDelete:
		if err := h.Videos.Delete(ctx, id); err != nil {
			logger.Error("failed to delete video", "error", err, "videoId", id)
			respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to delete video"})
			return
		}
		respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "video deleted"})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type recordingResponse struct {
	ID            string `json:"id"`
	VideoID       string `json:"video_id"`
	RecorderID    string `json:"recorder_id"`
	Filename      string `json:"filename"`
	Status        string `json:"status"`
	RecordingURL  string `json:"recording_url,omitempty"`
	Size          int64  `json:"size"`
	RecordingDate string `json:"recording_date"`
	CompletedAt   string `json:"completed_at,omitempty"`
}

// WebcamRecordings handles GET /api/v1/admin/webcam-recordings requests.
// The optional status query filters by upload state.
func (h AdminHandler) WebcamRecordings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Webcams == nil {
		logger.Error("webcam store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "recording service unavailable"})
		return
	}

	status := strings.TrimSpace(r.URL.Query().Get("status"))
	switch status {
	case "", models.RecordingStatusPending, models.RecordingStatusCompleted, models.RecordingStatusFailed:
	default:
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "status must be pending, completed, or failed"})
		return
	}

	recordings, err := h.Webcams.List(ctx, status, defaultAdminLimit)
	if err != nil {
		logger.Error("failed to list recordings", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to list recordings"})
		return
	}

	items := make([]recordingResponse, 0, len(recordings))
	for _, rec := range recordings {
		item := recordingResponse{
			ID:            rec.ID,
			VideoID:       rec.VideoID,
			RecorderID:    rec.RecorderID,
			Filename:      rec.Filename,
			Status:        rec.Status,
			RecordingURL:  rec.RecordingURL,
			Size:          rec.Size,
			RecordingDate: rec.RecordingDate.UTC().Format(time.RFC3339),
		}
		if rec.UploadCompletedAt != nil {
			item.CompletedAt = rec.UploadCompletedAt.UTC().Format(time.RFC3339)
		}
		items = append(items, item)
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"recordings": items})
}
