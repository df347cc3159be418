package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reelvault/backend/internal/auth"
	"github.com/reelvault/backend/internal/logging"
	"github.com/reelvault/backend/internal/models"
	"github.com/reelvault/backend/internal/repositories"
)

// EngagementHandler implements view counting, like toggling, and share links.
type EngagementHandler struct {
	Videos      VideoStore
	Engagement  EngagementStore
	Shares      ShareStore
	FrontendURL string
}

// RecordView handles POST /api/v1/videos/{id}/view requests. Anonymous views
// are counted without a viewer id; private videos only accept views from the
// uploader or an admin. When a video with a view limit crosses it, the video
// flips to private and the response says so.
func (h EngagementHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Engagement == nil || h.Videos == nil {
		logger.Error("engagement dependencies unavailable", "hasEngagement", h.Engagement != nil, "hasVideos", h.Videos != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "engagement service unavailable"})
		return
	}

	videoID := strings.TrimSpace(r.PathValue("id"))
	if videoID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "video id is required"})
		return
	}

	viewerID := ""
	role := ""
	if user, ok := auth.UserFromContext(ctx); ok {
		viewerID = user.ID
		role = user.Role
	}

	video, err := h.Videos.FindByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "video not found"})
			return
		}
		logger.Error("failed to load video for view", "error", err, "videoId", videoID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to record view"})
		return
	}

	if video.Visibility == models.VisibilityPrivate && video.UploaderID != viewerID && role != models.RoleAdmin {
		respondJSON(ctx, w, http.StatusForbidden, map[string]string{"error": "Video is private"})
		return
	}

	views, madePrivate, err := h.Engagement.RecordView(ctx, videoID, viewerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "video not found"})
			return
		}
		logger.Error("failed to record view", "error", err, "videoId", videoID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to record view"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"views":        views,
		"made_private": madePrivate,
	})
}

// ToggleLike handles POST /api/v1/videos/{id}/like requests. A repeated call
// from the same user removes the like.
func (h EngagementHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
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
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "engagement service unavailable"})
		return
	}

	videoID := strings.TrimSpace(r.PathValue("id"))
	if videoID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "video id is required"})
		return
	}

	liked, likes, err := h.Engagement.ToggleLike(ctx, videoID, user.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "video not found"})
			return
		}
		logger.Error("failed to toggle like", "error", err, "videoId", videoID, "userId", user.ID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to update like"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"liked": liked,
		"likes": likes,
	})
}

// CreateShare handles POST /api/v1/videos/{id}/share requests. Only the
// uploader or an admin may mint share links for a video.
func (h EngagementHandler) CreateShare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
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

	if h.Videos == nil || h.Shares == nil {
		logger.Error("share dependencies unavailable", "hasVideos", h.Videos != nil, "hasShares", h.Shares != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "share service unavailable"})
		return
	}

	videoID := strings.TrimSpace(r.PathValue("id"))
	if videoID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "video id is required"})
		return
	}

	video, err := h.Videos.FindByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "video not found"})
			return
		}
		logger.Error("failed to load video for share", "error", err, "videoId", videoID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to create share link"})
		return
	}

	if video.UploaderID != user.ID && user.Role != models.RoleAdmin {
		respondJSON(ctx, w, http.StatusForbidden, map[string]string{"error": "only the uploader can share this video"})
		return
	}

	share := models.VideoShare{
		Token:     uuid.NewString(),
		VideoID:   video.ID,
		CreatedBy: user.ID,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.Shares.Create(ctx, share); err != nil {
		logger.Error("failed to create share", "error", err, "videoId", videoID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to create share link"})
		return
	}

	respondJSON(ctx, w, http.StatusCreated, map[string]string{
		"share_token": share.Token,
		"share_url":   fmt.Sprintf("%s/video/%s", strings.TrimRight(h.FrontendURL, "/"), share.Token),
	})
}
