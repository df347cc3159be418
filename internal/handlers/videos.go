package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reelvault/backend/internal/auth"
	"github.com/reelvault/backend/internal/dashboard"
	"github.com/reelvault/backend/internal/logging"
	"github.com/reelvault/backend/internal/models"
	"github.com/reelvault/backend/internal/repositories"
)

// VideoHandler implements the public feed and video CRUD endpoints.
type VideoHandler struct {
	Videos      VideoStore
	Shares      ShareStore
	Storage     UploadSigner
	Metadata    MetadataProvider
	FeedLimit   int
	FrontendURL string
}

type videoResponse struct {
	ID            string `json:"id"`
	UploaderEmail string `json:"uploader_email"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Category      string `json:"category,omitempty"`
	Visibility    string `json:"visibility"`
	VideoURL      string `json:"video_url"`
	ThumbnailURL  string `json:"thumbnail_url,omitempty"`
	Duration      string `json:"duration,omitempty"`
	Views         int64  `json:"views"`
	Likes         int64  `json:"likes"`
	UploadDate    string `json:"upload_date"`
	Uploaded      string `json:"uploaded"`
	ShareURL      string `json:"share_url,omitempty"`
}

func toVideoResponse(video models.Video, now time.Time) videoResponse {
	resp := videoResponse{
		ID:            video.ID,
		UploaderEmail: video.UploaderEmail,
		Title:         video.Title,
		Description:   video.Description,
		Category:      video.Category,
		Visibility:    video.Visibility,
		VideoURL:      video.VideoURL,
		ThumbnailURL:  video.ThumbnailURL,
		Duration:      video.Duration,
		Views:         video.Views,
		Likes:         video.Likes,
	}
	if !video.UploadDate.IsZero() {
		resp.UploadDate = video.UploadDate.UTC().Format(time.RFC3339)
		resp.Uploaded = dashboard.RelativeTime(video.UploadDate, now)
	}
	return resp
}

// Feed handles GET /api/v1/videos/feed requests. The feed is public and
// contains only videos with public visibility.
func (h VideoHandler) Feed(w http.ResponseWriter, r *http.Request) {
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

	limit := h.FeedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		if parsed < limit || limit <= 0 {
			limit = parsed
		}
	}

	feed, err := h.Videos.ListFeed(ctx, limit)
	if err != nil {
		logger.Error("failed to load feed", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to load feed"})
		return
	}

	now := time.Now().UTC()
	items := make([]videoResponse, 0, len(feed))
	for _, video := range feed {
		items = append(items, toVideoResponse(video, now))
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"videos": items})
}

// Detail handles GET /api/v1/videos/{identifier} requests. The identifier is
// either a video id or an active share token. Private videos resolve only for
// their uploader, admins, or holders of a share token.
func (h VideoHandler) Detail(w http.ResponseWriter, r *http.Request) {
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

	identifier := strings.TrimSpace(r.PathValue("identifier"))
	if identifier == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "video identifier is required"})
		return
	}

	video, viaShare, err := h.resolve(ctx, identifier)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "video not found"})
			return
		}
		logger.Error("failed to load video", "error", err, "identifier", identifier)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to load video"})
		return
	}

	if video.Visibility == models.VisibilityPrivate && !viaShare {
		user, ok := auth.UserFromContext(ctx)
		owner := ok && (user.ID == video.UploaderID || user.Role == models.RoleAdmin)
		if !owner {
			if video.AutoPrivate {
				respondJSON(ctx, w, http.StatusForbidden, map[string]string{"error": "This video is no longer available"})
				return
			}
			respondJSON(ctx, w, http.StatusForbidden, map[string]string{"error": "Video is private"})
			return
		}
	}

	video = h.fillMetadata(ctx, video)

	respondJSON(ctx, w, http.StatusOK, toVideoResponse(video, time.Now().UTC()))
}

// fillMetadata lazily resolves the asset duration the first time a video is
// served. The probe sits behind a TTL cache, and a successful result is
// written back so later requests skip the probe entirely.
func (h VideoHandler) fillMetadata(ctx context.Context, video models.Video) models.Video {
	if h.Metadata == nil || video.Duration != "" || video.VideoURL == "" {
		return video
	}

	meta, err := h.Metadata.Lookup(ctx, video.VideoURL)
	if err != nil {
		logging.FromContext(ctx).Warn("failed to probe video metadata", "videoId", video.ID, "error", err)
		return video
	}

	video.Duration = meta.Duration
	if video.AssetSize == 0 {
		video.AssetSize = meta.Size
	}

	if err := h.Videos.Update(ctx, video); err != nil {
		logging.FromContext(ctx).Warn("failed to persist video metadata", "videoId", video.ID, "error", err)
	}

	return video
}

// resolve looks up the identifier as a video id first and falls back to
// treating it as a share token. Share resolution bumps the access counter.
func (h VideoHandler) resolve(ctx context.Context, identifier string) (models.Video, bool, error) {
	video, err := h.Videos.FindByID(ctx, identifier)
	if err == nil {
		return video, false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) || h.Shares == nil {
		return models.Video{}, false, err
	}

	share, err := h.Shares.FindActiveByToken(ctx, identifier)
	if err != nil {
		return models.Video{}, false, err
	}

	video, err = h.Videos.FindByID(ctx, share.VideoID)
	if err != nil {
		return models.Video{}, false, err
	}

	if err := h.Shares.IncrementAccess(ctx, share.Token); err != nil {
		logging.FromContext(ctx).Warn("failed to count share access", "token", share.Token, "error", err)
	}

	return video, true, nil
}

type createVideoRequest struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	Category          string `json:"category"`
	Visibility        string `json:"visibility"`
	Filename          string `json:"filename"`
	ThumbnailFilename string `json:"thumbnail_filename"`
	ViewLimit         int64  `json:"view_limit"`
	AutoPrivate       bool   `json:"auto_private"`
}

type createVideoResponse struct {
	Video              videoResponse `json:"video"`
	UploadURL          string        `json:"upload_url,omitempty"`
	ThumbnailUploadURL string        `json:"thumbnail_upload_url,omitempty"`
}

// Create handles POST /api/v1/videos requests. The metadata row is written
// immediately and the response carries presigned URLs the client uses to push
// the asset bytes directly to object storage.
func (h VideoHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	if h.Videos == nil || h.Storage == nil {
		logger.Error("video dependencies unavailable", "hasVideos", h.Videos != nil, "hasStorage", h.Storage != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "video service unavailable"})
		return
	}

	var req createVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid video payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Filename = strings.TrimSpace(req.Filename)
	if req.Title == "" || req.Filename == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "title and filename are required"})
		return
	}

	visibility := req.Visibility
	switch visibility {
	case "":
		visibility = models.VisibilityPublic
	case models.VisibilityPublic, models.VisibilityPrivate, models.VisibilityUnlisted:
	default:
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "visibility must be public, private, or unlisted"})
		return
	}

	if req.ViewLimit < 0 {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "view_limit must not be negative"})
		return
	}

	video := models.Video{
		ID:            uuid.NewString(),
		UploaderID:    user.ID,
		UploaderEmail: user.Email,
		Title:         req.Title,
		Description:   strings.TrimSpace(req.Description),
		Category:      strings.TrimSpace(req.Category),
		Visibility:    visibility,
		Views:         0,
		Likes:         0,
		UploadDate:    time.Now().UTC(),
		ViewLimit:     req.ViewLimit,
		AutoPrivate:   req.AutoPrivate,
	}

	videoKey := h.Storage.VideoKey(video.ID, req.Filename)
	video.VideoURL = h.Storage.PublicURL(videoKey)

	var thumbnailKey string
	if name := strings.TrimSpace(req.ThumbnailFilename); name != "" {
		thumbnailKey = h.Storage.ThumbnailKey(video.ID, name)
		video.ThumbnailURL = h.Storage.PublicURL(thumbnailKey)
	}

	if err := h.Videos.Create(ctx, video); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			respondJSON(ctx, w, http.StatusConflict, map[string]string{"error": "video already exists"})
			return
		}
		logger.Error("failed to create video", "error", err, "videoId", video.ID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to create video"})
		return
	}

	resp := createVideoResponse{Video: toVideoResponse(video, time.Now().UTC())}

	// A failed presign still yields a created video. The client can retry
	// the upload through a fresh metadata fetch.
	uploadURL, err := h.Storage.PresignUpload(ctx, videoKey)
	if err != nil {
		logger.Error("failed to presign video upload", "error", err, "videoId", video.ID)
	} else {
		resp.UploadURL = uploadURL
	}

	if thumbnailKey != "" {
		thumbURL, err := h.Storage.PresignUpload(ctx, thumbnailKey)
		if err != nil {
			logger.Error("failed to presign thumbnail upload", "error", err, "videoId", video.ID)
		} else {
			resp.ThumbnailUploadURL = thumbURL
		}
	}

	respondJSON(ctx, w, http.StatusCreated, resp)
}
