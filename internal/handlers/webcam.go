package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reelvault/backend/internal/auth"
	"github.com/reelvault/backend/internal/logging"
	"github.com/reelvault/backend/internal/models"
	"github.com/reelvault/backend/internal/repositories"
)

// WebcamHandler accepts viewer webcam recordings captured while watching a
// video. The handler registers the recording, hands back a presigned upload
// URL, and queues a background check that confirms the bytes landed.
type WebcamHandler struct {
	Videos   VideoStore
	Webcams  WebcamStore
	Profiles ProfileStore
	Storage  UploadSigner
	Ingest   WebcamQueue
	Points   int64
}

type webcamUploadRequest struct {
	Filename      string `json:"filename"`
	RecordingDate string `json:"recording_date"`
}

// Upload handles POST /api/v1/videos/{id}/webcam requests.
func (h WebcamHandler) Upload(w http.ResponseWriter, r *http.Request) {
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

	if h.Videos == nil || h.Webcams == nil || h.Storage == nil {
		logger.Error("webcam dependencies unavailable",
			"hasVideos", h.Videos != nil, "hasWebcams", h.Webcams != nil, "hasStorage", h.Storage != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "recording service unavailable"})
		return
	}

	videoID := strings.TrimSpace(r.PathValue("id"))
	if videoID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "video id is required"})
		return
	}

	var req webcamUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid webcam payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.Filename = strings.TrimSpace(req.Filename)
	if req.Filename == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "filename is required"})
		return
	}

	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "video not found"})
			return
		}
		logger.Error("failed to load video for recording", "error", err, "videoId", videoID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to register recording"})
		return
	}

	recordedAt := time.Now().UTC()
	if req.RecordingDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.RecordingDate)
		if err != nil {
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "recording_date must be RFC 3339"})
			return
		}
		recordedAt = parsed.UTC()
	}

	recording := models.WebcamRecording{
		ID:            uuid.NewString(),
		VideoID:       videoID,
		RecorderID:    user.ID,
		Filename:      req.Filename,
		Status:        models.RecordingStatusPending,
		RecordingDate: recordedAt,
	}

	key := h.Storage.WebcamKey(recording.ID, req.Filename)
	recording.RecordingURL = h.Storage.PublicURL(key)

	if err := h.Webcams.Create(ctx, recording); err != nil {
		logger.Error("failed to register recording", "error", err, "videoId", videoID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to register recording"})
		return
	}

	if h.Ingest != nil {
		if err := h.Ingest.Enqueue(ctx, recording.ID, key); err != nil {
			logger.Warn("failed to queue recording check", "error", err, "recordingId", recording.ID)
		}
	}

	balance := int64(0)
	if h.Profiles != nil && h.Points > 0 {
		total, err := h.Profiles.AwardPoints(ctx, user.ID, h.Points)
		if err != nil {
			logger.Warn("failed to award recording points", "error", err, "userId", user.ID)
		} else {
			balance = total
		}
	}

	resp := map[string]any{
		"recording_id":   recording.ID,
		"status":         recording.Status,
		"recording_url":  recording.RecordingURL,
		"points_awarded": h.Points,
		"points_balance": balance,
	}

	// Presign failures still leave the recording registered. The pending
	// row surfaces in the admin listing either way.
	uploadURL, err := h.Storage.PresignUpload(ctx, key)
	if err != nil {
		logger.Error("failed to presign recording upload", "error", err, "recordingId", recording.ID)
	} else {
		resp["upload_url"] = uploadURL
	}

	respondJSON(ctx, w, http.StatusCreated, resp)
}
