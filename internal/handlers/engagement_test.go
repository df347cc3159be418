package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/reelvault/backend/internal/auth"
	"github.com/reelvault/backend/internal/models"
)

type engagementStoreStub struct {
	views       int64
	madePrivate bool
	viewErr     error
	viewer      string

	liked   bool
	likes   int64
	likeErr error

	history    []models.Video
	historyErr error
}

func (s *engagementStoreStub) RecordView(_ context.Context, videoID, viewerID string) (int64, bool, error) {
	_ = videoID
	s.viewer = viewerID
	if s.viewErr != nil {
		return 0, false, s.viewErr
	}
	return s.views, s.madePrivate, nil
}

func (s *engagementStoreStub) ToggleLike(_ context.Context, videoID, userID string) (bool, int64, error) {
	_, _ = videoID, userID
	if s.likeErr != nil {
		return false, 0, s.likeErr
	}
	return s.liked, s.likes, nil
}

func (s *engagementStoreStub) History(_ context.Context, userID string, limit int) ([]models.Video, error) {
	_, _ = userID, limit
	if s.historyErr != nil {
		return nil, s.historyErr
	}
	return s.history, nil
}

func TestEngagementHandlerRecordViewAnonymous(t *testing.T) {
	videos := newVideoStoreStub()
	videos.byID["v1"] = models.Video{ID: "v1", UploaderID: "owner", Visibility: models.VisibilityPublic}
	store := &engagementStoreStub{views: 6, viewer: "sentinel"}
	handler := EngagementHandler{Videos: videos, Engagement: store}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/v1/view", nil)
	req.SetPathValue("id", "v1")
	rec := httptest.NewRecorder()

	handler.RecordView(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	if store.viewer != "" {
		t.Fatalf("expected anonymous viewer, got %q", store.viewer)
	}

	var resp struct {
		Views       int64 `json:"views"`
		MadePrivate bool  `json:"made_private"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Views != 6 {
		t.Fatalf("expected 6 views, got %d", resp.Views)
	}
}

func TestEngagementHandlerRecordViewHitsLimit(t *testing.T) {
	videos := newVideoStoreStub()
	videos.byID["v1"] = models.Video{ID: "v1", UploaderID: "owner", Visibility: models.VisibilityPublic}
	store := &engagementStoreStub{views: 10, madePrivate: true}
	handler := EngagementHandler{Videos: videos, Engagement: store}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/v1/view", nil)
	req.SetPathValue("id", "v1")
	req = req.WithContext(auth.WithUser(req.Context(), models.User{ID: "viewer-1"}))
	rec := httptest.NewRecorder()

	handler.RecordView(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	if store.viewer != "viewer-1" {
		t.Fatalf("expected viewer id to be recorded, got %q", store.viewer)
	}

	var resp struct {
		MadePrivate bool `json:"made_private"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.MadePrivate {
		t.Fatal("expected made_private to be reported")
	}
}

func TestEngagementHandlerRecordViewUnknownVideo(t *testing.T) {
	handler := EngagementHandler{Videos: newVideoStoreStub(), Engagement: &engagementStoreStub{}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/missing/view", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()

	handler.RecordView(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}

func TestEngagementHandlerRecordViewPrivateDenied(t *testing.T) {
	videos := newVideoStoreStub()
	videos.byID["v1"] = models.Video{ID: "v1", UploaderID: "owner", Visibility: models.VisibilityPrivate}
	store := &engagementStoreStub{}
	handler := EngagementHandler{Videos: videos, Engagement: store}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/v1/view", nil)
	req.SetPathValue("id", "v1")
	rec := httptest.NewRecorder()

	handler.RecordView(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d got %d", http.StatusForbidden, rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["error"] != "Video is private" {
		t.Fatalf("unexpected error message %q", resp["error"])
	}
	if store.viewer != "" {
		t.Fatal("expected no view to be recorded")
	}
}

func TestEngagementHandlerRecordViewPrivateOwnerAllowed(t *testing.T) {
	videos := newVideoStoreStub()
	videos.byID["v1"] = models.Video{ID: "v1", UploaderID: "owner", Visibility: models.VisibilityPrivate}
	store := &engagementStoreStub{views: 2}
	handler := EngagementHandler{Videos: videos, Engagement: store}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/v1/view", nil)
	req.SetPathValue("id", "v1")
	req = req.WithContext(auth.WithUser(req.Context(), models.User{ID: "owner"}))
	rec := httptest.NewRecorder()

	handler.RecordView(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
	if store.viewer != "owner" {
		t.Fatalf("expected owner view to be recorded, got %q", store.viewer)
	}
}

func TestEngagementHandlerToggleLike(t *testing.T) {
	store := &engagementStoreStub{liked: true, likes: 4}
	handler := EngagementHandler{Engagement: store}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/v1/like", nil)
	req.SetPathValue("id", "v1")
	req = req.WithContext(auth.WithUser(req.Context(), models.User{ID: "viewer-1"}))
	rec := httptest.NewRecorder()

	handler.ToggleLike(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var resp struct {
		Liked bool  `json:"liked"`
		Likes int64 `json:"likes"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Liked || resp.Likes != 4 {
		t.Fatalf("unexpected like payload %+v", resp)
	}
}

func TestEngagementHandlerToggleLikeRequiresUser(t *testing.T) {
	handler := EngagementHandler{Engagement: &engagementStoreStub{}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/v1/like", nil)
	req.SetPathValue("id", "v1")
	rec := httptest.NewRecorder()

	handler.ToggleLike(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestEngagementHandlerCreateShare(t *testing.T) {
	store := newVideoStoreStub()
	store.byID["v1"] = models.Video{ID: "v1", UploaderID: "owner", UploadDate: time.Now()}
	shares := newShareStoreStub()

	handler := EngagementHandler{Videos: store, Shares: shares, FrontendURL: "https://reelvault.test"}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/v1/share", nil)
	req.SetPathValue("id", "v1")
	req = req.WithContext(auth.WithUser(req.Context(), models.User{ID: "owner"}))
	rec := httptest.NewRecorder()

	handler.CreateShare(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d", http.StatusCreated, rec.Code)
	}

	if len(shares.created) != 1 {
		t.Fatalf("expected one share, got %d", len(shares.created))
	}
	if !shares.created[0].Active {
		t.Fatal("expected share to be active")
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["share_token"] == "" {
		t.Fatal("expected share token in response")
	}
	want := "https://reelvault.test/video/" + resp["share_token"]
	if resp["share_url"] != want {
		t.Fatalf("expected share url %q got %q", want, resp["share_url"])
	}
}

func TestEngagementHandlerCreateShareNotOwner(t *testing.T) {
	store := newVideoStoreStub()
	store.byID["v1"] = models.Video{ID: "v1", UploaderID: "owner"}

	handler := EngagementHandler{Videos: store, Shares: newShareStoreStub()}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/v1/share", nil)
	req.SetPathValue("id", "v1")
	req = req.WithContext(auth.WithUser(req.Context(), models.User{ID: "someone-else"}))
	rec := httptest.NewRecorder()

	handler.CreateShare(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d got %d", http.StatusForbidden, rec.Code)
	}
}
