package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/reelvault/backend/internal/models"
	"github.com/reelvault/backend/internal/repositories"
)

func TestAdminHandlerSearchUsers(t *testing.T) {
	store := newInMemoryUserStore()
	store.users["found@example.com"] = models.User{ID: "u1", Email: "found@example.com", Role: models.RoleUser}

	handler := AdminHandler{Users: store}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users/search?q=found", nil)
	rec := httptest.NewRecorder()

	handler.SearchUsers(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var resp struct {
		Users []userResponse `json:"users"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Users) != 1 || resp.Users[0].Email != "found@example.com" {
		t.Fatalf("unexpected search payload %+v", resp.Users)
	}
}

func TestAdminHandlerSearchUsersMissingQuery(t *testing.T) {
	handler := AdminHandler{Users: newInMemoryUserStore()}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users/search", nil)
	rec := httptest.NewRecorder()

	handler.SearchUsers(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestAdminHandlerPromoteUser(t *testing.T) {
	store := newInMemoryUserStore()
	store.users["promotee@example.com"] = models.User{ID: "u1", Email: "promotee@example.com", Role: models.RoleUser}

	handler := AdminHandler{Users: store}

	body, err := json.Marshal(promoteRequest{UserID: "u1", Role: models.RoleCompany})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/users/promote", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.PromoteUser(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	promoted, err := store.FindByID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("find promoted user: %v", err)
	}
	if promoted.Role != models.RoleCompany {
		t.Fatalf("expected role %q got %q", models.RoleCompany, promoted.Role)
	}
}

func TestAdminHandlerPromoteUserInvalidRole(t *testing.T) {
	handler := AdminHandler{Users: newInMemoryUserStore()}

	body, err := json.Marshal(promoteRequest{UserID: "u1", Role: "superuser"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/users/promote", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.PromoteUser(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestAdminHandlerVideoStats(t *testing.T) {
	store := newVideoStoreStub()
	store.stats = repositories.VideoStats{TotalVideos: 3, TotalViews: 42, PublicVideos: 2, PrivateVideos: 1}

	handler := AdminHandler{Videos: store}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/videos/stats", nil)
	rec := httptest.NewRecorder()

	handler.VideoStats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var resp repositories.VideoStats
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalVideos != 3 || resp.TotalViews != 42 {
		t.Fatalf("unexpected stats %+v", resp)
	}
}

func TestAdminHandlerVideoPatch(t *testing.T) {
	store := newVideoStoreStub()
	store.byID["v1"] = models.Video{ID: "v1", Title: "Old", Visibility: models.VisibilityPublic, UploadDate: time.Now()}

	handler := AdminHandler{Videos: store}

	body := []byte(`{"title":"New Title","visibility":"private","view_limit":10}`)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/videos/v1", bytes.NewReader(body))
	req.SetPathValue("id", "v1")
	rec := httptest.NewRecorder()

	handler.Video(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	if len(store.updated) != 1 {
		t.Fatalf("expected one update, got %d", len(store.updated))
	}
	updated := store.updated[0]
	if updated.Title != "New Title" || updated.Visibility != models.VisibilityPrivate || updated.ViewLimit != 10 {
		t.Fatalf("unexpected update %+v", updated)
	}
}

func TestAdminHandlerVideoDelete(t *testing.T) {
	store := newVideoStoreStub()
	store.byID["v1"] = models.Video{ID: "v1"}

	handler := AdminHandler{Videos: store}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/videos/v1", nil)
	req.SetPathValue("id", "v1")
	rec := httptest.NewRecorder()

	handler.Video(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "v1" {
		t.Fatalf("expected v1 to be deleted, got %v", store.deleted)
	}
}

func TestAdminHandlerVideoNotFound(t *testing.T) {
	handler := AdminHandler{Videos: newVideoStoreStub()}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/videos/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()

	handler.Video(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}

func TestAdminHandlerWebcamRecordings(t *testing.T) {
	completedAt := time.Now().UTC()
	store := &webcamStoreStub{recordings: []models.WebcamRecording{
		{ID: "r1", VideoID: "v1", Status: models.RecordingStatusPending, RecordingDate: time.Now()},
		{ID: "r2", VideoID: "v1", Status: models.RecordingStatusCompleted, RecordingDate: time.Now(), UploadCompletedAt: &completedAt},
	}}

	handler := AdminHandler{Webcams: store}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/webcam-recordings?status=completed", nil)
	rec := httptest.NewRecorder()

	handler.WebcamRecordings(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var resp struct {
		Recordings []recordingResponse `json:"recordings"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Recordings) != 1 || resp.Recordings[0].ID != "r2" {
		t.Fatalf("unexpected recordings %+v", resp.Recordings)
	}
	if resp.Recordings[0].CompletedAt == "" {
		t.Fatal("expected completion timestamp")
	}
}

func TestAdminHandlerWebcamRecordingsInvalidStatus(t *testing.T) {
	handler := AdminHandler{Webcams: &webcamStoreStub{}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/webcam-recordings?status=bogus", nil)
	rec := httptest.NewRecorder()

	handler.WebcamRecordings(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}
