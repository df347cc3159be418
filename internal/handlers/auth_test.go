package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/reelvault/backend/internal/auth"
	"github.com/reelvault/backend/internal/models"
	"github.com/reelvault/backend/internal/repositories"
)

type inMemoryUserStore struct {
	users map[string]models.User
}

func newInMemoryUserStore() *inMemoryUserStore {
	return &inMemoryUserStore{users: make(map[string]models.User)}
}

func (s *inMemoryUserStore) Create(_ context.Context, user models.User) error {
	if _, exists := s.users[user.Email]; exists {
		return repositories.ErrConflict
	}
	s.users[user.Email] = user
	return nil
}

func (s *inMemoryUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	user, ok := s.users[email]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (s *inMemoryUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *inMemoryUserStore) Search(_ context.Context, query string, limit int) ([]models.User, error) {
	var out []models.User
	for _, user := range s.users {
		out = append(out, user)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *inMemoryUserStore) Promote(_ context.Context, id, role string) error {
	for email, user := range s.users {
		if user.ID == id {
			user.Role = role
			s.users[email] = user
			return nil
		}
	}
	return repositories.ErrNotFound
}

func newTestSessionManager() *auth.Manager {
	return auth.NewManager(time.Minute, time.Hour, auth.NewInMemorySessionStore())
}

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(string) bool { return false }

func TestAuthHandlerSignUp(t *testing.T) {
	store := newInMemoryUserStore()
	handler := AuthHandler{Users: store, Sessions: newTestSessionManager()}

	body, err := json.Marshal(signUpRequest{Email: "test@example.com", DisplayName: "Tester", Password: "supersafe"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.SignUp(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d", http.StatusCreated, rec.Code)
	}

	var resp authResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Fatalf("expected tokens to be issued, got %+v", resp.Tokens)
	}

	if resp.User == nil || resp.User.DisplayName != "Tester" {
		t.Fatalf("expected user payload with display name, got %+v", resp.User)
	}

	stored, err := store.FindByEmail(context.Background(), "test@example.com")
	if err != nil {
		t.Fatalf("expected user to be stored: %v", err)
	}

	if stored.Role != models.RoleUser {
		t.Fatalf("expected default role %q got %q", models.RoleUser, stored.Role)
	}

	if bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("supersafe")) != nil {
		t.Fatal("stored password is not hashed")
	}
}

func TestAuthHandlerSignUpShortPassword(t *testing.T) {
	handler := AuthHandler{Users: newInMemoryUserStore(), Sessions: newTestSessionManager()}

	body, err := json.Marshal(signUpRequest{Email: "short@example.com", Password: "tiny"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.SignUp(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	store := newInMemoryUserStore()
	handler := AuthHandler{Users: store, Sessions: newTestSessionManager()}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	store.users["login@example.com"] = models.User{ID: "user-1", Email: "login@example.com", Password: string(hashed)}

	body, err := json.Marshal(loginRequest{Email: "login@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var resp authResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Fatalf("expected tokens to be issued, got %+v", resp.Tokens)
	}
}

func TestAuthHandlerLoginWrongPassword(t *testing.T) {
	store := newInMemoryUserStore()
	handler := AuthHandler{Users: store, Sessions: newTestSessionManager()}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	store.users["login@example.com"] = models.User{ID: "user-1", Email: "login@example.com", Password: string(hashed)}

	body, err := json.Marshal(loginRequest{Email: "login@example.com", Password: "wrong-password"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestAuthHandlerLoginRateLimited(t *testing.T) {
	handler := AuthHandler{Users: newInMemoryUserStore(), Sessions: newTestSessionManager(), Limiter: denyAllLimiter{}}

	body, err := json.Marshal(loginRequest{Email: "login@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status %d got %d", http.StatusTooManyRequests, rec.Code)
	}
}

func TestAuthHandlerRefresh(t *testing.T) {
	manager := newTestSessionManager()
	tokens, err := manager.Issue(context.Background(), "user-123")
	if err != nil {
		t.Fatalf("issue tokens: %v", err)
	}

	handler := AuthHandler{Sessions: manager}

	body, err := json.Marshal(refreshRequest{RefreshToken: tokens.RefreshToken})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Refresh(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var resp authResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Tokens.RefreshToken == tokens.RefreshToken {
		t.Fatal("expected a new refresh token to be issued")
	}
}

func TestAuthHandlerLogout(t *testing.T) {
	manager := newTestSessionManager()
	tokens, err := manager.Issue(context.Background(), "user-123")
	if err != nil {
		t.Fatalf("issue tokens: %v", err)
	}

	handler := AuthHandler{Sessions: manager}

	body, err := json.Marshal(refreshRequest{RefreshToken: tokens.RefreshToken})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	if _, err := manager.Refresh(context.Background(), tokens.RefreshToken); err == nil {
		t.Fatal("expected revoked refresh token to be rejected")
	}
}

func TestAuthHandlerPasswordReset(t *testing.T) {
	handler := AuthHandler{Users: newInMemoryUserStore(), Sessions: newTestSessionManager()}

	body, err := json.Marshal(passwordResetRequest{Email: "nobody@example.com"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/password-reset", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.RequestPasswordReset(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status %d got %d", http.StatusAccepted, rec.Code)
	}
}
