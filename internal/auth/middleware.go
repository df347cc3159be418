package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/reelvault/backend/internal/logging"
	"github.com/reelvault/backend/internal/models"
)

// TokenAuthenticator resolves bearer access tokens to user identifiers.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, accessToken string) (string, error)
}

// UserLoader fetches the account for an authenticated session.
type UserLoader interface {
	FindByID(ctx context.Context, id string) (models.User, error)
}

// Gate guards routes that require an authenticated user. Unauthenticated
// requests receive the configured login route along with the originating
// location so the client can redirect back after a successful login.
type Gate struct {
	Sessions  TokenAuthenticator
	Users     UserLoader
	LoginPath string
}

// RequireUser rejects requests without a valid session and injects the
// authenticated user into the request context otherwise.
func (g Gate) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := g.resolve(r)
		if !ok {
			g.denyUnauthenticated(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireAdmin behaves like RequireUser and additionally enforces the admin role.
func (g Gate) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := g.resolve(r)
		if !ok {
			g.denyUnauthenticated(w, r)
			return
		}
		if user.Role != models.RoleAdmin {
			logging.FromContext(r.Context()).Warn("admin route denied", "userId", user.ID, "role", user.Role)
			writeGateJSON(w, http.StatusForbidden, map[string]string{"error": "admin access required"})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// OptionalUser injects the user when a valid session is presented but never
// rejects the request. Used by endpoints with per-record visibility rules.
func (g Gate) OptionalUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := g.resolve(r); ok {
			r = r.WithContext(WithUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

func (g Gate) resolve(r *http.Request) (models.User, bool) {
	if g.Sessions == nil || g.Users == nil {
		return models.User{}, false
	}

	token := bearerToken(r)
	if token == "" {
		return models.User{}, false
	}

	ctx := r.Context()
	userID, err := g.Sessions.Authenticate(ctx, token)
	if err != nil {
		return models.User{}, false
	}

	user, err := g.Users.FindByID(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("session user lookup failed", "userId", userID, "error", err)
		return models.User{}, false
	}

	return user, true
}

func (g Gate) denyUnauthenticated(w http.ResponseWriter, r *http.Request) {
	login := g.LoginPath
	if login == "" {
		login = "/login"
	}

	from := r.URL.Path
	if r.URL.RawQuery != "" {
		from += "?" + r.URL.RawQuery
	}

	writeGateJSON(w, http.StatusUnauthorized, map[string]string{
		"error": "authentication required",
		"login": login,
		"from":  from,
	})
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func writeGateJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
