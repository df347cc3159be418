package handlers

import (
	"net/http"

	"github.com/reelvault/backend/internal/auth"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users      UserStore
	Sessions   SessionManager
	Videos     VideoStore
	Engagement EngagementStore
	Shares     ShareStore
	Profiles   ProfileStore
	Webcams    WebcamStore
	Dashboard  StatsProvider
	Storage    UploadSigner
	Ingest     WebcamQueue
	Metadata   MetadataProvider

	Gate        auth.Gate
	AuthLimiter RateLimiter

	FrontendURL          string
	FeedLimit            int
	WebcamUploadPoints   int64
	PointsConversionRate float64
}

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	authh := AuthHandler{Users: deps.Users, Sessions: deps.Sessions, Limiter: deps.AuthLimiter}
	videos := VideoHandler{
		Videos:      deps.Videos,
		Shares:      deps.Shares,
		Storage:     deps.Storage,
		Metadata:    deps.Metadata,
		FeedLimit:   deps.FeedLimit,
		FrontendURL: deps.FrontendURL,
	}
	engagement := EngagementHandler{
		Videos:      deps.Videos,
		Engagement:  deps.Engagement,
		Shares:      deps.Shares,
		FrontendURL: deps.FrontendURL,
	}
	webcams := WebcamHandler{
		Videos:   deps.Videos,
		Webcams:  deps.Webcams,
		Profiles: deps.Profiles,
		Storage:  deps.Storage,
		Ingest:   deps.Ingest,
		Points:   deps.WebcamUploadPoints,
	}
	dash := DashboardHandler{Stats: deps.Dashboard}
	users := UserHandler{
		Engagement:     deps.Engagement,
		Profiles:       deps.Profiles,
		ConversionRate: deps.PointsConversionRate,
	}
	admin := AdminHandler{Users: deps.Users, Videos: deps.Videos, Webcams: deps.Webcams}

	gate := deps.Gate

	mux.HandleFunc("/healthz", health.Handle)

	mux.HandleFunc("/api/v1/auth/login", authh.Login)
	mux.HandleFunc("/api/v1/auth/signup", authh.SignUp)
	mux.HandleFunc("/api/v1/auth/refresh", authh.Refresh)
	mux.HandleFunc("/api/v1/auth/logout", authh.Logout)
	mux.HandleFunc("/api/v1/auth/password-reset", authh.RequestPasswordReset)

	mux.HandleFunc("/api/v1/videos/feed", videos.Feed)
	mux.Handle("/api/v1/videos/{identifier}", gate.OptionalUser(http.HandlerFunc(videos.Detail)))
	mux.Handle("/api/v1/videos/{id}/view", gate.OptionalUser(http.HandlerFunc(engagement.RecordView)))

	mux.Handle("/api/v1/videos", gate.RequireUser(http.HandlerFunc(videos.Create)))
	mux.Handle("/api/v1/videos/{id}/like", gate.RequireUser(http.HandlerFunc(engagement.ToggleLike)))
	mux.Handle("/api/v1/videos/{id}/share", gate.RequireUser(http.HandlerFunc(engagement.CreateShare)))
	mux.Handle("/api/v1/videos/{id}/webcam", gate.RequireUser(http.HandlerFunc(webcams.Upload)))
	mux.Handle("/api/v1/dashboard/stats", gate.RequireUser(http.HandlerFunc(dash.Handle)))
	mux.Handle("/api/v1/users/history", gate.RequireUser(http.HandlerFunc(users.History)))
	mux.Handle("/api/v1/users/points", gate.RequireUser(http.HandlerFunc(users.Points)))
	mux.Handle("/api/v1/users/onboarding", gate.RequireUser(http.HandlerFunc(users.Onboarding)))

	mux.Handle("/api/v1/admin/users/search", gate.RequireAdmin(http.HandlerFunc(admin.SearchUsers)))
	mux.Handle("/api/v1/admin/users/promote", gate.RequireAdmin(http.HandlerFunc(admin.PromoteUser)))
	mux.Handle("/api/v1/admin/videos", gate.RequireAdmin(http.HandlerFunc(admin.ListVideos)))
	mux.Handle("/api/v1/admin/videos/stats", gate.RequireAdmin(http.HandlerFunc(admin.VideoStats)))
	mux.Handle("/api/v1/admin/videos/{id}", gate.RequireAdmin(http.HandlerFunc(admin.Video)))
	mux.Handle("/api/v1/admin/webcam-recordings", gate.RequireAdmin(http.HandlerFunc(admin.WebcamRecordings)))
}
