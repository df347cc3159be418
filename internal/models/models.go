package models

import "time"

// User represents an account within the ReelVault platform.
type User struct {
	ID          string
	Email       string
	DisplayName string
	Password    string
	Role        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const (
	RoleUser    = "user"
	RoleCompany = "company"
	RoleAdmin   = "admin"
)

// Video is an uploaded video along with its denormalized engagement counters.
type Video struct {
	ID            string
	UploaderID    string
	UploaderEmail string
	Title         string
	Description   string
	Category      string
	Visibility    string
	VideoURL      string
	ThumbnailURL  string
	Duration      string
	Views         int64
	Likes         int64
	UploadDate    time.Time
	ViewLimit     int64
	AutoPrivate   bool
	AssetSize     int64
}

const (
	VisibilityPublic   = "public"
	VisibilityPrivate  = "private"
	VisibilityUnlisted = "unlisted"
)

// VideoShare is a tokenized link granting access to a video.
type VideoShare struct {
	Token       string
	VideoID     string
	CreatedBy   string
	Active      bool
	AccessCount int64
	CreatedAt   time.Time
}

// VideoView records a single playback of a video. ViewerID is empty for
// anonymous views.
type VideoView struct {
	ID       string
	VideoID  string
	ViewerID string
	ViewedAt time.Time
}

// VideoLike records a user liking a video. At most one row per (video, user).
type VideoLike struct {
	VideoID string
	UserID  string
	LikedAt time.Time
}

// ViewerProfile stores onboarding answers and the points balance for a user.
type ViewerProfile struct {
	UserID              string
	Birthday            *time.Time
	Gender              string
	Country             string
	City                string
	EducationLevel      string
	Occupation          string
	ContentPreferences  []string
	Points              int64
	PointsEarned        int64
	PointsRedeemed      int64
	OnboardingCompleted bool
	UpdatedAt           time.Time
}

// WebcamRecording tracks a viewer-side recording tied to a video.
type WebcamRecording struct {
	ID                string
	VideoID           string
	RecorderID        string
	Filename          string
	Status            string
	RecordingURL      string
	Size              int64
	RecordingDate     time.Time
	UploadCompletedAt *time.Time
}

const (
	RecordingStatusPending   = "pending"
	RecordingStatusCompleted = "completed"
	RecordingStatusFailed    = "failed"
)

// SessionTokens groups the bearer credentials issued to authenticated users.
type SessionTokens struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}
