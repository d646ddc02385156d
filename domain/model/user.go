package model

import (
	"fmt"

	"github.com/golang-jwt/jwt"
)

// User is the read-only projection of an identity-service session owner.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// DefaultAvatarURL is assigned to freshly created profiles.
const DefaultAvatarURL = "https://i.pinimg.com/736x/6f/04/e9/6f04e9400b0fc761fb6a83a1f1443d30.jpg"

// Profile holds the display metadata stored in the remote profiles table.
// It is cached in memory only; the row itself lives with the identity service.
type Profile struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// Session is the token bundle issued by the identity service.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// AuthEventType enumerates the identity-service push notifications.
type AuthEventType string

const (
	AuthSignedIn       AuthEventType = "SIGNED_IN"
	AuthSignedOut      AuthEventType = "SIGNED_OUT"
	AuthTokenRefreshed AuthEventType = "TOKEN_REFRESHED"
)

// AuthEvent is one session-change notification.
type AuthEvent struct {
	Type    AuthEventType `json:"type"`
	Session *Session      `json:"session,omitempty"`
}

// UserClaims are the claims carried by an identity-service access token.
type UserClaims struct {
	jwt.StandardClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// ListKind names one of the per-user persisted lists.
type ListKind string

const (
	ListWatchHistory ListKind = "watchHistory"
	ListWatchLater   ListKind = "watchLater"
	ListLikedVideos  ListKind = "likedVideos"
)

// WatchHistoryCap bounds the watch history list, most-recent-first.
const WatchHistoryCap = 50

// StorageKey is the composite key a per-user list is stored under.
// Keys are strictly partitioned by user id; an empty user id is invalid.
type StorageKey struct {
	UserID string
	Kind   ListKind
}

func (k StorageKey) String() string {
	return fmt.Sprintf("%s_%s", k.Kind, k.UserID)
}

// Valid reports whether the key addresses a real user list.
func (k StorageKey) Valid() bool {
	return k.UserID != "" && (k.Kind == ListWatchHistory || k.Kind == ListWatchLater || k.Kind == ListLikedVideos)
}
