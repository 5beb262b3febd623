package auth

// Package auth contains domain-level types for authentication, sessions, and the
// per-request auth state consumed by route guards.
// It is pure and free of framework/adapter concerns.

import (
	"bytes"
	"encoding/json"
	"time"
)

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID    string // stable user identifier (e.g., sub)
	FirstName string
	LastName  string
	Email     string
	Groups    []string
	Claims    map[string]any // raw ID token claims, when the provider has them
	ExpiresAt time.Time      // absolute expiry from IdP token
}

// SellerFlag is a boolean that decodes leniently.
// Anything other than a JSON true (missing, null, strings, numbers) decodes as false.
type SellerFlag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *SellerFlag) UnmarshalJSON(data []byte) error {
	*f = SellerFlag(bytes.Equal(bytes.TrimSpace(data), []byte("true")))
	return nil
}

// User is the marketplace account as seen by route guards.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	IsSeller  SellerFlag `json:"is_seller"`
}

// Seller reports whether the user sells on the marketplace.
func (u *User) Seller() bool {
	return u != nil && bool(u.IsSeller)
}

// DisplayName returns the best human-readable name for the user.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier (e.g., random URL-safe string).
type Session struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool { return now.After(s.ExpiresAt) }

// AuthState is the snapshot a guard evaluates: who is signed in, and whether
// that is still being worked out.
type AuthState struct {
	User    *User
	Loading bool
}

// LoadingState is the state observed before the auth provider is ready.
func LoadingState() AuthState { return AuthState{Loading: true} }

// AnonymousState is the settled state with nobody signed in.
func AnonymousState() AuthState { return AuthState{} }

// SignedIn returns the settled state for u.
func SignedIn(u User) AuthState { return AuthState{User: &u} }

// Authenticated reports whether a user is present.
func (s AuthState) Authenticated() bool { return s.User != nil }

var _ json.Unmarshaler = (*SellerFlag)(nil)
