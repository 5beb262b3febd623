package ports

// Package ports defines interfaces (hexagonal ports) for auth and profile behavior.
// Implementations live in internal/adapters and internal/data; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/target/marketplace-ui/internal/domain/auth"
	"github.com/target/marketplace-ui/internal/domain/profile"
)

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	RedirectURL string
	// Signup asks the provider to show its registration screen.
	Signup bool
}

// AuthProvider initiates and completes an authentication flow against an IdP.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// AccountTypeMapper decides whether an identity belongs to a seller.
type AccountTypeMapper interface {
	IsSeller(id domainauth.Identity) bool
}

// ProfileRepository persists marketplace profiles.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*profile.Profile, error)
	Upsert(ctx context.Context, p profile.Profile) (*profile.Profile, error)
	SetSeller(ctx context.Context, userID string, isSeller bool) error
}
