package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domainauth "github.com/target/marketplace-ui/internal/domain/auth"
)

// DefaultAuthStateTimeout bounds session lookups made while serving a page.
const DefaultAuthStateTimeout = 2 * time.Second

// SessionResolver is the part of AuthService the state provider needs.
type SessionResolver interface {
	Ready() bool
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
}

// AuthStateProviderOptions groups dependencies for AuthStateProvider.
type AuthStateProviderOptions struct {
	Sessions SessionResolver // Required
	Timeout  time.Duration   // Optional: DefaultAuthStateTimeout when zero
	Logger   *slog.Logger    // Optional
}

// AuthStateProvider turns a session cookie value into the AuthState guards evaluate.
type AuthStateProvider struct {
	sessions SessionResolver
	timeout  time.Duration
	logger   *slog.Logger
}

// NewAuthStateProvider constructs an AuthStateProvider.
func NewAuthStateProvider(opts AuthStateProviderOptions) *AuthStateProvider {
	if opts.Sessions == nil {
		panic("NewAuthStateProvider: Sessions is required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultAuthStateTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthStateProvider{
		sessions: opts.Sessions,
		timeout:  timeout,
		logger:   logger.With("component", "auth_state"),
	}
}

// State resolves the auth state for sessionID.
//
// It is loading while the identity provider is not attached. Once settled it
// never reports loading again for the same request: a missing, expired, or
// unreadable session, and a lookup that runs past the timeout, all settle to
// the anonymous state.
func (p *AuthStateProvider) State(ctx context.Context, sessionID string) domainauth.AuthState {
	if !p.sessions.Ready() {
		return domainauth.LoadingState()
	}
	if sessionID == "" {
		return domainauth.AnonymousState()
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	sess, err := p.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			p.logger.WarnContext(ctx, "session lookup timed out", "timeout", p.timeout)
		} else {
			p.logger.DebugContext(ctx, "no usable session", "error", err)
		}
		return domainauth.AnonymousState()
	}
	return domainauth.SignedIn(sess.User)
}
