package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/target/marketplace-ui/internal/domain/auth"
	"github.com/target/marketplace-ui/internal/domain/profile"
	"github.com/target/marketplace-ui/internal/ports"
)

// DefaultSessionTTL applies when the identity provider reports no expiry.
const DefaultSessionTTL = 8 * time.Hour

// ErrProviderNotReady is returned while no identity provider is attached.
var ErrProviderNotReady = errors.New("identity provider not ready")

var errSessionExpired = errors.New("session expired")

// LoginProfileSync makes sure a profile exists for a freshly signed-in user.
type LoginProfileSync interface {
	EnsureForSession(ctx context.Context, sess domainauth.Session) (*profile.Profile, error)
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider // Optional: attach later with AttachProvider
	Sessions ports.SessionStore // Required
	Login    LoginOptions
}

// LoginOptions groups the collaborators consulted when a login completes.
type LoginOptions struct {
	Accounts ports.AccountTypeMapper // Optional: nobody is a seller when nil
	Profiles LoginProfileSync        // Optional
	Logger   *slog.Logger            // Optional
}

type providerHolder struct {
	p ports.AuthProvider
}

// AuthService orchestrates authentication flows by coordinating the identity
// provider, seller classification, and session persistence.
type AuthService struct {
	provider atomic.Pointer[providerHolder]
	sessions ports.SessionStore
	accounts ports.AccountTypeMapper
	profiles LoginProfileSync
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Sessions == nil {
		panic("NewAuthService: Sessions is required")
	}
	logger := opts.Login.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &AuthService{
		sessions: opts.Sessions,
		accounts: opts.Login.Accounts,
		profiles: opts.Login.Profiles,
		logger:   logger.With("component", "auth_service"),
		now:      time.Now,
	}
	if opts.Provider != nil {
		s.AttachProvider(opts.Provider)
	}
	return s
}

// AttachProvider installs the identity provider. Until it is called the
// service reports not ready and every visitor sees the loading view.
func (s *AuthService) AttachProvider(p ports.AuthProvider) {
	if p == nil {
		return
	}
	s.provider.Store(&providerHolder{p: p})
}

// Ready reports whether an identity provider is attached.
func (s *AuthService) Ready() bool {
	return s.provider.Load() != nil
}

func (s *AuthService) currentProvider() (ports.AuthProvider, error) {
	h := s.provider.Load()
	if h == nil {
		return nil, ErrProviderNotReady
	}
	return h.p, nil
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates a sign-in flow and returns the provider auth URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	return s.begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
}

// BeginSignup is BeginLogin with the provider's registration screen.
func (s *AuthService) BeginSignup(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	return s.begin(ctx, ports.BeginInput{RedirectURL: redirectURL, Signup: true})
}

func (s *AuthService) begin(ctx context.Context, in ports.BeginInput) (*BeginLoginResult, error) {
	if in.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	provider, err := s.currentProvider()
	if err != nil {
		return nil, err
	}

	authURL, state, nonce, err := provider.Begin(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}
	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLoginResult contains the result of completing a login flow.
type CompleteLoginResult struct {
	Session domainauth.Session
}

// CompleteLogin exchanges the code for an identity, classifies the account,
// syncs the profile, and persists a new session.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	switch {
	case input.Code == "":
		return nil, errors.New("authorization code is required")
	case input.State == "":
		return nil, errors.New("state parameter is required")
	case input.Nonce == "":
		return nil, errors.New("nonce parameter is required")
	}
	provider, err := s.currentProvider()
	if err != nil {
		return nil, err
	}

	identity, err := provider.Exchange(ctx, ports.ExchangeInput(input))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	if identity.UserID == "" {
		return nil, errors.New("identity provider returned no user id")
	}

	expiresAt := identity.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = s.now().Add(DefaultSessionTTL)
	}

	session := domainauth.Session{
		ID: uuid.NewString(),
		User: domainauth.User{
			ID:        identity.UserID,
			Email:     identity.Email,
			FirstName: identity.FirstName,
			LastName:  identity.LastName,
			IsSeller:  domainauth.SellerFlag(s.accounts != nil && s.accounts.IsSeller(identity)),
		},
		ExpiresAt: expiresAt,
	}
	s.syncProfile(ctx, &session)

	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}
	return &CompleteLoginResult{Session: session}, nil
}

// syncProfile upserts the profile and picks up a seller flag granted there.
// Profile storage is not allowed to block sign-in.
func (s *AuthService) syncProfile(ctx context.Context, session *domainauth.Session) {
	if s.profiles == nil {
		return
	}
	p, err := s.profiles.EnsureForSession(ctx, *session)
	if err != nil {
		s.logger.WarnContext(ctx, "profile sync failed", "user_id", session.User.ID, "error", err)
		return
	}
	if p != nil && p.IsSeller {
		session.User.IsSeller = true
	}
}

// GetSession retrieves a session by ID.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Expired(s.now()) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}
	return &session, nil
}

// Logout removes a session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
