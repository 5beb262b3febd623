package httpx

import (
	"context"

	domainauth "github.com/target/marketplace-ui/internal/domain/auth"
	"github.com/target/marketplace-ui/internal/domain/profile"
)

// Unexported context key types to avoid collisions across packages.
type (
	authStateKey struct{}
	profileKey   struct{}
)

// SetAuthStateInContext returns a child context that carries the resolved auth state.
func SetAuthStateInContext(ctx context.Context, state domainauth.AuthState) context.Context {
	return context.WithValue(ctx, authStateKey{}, state)
}

// GetAuthStateFromContext returns the auth state and whether one was resolved for this request.
func GetAuthStateFromContext(ctx context.Context) (domainauth.AuthState, bool) {
	state, ok := ctx.Value(authStateKey{}).(domainauth.AuthState)
	return state, ok
}

// AuthStateFromContext returns the resolved auth state, or the anonymous state
// when the request never went through ResolveAuthState.
func AuthStateFromContext(ctx context.Context) domainauth.AuthState {
	if state, ok := GetAuthStateFromContext(ctx); ok {
		return state
	}
	return domainauth.AnonymousState()
}

// CurrentUser returns the signed-in user, or nil.
func CurrentUser(ctx context.Context) *domainauth.User {
	return AuthStateFromContext(ctx).User
}

// SetProfileInContext returns a child context that carries the user's profile.
// If p is nil, the original ctx is returned unchanged.
func SetProfileInContext(ctx context.Context, p *profile.Profile) context.Context {
	if p == nil {
		return ctx
	}
	return context.WithValue(ctx, profileKey{}, p)
}

// ProfileFromContext returns the signed-in user's profile, or nil.
func ProfileFromContext(ctx context.Context) *profile.Profile {
	if p, ok := ctx.Value(profileKey{}).(*profile.Profile); ok {
		return p
	}
	return nil
}
