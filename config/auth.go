package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"marketplace"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"marketplace"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	// DiscoveryRetry is the pause between discovery attempts while the IdP is unreachable.
	DiscoveryRetry time.Duration `env:"DISCOVERY_RETRY" envDefault:"5s"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID    string   `env:"USER_ID"    envDefault:"dev-user"`
	Email     string   `env:"EMAIL"      envDefault:"dev@example.com"`
	FirstName string   `env:"FIRST_NAME" envDefault:"Dev"`
	LastName  string   `env:"LAST_NAME"  envDefault:"User"`
	Groups    []string `env:"GROUPS"     envDefault:"buyers"          envSeparator:";"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	OAuth   OAuthConfig   `envPrefix:"OAUTH_"`
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// SellerGroup marks members of this IdP group as sellers.
	SellerGroup string `env:"AUTH_SELLER_GROUP" envDefault:"marketplace-sellers"`

	// SellerClaimExpr is a JMESPath expression over ID token claims; a truthy
	// result marks the user as a seller. Combined with SellerGroup by OR.
	SellerClaimExpr string `env:"AUTH_SELLER_CLAIM_EXPR"`

	// StateTimeout bounds the session lookup made for each page request.
	StateTimeout time.Duration `env:"AUTH_STATE_TIMEOUT" envDefault:"2s"`

	// SessionCookie is the name of the session cookie.
	SessionCookie string `env:"AUTH_SESSION_COOKIE" envDefault:"session_id"`
}

// Sanitize applies defaults for zero or negative values.
func (a *AuthConfig) Sanitize() {
	a.SellerGroup = strings.TrimSpace(a.SellerGroup)
	a.SellerClaimExpr = strings.TrimSpace(a.SellerClaimExpr)
	a.SessionCookie = strings.TrimSpace(a.SessionCookie)
	if a.SessionCookie == "" {
		a.SessionCookie = "session_id"
	}
	if a.StateTimeout <= 0 {
		a.StateTimeout = 2 * time.Second
	}
	if a.OAuth.DiscoveryRetry <= 0 {
		a.OAuth.DiscoveryRetry = 5 * time.Second
	}
}

// Validate checks settings required by the selected mode.
func (a *AuthConfig) Validate() error {
	if a.Mode == AuthModeOAuth && strings.TrimSpace(a.OAuth.DiscoveryURL) == "" {
		return errors.New("OAUTH_DISCOVERY_URL is required when AUTH_MODE=oauth")
	}
	return nil
}
