package oidc

// Package oidc implements ports.AuthProvider against an OpenID Connect IdP.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/target/marketplace-ui/internal/domain/auth"
	"github.com/target/marketplace-ui/internal/ports"
)

const (
	promptLogin  = "select_account"
	promptSignup = "create"
)

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	DiscoveryURL string
	HTTPClient   *http.Client // defaults to a client with a 30s timeout
}

// Provider implements ports.AuthProvider using OIDC discovery and the
// authorization code flow.
type Provider struct {
	oauth    *oauth2.Config
	op       *gooidc.Provider
	verifier *gooidc.IDTokenVerifier
	client   *http.Client
}

// NewProvider validates cfg and fetches the discovery document.
// ctx bounds the discovery request only.
func NewProvider(ctx context.Context, cfg ProviderConfig) (*Provider, error) {
	switch {
	case cfg.ClientID == "":
		return nil, errors.New("client ID is required")
	case cfg.ClientSecret == "":
		return nil, errors.New("client secret is required")
	case cfg.RedirectURL == "":
		return nil, errors.New("redirect URL is required")
	case cfg.DiscoveryURL == "":
		return nil, errors.New("discovery URL is required")
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	op, err := gooidc.NewProvider(gooidc.ClientContext(ctx, client), issuerFromDiscovery(cfg.DiscoveryURL))
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	return &Provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       strings.Fields(cfg.Scope),
			Endpoint:     op.Endpoint(),
		},
		op:       op,
		verifier: op.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
		client:   client,
	}, nil
}

func issuerFromDiscovery(u string) string {
	u = strings.TrimSuffix(u, "/")
	u = strings.TrimSuffix(u, "/.well-known/openid-configuration")
	return u
}

// Begin builds the IdP authorization URL. Sign-up requests ask the IdP for its
// registration screen with prompt=create.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}

	state, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	prompt := promptLogin
	if in.Signup {
		prompt = promptSignup
	}

	authURL := p.oauth.AuthCodeURL(state,
		gooidc.Nonce(nonce),
		oauth2.SetAuthURLParam("prompt", prompt),
	)
	return authURL, state, nonce, nil
}

// Exchange trades the code for tokens, verifies the ID token and nonce,
// and falls back to UserInfo for anything the ID token left out.
func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	switch {
	case in.Code == "":
		return domainauth.Identity{}, errors.New("authorization code is required")
	case in.State == "":
		return domainauth.Identity{}, errors.New("state is required")
	case in.Nonce == "":
		return domainauth.Identity{}, errors.New("nonce is required")
	}

	ctx = gooidc.ClientContext(ctx, p.client)
	token, err := p.oauth.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	id, err := p.identityFromIDToken(ctx, token, in.Nonce)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("extract id_token: %w", err)
	}

	if id.UserID == "" || id.Email == "" {
		if fillErr := p.fillFromUserInfo(ctx, token, &id); fillErr != nil {
			return domainauth.Identity{}, fmt.Errorf("get user info: %w", fillErr)
		}
	}

	id.ExpiresAt = time.Now().Add(time.Hour)
	if !token.Expiry.IsZero() {
		id.ExpiresAt = token.Expiry
	}
	return id, nil
}

// standardClaims is the subset of OIDC claims we map onto an Identity.
type standardClaims struct {
	Subject    string   `json:"sub"`
	Email      string   `json:"email"`
	GivenName  string   `json:"given_name"`
	FamilyName string   `json:"family_name"`
	Groups     []string `json:"groups"`
	Nonce      string   `json:"nonce"`
}

func (p *Provider) identityFromIDToken(ctx context.Context, tok *oauth2.Token, nonce string) (domainauth.Identity, error) {
	if !slices.Contains(p.oauth.Scopes, gooidc.ScopeOpenID) {
		return domainauth.Identity{}, nil
	}
	rawID, err := getIDTokenFromToken(tok)
	if err != nil {
		return domainauth.Identity{}, err
	}
	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("verify id_token: %w", err)
	}

	var std standardClaims
	if claimsErr := idTok.Claims(&std); claimsErr != nil {
		return domainauth.Identity{}, fmt.Errorf("parse id_token claims: %w", claimsErr)
	}
	if std.Nonce != nonce {
		return domainauth.Identity{}, errors.New("invalid nonce")
	}

	var raw map[string]any
	if claimsErr := idTok.Claims(&raw); claimsErr != nil {
		return domainauth.Identity{}, fmt.Errorf("parse id_token claims: %w", claimsErr)
	}

	id := identityFromClaims(std)
	id.Claims = raw
	return id, nil
}

func (p *Provider) fillFromUserInfo(ctx context.Context, tok *oauth2.Token, id *domainauth.Identity) error {
	ui, err := p.op.UserInfo(ctx, oauth2.StaticTokenSource(tok))
	if err != nil {
		return fmt.Errorf("fetch user info: %w", err)
	}
	var std standardClaims
	if claimsErr := ui.Claims(&std); claimsErr != nil {
		return fmt.Errorf("decode user info: %w", claimsErr)
	}
	mergeClaims(id, std)
	if id.Claims == nil {
		var raw map[string]any
		if claimsErr := ui.Claims(&raw); claimsErr == nil {
			id.Claims = raw
		}
	}
	return nil
}

func identityFromClaims(c standardClaims) domainauth.Identity {
	return domainauth.Identity{
		UserID:    c.Subject,
		Email:     c.Email,
		FirstName: c.GivenName,
		LastName:  c.FamilyName,
		Groups:    c.Groups,
	}
}

// mergeClaims fills empty identity fields from c. Set fields are kept.
func mergeClaims(id *domainauth.Identity, c standardClaims) {
	if id.UserID == "" {
		id.UserID = c.Subject
	}
	if id.Email == "" {
		id.Email = c.Email
	}
	if id.FirstName == "" {
		id.FirstName = c.GivenName
	}
	if id.LastName == "" {
		id.LastName = c.FamilyName
	}
	if len(id.Groups) == 0 {
		id.Groups = c.Groups
	}
}

// generateRandomString returns a URL-safe random string of exactly length chars.
func generateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	b := make([]byte, (length*3+3)/4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:length], nil
}

func getIDTokenFromToken(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	s, ok := tok.Extra("id_token").(string)
	if !ok || s == "" {
		return "", errors.New("missing id_token in token response")
	}
	return s, nil
}
