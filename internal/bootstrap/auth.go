package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/marketplace-ui/config"
	"github.com/target/marketplace-ui/internal/adapters/accounttype"
	"github.com/target/marketplace-ui/internal/adapters/devauth"
	"github.com/target/marketplace-ui/internal/adapters/oidc"
	redisadapter "github.com/target/marketplace-ui/internal/adapters/redis"
	"github.com/target/marketplace-ui/internal/ports"
	"github.com/target/marketplace-ui/internal/service"
)

// AuthConfig contains configuration for the auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	Profiles    service.LoginProfileSync // Optional
	Logger      *slog.Logger
}

// BuildAccountMapper combines the seller group with the optional claim expression.
//
//nolint:ireturn // callers only need the port.
func BuildAccountMapper(cfg config.AuthConfig) (ports.AccountTypeMapper, error) {
	mappers := accounttype.Any{accounttype.GroupMapper{SellerGroup: cfg.SellerGroup}}
	if cfg.SellerClaimExpr != "" {
		m, err := accounttype.NewClaimExprMapper(cfg.SellerClaimExpr)
		if err != nil {
			return nil, fmt.Errorf("seller claim expression: %w", err)
		}
		mappers = append(mappers, m)
	}
	return mappers, nil
}

// BuildAuthService creates the auth service with Redis-backed sessions.
// No identity provider is attached yet; see ProviderConnector and AttachProvider.
func BuildAuthService(cfg AuthConfig) (*service.AuthService, error) {
	if cfg.RedisClient == nil {
		return nil, errors.New("auth service requires a redis client")
	}
	accounts, err := BuildAccountMapper(cfg.Auth)
	if err != nil {
		return nil, err
	}

	opts := service.AuthServiceOptions{
		Sessions: redisadapter.NewSessionStore(cfg.RedisClient),
		Login: service.LoginOptions{
			Accounts: accounts,
			Logger:   cfg.Logger,
		},
	}
	if cfg.Profiles != nil {
		opts.Login.Profiles = cfg.Profiles
	}
	return service.NewAuthService(opts), nil
}

// ProviderConnector builds the identity provider for the configured mode.
type ProviderConnector func(ctx context.Context) (ports.AuthProvider, error)

// NewProviderConnector returns the connector for cfg.Mode.
func NewProviderConnector(cfg config.AuthConfig) (ProviderConnector, error) {
	switch cfg.Mode {
	case config.AuthModeMock:
		dev := cfg.DevAuth
		return func(context.Context) (ports.AuthProvider, error) {
			return devauth.NewProvider(devauth.Config{
				UserID:    dev.UserID,
				Email:     dev.Email,
				FirstName: dev.FirstName,
				LastName:  dev.LastName,
				Groups:    dev.Groups,
			})
		}, nil
	case config.AuthModeOAuth:
		oauth := cfg.OAuth
		return func(ctx context.Context) (ports.AuthProvider, error) {
			return oidc.NewProvider(ctx, oidc.ProviderConfig{
				ClientID:     oauth.ClientID,
				ClientSecret: oauth.ClientSecret,
				RedirectURL:  oauth.RedirectURL,
				Scope:        oauth.Scope,
				DiscoveryURL: oauth.DiscoveryURL,
			})
		}, nil
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Mode)
	}
}

// ProviderAttachConfig groups the inputs of AttachProvider.
type ProviderAttachConfig struct {
	Service *service.AuthService
	Connect ProviderConnector
	Retry   time.Duration
	Logger  *slog.Logger
}

// AttachProvider connects the identity provider, retrying every cfg.Retry
// until it succeeds or ctx is done. Pages render the loading view meanwhile.
func AttachProvider(ctx context.Context, cfg ProviderAttachConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	retry := cfg.Retry
	if retry <= 0 {
		retry = 5 * time.Second
	}

	for attempt := 1; ; attempt++ {
		p, err := cfg.Connect(ctx)
		if err == nil {
			cfg.Service.AttachProvider(p)
			logger.InfoContext(ctx, "identity provider attached", "attempts", attempt)
			return nil
		}
		logger.WarnContext(ctx, "identity provider unavailable, retrying",
			"attempt", attempt,
			"retry_in", retry,
			"error", err,
		)

		t := time.NewTimer(retry)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}
