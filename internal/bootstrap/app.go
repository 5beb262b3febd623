package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/target/marketplace-ui/config"
	"github.com/target/marketplace-ui/internal/data"
	"github.com/target/marketplace-ui/internal/service"
)

// AppDeps holds the connected infrastructure the application runs on.
type AppDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// RunApp wires services, serves HTTP, and connects the identity provider in
// the background. It returns when ctx is canceled or a component fails.
func RunApp(ctx context.Context, deps AppDeps) error {
	if deps.Config == nil {
		return errors.New("app config is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	metricsClient, err := BuildMetrics(cfg.Observability, logger)
	if err != nil {
		return fmt.Errorf("build metrics: %w", err)
	}
	defer func() {
		if cerr := metricsClient.Close(); cerr != nil {
			logger.Warn("close statsd client failed", "error", cerr)
		}
	}()

	var profiles *service.ProfileService
	if deps.DB != nil {
		profiles = service.NewProfileService(service.ProfileServiceOptions{
			Repo:   data.NewProfileRepo(deps.DB),
			Logger: logger,
		})
	}

	authCfg := AuthConfig{Auth: cfg.Auth, RedisClient: deps.RedisClient, Logger: logger}
	if profiles != nil {
		authCfg.Profiles = profiles
	}
	authSvc, err := BuildAuthService(authCfg)
	if err != nil {
		return fmt.Errorf("build auth service: %w", err)
	}
	connect, err := NewProviderConnector(cfg.Auth)
	if err != nil {
		return err
	}

	authState := service.NewAuthStateProvider(service.AuthStateProviderOptions{
		Sessions: authSvc,
		Timeout:  cfg.Auth.StateTimeout,
		Logger:   logger,
	})

	server, err := NewHTTPServer(HTTPServerConfig{
		Config:    cfg,
		Auth:      authSvc,
		AuthState: authState,
		Profiles:  profiles,
		Metrics:   metricsClient,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ServeHTTP(gctx, server, nil, logger)
	})
	g.Go(func() error {
		err := AttachProvider(gctx, ProviderAttachConfig{
			Service: authSvc,
			Connect: connect,
			Retry:   cfg.Auth.OAuth.DiscoveryRetry,
			Logger:  logger,
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	return g.Wait()
}
