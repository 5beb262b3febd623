package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/marketplace-ui/config"
	domainauth "github.com/target/marketplace-ui/internal/domain/auth"
	mockauth "github.com/target/marketplace-ui/internal/mocks/auth"
	"github.com/target/marketplace-ui/internal/ports"
	"github.com/target/marketplace-ui/internal/service"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildAccountMapper(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.AuthConfig
		identity domainauth.Identity
		want     bool
	}{
		{
			name:     "group member is seller",
			cfg:      config.AuthConfig{SellerGroup: "sellers"},
			identity: domainauth.Identity{UserID: "u1", Groups: []string{"sellers"}},
			want:     true,
		},
		{
			name:     "non member is buyer",
			cfg:      config.AuthConfig{SellerGroup: "sellers"},
			identity: domainauth.Identity{UserID: "u1", Groups: []string{"buyers"}},
			want:     false,
		},
		{
			name: "claim expression marks seller",
			cfg:  config.AuthConfig{SellerGroup: "sellers", SellerClaimExpr: "account_type == 'seller'"},
			identity: domainauth.Identity{
				UserID: "u1",
				Claims: map[string]any{"account_type": "seller"},
			},
			want: true,
		},
		{
			name: "claim expression false and no group",
			cfg:  config.AuthConfig{SellerGroup: "sellers", SellerClaimExpr: "account_type == 'seller'"},
			identity: domainauth.Identity{
				UserID: "u1",
				Claims: map[string]any{"account_type": "buyer"},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := BuildAccountMapper(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.IsSeller(tt.identity))
		})
	}
}

func TestBuildAccountMapper_InvalidExpression(t *testing.T) {
	_, err := BuildAccountMapper(config.AuthConfig{SellerClaimExpr: "account_type =="})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seller claim expression")
}

func TestBuildAuthService_RequiresRedis(t *testing.T) {
	svc, err := BuildAuthService(AuthConfig{
		Auth:   config.AuthConfig{Mode: config.AuthModeMock},
		Logger: discard(),
	})
	require.Error(t, err)
	assert.Nil(t, svc)
}

func TestNewProviderConnector_Mock(t *testing.T) {
	connect, err := NewProviderConnector(config.AuthConfig{
		Mode: config.AuthModeMock,
		DevAuth: config.DevAuthConfig{
			UserID: "dev",
			Email:  "dev@example.com",
			Groups: []string{"marketplace-sellers"},
		},
	})
	require.NoError(t, err)

	p, err := connect(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestNewProviderConnector_UnknownMode(t *testing.T) {
	_, err := NewProviderConnector(config.AuthConfig{Mode: config.AuthMode("saml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported auth mode")
}

func TestAttachProvider_RetriesUntilConnected(t *testing.T) {
	svc := service.NewAuthService(service.AuthServiceOptions{Sessions: mockauth.NewMemorySessionStore()})
	require.False(t, svc.Ready())

	var calls atomic.Int32
	connect := func(context.Context) (ports.AuthProvider, error) {
		if calls.Add(1) < 3 {
			return nil, errors.New("discovery unavailable")
		}
		return mockauth.NewMockAuthProvider(), nil
	}

	err := AttachProvider(context.Background(), ProviderAttachConfig{
		Service: svc,
		Connect: connect,
		Retry:   time.Millisecond,
		Logger:  discard(),
	})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.True(t, svc.Ready())
}

func TestAttachProvider_StopsOnCancel(t *testing.T) {
	svc := service.NewAuthService(service.AuthServiceOptions{Sessions: mockauth.NewMemorySessionStore()})

	ctx, cancel := context.WithCancel(context.Background())
	connect := func(context.Context) (ports.AuthProvider, error) {
		cancel()
		return nil, errors.New("discovery unavailable")
	}

	err := AttachProvider(ctx, ProviderAttachConfig{
		Service: svc,
		Connect: connect,
		Retry:   time.Hour,
		Logger:  discard(),
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, svc.Ready())
}
