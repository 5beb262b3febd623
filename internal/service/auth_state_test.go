package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/target/marketplace-ui/internal/domain/auth"
	"github.com/target/marketplace-ui/internal/mocks"
	mockauth "github.com/target/marketplace-ui/internal/mocks/auth"
)

func TestAuthStateProvider_State(t *testing.T) {
	ctx := context.Background()
	seller := domainauth.User{ID: "s1", Email: "s@example.com", IsSeller: true}

	svc, sessions := newTestAuthService(nil, LoginOptions{})
	require.NoError(t, sessions.Save(ctx, domainauth.Session{ID: "sess-1", User: seller, ExpiresAt: time.Now().Add(time.Hour)}))

	states := NewAuthStateProvider(AuthStateProviderOptions{Sessions: svc})

	t.Run("loading before provider attach", func(t *testing.T) {
		st := states.State(ctx, "sess-1")
		assert.True(t, st.Loading)
		assert.Nil(t, st.User)
	})

	svc.AttachProvider(mockauth.NewMockAuthProvider())

	t.Run("no cookie", func(t *testing.T) {
		assert.Equal(t, domainauth.AnonymousState(), states.State(ctx, ""))
	})

	t.Run("unknown session", func(t *testing.T) {
		assert.Equal(t, domainauth.AnonymousState(), states.State(ctx, "nope"))
	})

	t.Run("signed in", func(t *testing.T) {
		st := states.State(ctx, "sess-1")
		require.True(t, st.Authenticated())
		assert.False(t, st.Loading)
		assert.Equal(t, seller, *st.User)
	})
}

func TestAuthStateProvider_StoreErrorSettlesAnonymous(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	store.EXPECT().Get(gomock.Any(), "sess").Return(domainauth.Session{}, errors.New("connection refused"))

	svc := NewAuthService(AuthServiceOptions{Provider: mockauth.NewMockAuthProvider(), Sessions: store})
	states := NewAuthStateProvider(AuthStateProviderOptions{Sessions: svc})

	assert.Equal(t, domainauth.AnonymousState(), states.State(context.Background(), "sess"))
}

func TestAuthStateProvider_TimeoutSettlesAnonymous(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	store.EXPECT().Get(gomock.Any(), "slow").DoAndReturn(
		func(ctx context.Context, _ string) (domainauth.Session, error) {
			<-ctx.Done()
			return domainauth.Session{}, ctx.Err()
		},
	)

	svc := NewAuthService(AuthServiceOptions{Provider: mockauth.NewMockAuthProvider(), Sessions: store})
	states := NewAuthStateProvider(AuthStateProviderOptions{Sessions: svc, Timeout: 20 * time.Millisecond})

	start := time.Now()
	st := states.State(context.Background(), "slow")
	assert.Equal(t, domainauth.AnonymousState(), st)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewAuthStateProvider_Defaults(t *testing.T) {
	svc, _ := newTestAuthService(nil, LoginOptions{})
	p := NewAuthStateProvider(AuthStateProviderOptions{Sessions: svc})
	assert.Equal(t, DefaultAuthStateTimeout, p.timeout)

	assert.Panics(t, func() { NewAuthStateProvider(AuthStateProviderOptions{}) })
}
