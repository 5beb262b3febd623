package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domainauth "github.com/target/marketplace-ui/internal/domain/auth"
)

// RequireTemplateRenderer creates a TemplateRenderer for tests, skipping the test if templates are not available.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
		Logger:     discardLogger(),
	})
	if err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
		return nil
	}
	return tr
}

// newTestRouter builds the router against the on-disk templates.
func newTestRouter(t *testing.T, svcs RouterServices) http.Handler {
	t.Helper()
	if _, err := os.Stat(TemplatePathFromTest); os.IsNotExist(err) {
		t.Skip("Templates not available, skipping router test")
	}
	if svcs.TemplateFS == nil {
		svcs.TemplateFS = os.DirFS(TemplatePathFromTest)
	}
	if svcs.Logger == nil {
		svcs.Logger = discardLogger()
	}
	h, err := NewRouter(svcs)
	require.NoError(t, err)
	return h
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stateFunc adapts a function to AuthStateResolver.
type stateFunc func(ctx context.Context, sessionID string) domainauth.AuthState

func (f stateFunc) State(ctx context.Context, sessionID string) domainauth.AuthState {
	return f(ctx, sessionID)
}

func fixedState(state domainauth.AuthState) AuthStateResolver {
	return stateFunc(func(context.Context, string) domainauth.AuthState { return state })
}

func buyerUser() domainauth.User {
	return domainauth.User{ID: "buyer-1", Email: "bea@example.com", FirstName: "Bea", LastName: "Buyer"}
}

func sellerUser() domainauth.User {
	return domainauth.User{ID: "seller-1", Email: "sam@example.com", FirstName: "Sam", LastName: "Seller", IsSeller: true}
}

type metricCall struct {
	Name string
	Tags map[string]string
}

// recordingSink captures metrics emitted during a test.
type recordingSink struct {
	mu      sync.Mutex
	counts  []metricCall
	timings []metricCall
}

func (s *recordingSink) Count(name string, _ int64, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts = append(s.counts, metricCall{Name: name, Tags: tags})
}

func (s *recordingSink) Timing(name string, _ time.Duration, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timings = append(s.timings, metricCall{Name: name, Tags: tags})
}

func (s *recordingSink) countsNamed(name string) []metricCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []metricCall
	for _, c := range s.counts {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}
