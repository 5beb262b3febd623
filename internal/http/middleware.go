package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	domainauth "github.com/target/marketplace-ui/internal/domain/auth"
	"github.com/target/marketplace-ui/internal/domain/profile"
	"github.com/target/marketplace-ui/internal/observability/metrics"
	"github.com/target/marketplace-ui/internal/observability/statsd"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// AuthStateResolver turns a session cookie value into an auth state.
type AuthStateResolver interface {
	State(ctx context.Context, sessionID string) domainauth.AuthState
}

// AuthStateOptions configures ResolveAuthState.
type AuthStateOptions struct {
	Resolver   AuthStateResolver // Required
	CookieName string            // Optional: DefaultSessionCookie when empty
	Metrics    statsd.Sink       // Optional
}

// ResolveAuthState returns a middleware that resolves the caller's auth state
// once per request and stores it in the request context.
func ResolveAuthState(opts AuthStateOptions) func(http.Handler) http.Handler {
	cookieName := opts.CookieName
	if cookieName == "" {
		cookieName = DefaultSessionCookie
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sessionID string
			if c, err := r.Cookie(cookieName); err == nil {
				sessionID = c.Value
			}

			start := time.Now()
			state := opts.Resolver.State(r.Context(), sessionID)
			metrics.EmitAuthState(opts.Metrics, authStateOutcome(state), time.Since(start))

			next.ServeHTTP(w, r.WithContext(SetAuthStateInContext(r.Context(), state)))
		})
	}
}

func authStateOutcome(state domainauth.AuthState) string {
	switch {
	case state.Loading:
		return metrics.AuthStateLoading
	case state.User == nil:
		return metrics.AuthStateAnonymous
	case state.User.Seller():
		return metrics.AuthStateSeller
	default:
		return metrics.AuthStateBuyer
	}
}

// CurrentProfileReader loads the profile of the signed-in user.
type CurrentProfileReader interface {
	Current(ctx context.Context, u *domainauth.User) (*profile.Profile, error)
}

// AttachProfile returns a middleware that puts the signed-in user's profile in
// the request context. It must run after ResolveAuthState. Lookup failures are
// logged and the request continues without a profile.
func AttachProfile(profiles CurrentProfileReader, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := AuthStateFromContext(r.Context())
			if profiles == nil || state.Loading || state.User == nil {
				next.ServeHTTP(w, r)
				return
			}

			p, err := profiles.Current(r.Context(), state.User)
			if err != nil {
				logger.WarnContext(r.Context(), "profile lookup failed",
					slog.String("user_id", state.User.ID),
					slog.Any("error", err),
				)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(SetProfileInContext(r.Context(), p)))
		})
	}
}

// Chain applies middlewares so that the first one listed runs first.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
