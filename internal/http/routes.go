package httpx

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	marketplace "github.com/target/marketplace-ui"
	"github.com/target/marketplace-ui/internal/domain/route"
	"github.com/target/marketplace-ui/internal/observability/statsd"
)

// PageProfileService is what page rendering needs from the profile service.
type PageProfileService interface {
	ProfileReader
	CurrentProfileReader
}

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth      AuthServiceInterface // Optional: /auth endpoints are registered only when set
	AuthState AuthStateResolver    // Required
	Profiles  PageProfileService   // Optional
	// Ready backs /readyz. Optional: always ready when nil.
	Ready func() bool
	// Routes defaults to route.Default().
	Routes *route.Table
	// TemplateFS overrides where templates are read from. When nil, dev mode
	// reads from disk and production uses the embedded copy.
	TemplateFS    fs.FS
	Metrics       statsd.Sink
	SessionCookie string
	CookieDomain  string
	IsDev         bool
	Logger        *slog.Logger
}

// NewRouter creates and configures the HTTP router.
//
// Fixed endpoints (health, auth) are registered on the mux directly. Every
// other path goes through the route table so that pages, guards, and the
// not-found view share a single source of truth.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.AuthState == nil {
		return nil, errors.New("NewRouter: AuthState is required")
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	table := services.Routes
	if table == nil {
		table = route.Default()
	}

	templateFS, err := resolveTemplateFS(services)
	if err != nil {
		return nil, err
	}
	renderer, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: templateFS, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("GET /readyz", readyHandler(services.Ready))
	mux.Handle("HEAD /readyz", readyHandler(services.Ready))

	csrf := CSRFConfig{CookieDomain: services.CookieDomain}
	if services.Auth != nil {
		registerAuthRoutes(mux, csrf, &AuthHandlers{
			Svc:           services.Auth,
			CookieDomain:  services.CookieDomain,
			SessionCookie: services.SessionCookie,
			Logger:        logger,
		})
	}

	pages := &PageHandlers{T: renderer, Logger: logger}
	var current CurrentProfileReader
	if services.Profiles != nil {
		pages.Profiles = services.Profiles
		current = services.Profiles
	}
	nav := &Navigator{Table: table, Pages: pages, Metrics: services.Metrics, Logger: logger}

	mux.Handle("/", Chain(nav,
		ResolveAuthState(AuthStateOptions{
			Resolver:   services.AuthState,
			CookieName: services.SessionCookie,
			Metrics:    services.Metrics,
		}),
		AttachProfile(current, logger),
	))

	return Chain(mux, Recover(logger), Logging(logger), IssueCSRFToken(csrf)), nil
}

func registerAuthRoutes(mux *http.ServeMux, csrf CSRFConfig, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/signup", h.Signup)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.Handle("POST /auth/logout", RequireCSRFToken(csrf)(http.HandlerFunc(h.Logout)))
	mux.HandleFunc("GET /auth/status", h.Status)
}

// resolveTemplateFS picks the template source.
// Dev mode: read from disk for hot reloading. Prod mode: embedded FS.
func resolveTemplateFS(services RouterServices) (fs.FS, error) {
	if services.TemplateFS != nil {
		return services.TemplateFS, nil
	}
	if services.IsDev {
		return os.DirFS(TemplatePathFromRoot), nil
	}
	sub, err := fs.Sub(marketplace.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		return nil, fmt.Errorf("embedded templates: %w", err)
	}
	return sub, nil
}
