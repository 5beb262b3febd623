package httpx

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/target/marketplace-ui/internal/domain/auth"
	"github.com/target/marketplace-ui/internal/domain/profile"
	"github.com/target/marketplace-ui/internal/domain/route"
)

// PageData is the view model every page template receives.
type PageData struct {
	Title   string
	Page    string
	Layout  route.Layout
	Path    string
	User    *domainauth.User
	Profile *profile.Profile
	// Viewed is the profile shown on /profile/:id and /BuyerProfile/:id.
	Viewed   *profile.Profile
	ViewedID string
	// Status is the HTTP status written with the page; zero means 200.
	Status int
	// CSRFToken is posted back by forms such as sign-out.
	CSRFToken string
}

// IsSeller reports whether the signed-in user may use seller pages.
func (d PageData) IsSeller() bool {
	return d.User != nil && d.User.Seller()
}

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	t      *template.Template
	logger *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS        // Filesystem containing templates (required)
	Logger     *slog.Logger // Logger for template errors (optional)
}

// NewTemplateRenderer constructs a renderer by parsing templates from the provided config.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	renderer := &TemplateRenderer{logger: logger}

	var t *template.Template
	var err error
	t, err = template.New("root").Funcs(templateFuncs(&t)).ParseFS(cfg.TemplateFS,
		"*.tmpl",
		"pages/*.tmpl",
	)
	if err != nil {
		logger.Error("template parsing failed",
			slog.Any("error", err),
			slog.String("phase", "initialization"),
		)
		return nil, err
	}
	renderer.t = t
	return renderer, nil
}

func templateFuncs(t **template.Template) template.FuncMap {
	return template.FuncMap{
		"renderSection": func(page string, data any) (template.HTML, error) {
			if t == nil || *t == nil {
				return "", errors.New("template not initialized")
			}
			var buf bytes.Buffer
			if err := (*t).ExecuteTemplate(&buf, ContentTemplateFor(page), data); err != nil {
				return "", err
			}
			// #nosec G203 - rendered by our own html/template set; values were escaped above.
			return template.HTML(buf.String()), nil
		},
		"friendlyDate": func(ts time.Time) string {
			if ts.IsZero() {
				return ""
			}
			return ts.UTC().Format("Jan 2, 2006")
		},
		"initials": initials,
	}
}

func initials(name string) string {
	var b strings.Builder
	for _, f := range strings.Fields(name) {
		for _, r := range f {
			b.WriteRune(r)
			break
		}
		if b.Len() >= 2 {
			break
		}
	}
	return strings.ToUpper(b.String())
}

// RenderPage renders a page inside its layout, or only its content for partial requests.
func (r *TemplateRenderer) RenderPage(w http.ResponseWriter, req *http.Request, data PageData) error {
	if data.Title == "" {
		data.Title = titleFor(data.Page)
	}
	name := layoutTemplateFor(data.Layout)
	if WantsPartial(req) {
		name = ContentTemplateFor(data.Page)
	}
	return r.renderTemplate(w, name, data)
}

// RenderLoading renders the view shown while the auth state is still being resolved.
// The page refreshes itself; Retry-After tells non-browser clients the same.
func (r *TemplateRenderer) RenderLoading(w http.ResponseWriter, req *http.Request) error {
	w.Header().Set("Retry-After", "1")
	w.Header().Set("Cache-Control", "no-store")
	return r.RenderPage(w, req, PageData{
		Page:   PageLoading,
		Layout: route.LayoutBare,
		Path:   req.URL.RequestURI(),
	})
}

func (r *TemplateRenderer) renderTemplate(w http.ResponseWriter, templateName string, data PageData) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, templateName, data); err != nil {
		r.logger.Error("template execution failed",
			slog.String("template", templateName),
			slog.String("page", data.Page),
			slog.Any("error", err),
		)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if data.Status != 0 {
		w.WriteHeader(data.Status)
	}
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error("failed to write rendered template",
			slog.String("template", templateName),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}
