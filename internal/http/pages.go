package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/target/marketplace-ui/internal/domain/profile"
	"github.com/target/marketplace-ui/internal/domain/route"
	apperrors "github.com/target/marketplace-ui/internal/errors"
)

// ProfileReader looks up any user's profile by id.
type ProfileReader interface {
	Get(ctx context.Context, userID string) (*profile.Profile, error)
}

// PageHandlers renders the pages named by the route table.
type PageHandlers struct {
	T        *TemplateRenderer
	Profiles ProfileReader // Optional: profile pages render without a viewed profile when nil
	Logger   *slog.Logger
}

func (h *PageHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// baseData fills the fields every page shares from the request context.
func (h *PageHandlers) baseData(r *http.Request, page string, layout route.Layout) PageData {
	return PageData{
		Page:      page,
		Layout:    layout,
		Path:      r.URL.Path,
		User:      CurrentUser(r.Context()),
		Profile:   ProfileFromContext(r.Context()),
		CSRFToken: CSRFToken(r.Context()),
	}
}

// Render renders the page of a matched entry. Path parameters must already be
// set on the request.
func (h *PageHandlers) Render(w http.ResponseWriter, r *http.Request, e route.Entry) {
	data := h.baseData(r, e.Page, e.Layout)

	switch e.Page {
	case route.PageProfile, route.PageBuyerProfile:
		if !h.loadViewedProfile(w, r, &data) {
			return
		}
	}

	h.render(w, r, data)
}

// loadViewedProfile resolves the :id parameter, or the caller's own profile
// when there is none. It reports false when a response was already written.
func (h *PageHandlers) loadViewedProfile(w http.ResponseWriter, r *http.Request, data *PageData) bool {
	id := r.PathValue("id")
	if id == "" {
		data.Viewed = data.Profile
		if data.User != nil {
			data.ViewedID = data.User.ID
		}
		return true
	}

	data.ViewedID = id
	if data.User != nil && data.User.ID == id && data.Profile != nil {
		data.Viewed = data.Profile
		return true
	}
	if h.Profiles == nil {
		h.NotFound(w, r)
		return false
	}

	p, err := h.Profiles.Get(r.Context(), id)
	if err != nil {
		if apperrors.IsNotFound(err) || apperrors.IsValidation(err) {
			h.NotFound(w, r)
			return false
		}
		h.logger().ErrorContext(r.Context(), "profile lookup failed",
			slog.String("profile_id", id),
			slog.Any("error", err),
		)
		h.Error(w, r, StatusForError(err))
		return false
	}
	data.Viewed = p
	return true
}

// NotFound renders the static not-found view with 404.
func (h *PageHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	data := h.baseData(r, route.PageNotFound, route.LayoutBare)
	data.Status = http.StatusNotFound
	h.render(w, r, data)
}

// Loading renders the view shown while the auth state is unresolved.
func (h *PageHandlers) Loading(w http.ResponseWriter, r *http.Request) {
	if err := h.T.RenderLoading(w, r); err != nil {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
	}
}

// Error renders the generic error view with the given status.
func (h *PageHandlers) Error(w http.ResponseWriter, r *http.Request, status int) {
	data := h.baseData(r, PageError, route.LayoutBare)
	data.Status = status
	h.render(w, r, data)
}

func (h *PageHandlers) render(w http.ResponseWriter, r *http.Request, data PageData) {
	if err := h.T.RenderPage(w, r, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
