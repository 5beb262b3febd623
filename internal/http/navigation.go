package httpx

import (
	"log/slog"
	"net/http"

	"github.com/target/marketplace-ui/internal/domain/guard"
	"github.com/target/marketplace-ui/internal/domain/route"
	"github.com/target/marketplace-ui/internal/observability/metrics"
	"github.com/target/marketplace-ui/internal/observability/statsd"
)

// Navigator serves every page request by matching the route table, evaluating
// the matched entry's guard against the request's auth state, and acting on
// the decision. Auth state must already be in the request context.
type Navigator struct {
	Table   *route.Table
	Pages   *PageHandlers
	Metrics statsd.Sink // Optional
	Logger  *slog.Logger
}

func (n *Navigator) logger() *slog.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return slog.Default()
}

// ServeHTTP implements http.Handler.
func (n *Navigator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	m, ok := n.Table.Match(r.URL.Path)
	if !ok {
		metrics.EmitNotFound(n.Metrics)
		n.Pages.NotFound(w, r)
		return
	}

	state := AuthStateFromContext(r.Context())
	decision := route.Decide(m.Entry, state)
	metrics.EmitGuardDecision(n.Metrics, metrics.GuardMetric{
		Route:    m.Entry.Pattern,
		Kind:     m.Entry.Guard,
		Decision: decision,
	})

	switch decision.Action {
	case guard.ShowLoading:
		n.Pages.Loading(w, r)
	case guard.Redirect:
		if m.Entry.Guard == guard.Buyer && state.User != nil && state.User.Seller() {
			n.logger().DebugContext(r.Context(), "seller redirected from buyer page",
				slog.String("path", r.URL.Path),
				slog.String("target", decision.Target),
				slog.String("user_id", state.User.ID),
			)
		}
		Navigate(w, r, decision.Target)
	default:
		for name, value := range m.Params {
			r.SetPathValue(name, value)
		}
		n.Pages.Render(w, r, m.Entry)
	}
}
