// Package metrics names the metrics the marketplace UI emits and their tags.
package metrics

import (
	"time"

	"github.com/target/marketplace-ui/internal/domain/guard"
	"github.com/target/marketplace-ui/internal/observability/statsd"
)

// Auth state outcomes for metric tagging.
const (
	AuthStateLoading   = "loading"
	AuthStateAnonymous = "anonymous"
	AuthStateBuyer     = "buyer"
	AuthStateSeller    = "seller"
)

// GuardMetric describes one route guard evaluation.
type GuardMetric struct {
	Route    string
	Kind     guard.Kind
	Decision guard.Decision
}

// EmitGuardDecision counts a guard evaluation, tagged by route pattern, guard kind, and outcome.
func EmitGuardDecision(sink statsd.Sink, in GuardMetric) {
	if sink == nil {
		return
	}
	tags := map[string]string{
		"route":  in.Route,
		"guard":  in.Kind.String(),
		"action": in.Decision.Action.String(),
	}
	if in.Decision.Action == guard.Redirect {
		tags["target"] = in.Decision.Target
	}
	sink.Count("guard.decision", 1, tags)
}

// EmitAuthState records how long resolving the auth state took and what it settled to.
func EmitAuthState(sink statsd.Sink, outcome string, took time.Duration) {
	if sink == nil {
		return
	}
	sink.Timing("auth.state", took, map[string]string{"outcome": outcome})
}

// EmitNotFound counts requests for paths outside the route table.
func EmitNotFound(sink statsd.Sink) {
	if sink == nil {
		return
	}
	sink.Count("route.not_found", 1, nil)
}
