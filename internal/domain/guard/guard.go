// Package guard decides what happens when a route is requested under a given
// auth state: render the page, show a loading view, or redirect elsewhere.
package guard

import (
	"github.com/target/marketplace-ui/internal/domain/auth"
)

// Default redirect targets.
const (
	SignInPath    = "/sign-in"
	DashboardPath = "/dashboard"
)

// Kind classifies a route by the access policy applied to it.
type Kind int

const (
	// None marks a public route.
	None Kind = iota
	// Protected routes require a signed-in user.
	Protected
	// Seller routes require a signed-in seller.
	Seller
	// Buyer routes require a signed-in user who is not a seller.
	Buyer
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Protected:
		return "protected"
	case Seller:
		return "seller"
	case Buyer:
		return "buyer"
	default:
		return "unknown"
	}
}

// Action is the outcome kind of a guard evaluation.
type Action int

const (
	// ShowLoading renders a placeholder until the auth state settles.
	ShowLoading Action = iota
	// Render lets the route's page through.
	Render
	// Redirect sends the caller to Decision.Target without keeping the
	// guarded URL in history.
	Redirect
)

func (a Action) String() string {
	switch a {
	case ShowLoading:
		return "loading"
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the result of evaluating a guard. Target is set only for Redirect.
type Decision struct {
	Action Action
	Target string
}

// Loading returns the ShowLoading decision.
func Loading() Decision { return Decision{Action: ShowLoading} }

// Allow returns the Render decision.
func Allow() Decision { return Decision{Action: Render} }

// RedirectTo returns a Redirect decision for target.
func RedirectTo(target string) Decision { return Decision{Action: Redirect, Target: target} }

// Evaluate applies the policy for kind to state.
// override replaces the default target when a buyer-only route turns a seller away;
// it is ignored by every other kind.
//
// The loading check comes first for every kind. Seller routes send anonymous
// callers to the dashboard rather than to sign-in.
func Evaluate(kind Kind, state auth.AuthState, override string) Decision {
	if state.Loading {
		return Loading()
	}

	switch kind {
	case None:
		return Allow()
	case Seller:
		if state.User.Seller() {
			return Allow()
		}
		return RedirectTo(DashboardPath)
	case Buyer:
		if state.User == nil {
			return RedirectTo(SignInPath)
		}
		if state.User.Seller() {
			if override != "" {
				return RedirectTo(override)
			}
			return RedirectTo(DashboardPath)
		}
		return Allow()
	default: // Protected, and anything unrecognised
		if state.User == nil {
			return RedirectTo(SignInPath)
		}
		return Allow()
	}
}
