// Package route holds the marketplace's static route table and resolves a
// requested path against it.
package route

import (
	"strings"

	"github.com/target/marketplace-ui/internal/domain/auth"
	"github.com/target/marketplace-ui/internal/domain/guard"
)

// Page identifiers. Page handlers are looked up by these keys.
const (
	PageSignIn         = "sign-in"
	PageSignUp         = "sign-up"
	PageForgotPassword = "forgot-password"
	PageDashboard      = "dashboard"
	PageMessages       = "messages"
	PageProfile        = "profile"
	PageSellerSetting  = "seller-setting"
	PageBuyerSetting   = "buyer-setting"
	PageBuyerProfile   = "buyer-profile"
	PageNotFound       = "not-found"
)

// Layout names the page chrome a route renders inside.
type Layout string

const (
	LayoutApp  Layout = "app"
	LayoutAuth Layout = "auth"
	LayoutBare Layout = "bare"
)

// Entry is one row of the route table.
type Entry struct {
	// Pattern is a path where ":name" segments capture one path segment.
	Pattern string
	Guard   guard.Kind
	Page    string
	Layout  Layout
	// RedirectOverride is handed to the guard as the seller fallback for buyer-only routes.
	RedirectOverride string
	// Redirect, when set, sends every request for Pattern there without evaluating a guard.
	Redirect string
}

// Table is an ordered, immutable list of entries. The first matching entry wins.
type Table struct {
	entries []Entry
}

// New builds a table from entries. The slice is copied.
func New(entries ...Entry) *Table {
	return &Table{entries: append([]Entry(nil), entries...)}
}

// Entries returns a copy of the table rows in match order.
func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Default returns the marketplace route table.
func Default() *Table {
	return New(
		Entry{Pattern: "/", Redirect: guard.DashboardPath},

		Entry{Pattern: "/sign-in", Guard: guard.None, Page: PageSignIn, Layout: LayoutAuth},
		Entry{Pattern: "/sign-up", Guard: guard.None, Page: PageSignUp, Layout: LayoutAuth},
		Entry{Pattern: "/forgot-password", Guard: guard.None, Page: PageForgotPassword, Layout: LayoutBare},

		Entry{Pattern: "/dashboard", Guard: guard.Protected, Page: PageDashboard, Layout: LayoutApp},
		Entry{Pattern: "/messages", Guard: guard.Protected, Page: PageMessages, Layout: LayoutApp},
		Entry{Pattern: "/profile", Guard: guard.Protected, Page: PageProfile, Layout: LayoutApp},
		Entry{Pattern: "/profile/:id", Guard: guard.Protected, Page: PageProfile, Layout: LayoutApp},

		Entry{Pattern: "/SellerSetting", Guard: guard.Seller, Page: PageSellerSetting, Layout: LayoutApp},

		Entry{
			Pattern:          "/BuyerSetting",
			Guard:            guard.Buyer,
			Page:             PageBuyerSetting,
			Layout:           LayoutApp,
			RedirectOverride: "/SellerSetting",
		},
		Entry{
			Pattern:          "/BuyerProfile",
			Guard:            guard.Buyer,
			Page:             PageBuyerProfile,
			Layout:           LayoutApp,
			RedirectOverride: "/profile",
		},
		Entry{
			Pattern:          "/BuyerProfile/:id",
			Guard:            guard.Buyer,
			Page:             PageBuyerProfile,
			Layout:           LayoutApp,
			RedirectOverride: "/profile",
		},
	)
}

// Match is a matched entry plus the values captured from the path.
type Match struct {
	Entry  Entry
	Params map[string]string
}

// Match finds the first entry whose pattern matches path.
// Matching is case-sensitive and tolerates one trailing slash.
func (t *Table) Match(path string) (Match, bool) {
	segs, ok := splitPath(path)
	if !ok {
		return Match{}, false
	}
	for _, e := range t.entries {
		if params, ok := matchSegments(e.Pattern, segs); ok {
			return Match{Entry: e, Params: params}, true
		}
	}
	return Match{}, false
}

// Outcome is the result of resolving a path under an auth state.
type Outcome struct {
	Match    Match
	NotFound bool
	Decision guard.Decision
}

// Resolve matches path and evaluates the matched entry's guard against state.
// Unmatched paths resolve to the not-found view, which is always rendered.
func (t *Table) Resolve(path string, state auth.AuthState) Outcome {
	m, ok := t.Match(path)
	if !ok {
		return Outcome{
			Match:    Match{Entry: Entry{Page: PageNotFound, Layout: LayoutBare}},
			NotFound: true,
			Decision: guard.Allow(),
		}
	}
	return Outcome{Match: m, Decision: Decide(m.Entry, state)}
}

// Decide returns the decision for a matched entry.
func Decide(e Entry, state auth.AuthState) guard.Decision {
	if e.Redirect != "" {
		return guard.RedirectTo(e.Redirect)
	}
	return guard.Evaluate(e.Guard, state, e.RedirectOverride)
}

func splitPath(path string) ([]string, bool) {
	if !strings.HasPrefix(path, "/") {
		return nil, false
	}
	trimmed := strings.TrimPrefix(path, "/")
	trimmed = strings.TrimSuffix(trimmed, "/")
	if trimmed == "" {
		return nil, true
	}
	segs := strings.Split(trimmed, "/")
	for _, s := range segs {
		if s == "" {
			return nil, false
		}
	}
	return segs, true
}

func matchSegments(pattern string, segs []string) (map[string]string, bool) {
	want, ok := splitPath(pattern)
	if !ok || len(want) != len(segs) {
		return nil, false
	}
	var params map[string]string
	for i, w := range want {
		if name, isParam := strings.CutPrefix(w, ":"); isParam {
			if params == nil {
				params = make(map[string]string, 1)
			}
			params[name] = segs[i]
			continue
		}
		if w != segs[i] {
			return nil, false
		}
	}
	return params, true
}
