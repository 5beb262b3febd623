package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/target/marketplace-ui/internal/domain/auth"
)

var (
	anonymous = auth.AnonymousState()
	buyer     = auth.SignedIn(auth.User{ID: "buyer-1"})
	seller    = auth.SignedIn(auth.User{ID: "seller-1", IsSeller: true})
)

func TestEvaluate_LoadingWinsForEveryKind(t *testing.T) {
	users := []*auth.User{nil, {ID: "b"}, {ID: "s", IsSeller: true}}
	for _, kind := range []Kind{None, Protected, Seller, Buyer, Kind(42)} {
		for _, u := range users {
			st := auth.AuthState{User: u, Loading: true}
			assert.Equal(t, Loading(), Evaluate(kind, st, "/profile"), "kind=%s user=%v", kind, u)
		}
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		state    auth.AuthState
		override string
		want     Decision
	}{
		{name: "public anonymous", kind: None, state: anonymous, want: Allow()},
		{name: "public seller", kind: None, state: seller, want: Allow()},

		{name: "protected anonymous", kind: Protected, state: anonymous, want: RedirectTo("/sign-in")},
		{name: "protected buyer", kind: Protected, state: buyer, want: Allow()},
		{name: "protected seller", kind: Protected, state: seller, want: Allow()},

		{name: "seller anonymous goes to dashboard", kind: Seller, state: anonymous, want: RedirectTo("/dashboard")},
		{name: "seller buyer", kind: Seller, state: buyer, want: RedirectTo("/dashboard")},
		{name: "seller seller", kind: Seller, state: seller, want: Allow()},
		{name: "seller ignores override", kind: Seller, state: buyer, override: "/profile", want: RedirectTo("/dashboard")},

		{name: "buyer anonymous", kind: Buyer, state: anonymous, override: "/profile", want: RedirectTo("/sign-in")},
		{name: "buyer seller with override", kind: Buyer, state: seller, override: "/profile", want: RedirectTo("/profile")},
		{name: "buyer buyer", kind: Buyer, state: buyer, override: "/profile", want: Allow()},
		{name: "buyer seller default", kind: Buyer, state: seller, want: RedirectTo("/dashboard")},

		{name: "unknown kind anonymous", kind: Kind(99), state: anonymous, want: RedirectTo("/sign-in")},
		{name: "unknown kind user", kind: Kind(99), state: buyer, want: Allow()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.kind, tt.state, tt.override))
		})
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	for _, kind := range []Kind{None, Protected, Seller, Buyer} {
		for _, st := range []auth.AuthState{anonymous, buyer, seller, auth.LoadingState()} {
			first := Evaluate(kind, st, "/SellerSetting")
			second := Evaluate(kind, st, "/SellerSetting")
			assert.Equal(t, first, second)
		}
	}
}

func TestEvaluate_DoesNotMutateState(t *testing.T) {
	u := &auth.User{ID: "s", IsSeller: true}
	st := auth.AuthState{User: u}
	Evaluate(Buyer, st, "/profile")
	assert.Equal(t, &auth.User{ID: "s", IsSeller: true}, st.User)
}

func TestKindAndActionStrings(t *testing.T) {
	assert.Equal(t, "protected", Protected.String())
	assert.Equal(t, "unknown", Kind(7).String())
	assert.Equal(t, "redirect", Redirect.String())
	assert.Equal(t, "loading", ShowLoading.String())
}
