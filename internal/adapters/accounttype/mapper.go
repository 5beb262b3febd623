package accounttype

// Package accounttype decides at login whether an identity is a seller.

import (
	"fmt"
	"slices"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	domainauth "github.com/target/marketplace-ui/internal/domain/auth"
	"github.com/target/marketplace-ui/internal/ports"
)

var (
	_ ports.AccountTypeMapper = GroupMapper{}
	_ ports.AccountTypeMapper = (*ClaimExprMapper)(nil)
	_ ports.AccountTypeMapper = Any{}
)

// GroupMapper marks members of SellerGroup as sellers.
// An empty SellerGroup marks nobody.
type GroupMapper struct {
	SellerGroup string
}

func (m GroupMapper) IsSeller(id domainauth.Identity) bool {
	return m.SellerGroup != "" && slices.Contains(id.Groups, m.SellerGroup)
}

// ClaimExprMapper evaluates a JMESPath expression over the identity claims.
// A truthy result marks the identity as a seller.
type ClaimExprMapper struct {
	expr string
}

// NewClaimExprMapper compiles expr once so configuration errors surface at startup.
func NewClaimExprMapper(expr string) (*ClaimExprMapper, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("seller claim expression is empty")
	}
	if _, err := jmespath.Compile(expr); err != nil {
		return nil, fmt.Errorf("compile seller claim expression: %w", err)
	}
	return &ClaimExprMapper{expr: expr}, nil
}

func (m *ClaimExprMapper) IsSeller(id domainauth.Identity) bool {
	out, err := jmespath.Search(m.expr, claimsDocument(id))
	if err != nil {
		return false
	}
	return truthy(out)
}

// claimsDocument is the JSON-shaped view the expression runs against.
// Mapped identity fields fill in claims the provider did not send.
func claimsDocument(id domainauth.Identity) map[string]any {
	doc := make(map[string]any, len(id.Claims)+3)
	for k, v := range id.Claims {
		doc[k] = v
	}
	if _, ok := doc["sub"]; !ok && id.UserID != "" {
		doc["sub"] = id.UserID
	}
	if _, ok := doc["email"]; !ok && id.Email != "" {
		doc["email"] = id.Email
	}
	if _, ok := doc["groups"]; !ok {
		groups := make([]any, len(id.Groups))
		for i, g := range id.Groups {
			groups[i] = g
		}
		doc["groups"] = groups
	}
	return doc
}

// truthy follows JMESPath truthiness: false, null and empty values are false.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

// Any reports a seller when at least one of its mappers does.
type Any []ports.AccountTypeMapper

func (a Any) IsSeller(id domainauth.Identity) bool {
	for _, m := range a {
		if m != nil && m.IsSeller(id) {
			return true
		}
	}
	return false
}
