package oauth

// Package oauth provides the external identity provider adapters. Two
// provider shapes are supported: full OIDC (discovery + verified id_token)
// and plain OAuth2 with a userinfo endpoint. Both map provider payloads into
// a domain Identity.

import (
	"fmt"

	jmespath "github.com/jmespath-community/go-jmespath"

	domainauth "github.com/linguahub/lingua-ui/internal/domain/auth"
)

// AttributeMap holds JMESPath expressions that extract identity fields from a
// provider's userinfo/claims document. Keeping the payload shape in config
// means adding a provider never touches code.
type AttributeMap struct {
	ID     string
	Name   string
	Email  string
	Avatar string
	// Role optionally resolves a role name from the document. When empty or
	// unmatched, the identity defaults to the student role.
	Role string
}

// Validate compiles every non-empty expression and reports the first failure.
func (m AttributeMap) Validate() error {
	exprs := map[string]string{
		"id": m.ID, "name": m.Name, "email": m.Email, "avatar": m.Avatar, "role": m.Role,
	}
	for field, expr := range exprs {
		if expr == "" {
			continue
		}
		if _, err := jmespath.Compile(expr); err != nil {
			return fmt.Errorf("attribute map %s: %w", field, err)
		}
	}
	return nil
}

// Apply evaluates the map against a decoded JSON document and builds an
// Identity. Missing or non-string results simply leave the field empty.
func (m AttributeMap) Apply(doc any) domainauth.Identity {
	identity := domainauth.Identity{
		ID:    searchString(m.ID, doc),
		Name:  searchString(m.Name, doc),
		Email: searchString(m.Email, doc),
		Image: searchString(m.Avatar, doc),
	}
	if role := searchString(m.Role, doc); role != "" {
		identity.Role = domainauth.PlainRole(role)
	}
	return identity
}

func searchString(expr string, doc any) string {
	if expr == "" {
		return ""
	}
	result, err := jmespath.Search(expr, doc)
	if err != nil {
		return ""
	}
	switch v := result.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case float64:
		// Numeric ids (GitHub) come back as float64 from encoding/json.
		return fmt.Sprintf("%.0f", v)
	default:
		return ""
	}
}
