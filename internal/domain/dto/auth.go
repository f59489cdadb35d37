package dto

import (
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Scopes granted to callers of the API.
const (
	// ScopePlansWrite allows running the planner.
	ScopePlansWrite = "plans:write"
	// ScopeCatalogWrite allows changing the container and item catalogs.
	ScopeCatalogWrite = "catalog:write"
)

// AllScopes is granted to API key callers.
var AllScopes = []string{ScopePlansWrite, ScopeCatalogWrite}

// Claims are the claims read from externally issued bearer tokens.
// Scope is a space separated list as in RFC 8693.
type Claims struct {
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// Scopes splits the scope claim.
func (c *Claims) Scopes() []string {
	return strings.Fields(c.Scope)
}

// HasScope reports whether the token grants scope.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes(), scope)
}
