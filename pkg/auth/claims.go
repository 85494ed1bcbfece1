// Package auth resolves the caller of an API request: a bearer JWT validated
// against JWKS, the demo-login session cookie, or the anonymous demo principal.
package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/retinue-solutions/triage-engine/pkg/models"
)

// Claims represents the JWT claims issued by the identity provider.
// It embeds RegisteredClaims for standard JWT fields (sub, iss, exp, etc.)
// and adds the profile claims used to address the user.
type Claims struct {
	jwt.RegisteredClaims
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	GivenName string `json:"given_name,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Picture   string `json:"picture,omitempty"`
}

// Principal maps the claims onto the caller identity.
// first_name wins over given_name.
func (c *Claims) Principal() *models.Principal {
	first := c.FirstName
	if first == "" {
		first = c.GivenName
	}
	return &models.Principal{
		UserID:    c.Subject,
		FirstName: first,
		Name:      c.Name,
		Email:     c.Email,
	}
}

// User maps the claims onto a users row for upsert.
func (c *Claims) User() *models.User {
	first := c.Principal().FirstName
	if first == "" {
		if fields := strings.Fields(c.Name); len(fields) > 0 {
			first = fields[0]
		}
	}
	return &models.User{
		ID:              c.Subject,
		Username:        c.Name,
		Email:           c.Email,
		FirstName:       first,
		LastName:        c.LastName,
		ProfileImageURL: c.Picture,
	}
}
