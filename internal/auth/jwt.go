package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is what the backend puts in its access tokens. The portal
// cannot verify the signature; the backend does that on every call.
type TokenClaims struct {
	UserID      int64    `json:"userId,omitempty"`
	FullName    string   `json:"fullName,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	Role        string   `json:"role,omitempty"`
	Authorities []string `json:"authorities,omitempty"`
	jwt.RegisteredClaims
}

var ErrMalformedToken = errors.New("malformed access token")

// ParseClaims decodes an access token without verifying it.
func ParseClaims(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(tokenString, claims)
	if err != nil {
		return nil, errors.Join(ErrMalformedToken, err)
	}
	if claims.Subject == "" {
		return nil, ErrMalformedToken
	}
	return claims, nil
}

// NormalizeRole upper-cases r and strips the ROLE_ prefix.
func NormalizeRole(r string) string {
	return strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(r)), "ROLE_")
}

// AllRoles merges the role claims the backend may use, normalised to upper
// case without the ROLE_ prefix.
func (c *TokenClaims) AllRoles() []string {
	seen := make(map[string]bool)
	var roles []string
	add := func(r string) {
		r = NormalizeRole(r)
		if r != "" && !seen[r] {
			seen[r] = true
			roles = append(roles, r)
		}
	}
	for _, r := range c.Roles {
		add(r)
	}
	add(c.Role)
	for _, r := range c.Authorities {
		add(r)
	}
	return roles
}

// Expiry returns the token expiry, or the zero time when it has none.
func (c *TokenClaims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
