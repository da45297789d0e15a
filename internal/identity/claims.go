package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the token claims issued by the VaultBox server.
type Claims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// FromToken decodes the access token's claims into a User.
//
// The signature is NOT verified: the client has no key material, and the
// server re-validates the token on every request. The decoded identity is
// used only for display and for gating admin-only UI.
func FromToken(token string) (User, error) {
	var claims Claims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return User{}, fmt.Errorf("decoding token claims: %w", err)
	}
	if claims.Subject == "" {
		return User{}, fmt.Errorf("token has no subject claim")
	}

	role := Role(claims.Role)
	if role != RoleAdmin {
		role = RoleUser
	}

	return User{
		ID:       claims.Subject,
		Email:    claims.Email,
		Username: claims.Username,
		Role:     role,
	}, nil
}

// TokenExpired reports whether the token carries an exp claim in the past.
// Tokens without an exp claim are treated as live; the server decides.
func TokenExpired(token string) bool {
	var claims Claims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}
