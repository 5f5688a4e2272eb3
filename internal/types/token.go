package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the claims in an auth token. The registered ID
// claim (jti) identifies the token for logout.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

// TokenResponse is returned by the login endpoint.
type TokenResponse struct {
	AuthToken string `json:"auth_token"`
}
