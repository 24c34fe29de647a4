package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what the client may show about its token. The signature is
// not checked here: only the backend decides whether a token is valid.
type TokenInfo struct {
	Subject string
	Role    string
	Expires string
}

func Claims(token string) (TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("parse token: %w", err)
	}
	info := TokenInfo{}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if role, ok := claims["role"].(string); ok {
		info.Role = role
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.Expires = exp.UTC().Format("2006-01-02 15:04:05Z")
	}
	return info, nil
}
