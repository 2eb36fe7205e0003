package session

import (
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

// Claims is the display-only slice of the backend's access token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Peek decodes the token payload without verifying the signature. The
// backend stays the authority on token validity (a bad token simply earns a
// 401 downstream); the claims here only feed the header view.
func Peek(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return claims, nil
}
