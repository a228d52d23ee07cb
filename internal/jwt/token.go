// Package jwt issues and validates the opaque session tokens handed out at
// login. A token binds a display name to a session; validation is stateless.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"

	"room-chat-backend/internal/env"
	"room-chat-backend/utils"
)

var ErrInvalidToken = errors.New("jwt: invalid token")

const TokenTTL = 24 * time.Hour

var signingKey []byte

func init() {
	signingKey = []byte(env.GetOrDefault(env.JWTSecretKey, "dev-insecure-secret"))
}

type Claims struct {
	Username string `json:"username"`
	jwt.StandardClaims
}

// CreateToken validates the display name and signs a session token for it.
// The username travels inside the token, so the upgrade path can recover it
// without any issuance bookkeeping.
func CreateToken(username string) (string, error) {
	name, err := utils.NormalizeUsername(username)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := &Claims{
		Username: name,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(TokenTTL).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken returns the claims for a valid session token. Unknown, expired,
// malformed, and wrongly signed tokens all collapse to ErrInvalidToken; the
// caller refuses the upgrade either way.
func ParseToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return signingKey, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
