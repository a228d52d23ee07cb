package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
)

func TestCreateAndParseToken(t *testing.T) {
	token, err := CreateToken("alice")
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Username != "alice" {
		t.Fatalf("expected username alice, got %q", claims.Username)
	}
	if got := claims.ExpiresAt - claims.IssuedAt; got != int64(TokenTTL/time.Second) {
		t.Fatalf("unexpected TTL: %d seconds", got)
	}
}

func TestCreateTokenTrimsUsername(t *testing.T) {
	token, err := CreateToken("  alice  ")
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Username != "alice" {
		t.Fatalf("expected trimmed username, got %q", claims.Username)
	}
}

func TestCreateTokenUsernameBounds(t *testing.T) {
	cases := []struct {
		username string
		ok       bool
	}{
		{"", false},
		{"a", false},
		{"ab", true},
		{strings.Repeat("x", 20), true},
		{strings.Repeat("x", 21), false},
	}

	for _, tc := range cases {
		_, err := CreateToken(tc.username)
		if tc.ok && err != nil {
			t.Errorf("username %q (len %d): unexpected error %v", tc.username, len(tc.username), err)
		}
		if !tc.ok && err == nil {
			t.Errorf("username %q (len %d): expected error", tc.username, len(tc.username))
		}
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		if _, err := ParseToken(bad); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("token %q: expected ErrInvalidToken, got %v", bad, err)
		}
	}
}

func TestParseTokenRejectsWrongKey(t *testing.T) {
	claims := &Claims{
		Username: "alice",
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("someone-elses-key"))
	if err != nil {
		t.Fatalf("sign forged token: %v", err)
	}

	if _, err := ParseToken(forged); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong key, got %v", err)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	claims := &Claims{
		Username: "alice",
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  time.Now().Add(-2 * time.Hour).Unix(),
			ExpiresAt: time.Now().Add(-time.Hour).Unix(),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}

	if _, err := ParseToken(expired); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestParseTokenRejectsWrongAlgorithm(t *testing.T) {
	// alg=none tokens must never validate, whatever their payload says.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Username: "alice"})
	unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	if _, err := ParseToken(unsigned); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for alg=none, got %v", err)
	}
}
