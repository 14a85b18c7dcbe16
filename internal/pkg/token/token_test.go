package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndParse(t *testing.T) {
	raw, err := Issue("secret", "64b000000000000000000001", "photographer", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := Parse("secret", raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "64b000000000000000000001" || claims.Role != "photographer" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ExpiresAt == nil {
		t.Fatalf("expected expiry to be set")
	}
}

func TestParse_WrongSecret(t *testing.T) {
	raw, _ := Issue("secret", "u1", "admin", time.Hour)
	if _, err := Parse("other", raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParse_Expired(t *testing.T) {
	raw, _ := Issue("secret", "u1", "admin", -time.Minute)
	if _, err := Parse("secret", raw); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestParse_RejectsOtherAlgorithms(t *testing.T) {
	tkn := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"id": "u1", "role": "admin"})
	raw, err := tkn.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := Parse("secret", raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParse_MissingIdentity(t *testing.T) {
	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "admin"})
	raw, _ := tkn.SignedString([]byte("secret"))
	if _, err := Parse("secret", raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
