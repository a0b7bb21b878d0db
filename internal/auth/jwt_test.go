package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestJWT(t *testing.T) {
	secret := "supersecret"
	userID := uuid.New()

	token, err := GenerateToken(userID, secret, time.Hour)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	claims, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("Expected UserID %s, got %s", userID, claims.UserID)
	}
	if claims.Role != "authenticated" {
		t.Errorf("Expected role authenticated, got %s", claims.Role)
	}

	if _, err := ValidateToken(token, "wrongsecret"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken with wrong secret, got %v", err)
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken(uuid.New(), "s", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ValidateToken(token, "s"); err == nil {
		t.Fatal("Expected expired token to be rejected")
	}
}

func TestValidateTokenRejectsNonUUIDSubject(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte("s"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ValidateToken(signed, "s"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateTokenRejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte("s"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ValidateToken(signed, "s"); err == nil {
		t.Fatal("Expected HS512 token to be rejected")
	}
}

func TestValidateTokenEmptyInput(t *testing.T) {
	if _, err := ValidateToken("", "s"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Expected ErrInvalidToken for empty token, got %v", err)
	}
	if _, err := ValidateToken("a.b.c", ""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Expected ErrInvalidToken for empty secret, got %v", err)
	}
}
