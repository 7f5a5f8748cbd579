package auth

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndValidateToken(t *testing.T) {
	secret := "test-secret-key"

	token, err := GenerateToken(secret, "seller-42", "Ana", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	if claims.Subject != "seller-42" {
		t.Errorf("expected subject 'seller-42', got %q", claims.Subject)
	}
	if claims.Name != "Ana" {
		t.Errorf("expected name 'Ana', got %q", claims.Name)
	}
	if claims.ID == "" {
		t.Error("expected a token id")
	}
}

func TestGenerateTokenDefaultExpiry(t *testing.T) {
	token, err := GenerateToken("secret", "seller", "", 0)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	claims, err := ValidateToken("secret", token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < TokenExpiry-time.Minute || ttl > TokenExpiry {
		t.Errorf("expected default expiry of %v, got %v", TokenExpiry, ttl)
	}
}

func TestGenerateTokenRequiresSubject(t *testing.T) {
	if _, err := GenerateToken("secret", "", "Ana", time.Hour); !errors.Is(err, ErrNoSubject) {
		t.Errorf("expected ErrNoSubject, got %v", err)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _ := GenerateToken("secret1", "seller", "", time.Hour)

	_, err := ValidateToken("secret2", token)
	if err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	token, _ := GenerateToken("secret", "seller", "", time.Nanosecond)
	time.Sleep(1100 * time.Millisecond)

	if _, err := ValidateToken("secret", token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestValidateTokenInvalid(t *testing.T) {
	_, err := ValidateToken("secret", "not-a-token")
	if err == nil {
		t.Error("expected error for invalid token")
	}
}
