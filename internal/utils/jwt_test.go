package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func init() {
	SetJWTSecret("test-secret-key-for-testing")
}

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken("alice@example.com", 60)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if token == "" {
		t.Error("GenerateToken() returned empty token")
	}

	if len(token) < 50 {
		t.Errorf("token seems too short: %d chars", len(token))
	}
}

func TestGenerateToken_DifferentTokens(t *testing.T) {
	token1, _ := GenerateToken("alice@example.com", 60)
	token2, _ := GenerateToken("bob@example.com", 60)

	if token1 == token2 {
		t.Error("different emails should produce different tokens")
	}
}

func TestParseToken(t *testing.T) {
	email := "carol@example.com"

	token, _ := GenerateToken(email, 60)

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}

	if claims.Subject != email {
		t.Errorf("Subject = %q, expected %q", claims.Subject, email)
	}
}

func TestParseToken_InvalidToken(t *testing.T) {
	invalidTokens := []string{
		"",
		"invalid",
		"not.a.token",
		"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid.signature",
	}

	for _, token := range invalidTokens {
		_, err := ParseToken(token)
		if err == nil {
			t.Errorf("ParseToken(%q) should return error", token)
		}
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	SetJWTSecret("original-secret")
	token, _ := GenerateToken("alice@example.com", 60)

	SetJWTSecret("different-secret")
	_, err := ParseToken(token)
	if err == nil {
		t.Error("token signed with a different secret should fail verification")
	}

	SetJWTSecret("test-secret-key-for-testing")
}

func TestParseToken_Expired(t *testing.T) {
	token, _ := GenerateToken("alice@example.com", -1)

	_, err := ParseToken(token)
	if err == nil {
		t.Error("expired token should fail verification")
	}
}

func TestParseToken_MissingSubject(t *testing.T) {
	// Sign a token with no subject claim using the same secret.
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err := raw.SignedString([]byte("test-secret-key-for-testing"))
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	_, err = ParseToken(token)
	if err == nil {
		t.Error("token without subject should be rejected")
	}
}
