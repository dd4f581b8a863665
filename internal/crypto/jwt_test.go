package crypto

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testTokenConfig() TokenConfig {
	return TokenConfig{
		Key:      "test-secret",
		Issuer:   "digireceipt",
		Audience: "digireceipt-app",
		Expiry:   time.Hour,
	}
}

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken(42, testTokenConfig())
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("GenerateToken() returned empty string")
	}
}

func TestGenerateTokenUniquePerCall(t *testing.T) {
	cfg := testTokenConfig()
	a, _ := GenerateToken(42, cfg)
	b, _ := GenerateToken(42, cfg)
	if a == b {
		t.Error("GenerateToken() returned identical tokens; jti should differ")
	}
}

func TestValidateTokenValid(t *testing.T) {
	cfg := testTokenConfig()

	token, err := GenerateToken(42, cfg)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	claims, err := ValidateToken(token, cfg)
	if err != nil {
		t.Fatalf("ValidateToken() unexpected error: %v", err)
	}
	id, err := claims.UserID()
	if err != nil {
		t.Fatalf("UserID() unexpected error: %v", err)
	}
	if id != 42 {
		t.Errorf("UserID() = %d, want 42", id)
	}
	if claims.ID == "" {
		t.Error("ValidateToken() claims missing jti")
	}
}

func TestValidateTokenInvalid(t *testing.T) {
	_, err := ValidateToken("not-a-valid-token", testTokenConfig())
	if err == nil {
		t.Error("ValidateToken() expected error for invalid token")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	cfg := testTokenConfig()
	token, _ := GenerateToken(42, cfg)

	cfg.Key = "wrong-secret"
	if _, err := ValidateToken(token, cfg); err == nil {
		t.Error("ValidateToken() expected error for wrong secret")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	cfg := testTokenConfig()
	cfg.Expiry = -time.Minute

	token, err := GenerateToken(42, cfg)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	if _, err := ValidateToken(token, cfg); err == nil {
		t.Error("ValidateToken() expected error for expired token")
	}
}

func TestValidateTokenWrongIssuerAndAudience(t *testing.T) {
	cfg := testTokenConfig()

	tests := []struct {
		name     string
		issuer   string
		audience string
	}{
		{"wrong issuer", "wrong-issuer", cfg.Audience},
		{"wrong audience", cfg.Issuer, "wrong-audience"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := Claims{
				RegisteredClaims: jwt.RegisteredClaims{
					Subject:   "42",
					Issuer:    tt.issuer,
					Audience:  jwt.ClaimStrings{tt.audience},
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				},
			}
			signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Key))
			if err != nil {
				t.Fatalf("SignedString() unexpected error: %v", err)
			}
			if _, err := ValidateToken(signed, cfg); err == nil {
				t.Errorf("ValidateToken() expected error for %s", tt.name)
			}
		})
	}
}

func TestClaimsUserIDMalformedSubject(t *testing.T) {
	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "abc"}}
	if _, err := c.UserID(); err != ErrInvalidToken {
		t.Errorf("UserID() error = %v, want ErrInvalidToken", err)
	}
}
