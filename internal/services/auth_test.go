package services

import (
	"strings"
	"testing"
	"time"
)

func initTestAuth(t *testing.T, secret string, expiry time.Duration) {
	t.Helper()
	orig := authService
	InitAuthService(secret, expiry)
	t.Cleanup(func() { authService = orig })
}

func TestTokenRoundTrip(t *testing.T) {
	initTestAuth(t, "unit-test-secret", time.Hour)

	token, err := GenerateToken("tray")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.ClientName != "tray" {
		t.Errorf("ClientName = %q, want tray", claims.ClientName)
	}
	if claims.Issuer != "wakeguard" {
		t.Errorf("Issuer = %q, want wakeguard", claims.Issuer)
	}
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	initTestAuth(t, "unit-test-secret", time.Hour)

	token, err := GenerateToken("tray")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d parts", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	if _, err := ValidateToken(tampered); err == nil {
		t.Error("ValidateToken() accepted a tampered token")
	}
}

func TestValidateRejectsForeignKey(t *testing.T) {
	initTestAuth(t, "unit-test-secret", time.Hour)
	token, err := GenerateToken("tray")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	InitAuthService("a-completely-different-secret", time.Hour)
	if _, err := ValidateToken(token); err == nil {
		t.Error("ValidateToken() accepted a token signed with another key")
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	initTestAuth(t, "unit-test-secret", -time.Minute)

	token, err := GenerateToken("tray")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if _, err := ValidateToken(token); err == nil {
		t.Error("ValidateToken() accepted an expired token")
	}
}

func TestUninitializedAuthService(t *testing.T) {
	orig := authService
	authService = nil
	t.Cleanup(func() { authService = orig })

	if _, err := GenerateToken("tray"); err == nil {
		t.Error("GenerateToken() succeeded without init")
	}
	if _, err := ValidateToken("whatever"); err == nil {
		t.Error("ValidateToken() succeeded without init")
	}
	if !GetTokenExpiry().IsZero() {
		t.Error("GetTokenExpiry() non-zero without init")
	}
}
