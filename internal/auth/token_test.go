package auth

import (
	"testing"
	"time"
)

const testSecret = "test-signing-secret"

func TestTokenRoundTrip(t *testing.T) {
	signed, err := GenerateToken("cliq-1", "Ada", "ada@example.com", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseToken(signed, testSecret)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.CliqUserID != "cliq-1" || claims.DisplayName != "Ada" || claims.Email != "ada@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Issuer != "cliqnotion" {
		t.Fatalf("issuer %q", claims.Issuer)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	signed, err := GenerateToken("cliq-1", "Ada", "", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ParseToken(signed, "different-secret"); err == nil {
		t.Fatal("token verified with the wrong secret")
	}
}

func TestParseTokenExpired(t *testing.T) {
	signed, err := GenerateToken("cliq-1", "Ada", "", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ParseToken(signed, testSecret); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	if _, err := ParseToken("not.a.token", testSecret); err == nil {
		t.Fatal("garbage accepted")
	}
}
