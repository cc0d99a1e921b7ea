package auth

import (
	"testing"

	"centralTodoPlanner/internal/testutil"
)

const testSecret = "test-secret"

func TestParseFromHeader_ValidBearer(t *testing.T) {
	tok := testutil.GenerateJWTHS256(t, testSecret, "alice", "user")
	p, err := ParseFromHeader("Bearer "+tok, testSecret)
	if err != nil {
		t.Fatalf("ParseFromHeader: %v", err)
	}
	if p.Name != "alice" || p.Kind != "user" {
		t.Fatalf("principal mismatch: %+v", p)
	}
}

func TestParseFromHeader_MissingHeader(t *testing.T) {
	if _, err := ParseFromHeader("", testSecret); err == nil {
		t.Fatalf("expected error for missing header")
	}
}

func TestParseFromHeader_InvalidScheme(t *testing.T) {
	tok := testutil.GenerateJWTHS256(t, testSecret, "bob", "user")
	if _, err := ParseFromHeader("Basic "+tok, testSecret); err == nil {
		t.Fatalf("expected error for non-Bearer scheme")
	}
	if _, err := parseJWT(tok, "wrong"); err == nil {
		t.Fatalf("expected error for wrong secret")
	}
}

func TestParseJWT_ClaimsValidation(t *testing.T) {
	// Missing name/kind -> invalid
	tok := testutil.GenerateJWTHS256(t, testSecret, "", "")
	if _, err := parseJWT(tok, testSecret); err == nil {
		t.Fatalf("expected invalid claims error")
	}
}

func TestNewToken_RoundTrip(t *testing.T) {
	tok, err := NewToken(testSecret, "carol", "ADMIN")
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}
	p, err := parseJWT(tok, testSecret)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if p.Name != "carol" || p.Kind != "admin" {
		t.Fatalf("principal mismatch: %+v", p)
	}
	if _, err := NewToken("", "carol", "admin"); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
