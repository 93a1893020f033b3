package session

import (
	"errors"
	"strings"
	"testing"
)

func TestIssueAndVerifyRoundtrip(t *testing.T) {
	codec := NewCodec("test-secret")

	token, err := codec.Issue(Claims{
		UserID:   42,
		Username: "SwiftEagle123",
		Role:     "student",
		EntraOID: "local:someone@mail.aub.edu",
	})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("Expected UserID 42, got %d", claims.UserID)
	}
	if claims.Username != "SwiftEagle123" {
		t.Errorf("Expected username SwiftEagle123, got %s", claims.Username)
	}
	if claims.Role != "student" {
		t.Errorf("Expected role student, got %s", claims.Role)
	}
	if claims.EntraOID != "local:someone@mail.aub.edu" {
		t.Errorf("Expected entra_oid local:someone@mail.aub.edu, got %s", claims.EntraOID)
	}
}

func TestVerifyMissingToken(t *testing.T) {
	codec := NewCodec("test-secret")

	_, err := codec.Verify("")
	if !errors.Is(err, ErrMissingToken) {
		t.Errorf("Expected ErrMissingToken, got %v", err)
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	codec := NewCodec("test-secret")

	token, err := codec.Issue(Claims{UserID: 1, Username: "CalmOwl7", Role: "student"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// Flip a character in the payload segment
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("Unexpected token format: %s", token)
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = codec.Verify(tampered)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Expected ErrInvalidSignature for tampered token, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewCodec("secret-one")
	verifier := NewCodec("secret-two")

	token, err := issuer.Issue(Claims{UserID: 1, Username: "BoldFox9", Role: "professor"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Expected ErrInvalidSignature for foreign secret, got %v", err)
	}
}

func TestVerifyGarbageToken(t *testing.T) {
	codec := NewCodec("test-secret")

	for _, tok := range []string{"not-a-jwt", "a.b", "a.b.c.d", "...."} {
		if _, err := codec.Verify(tok); !errors.Is(err, ErrInvalidSignature) {
			t.Errorf("Expected ErrInvalidSignature for %q, got %v", tok, err)
		}
	}
}

func TestKeyDerivationIsDeterministic(t *testing.T) {
	a := NewCodec("same-secret")
	b := NewCodec("same-secret")

	token, err := a.Issue(Claims{UserID: 7, Username: "GentleWolf42", Role: "student"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := b.Verify(token); err != nil {
		t.Errorf("Codec with the same secret should verify the token, got %v", err)
	}
}
