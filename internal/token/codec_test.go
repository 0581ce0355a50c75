package token

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"keycloak-portal/internal/token/tokentest"
)

func TestDecode_ValidToken(t *testing.T) {
	key, pubBody := tokentest.NewKeyPair(t)
	codec, err := New(pubBody)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw := tokentest.Sign(t, key, tokentest.UserClaims("user-1"))

	claims, err := codec.Decode(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if claims.Subject != "user-1" {
		t.Errorf("subject: got %q, want %q", claims.Subject, "user-1")
	}
	if claims.Email != "jo@example.com" {
		t.Errorf("email: got %q, want %q", claims.Email, "jo@example.com")
	}
	if claims.Name != "Jo Doe" {
		t.Errorf("name: got %q, want %q", claims.Name, "Jo Doe")
	}
	if !claims.EmailVerified {
		t.Error("expected email_verified to be true")
	}
}

func TestDecode_AudienceNotChecked(t *testing.T) {
	key, pubBody := tokentest.NewKeyPair(t)
	codec, err := New(pubBody)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims := tokentest.UserClaims("user-2")
	claims["aud"] = "some-other-client"
	raw := tokentest.Sign(t, key, claims)

	if _, err := codec.Decode(context.Background(), raw); err != nil {
		t.Fatalf("audience must not be checked, got error: %v", err)
	}
}

func TestDecode_ExpiredToken(t *testing.T) {
	key, pubBody := tokentest.NewKeyPair(t)
	codec, err := New(pubBody)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims := tokentest.UserClaims("user-3")
	claims["exp"] = time.Now().Add(-time.Minute).Unix()
	raw := tokentest.Sign(t, key, claims)

	_, err = codec.Decode(context.Background(), raw)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for expired token, got %v", err)
	}
}

func TestDecode_WrongKey(t *testing.T) {
	_, pubBody := tokentest.NewKeyPair(t)
	codec, err := New(pubBody)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	otherKey, _ := tokentest.NewKeyPair(t)
	raw := tokentest.Sign(t, otherKey, tokentest.UserClaims("user-4"))

	_, err = codec.Decode(context.Background(), raw)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for wrong signature, got %v", err)
	}
}

func TestDecode_Malformed(t *testing.T) {
	_, pubBody := tokentest.NewKeyPair(t)
	codec, err := New(pubBody)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := codec.Decode(context.Background(), raw); !errors.Is(err, ErrInvalid) {
			t.Errorf("token %q: expected ErrInvalid, got %v", raw, err)
		}
	}
}

func TestDecode_HS256Rejected(t *testing.T) {
	_, pubBody := tokentest.NewKeyPair(t)
	codec, err := New(pubBody)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokentest.UserClaims("user-5")).
		SignedString([]byte("shared-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := codec.Decode(context.Background(), raw); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for HS256 token, got %v", err)
	}
}

func TestNew_BadKey(t *testing.T) {
	if _, err := New("%%%not-base64%%%"); err == nil {
		t.Fatal("expected error for invalid key body, got nil")
	}
}
