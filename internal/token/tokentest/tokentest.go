// Package tokentest mints RS256 tokens for tests.
package tokentest

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NewKeyPair generates an RSA key and returns it together with the
// base64 body of its PKIX public key, the same form the portal reads
// from configuration.
func NewKeyPair(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}

	return key, base64.StdEncoding.EncodeToString(der)
}

// PublicKeyBody returns the base64 PKIX body for an existing key.
func PublicKeyBody(t *testing.T, key *rsa.PrivateKey) string {
	t.Helper()

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	return base64.StdEncoding.EncodeToString(der)
}

// Sign produces a signed RS256 token with the given claims.
func Sign(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()

	raw, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

// UserClaims returns a claim set for a typical Keycloak access token,
// expiring one hour from now.
func UserClaims(subject string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":                subject,
		"email":              "jo@example.com",
		"email_verified":     true,
		"name":               "Jo Doe",
		"preferred_username": "jodoe",
		"given_name":         "Jo",
		"family_name":        "Doe",
		"exp":                time.Now().Add(time.Hour).Unix(),
		"iat":                time.Now().Unix(),
	}
}
