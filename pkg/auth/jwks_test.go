package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// createTestToken creates a JWT token for testing (unsigned, for dev mode).
func createTestToken(claims *Claims) string {
	header := map[string]string{
		"alg": "none",
		"typ": "JWT",
	}
	headerJSON, _ := json.Marshal(header)
	headerB64 := base64.RawURLEncoding.EncodeToString(headerJSON)

	claimsJSON, _ := json.Marshal(claims)
	claimsB64 := base64.RawURLEncoding.EncodeToString(claimsJSON)

	// Return unsigned token (header.claims.)
	return headerB64 + "." + claimsB64 + "."
}

func newDevClient(t *testing.T) *JWKSClient {
	t.Helper()
	client, err := NewJWKSClient(context.Background(), &JWKSConfig{EnableVerification: false})
	if err != nil {
		t.Fatalf("NewJWKSClient failed: %v", err)
	}
	t.Cleanup(client.Close)
	return client
}

func TestJWKSClient_ValidateToken_DevMode(t *testing.T) {
	client := newDevClient(t)

	token := createTestToken(&Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			Issuer:    "https://auth.example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email:     "priya@example.com",
		Name:      "Priya Shah",
		GivenName: "Priya",
	})

	claims, err := client.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}

	if claims.Subject != "user-123" {
		t.Errorf("expected Subject 'user-123', got %q", claims.Subject)
	}
	if claims.Email != "priya@example.com" {
		t.Errorf("expected Email 'priya@example.com', got %q", claims.Email)
	}
	if claims.GivenName != "Priya" {
		t.Errorf("expected GivenName 'Priya', got %q", claims.GivenName)
	}
}

func TestJWKSClient_ValidateToken_MissingSubject(t *testing.T) {
	client := newDevClient(t)

	token := createTestToken(&Claims{Email: "nobody@example.com"})

	_, err := client.ValidateToken(token)
	if !errors.Is(err, ErrMissingSubject) {
		t.Errorf("expected ErrMissingSubject, got: %v", err)
	}
}

func TestJWKSClient_ValidateToken_InvalidFormat(t *testing.T) {
	client := newDevClient(t)

	for _, token := range []string{"not-a-valid-token", "", "eyJhbGciOiJub25lIn0.!!!invalid!!!."} {
		if _, err := client.ValidateToken(token); err == nil {
			t.Errorf("expected error for token %q", token)
		}
	}
}

// jwksServer serves a single RSA public key as a JWKS document.
func jwksServer(t *testing.T, pub *rsa.PublicKey, kid string) *httptest.Server {
	t.Helper()
	doc := map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"kid": kid,
			"alg": "RS256",
			"use": "sig",
			"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(doc)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func signToken(t *testing.T, key *rsa.PrivateKey, kid string, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestJWKSClient_ValidateToken_Verified(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	const issuer = "https://id.example.com"
	srv := jwksServer(t, &key.PublicKey, "k1")

	client, err := NewJWKSClient(context.Background(), &JWKSConfig{
		EnableVerification: true,
		JWKSEndpoints:      map[string]string{issuer: srv.URL},
	})
	if err != nil {
		t.Fatalf("NewJWKSClient failed: %v", err)
	}
	defer client.Close()

	good := signToken(t, key, "k1", &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-9",
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		FirstName: "Sam",
	})

	claims, err := client.ValidateToken(good)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.Subject != "user-9" || claims.FirstName != "Sam" {
		t.Errorf("unexpected claims: %+v", claims)
	}

	foreign := signToken(t, key, "k1", &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-9", Issuer: "https://elsewhere.example.com"},
	})
	if _, err := client.ValidateToken(foreign); err == nil || !strings.Contains(err.Error(), "unauthorized issuer") {
		t.Errorf("expected unauthorized issuer error, got: %v", err)
	}

	// Unsigned tokens are never accepted once verification is on.
	if _, err := client.ValidateToken(createTestToken(&Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "x", Issuer: issuer}})); err == nil {
		t.Error("expected unsigned token to be rejected")
	}
}

func TestJWKSClient_ValidateToken_Expired(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	const issuer = "https://id.example.com"
	srv := jwksServer(t, &key.PublicKey, "k1")

	client, err := NewJWKSClient(context.Background(), &JWKSConfig{
		EnableVerification: true,
		JWKSEndpoints:      map[string]string{issuer: srv.URL},
	})
	if err != nil {
		t.Fatalf("NewJWKSClient failed: %v", err)
	}
	defer client.Close()

	expired := signToken(t, key, "k1", &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-9",
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	if _, err := client.ValidateToken(expired); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got: %v", err)
	}
}

func TestClaims_Principal(t *testing.T) {
	tests := []struct {
		name      string
		claims    Claims
		wantFirst string
		wantName  string
	}{
		{"first_name wins", Claims{FirstName: "Ann", GivenName: "Annabel", Name: "Annabel Lee"}, "Ann", "Ann"},
		{"given_name", Claims{GivenName: "Annabel", Name: "Annabel Lee"}, "Annabel", "Annabel"},
		{"full name only", Claims{Name: "Annabel Lee"}, "", "Annabel"},
		{"nothing", Claims{}, "", "there"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.claims.Subject = "u1"
			p := tt.claims.Principal()
			if p.UserID != "u1" {
				t.Errorf("expected UserID 'u1', got %q", p.UserID)
			}
			if p.FirstName != tt.wantFirst {
				t.Errorf("expected FirstName %q, got %q", tt.wantFirst, p.FirstName)
			}
			if got := p.DisplayName(); got != tt.wantName {
				t.Errorf("expected DisplayName %q, got %q", tt.wantName, got)
			}
		})
	}
}

func TestClaims_User(t *testing.T) {
	c := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u2"},
		Name:             "Jo Bloggs",
		Email:            "jo@example.com",
		Picture:          "https://img.example.com/jo.png",
	}

	u := c.User()

	if u.ID != "u2" || u.FirstName != "Jo" || u.Email != "jo@example.com" || u.ProfileImageURL != "https://img.example.com/jo.png" {
		t.Errorf("unexpected user: %+v", u)
	}
}
