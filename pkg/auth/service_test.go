package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/retinue-solutions/triage-engine/pkg/models"
)

// mockJWKSClient is a mock implementation of JWKSClientInterface for testing.
type mockJWKSClient struct {
	claims *Claims
	err    error
	tokens []string
}

func (m *mockJWKSClient) ValidateToken(tokenString string) (*Claims, error) {
	m.tokens = append(m.tokens, tokenString)
	if m.err != nil {
		return nil, m.err
	}
	return m.claims, nil
}

func (m *mockJWKSClient) Close() {}

// demoSessionCookie performs a demo login against store and returns the cookie it set.
func demoSessionCookie(t *testing.T, store *SessionStore) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := store.SetDemoLoggedIn(rec, httptest.NewRequest(http.MethodPost, "/api/auth/demo-login", nil)); err != nil {
		t.Fatalf("SetDemoLoggedIn failed: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	return cookies[0]
}

func TestAuthService_Resolve_Anonymous(t *testing.T) {
	svc := NewAuthService(nil, NewSessionStore("secret", false), zap.NewNop())

	res := svc.Resolve(httptest.NewRequest(http.MethodGet, "/api/triage", nil))

	if res.Authenticated {
		t.Error("expected anonymous caller")
	}
	if res.Principal.ID() != models.DemoUserID {
		t.Errorf("expected demo principal, got %q", res.Principal.ID())
	}
}

func TestAuthService_Resolve_DemoSession(t *testing.T) {
	store := NewSessionStore("secret", false)
	svc := NewAuthService(nil, store, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	req.AddCookie(demoSessionCookie(t, store))

	res := svc.Resolve(req)

	if !res.Authenticated {
		t.Fatal("expected demo session to authenticate")
	}
	if res.Principal.ID() != models.DemoUserID {
		t.Errorf("expected demo-user, got %q", res.Principal.ID())
	}
	if res.Principal.DisplayName() != "Demo" {
		t.Errorf("expected display name 'Demo', got %q", res.Principal.DisplayName())
	}
}

func TestAuthService_Resolve_ForgedSessionIgnored(t *testing.T) {
	store := NewSessionStore("secret", false)
	cookie := demoSessionCookie(t, NewSessionStore("other-secret", false))
	svc := NewAuthService(nil, store, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)

	if svc.Resolve(req).Authenticated {
		t.Error("cookie signed with another secret must not authenticate")
	}
}

func TestAuthService_Resolve_BearerToken(t *testing.T) {
	jwks := &mockJWKSClient{claims: &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-42"},
		GivenName:        "Ola",
	}}
	svc := NewAuthService(jwks, NewSessionStore("secret", false), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")

	res := svc.Resolve(req)

	if !res.Authenticated || res.Claims == nil {
		t.Fatal("expected bearer token to authenticate")
	}
	if res.Principal.ID() != "user-42" || res.Principal.DisplayName() != "Ola" {
		t.Errorf("unexpected principal: %+v", res.Principal)
	}
	if len(jwks.tokens) != 1 || jwks.tokens[0] != "abc.def.ghi" {
		t.Errorf("expected token to be passed through, got %v", jwks.tokens)
	}
}

func TestAuthService_Resolve_InvalidBearerFallsBack(t *testing.T) {
	store := NewSessionStore("secret", false)
	jwks := &mockJWKSClient{err: errors.New("signature invalid")}
	svc := NewAuthService(jwks, store, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer forged")
	req.AddCookie(demoSessionCookie(t, store))

	res := svc.Resolve(req)

	if res.Claims != nil {
		t.Error("expected no claims for an invalid token")
	}
	if !res.Authenticated || res.Principal.ID() != models.DemoUserID {
		t.Errorf("expected demo session fallback, got %+v", res)
	}
}

func TestAuthService_Resolve_MalformedHeader(t *testing.T) {
	jwks := &mockJWKSClient{claims: &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "x"}}}
	svc := NewAuthService(jwks, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	res := svc.Resolve(req)

	if res.Authenticated {
		t.Error("expected Basic auth to be ignored")
	}
	if len(jwks.tokens) != 0 {
		t.Error("expected JWKS client not to be called")
	}
}

func TestSessionStore_Clear(t *testing.T) {
	store := NewSessionStore("secret", true)
	cookie := demoSessionCookie(t, store)
	if !cookie.Secure || !cookie.HttpOnly {
		t.Errorf("expected Secure HttpOnly cookie, got %+v", cookie)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/demo-logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	if err := store.Clear(rec, req); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	cleared := rec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Errorf("expected an expiring cookie, got %+v", cleared)
	}
}
