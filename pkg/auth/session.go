package auth

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/sessions"
)

// SessionName is the name of the demo-login session cookie.
const SessionName = "triage-session"

// SessionKeyDemoLoggedIn flags a session that went through demo login.
const SessionKeyDemoLoggedIn = "demoLoggedIn"

// sessionMaxAge is one week.
const sessionMaxAge = 7 * 24 * 60 * 60

// SessionStore wraps the cookie store backing demo login.
type SessionStore struct {
	store *sessions.CookieStore
}

// NewSessionStore creates the cookie-based session store.
//
// The secret parameter is used to sign session cookies. It can be any
// passphrase - it will be SHA-256 hashed to derive a 32-byte key.
// The secret must be consistent across server restarts and multiple
// servers in a load-balanced deployment.
func NewSessionStore(secret string, secure bool) *SessionStore {
	key := sha256.Sum256([]byte(secret))

	store := sessions.NewCookieStore(key[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionStore{store: store}
}

// IsDemoLoggedIn reports whether the request carries a demo-login session.
// An unreadable cookie counts as logged out.
func (s *SessionStore) IsDemoLoggedIn(r *http.Request) bool {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return false
	}
	loggedIn, _ := session.Values[SessionKeyDemoLoggedIn].(bool)
	return loggedIn
}

// SetDemoLoggedIn marks the session as demo-logged-in and writes the cookie.
func (s *SessionStore) SetDemoLoggedIn(w http.ResponseWriter, r *http.Request) error {
	// Get returns a fresh session alongside a decode error, which is fine here.
	session, _ := s.store.Get(r, SessionName)
	session.Values[SessionKeyDemoLoggedIn] = true
	return session.Save(r, w)
}

// Clear drops the session cookie.
func (s *SessionStore) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, SessionName)
	delete(session.Values, SessionKeyDemoLoggedIn)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
