package auth

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/retinue-solutions/triage-engine/pkg/models"
)

// Common authentication errors.
var (
	ErrMissingAuthorization = errors.New("missing authorization")
	ErrInvalidAuthFormat    = errors.New("invalid authorization header format")
	ErrMissingSubject       = errors.New("missing subject in token")
)

// Resolution is the outcome of identifying a request's caller.
type Resolution struct {
	Principal *models.Principal
	// Claims is set when the caller presented a valid bearer token.
	Claims *Claims
	// Authenticated is false for the anonymous demo principal.
	Authenticated bool
}

// AuthService defines the interface for authentication operations.
// This abstraction enables clean separation between HTTP handling
// and authentication logic, making both easier to test.
type AuthService interface {
	// Resolve identifies the caller, checking in order:
	//   1. Authorization header with "Bearer" scheme (when a JWKS client is configured)
	//   2. The demo-login session cookie
	// and otherwise falling back to the anonymous demo principal.
	Resolve(r *http.Request) *Resolution

	// Sessions exposes the demo-login session store.
	Sessions() *SessionStore
}

// authService implements AuthService.
type authService struct {
	jwksClient JWKSClientInterface
	sessions   *SessionStore
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService. jwksClient may be nil, in which
// case bearer tokens are ignored.
func NewAuthService(jwksClient JWKSClientInterface, sessions *SessionStore, logger *zap.Logger) AuthService {
	return &authService{
		jwksClient: jwksClient,
		sessions:   sessions,
		logger:     logger.Named("auth"),
	}
}

func (s *authService) Resolve(r *http.Request) *Resolution {
	if s.jwksClient != nil {
		claims, err := s.validateBearer(r)
		switch {
		case err == nil:
			return &Resolution{Principal: claims.Principal(), Claims: claims, Authenticated: true}
		case !errors.Is(err, ErrMissingAuthorization):
			s.logger.Debug("Ignoring invalid bearer token",
				zap.Error(err),
				zap.String("path", r.URL.Path))
		}
	}

	if s.sessions != nil && s.sessions.IsDemoLoggedIn(r) {
		user := models.DemoUser()
		return &Resolution{
			Principal: &models.Principal{
				UserID:    user.ID,
				FirstName: user.FirstName,
				Name:      user.Username,
				Email:     user.Email,
			},
			Authenticated: true,
		}
	}

	return &Resolution{Principal: models.DemoPrincipal()}
}

func (s *authService) Sessions() *SessionStore {
	return s.sessions
}

// validateBearer extracts and validates a JWT from the Authorization header.
func (s *authService) validateBearer(r *http.Request) (*Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, ErrMissingAuthorization
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, ErrInvalidAuthFormat
	}

	return s.jwksClient.ValidateToken(parts[1])
}

// Ensure authService implements AuthService at compile time.
var _ AuthService = (*authService)(nil)
