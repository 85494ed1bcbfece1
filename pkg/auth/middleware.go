package auth

import (
	"net/http"

	"go.uber.org/zap"
)

// Middleware provides HTTP authentication middleware.
// It is thin and delegates authentication logic to AuthService.
type Middleware struct {
	authService AuthService
	logger      *zap.Logger
}

// NewMiddleware creates a new auth middleware with the given AuthService.
func NewMiddleware(authService AuthService, logger *zap.Logger) *Middleware {
	return &Middleware{
		authService: authService,
		logger:      logger,
	}
}

// WithPrincipal resolves the caller and stores it in the request context.
// It never rejects: anonymous callers proceed as the demo principal.
func (m *Middleware) WithPrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := m.authService.Resolve(r)
		m.logger.Debug("Resolved principal",
			zap.String("user_id", res.Principal.ID()),
			zap.Bool("authenticated", res.Authenticated))

		ctx := WithPrincipal(r.Context(), res.Principal, res.Authenticated)
		if res.Claims != nil {
			ctx = withClaims(ctx, res.Claims)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
