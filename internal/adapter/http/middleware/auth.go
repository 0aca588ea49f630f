package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/infrastructure/auth"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// UserContextKey is the context key for the authenticated user
	UserContextKey ContextKey = "user"
)

// TokenVerifier checks a signed session token.
type TokenVerifier interface {
	Verify(tokenString string) (*auth.Claims, error)
}

// GoogleTokenVerifier checks a Google ID token.
type GoogleTokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.GoogleIdentity, error)
}

// UserLookup loads the caller's user record.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
}

// AuthFailureRecorder counts rejected requests by reason.
type AuthFailureRecorder interface {
	AuthFailure(reason string)
}

// Authenticator resolves the Authorization header to a stored user.
//
// Two schemes are accepted: "Bearer <jwt>" issued by this service, and
// "Google <id-token>". A valid token for an unknown user is a 404, every
// other failure a 401.
type Authenticator struct {
	tokens   TokenVerifier
	google   GoogleTokenVerifier
	users    UserLookup
	recorder AuthFailureRecorder
	logger   zerolog.Logger
}

// NewAuthenticator creates an Authenticator. google and recorder may be nil.
func NewAuthenticator(tokens TokenVerifier, google GoogleTokenVerifier, users UserLookup, recorder AuthFailureRecorder, logger zerolog.Logger) *Authenticator {
	return &Authenticator{
		tokens:   tokens,
		google:   google,
		users:    users,
		recorder: recorder,
		logger:   logger,
	}
}

// Wrap wraps an http.Handler with authentication.
func (a *Authenticator) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			a.reject(w, "missing_header", http.StatusUnauthorized, "missing authorization header")
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || token == "" {
			a.reject(w, "bad_format", http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		var (
			user *domain.User
			err  error
		)
		switch scheme {
		case "Bearer":
			user, err = a.fromSessionToken(r.Context(), token)
		case "Google":
			user, err = a.fromGoogleToken(r.Context(), token)
		default:
			a.reject(w, "bad_format", http.StatusUnauthorized, "unsupported authorization scheme")
			return
		}

		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			a.reject(w, "unknown_user", http.StatusNotFound, "user not found")
			return
		case err != nil:
			a.logger.Debug().Err(err).Str("scheme", scheme).Msg("authentication failed")
			a.reject(w, "invalid_token", http.StatusUnauthorized, "invalid or expired token")
			return
		}

		if !user.Active {
			a.reject(w, "inactive_user", http.StatusUnauthorized, "user is deactivated")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func (a *Authenticator) fromSessionToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := a.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	return a.users.GetUser(ctx, claims.UserID)
}

func (a *Authenticator) fromGoogleToken(ctx context.Context, token string) (*domain.User, error) {
	if a.google == nil {
		return nil, domain.ErrUnauthorized
	}

	identity, err := a.google.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	return a.users.GetUserByGoogleID(ctx, identity.Subject)
}

func (a *Authenticator) reject(w http.ResponseWriter, reason string, status int, message string) {
	if a.recorder != nil {
		a.recorder.AuthFailure(reason)
	}
	writeError(w, status, message)
}

// StaticActor injects user into every request. It stands in for
// Authenticator when authentication is disabled.
func StaticActor(user *domain.User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireRole creates a middleware that checks for a specific role
func RequireRole(minRole domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUserFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			// Check role permissions
			switch minRole {
			case domain.RoleAdmin:
				if !user.Role.CanManageUsers() {
					writeError(w, http.StatusForbidden, "insufficient permissions")
					return
				}
			case domain.RoleOperator:
				if !user.Role.CanCreate() {
					writeError(w, http.StatusForbidden, "insufficient permissions")
					return
				}
			case domain.RoleViewer:
				// All authenticated users can view
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// GetUserFromContext extracts the authenticated user from context
func GetUserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*domain.User)
	return user, ok
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
