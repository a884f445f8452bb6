package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/bloxpanel/bloxpanel/internal/api/apierr"
	"github.com/bloxpanel/bloxpanel/internal/model"
	"github.com/bloxpanel/bloxpanel/internal/services/access"
)

type contextKey string

const (
	identityContextKey contextKey = "identity"
	sessionContextKey  contextKey = "session"
)

// SessionCookieName is the cookie the callback handler sets
const SessionCookieName = "session"

// Auth creates authentication middleware. A token is resolved first as a
// session token; a bearer token that is not a known session falls back to
// the stateless provider-token check, so API clients can call with the
// access token the callback handed them.
func Auth(gate *access.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, fromBearer := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			ctx := r.Context()

			session, err := gate.ValidateSession(ctx, token)
			if err == nil {
				ctx = context.WithValue(ctx, sessionContextKey, session)
				ctx = context.WithValue(ctx, identityContextKey, &session.Identity)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if !fromBearer {
				apierr.WriteError(w, err)
				return
			}

			identity, err := gate.CheckBearerToken(ctx, token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx = context.WithValue(ctx, identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth extracts the identity if a valid credential is present but
// doesn't require one. It resolves tokens the same way Auth does, session
// first with a stateless fallback for bearer tokens, so a caller holding
// only a provider access token still sees its own login state.
func OptionalAuth(gate *access.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, fromBearer := extractToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()

			if session, err := gate.ValidateSession(ctx, token); err == nil {
				ctx = context.WithValue(ctx, sessionContextKey, session)
				ctx = context.WithValue(ctx, identityContextKey, &session.Identity)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if fromBearer {
				if identity, err := gate.CheckBearerToken(ctx, token); err == nil {
					ctx = context.WithValue(ctx, identityContextKey, identity)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken extracts the token from the request and reports whether it
// came from an Authorization bearer header
func extractToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer "), true
	}

	cookie, err := r.Cookie(SessionCookieName)
	if err == nil {
		return cookie.Value, false
	}

	return "", false
}

// GetIdentity returns the authenticated identity from the request context
func GetIdentity(ctx context.Context) *model.ExternalIdentity {
	identity, _ := ctx.Value(identityContextKey).(*model.ExternalIdentity)
	return identity
}

// GetSession returns the session from the request context, if any
func GetSession(ctx context.Context) *model.Session {
	session, _ := ctx.Value(sessionContextKey).(*model.Session)
	return session
}

// MustGetIdentity returns the authenticated identity or panics
func MustGetIdentity(ctx context.Context) *model.ExternalIdentity {
	identity := GetIdentity(ctx)
	if identity == nil {
		panic("no identity in context - auth middleware not applied?")
	}
	return identity
}
