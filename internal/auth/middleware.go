package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/myflix/myflix-be/internal/models"
	"github.com/rs/zerolog/log"
)

// UserResolver resolves a token subject back to a stored account.
type UserResolver interface {
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
}

// TokenMetrics records token verification outcomes. May be nil.
type TokenMetrics interface {
	RecordTokenVerification(outcome string)
}

type contextKey string

const userContextKey = contextKey("authUser")

// UserFromContext returns the authenticated user placed in the request
// context by RequireAuth.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

// RequireAuth creates a middleware for protecting routes. It verifies the
// bearer token and resolves its subject to an account before the wrapped
// handler runs. Every failure class gets the same 401 body so a caller
// cannot tell a missing token from an expired or orphaned one.
func RequireAuth(tokens *TokenService, users UserResolver, metrics TokenMetrics) func(http.Handler) http.Handler {
	record := func(outcome string) {
		if metrics != nil {
			metrics.RecordTokenVerification(outcome)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				record("missing")
				log.Debug().Str("path", r.URL.Path).Msg("request without bearer token")
				unauthorized(w)
				return
			}

			claims, err := tokens.Verify(tokenStr)
			if err != nil {
				switch {
				case errors.Is(err, models.ErrTokenExpired):
					record("expired")
				default:
					record("invalid")
				}
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("token verification failed")
				unauthorized(w)
				return
			}

			user, err := users.GetUserByUsername(r.Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, models.ErrUserNotFound) {
					record("unknown_subject")
					log.Debug().Str("subject", claims.Subject).Msg("token subject no longer exists")
					unauthorized(w)
					return
				}
				log.Error().Err(err).Msg("failed to resolve token subject")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			record("ok")
			ctx := context.WithValue(r.Context(), userContextKey, user.Sanitize())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(authHeader, prefix) {
		return ""
	}
	return strings.TrimPrefix(authHeader, prefix)
}

func unauthorized(w http.ResponseWriter) {
	http.Error(w, "Invalid or missing auth token", http.StatusUnauthorized)
}
