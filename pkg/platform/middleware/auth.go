package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"questify/pkg/apperrors"
	"questify/pkg/events"
	"questify/pkg/platform/httpjson"
	"questify/pkg/requestcontext"
)

// Claims is what the token validator hands back to the middleware.
type Claims struct {
	UserID    uuid.UUID
	Gmail     string
	Role      events.Role
	Status    events.UserStatus
	JTI       string
	ExpiresAt time.Time
}

// TokenValidator validates a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(token string) (*Claims, error)
}

// RevocationChecker reports whether a token id has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Authenticate attaches the current user to the context when a valid
// bearer token is present. Requests without an Authorization header pass
// through anonymously; the guard chain decides whether that matters.
// Invalid or revoked tokens are rejected here so a stale credential never
// masquerades as anonymous traffic.
func Authenticate(validator TokenValidator, revocations RevocationChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "invalid token",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				httpjson.WriteError(w, apperrors.NotAuthorized())
				return
			}

			if revocations != nil && claims.JTI != "" {
				revoked, err := revocations.IsRevoked(ctx, claims.JTI)
				if err != nil {
					logger.ErrorContext(ctx, "revocation check failed",
						"request_id", requestcontext.RequestID(ctx),
						"error", err,
					)
					httpjson.WriteError(w, apperrors.New(apperrors.CodeInternal, "Failed to validate token"))
					return
				}
				if revoked {
					logger.WarnContext(ctx, "revoked token",
						"request_id", requestcontext.RequestID(ctx),
						"jti", claims.JTI,
					)
					httpjson.WriteError(w, apperrors.NotAuthorized())
					return
				}
			}

			ctx = requestcontext.WithCurrentUser(ctx, requestcontext.User{
				ID:     claims.UserID,
				Gmail:  claims.Gmail,
				Role:   claims.Role,
				Status: claims.Status,
			})
			ctx = requestcontext.WithCurrentToken(ctx, requestcontext.Token{
				JTI:       claims.JTI,
				ExpiresAt: claims.ExpiresAt,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
