// Package token issues and validates the HS256 access tokens the platform
// uses between clients and services.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"questify/internal/auth"
	"questify/pkg/apperrors"
	"questify/pkg/events"
	"questify/pkg/platform/middleware"
)

// Claims is the JWT claim set for access tokens. The subject is the user id
// and the registered ID is the JTI the revocation list keys on.
type Claims struct {
	Gmail  string            `json:"gmail"`
	Role   events.Role       `json:"role"`
	Status events.UserStatus `json:"status"`
	jwt.RegisteredClaims
}

// Service signs and validates access tokens with a shared HMAC key.
type Service struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

func NewService(signingKey, issuer string, ttl time.Duration) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		ttl:        ttl,
	}
}

// TTL is the lifetime stamped on issued tokens.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue signs an access token for the user and returns it with its JTI.
func (s *Service) Issue(user auth.User) (string, string, error) {
	jti := uuid.NewString()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Gmail:  user.Gmail,
		Role:   user.Role,
		Status: user.Status,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        jti,
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

// ValidateToken parses and verifies a token, returning the claims the auth
// middleware attaches to the request. Expired, malformed and forged tokens
// all come back as not-authorized; the caller does not learn which.
func (s *Service) ValidateToken(tokenString string) (*middleware.Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer))
	if err != nil || !parsed.Valid {
		return nil, apperrors.NotAuthorized()
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, apperrors.NotAuthorized()
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperrors.NotAuthorized()
	}

	out := &middleware.Claims{
		UserID: userID,
		Gmail:  claims.Gmail,
		Role:   claims.Role,
		Status: claims.Status,
		JTI:    claims.ID,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
