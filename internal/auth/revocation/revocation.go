// Package revocation tracks signed-out token ids until their tokens expire.
// The auth middleware consults it on every authenticated request, so the
// check is a single key lookup.
package revocation

import (
	"context"
	"time"
)

// List is the revocation boundary. Redis is the production implementation;
// memory backs tests and single-instance development.
type List interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
