// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them; services and guards read
// them. Keeping this package free of net/http lets services import only
// what they need.
package requestcontext

import (
	"context"
	"time"

	"github.com/google/uuid"

	"questify/pkg/events"
)

// User is the authenticated identity attached to an in-flight request.
// Guards treat it as read-only.
type User struct {
	ID     uuid.UUID
	Gmail  string
	Role   events.Role
	Status events.UserStatus
}

// Token describes the credential behind the current user. SignOut needs
// the JTI and the remaining lifetime to size the revocation entry.
type Token struct {
	JTI       string
	ExpiresAt time.Time
}

type (
	userKey        struct{}
	tokenKey       struct{}
	requestIDKey   struct{}
	clientIPKey    struct{}
	userAgentKey   struct{}
	deviceKey      struct{}
	requestTimeKey struct{}
)

// CurrentUser retrieves the authenticated user, if any.
func CurrentUser(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userKey{}).(User)
	return user, ok
}

// WithCurrentUser attaches an authenticated user to the context.
func WithCurrentUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// CurrentToken retrieves the credential behind the current user, if any.
func CurrentToken(ctx context.Context) (Token, bool) {
	token, ok := ctx.Value(tokenKey{}).(Token)
	return token, ok
}

// WithCurrentToken attaches the credential behind the current user.
func WithCurrentToken(ctx context.Context, token Token) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// RequestID retrieves the request correlation id, or "" if unset.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithRequestID injects a request id into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// ClientIP retrieves the client IP address from the context.
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok {
		return ip
	}
	return ""
}

// UserAgent retrieves the raw User-Agent from the context.
func UserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(userAgentKey{}).(string); ok {
		return ua
	}
	return ""
}

// WithClientMetadata injects client IP and User-Agent into a context.
// Useful for service unit tests that don't run the HTTP middleware chain.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey{}, clientIP)
	return context.WithValue(ctx, userAgentKey{}, userAgent)
}

// Device describes the parsed client platform, for session records.
type Device struct {
	Browser string
	OS      string
	Mobile  bool
	Bot     bool
}

// Label renders the device as a short display name, like "Chrome on
// Ubuntu", for log lines and session records.
func (d Device) Label() string {
	name := d.Browser
	if name == "" {
		name = "unknown browser"
	}
	if d.OS != "" {
		name += " on " + d.OS
	}
	if d.Bot {
		name += " (bot)"
	}
	return name
}

// ClientDevice retrieves the parsed device info from the context.
func ClientDevice(ctx context.Context) (Device, bool) {
	device, ok := ctx.Value(deviceKey{}).(Device)
	return device, ok
}

// WithClientDevice injects parsed device info into the context.
func WithClientDevice(ctx context.Context, device Device) context.Context {
	return context.WithValue(ctx, deviceKey{}, device)
}

// Now retrieves the request-scoped time, falling back to time.Now for
// non-HTTP contexts like workers and tests.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the request time, so a handler sees one consistent clock.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
