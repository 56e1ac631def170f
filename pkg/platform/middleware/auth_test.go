package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questify/pkg/events"
	"questify/pkg/requestcontext"
)

type fakeValidator struct {
	claims *Claims
	err    error
}

func (v fakeValidator) ValidateToken(string) (*Claims, error) {
	return v.claims, v.err
}

type fakeRevocations struct {
	revoked map[string]bool
	err     error
}

func (r fakeRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	return r.revoked[jti], r.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func authenticateRequest(t *testing.T, validator TokenValidator, revocations RevocationChecker, header string) (*httptest.ResponseRecorder, *requestcontext.User) {
	t.Helper()
	var attached *requestcontext.User
	handler := Authenticate(validator, revocations, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := requestcontext.CurrentUser(r.Context()); ok {
			attached = &user
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users/currentuser", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, attached
}

func TestAuthenticateAttachesUser(t *testing.T) {
	userID := uuid.New()
	validator := fakeValidator{claims: &Claims{
		UserID: userID,
		Gmail:  "student@gmail.com",
		Role:   events.RoleStudent,
		Status: events.UserStatusActive,
		JTI:    "jti-1",
	}}

	rec, attached := authenticateRequest(t, validator, fakeRevocations{}, "Bearer good-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, attached)
	assert.Equal(t, userID, attached.ID)
	assert.Equal(t, events.RoleStudent, attached.Role)
}

func TestAuthenticatePassesAnonymousThrough(t *testing.T) {
	rec, attached := authenticateRequest(t, fakeValidator{err: errors.New("never called")}, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, attached, "no user should be attached without a token")
}

func TestAuthenticateRejectsInvalidToken(t *testing.T) {
	rec, attached := authenticateRequest(t, fakeValidator{err: errors.New("expired")}, nil, "Bearer stale")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, attached)
}

func TestAuthenticateRejectsRevokedToken(t *testing.T) {
	validator := fakeValidator{claims: &Claims{
		UserID: uuid.New(),
		Role:   events.RoleStudent,
		Status: events.UserStatusActive,
		JTI:    "jti-revoked",
	}}
	revocations := fakeRevocations{revoked: map[string]bool{"jti-revoked": true}}

	rec, attached := authenticateRequest(t, validator, revocations, "Bearer signed-out")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, attached)
}

func TestAuthenticateFailsClosedOnRevocationError(t *testing.T) {
	validator := fakeValidator{claims: &Claims{
		UserID: uuid.New(),
		Role:   events.RoleStudent,
		Status: events.UserStatusActive,
		JTI:    "jti-2",
	}}
	revocations := fakeRevocations{err: errors.New("redis down")}

	rec, attached := authenticateRequest(t, validator, revocations, "Bearer token")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Nil(t, attached)
}

func TestSuspendedUserStillAttached(t *testing.T) {
	// Suspension is a guard decision, not an authentication failure: the
	// token remains valid, RequireAuth turns it away.
	validator := fakeValidator{claims: &Claims{
		UserID: uuid.New(),
		Role:   events.RoleStudent,
		Status: events.UserStatusSuspended,
		JTI:    "jti-3",
	}}
	rec, attached := authenticateRequest(t, validator, fakeRevocations{}, "Bearer token")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, attached)
	assert.Equal(t, events.UserStatusSuspended, attached.Status)
}
