package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questify/internal/auth"
	"questify/internal/auth/revocation"
	"questify/internal/auth/service"
	"questify/internal/auth/store"
	"questify/internal/auth/token"
	"questify/pkg/events"
	"questify/pkg/platform/logger"
	"questify/pkg/platform/metrics"
	"questify/pkg/platform/tx"
	"questify/pkg/testutil"
)

type nullOutbox struct{}

func (nullOutbox) Append(_ context.Context, _ events.Event, _, _ string) error { return nil }

type fixture struct {
	router http.Handler
	svc    *service.Service
	tokens *token.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logger.New("auth-test")
	tokens := token.NewService("test-signing-key", "questify", 15*time.Minute)
	revoked := revocation.NewMemoryList()
	svc := service.New(store.NewMemoryUsers(), nullOutbox{}, tokens, revoked, tx.Runner(nil), log)

	router := chi.NewRouter()
	New(svc, tokens, revoked, metrics.NewWith(prometheus.NewRegistry(), "auth_test"), log).Register(router)
	return &fixture{router: router, svc: svc, tokens: tokens}
}

func (f *fixture) signUp(t *testing.T, gmail string) *sessionResponse {
	t.Helper()
	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/users/signup", map[string]any{
		"gmail":     gmail,
		"password":  "secret",
		"firstName": "Ada",
	})
	rr := testutil.DoRequest(f.router, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return testutil.UnmarshalResponse[sessionResponse](t, rr)
}

// registerAdmin provisions an admin the way a service main would and signs
// a token for it.
func (f *fixture) registerAdmin(t *testing.T) string {
	t.Helper()
	admin, err := f.svc.EnsureAdmin(context.Background(), "admin@questify.dev", "secret")
	require.NoError(t, err)
	adminToken, _, err := f.tokens.Issue(admin)
	require.NoError(t, err)
	return adminToken
}

func TestSignUpAndSignIn(t *testing.T) {
	f := newFixture(t)

	session := f.signUp(t, "ada@gmail.com")
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "ada@gmail.com", session.User.Gmail)
	assert.Equal(t, events.RoleStudent, session.User.Role)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/users/signin", map[string]string{
		"gmail":    "ada@gmail.com",
		"password": "secret",
	})
	rr := testutil.DoRequest(f.router, req)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestSignUpValidationError(t *testing.T) {
	f := newFixture(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/users/signup", map[string]string{
		"gmail":    "not-an-email",
		"password": "secret",
	})
	rr := testutil.DoRequest(f.router, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, []string{"Email must be valid"}, testutil.ErrorMessages(t, rr))
}

func TestCurrentUser(t *testing.T) {
	f := newFixture(t)
	session := f.signUp(t, "ada@gmail.com")

	req := testutil.NewJSONRequest(t, http.MethodGet, "/api/users/currentuser", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	rr := testutil.DoRequest(f.router, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := testutil.UnmarshalResponse[map[string]*auth.PublicUser](t, rr)
	require.NotNil(t, (*body)["currentUser"])
	assert.Equal(t, "ada@gmail.com", (*body)["currentUser"].Gmail)
}

func TestCurrentUserAnonymous(t *testing.T) {
	f := newFixture(t)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/api/users/currentuser", nil)
	rr := testutil.DoRequest(f.router, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"currentUser": null}`, rr.Body.String())
}

func TestSignOutRevokesToken(t *testing.T) {
	f := newFixture(t)
	session := f.signUp(t, "ada@gmail.com")

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/users/signout", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	rr := testutil.DoRequest(f.router, req)
	require.Equal(t, http.StatusNoContent, rr.Code)

	// The same token no longer authenticates.
	req = testutil.NewJSONRequest(t, http.MethodPost, "/api/users/signout", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	rr = testutil.DoRequest(f.router, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, []string{"Not authorized"}, testutil.ErrorMessages(t, rr))
}

func TestSignOutRequiresAuth(t *testing.T) {
	f := newFixture(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/users/signout", nil)
	rr := testutil.DoRequest(f.router, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	session := f.signUp(t, "ada@gmail.com")

	req := testutil.NewJSONRequest(t, http.MethodPut, "/api/users/profile", map[string]string{
		"firstName": "Augusta",
	})
	req.Header.Set("Authorization", "Bearer "+session.Token)
	rr := testutil.DoRequest(f.router, req)

	require.Equal(t, http.StatusOK, rr.Code)
	updated := testutil.UnmarshalResponse[auth.PublicUser](t, rr)
	assert.Equal(t, "Augusta", updated.FirstName)
	assert.Equal(t, "ada@gmail.com", updated.Gmail)
}

func TestGetUserByID(t *testing.T) {
	f := newFixture(t)
	session := f.signUp(t, "ada@gmail.com")

	req := testutil.NewJSONRequest(t, http.MethodGet, "/api/users/"+session.User.ID.String(), nil)
	rr := testutil.DoRequest(f.router, req)

	require.Equal(t, http.StatusOK, rr.Code)
	user := testutil.UnmarshalResponse[auth.PublicUser](t, rr)
	assert.Equal(t, session.User.ID, user.ID)
}

func TestGetUserBadID(t *testing.T) {
	f := newFixture(t)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/api/users/not-a-uuid", nil)
	rr := testutil.DoRequest(f.router, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	f := newFixture(t)
	session := f.signUp(t, "student@gmail.com")

	req := testutil.NewJSONRequest(t, http.MethodGet, "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	rr := testutil.DoRequest(f.router, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req = testutil.NewJSONRequest(t, http.MethodGet, "/api/admin/users", nil)
	rr = testutil.DoRequest(f.router, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdminSuspendFlow(t *testing.T) {
	f := newFixture(t)
	student := f.signUp(t, "student@gmail.com")
	adminToken := f.registerAdmin(t)

	req := testutil.NewJSONRequest(t, http.MethodPatch, "/api/admin/users/"+student.User.ID.String()+"/suspend", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rr := testutil.DoRequest(f.router, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	suspended := testutil.UnmarshalResponse[auth.PublicUser](t, rr)
	assert.Equal(t, events.UserStatusSuspended, suspended.Status)

	// Tokens issued after the suspension carry the new status, and guarded
	// routes turn the holder away with the suspension message.
	req = testutil.NewJSONRequest(t, http.MethodPost, "/api/users/signin", map[string]string{
		"gmail":    "student@gmail.com",
		"password": "secret",
	})
	rr = testutil.DoRequest(f.router, req)
	require.Equal(t, http.StatusOK, rr.Code)
	refreshed := testutil.UnmarshalResponse[sessionResponse](t, rr)

	req = testutil.NewJSONRequest(t, http.MethodPost, "/api/users/signout", nil)
	req.Header.Set("Authorization", "Bearer "+refreshed.Token)
	rr = testutil.DoRequest(f.router, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, []string{"Your account has been suspended"}, testutil.ErrorMessages(t, rr))

	// Reactivation lifts the block.
	req = testutil.NewJSONRequest(t, http.MethodPatch, "/api/admin/users/"+student.User.ID.String()+"/reactivate", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rr = testutil.DoRequest(f.router, req)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestAdminListUsers(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, "a@gmail.com")
	f.signUp(t, "b@gmail.com")
	adminToken := f.registerAdmin(t)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rr := testutil.DoRequest(f.router, req)

	require.Equal(t, http.StatusOK, rr.Code)
	users := testutil.UnmarshalResponse[[]auth.PublicUser](t, rr)
	assert.Len(t, *users, 3)
}
