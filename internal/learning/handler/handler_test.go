package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questify/internal/auth"
	"questify/internal/auth/revocation"
	"questify/internal/auth/token"
	"questify/internal/learning"
	"questify/internal/learning/leaderboard"
	"questify/internal/learning/service"
	"questify/internal/learning/store"
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
	store  *store.Memory
	tokens *token.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logger.New("learning-test")
	tokens := token.NewService("test-signing-key", "questify", 15*time.Minute)
	s := store.NewMemory()
	svc := service.New(s, nullOutbox{}, leaderboard.NewMemory(), tx.Runner(nil), log)

	router := chi.NewRouter()
	New(svc, tokens, revocation.NewMemoryList(), metrics.NewWith(prometheus.NewRegistry(), "learning_test"), log).Register(router)
	return &fixture{router: router, store: s, tokens: tokens}
}

func (f *fixture) studentToken(t *testing.T) string {
	t.Helper()
	signed, _, err := f.tokens.Issue(auth.User{
		ID:     uuid.New(),
		Gmail:  "student@questify.dev",
		Role:   events.RoleStudent,
		Status: events.UserStatusActive,
	})
	require.NoError(t, err)
	return signed
}

func (f *fixture) approvedCourse(t *testing.T) uuid.UUID {
	t.Helper()
	courseID := uuid.New()
	require.NoError(t, f.store.UpsertCourseProjection(context.Background(), learning.CourseProjection{
		ID:        courseID,
		TeacherID: uuid.New(),
		Name:      "Go from zero",
		Status:    events.CourseStatusApproved,
		UpdatedAt: time.Now(),
	}))
	return courseID
}

func (f *fixture) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.NewJSONRequest(t, method, path, body)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return testutil.DoRequest(f.router, req)
}

func TestEnrollFlow(t *testing.T) {
	f := newFixture(t)
	courseID := f.approvedCourse(t)
	student := f.studentToken(t)

	rr := f.do(t, http.MethodPost, "/api/course-learning/enrollments", student, map[string]any{
		"courseId": courseID,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	enrollment := testutil.UnmarshalResponse[learning.UserCourse](t, rr)
	assert.Equal(t, courseID, enrollment.CourseID)
	assert.Equal(t, events.CompletionNotStarted, enrollment.CompletionStatus)

	// The open-by-id route serves peer services without a token.
	rr = f.do(t, http.MethodGet, "/api/course-learning/enrollments/"+enrollment.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	// Peers that only know the (student, course) pair use the nested route.
	rr = f.do(t, http.MethodGet, "/api/course-learning/courses/"+courseID.String()+"/enrollments/"+enrollment.StudentID.String(), "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	byPair := testutil.UnmarshalResponse[learning.UserCourse](t, rr)
	assert.Equal(t, enrollment.ID, byPair.ID)

	rr = f.do(t, http.MethodGet, "/api/course-learning/enrollments", student, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	enrollments := testutil.UnmarshalResponse[[]learning.UserCourse](t, rr)
	assert.Len(t, *enrollments, 1)
}

func TestEnrollRequiresAuth(t *testing.T) {
	f := newFixture(t)
	courseID := f.approvedCourse(t)

	rr := f.do(t, http.MethodPost, "/api/course-learning/enrollments", "", map[string]any{
		"courseId": courseID,
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUpdateProgressAndLeaderboard(t *testing.T) {
	f := newFixture(t)
	courseID := f.approvedCourse(t)
	student := f.studentToken(t)

	rr := f.do(t, http.MethodPost, "/api/course-learning/enrollments", student, map[string]any{
		"courseId": courseID,
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	enrollment := testutil.UnmarshalResponse[learning.UserCourse](t, rr)

	rr = f.do(t, http.MethodPatch, "/api/course-learning/enrollments/"+enrollment.ID.String(), student, map[string]any{
		"point":            120,
		"completionStatus": "InProgress",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := testutil.UnmarshalResponse[learning.UserCourse](t, rr)
	assert.Equal(t, 120, updated.Point)

	rr = f.do(t, http.MethodGet, "/api/course-learning/courses/"+courseID.String()+"/leaderboard", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	entries := testutil.UnmarshalResponse[[]learning.LeaderboardEntry](t, rr)
	require.Len(t, *entries, 1)
	assert.Equal(t, 120, (*entries)[0].Point)
	assert.Equal(t, 1, (*entries)[0].Rank)
}

func TestLeaderboardLimitValidation(t *testing.T) {
	f := newFixture(t)
	courseID := f.approvedCourse(t)

	rr := f.do(t, http.MethodGet, "/api/course-learning/courses/"+courseID.String()+"/leaderboard?limit=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetInventory(t *testing.T) {
	f := newFixture(t)
	courseID := f.approvedCourse(t)
	student := f.studentToken(t)

	rr := f.do(t, http.MethodPost, "/api/course-learning/enrollments", student, map[string]any{
		"courseId": courseID,
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = f.do(t, http.MethodGet, "/api/course-learning/courses/"+courseID.String()+"/inventory", student, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	inventory := testutil.UnmarshalResponse[learning.Inventory](t, rr)
	assert.Equal(t, courseID, inventory.CourseID)
	assert.Equal(t, 0, inventory.Gold)

	// An unenrolled student has no inventory for the course.
	other := f.studentToken(t)
	rr = f.do(t, http.MethodGet, "/api/course-learning/courses/"+courseID.String()+"/inventory", other, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
