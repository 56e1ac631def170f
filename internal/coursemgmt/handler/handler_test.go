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
	"questify/internal/coursemgmt"
	"questify/internal/coursemgmt/service"
	"questify/internal/coursemgmt/store"
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
	tokens *token.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logger.New("coursemgmt-test")
	tokens := token.NewService("test-signing-key", "questify", 15*time.Minute)
	svc := service.New(store.NewMemory(), nullOutbox{}, tx.Runner(nil), log)

	router := chi.NewRouter()
	New(svc, tokens, revocation.NewMemoryList(), metrics.NewWith(prometheus.NewRegistry(), "coursemgmt_test"), log).Register(router)
	return &fixture{router: router, tokens: tokens}
}

func (f *fixture) tokenFor(t *testing.T, role events.Role) string {
	t.Helper()
	signed, _, err := f.tokens.Issue(auth.User{
		ID:     uuid.New(),
		Gmail:  string(role) + "@questify.dev",
		Role:   role,
		Status: events.UserStatusActive,
	})
	require.NoError(t, err)
	return signed
}

func (f *fixture) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.NewJSONRequest(t, method, path, body)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return testutil.DoRequest(f.router, req)
}

func (f *fixture) createCourse(t *testing.T, bearer string) coursemgmt.Course {
	t.Helper()
	rr := f.do(t, http.MethodPost, "/api/course-mgmt/courses", bearer, map[string]any{
		"name":  "Go from zero",
		"price": 25,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return *testutil.UnmarshalResponse[coursemgmt.Course](t, rr)
}

func TestCreateCourseRequiresTeacher(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, http.MethodPost, "/api/course-mgmt/courses", "", map[string]string{"name": "x"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	student := f.tokenFor(t, events.RoleStudent)
	rr = f.do(t, http.MethodPost, "/api/course-mgmt/courses", student, map[string]string{"name": "x"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	teacher := f.tokenFor(t, events.RoleTeacher)
	course := f.createCourse(t, teacher)
	assert.Equal(t, events.CourseStatusDraft, course.Status)
}

func TestGetCourse(t *testing.T) {
	f := newFixture(t)
	teacher := f.tokenFor(t, events.RoleTeacher)
	course := f.createCourse(t, teacher)

	rr := f.do(t, http.MethodGet, "/api/course-mgmt/courses/"+course.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	got := testutil.UnmarshalResponse[coursemgmt.Course](t, rr)
	assert.Equal(t, course.ID, got.ID)

	rr = f.do(t, http.MethodGet, "/api/course-mgmt/courses/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUpdateCourseOwnership(t *testing.T) {
	f := newFixture(t)
	owner := f.tokenFor(t, events.RoleTeacher)
	other := f.tokenFor(t, events.RoleTeacher)
	course := f.createCourse(t, owner)

	rr := f.do(t, http.MethodPut, "/api/course-mgmt/courses/"+course.ID.String(), other, map[string]string{"name": "Stolen"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = f.do(t, http.MethodPut, "/api/course-mgmt/courses/"+course.ID.String(), owner, map[string]any{"price": 49})
	require.Equal(t, http.StatusOK, rr.Code)
	got := testutil.UnmarshalResponse[coursemgmt.Course](t, rr)
	assert.Equal(t, 49.0, got.Price)
	assert.Equal(t, "Go from zero", got.Name)
}

func TestCourseReviewFlow(t *testing.T) {
	f := newFixture(t)
	teacher := f.tokenFor(t, events.RoleTeacher)
	admin := f.tokenFor(t, events.RoleAdmin)
	course := f.createCourse(t, teacher)

	// Review moves are admin-only.
	rr := f.do(t, http.MethodPatch, "/api/course-mgmt/courses/"+course.ID.String()+"/approve", teacher, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = f.do(t, http.MethodPost, "/api/course-mgmt/courses/"+course.ID.String()+"/submit", teacher, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	pending := testutil.UnmarshalResponse[coursemgmt.Course](t, rr)
	assert.Equal(t, events.CourseStatusPending, pending.Status)

	rr = f.do(t, http.MethodPatch, "/api/course-mgmt/courses/"+course.ID.String()+"/approve", admin, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	approved := testutil.UnmarshalResponse[coursemgmt.Course](t, rr)
	assert.Equal(t, events.CourseStatusApproved, approved.Status)

	// A second approve is no longer a legal move.
	rr = f.do(t, http.MethodPatch, "/api/course-mgmt/courses/"+course.ID.String()+"/approve", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeleteCourse(t *testing.T) {
	f := newFixture(t)
	teacher := f.tokenFor(t, events.RoleTeacher)
	course := f.createCourse(t, teacher)

	rr := f.do(t, http.MethodDelete, "/api/course-mgmt/courses/"+course.ID.String(), teacher, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = f.do(t, http.MethodGet, "/api/course-mgmt/courses/"+course.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestIslandAndLevelAuthoring(t *testing.T) {
	f := newFixture(t)
	teacher := f.tokenFor(t, events.RoleTeacher)
	course := f.createCourse(t, teacher)

	rr := f.do(t, http.MethodPost, "/api/course-mgmt/courses/"+course.ID.String()+"/islands", teacher, map[string]any{
		"name": "Basics", "position": 1,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	island := testutil.UnmarshalResponse[coursemgmt.Island](t, rr)
	assert.Equal(t, course.ID, island.CourseID)

	rr = f.do(t, http.MethodPost, "/api/course-mgmt/islands/"+island.ID.String()+"/levels", teacher, map[string]any{
		"name": "Loop drills", "position": 1, "contentType": "Challenge",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	level := testutil.UnmarshalResponse[coursemgmt.Level](t, rr)

	rr = f.do(t, http.MethodPost, "/api/course-mgmt/levels/"+level.ID.String()+"/challenges", teacher, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	challenge := testutil.UnmarshalResponse[coursemgmt.Challenge](t, rr)
	assert.Equal(t, course.ID, challenge.CourseID)

	rr = f.do(t, http.MethodPut, "/api/course-mgmt/challenges/"+challenge.ID.String()+"/slides", teacher, map[string]any{
		"title": "Intro", "index": 1,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	slide := testutil.UnmarshalResponse[coursemgmt.Slide](t, rr)
	assert.Equal(t, "Intro", slide.Title)

	rr = f.do(t, http.MethodGet, "/api/course-mgmt/challenges/"+challenge.ID.String()+"/slides", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	slides := testutil.UnmarshalResponse[[]coursemgmt.Slide](t, rr)
	assert.Len(t, *slides, 1)
}

func TestPrerequisiteRoutes(t *testing.T) {
	f := newFixture(t)
	teacher := f.tokenFor(t, events.RoleTeacher)
	course := f.createCourse(t, teacher)

	createIsland := func(name string, position int) coursemgmt.Island {
		rr := f.do(t, http.MethodPost, "/api/course-mgmt/courses/"+course.ID.String()+"/islands", teacher, map[string]any{
			"name": name, "position": position,
		})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		return *testutil.UnmarshalResponse[coursemgmt.Island](t, rr)
	}

	first := createIsland("Basics", 1)
	second := createIsland("Structs", 2)

	rr := f.do(t, http.MethodPost, "/api/course-mgmt/islands/"+second.ID.String()+"/prerequisites", teacher, map[string]any{
		"prerequisiteIslandId": first.ID,
	})
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr = f.do(t, http.MethodGet, "/api/course-mgmt/islands/"+second.ID.String()+"/prerequisites", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	links := testutil.UnmarshalResponse[[]coursemgmt.PrerequisiteIsland](t, rr)
	require.Len(t, *links, 1)

	rr = f.do(t, http.MethodDelete, "/api/course-mgmt/islands/"+second.ID.String()+"/prerequisites/"+first.ID.String(), teacher, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestItemTemplatesAdminOnly(t *testing.T) {
	f := newFixture(t)
	teacher := f.tokenFor(t, events.RoleTeacher)
	admin := f.tokenFor(t, events.RoleAdmin)

	rr := f.do(t, http.MethodPost, "/api/course-mgmt/item-templates", teacher, map[string]any{
		"name": "Hint scroll", "gold": 50, "effectType": "HintReveal",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = f.do(t, http.MethodPost, "/api/course-mgmt/item-templates", admin, map[string]any{
		"name": "Hint scroll", "gold": 50, "effectType": "HintReveal",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	template := testutil.UnmarshalResponse[coursemgmt.ItemTemplate](t, rr)

	course := f.createCourse(t, teacher)
	rr = f.do(t, http.MethodPost, "/api/course-mgmt/courses/"+course.ID.String()+"/item-templates/"+template.ID.String(), teacher, nil)
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr = f.do(t, http.MethodGet, "/api/course-mgmt/courses/"+course.ID.String()+"/item-templates", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	links := testutil.UnmarshalResponse[[]coursemgmt.CourseItemTemplate](t, rr)
	assert.Len(t, *links, 1)
}
