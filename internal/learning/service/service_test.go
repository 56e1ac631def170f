package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questify/internal/learning"
	"questify/internal/learning/leaderboard"
	"questify/internal/learning/store"
	"questify/pkg/apperrors"
	"questify/pkg/events"
	"questify/pkg/platform/logger"
	"questify/pkg/platform/tx"
	"questify/pkg/requestcontext"
)

type capturingOutbox struct {
	appended []events.Event
}

func (o *capturingOutbox) Append(_ context.Context, event events.Event, _, _ string) error {
	o.appended = append(o.appended, event)
	return nil
}

type fixture struct {
	svc    *Service
	store  *store.Memory
	outbox *capturingOutbox
	board  *leaderboard.Memory
}

func newFixture() *fixture {
	outbox := &capturingOutbox{}
	s := store.NewMemory()
	board := leaderboard.NewMemory()
	return &fixture{
		svc:    New(s, outbox, board, tx.Runner(nil), logger.New("learning-test")),
		store:  s,
		outbox: outbox,
		board:  board,
	}
}

func (f *fixture) projectCourse(t *testing.T, status events.CourseStatus) uuid.UUID {
	t.Helper()
	courseID := uuid.New()
	require.NoError(t, f.store.UpsertCourseProjection(context.Background(), learning.CourseProjection{
		ID:        courseID,
		TeacherID: uuid.New(),
		Name:      "Go from zero",
		Status:    status,
		UpdatedAt: time.Now(),
	}))
	return courseID
}

func asStudent() (context.Context, requestcontext.User) {
	user := requestcontext.User{
		ID:     uuid.New(),
		Role:   events.RoleStudent,
		Status: events.UserStatusActive,
	}
	return requestcontext.WithCurrentUser(context.Background(), user), user
}

func TestEnroll(t *testing.T) {
	f := newFixture()
	courseID := f.projectCourse(t, events.CourseStatusApproved)
	ctx, student := asStudent()

	enrollment, err := f.svc.Enroll(ctx, courseID)
	require.NoError(t, err)
	assert.Equal(t, student.ID, enrollment.StudentID)
	assert.Equal(t, 0, enrollment.Point)
	assert.Equal(t, events.CompletionNotStarted, enrollment.CompletionStatus)

	// Enrollment stages exactly two events: the user-course and its
	// inventory.
	require.Len(t, f.outbox.appended, 2)
	created, ok := f.outbox.appended[0].(events.UserCourseCreated)
	require.True(t, ok)
	assert.Equal(t, enrollment.ID, created.ID)
	assert.Equal(t, 0, created.Point)
	assert.Equal(t, events.CompletionNotStarted, created.CompletionStatus)

	invCreated, ok := f.outbox.appended[1].(events.UserCourseInventoryCreation)
	require.True(t, ok)
	assert.Equal(t, student.ID, invCreated.UserID)
	assert.Equal(t, 0, invCreated.Gold)

	inventory, err := f.svc.GetInventory(ctx, courseID)
	require.NoError(t, err)
	assert.Equal(t, 0, inventory.Gold)
}

func TestEnrollRequiresApprovedCourse(t *testing.T) {
	f := newFixture()
	ctx, _ := asStudent()

	draft := f.projectCourse(t, events.CourseStatusDraft)
	_, err := f.svc.Enroll(ctx, draft)
	assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))

	_, err = f.svc.Enroll(ctx, uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	approved := f.projectCourse(t, events.CourseStatusApproved)
	_, err = f.svc.Enroll(context.Background(), approved)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotAuthorized))
}

func TestEnrollTwice(t *testing.T) {
	f := newFixture()
	courseID := f.projectCourse(t, events.CourseStatusApproved)
	ctx, _ := asStudent()

	_, err := f.svc.Enroll(ctx, courseID)
	require.NoError(t, err)

	_, err = f.svc.Enroll(ctx, courseID)
	assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))
}

func TestUpdateProgress(t *testing.T) {
	f := newFixture()
	courseID := f.projectCourse(t, events.CourseStatusApproved)
	ctx, student := asStudent()

	enrollment, err := f.svc.Enroll(ctx, courseID)
	require.NoError(t, err)

	point := 80
	inProgress := events.CompletionInProgress
	updated, err := f.svc.UpdateProgress(ctx, enrollment.ID, UpdateProgressParams{
		Point:            &point,
		CompletionStatus: &inProgress,
	})
	require.NoError(t, err)
	assert.Equal(t, 80, updated.Point)
	assert.Equal(t, events.CompletionInProgress, updated.CompletionStatus)

	event, ok := f.outbox.appended[len(f.outbox.appended)-1].(events.UserCourseUpdated)
	require.True(t, ok)
	require.NotNil(t, event.Point)
	assert.Equal(t, 80, *event.Point)

	entries, err := f.svc.Leaderboard(ctx, courseID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, student.ID, entries[0].StudentID)
	assert.Equal(t, 80, entries[0].Point)
}

func TestUpdateProgressValidation(t *testing.T) {
	f := newFixture()
	courseID := f.projectCourse(t, events.CourseStatusApproved)
	ctx, _ := asStudent()

	enrollment, err := f.svc.Enroll(ctx, courseID)
	require.NoError(t, err)

	negative := -5
	_, err = f.svc.UpdateProgress(ctx, enrollment.ID, UpdateProgressParams{Point: &negative})
	assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))

	bogus := events.CompletionStatus("Paused")
	_, err = f.svc.UpdateProgress(ctx, enrollment.ID, UpdateProgressParams{CompletionStatus: &bogus})
	assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))
}

func TestUpdateProgressOwnership(t *testing.T) {
	f := newFixture()
	courseID := f.projectCourse(t, events.CourseStatusApproved)
	ownerCtx, _ := asStudent()
	otherCtx, _ := asStudent()

	enrollment, err := f.svc.Enroll(ownerCtx, courseID)
	require.NoError(t, err)

	point := 10
	_, err = f.svc.UpdateProgress(otherCtx, enrollment.ID, UpdateProgressParams{Point: &point})
	assert.True(t, apperrors.Is(err, apperrors.CodeNotAuthorized))

	adminCtx := requestcontext.WithCurrentUser(context.Background(), requestcontext.User{
		ID:     uuid.New(),
		Role:   events.RoleAdmin,
		Status: events.UserStatusActive,
	})
	_, err = f.svc.UpdateProgress(adminCtx, enrollment.ID, UpdateProgressParams{Point: &point})
	assert.NoError(t, err)
}

func TestListEnrollments(t *testing.T) {
	f := newFixture()
	ctx, _ := asStudent()

	first := f.projectCourse(t, events.CourseStatusApproved)
	second := f.projectCourse(t, events.CourseStatusApproved)

	_, err := f.svc.Enroll(ctx, first)
	require.NoError(t, err)
	_, err = f.svc.Enroll(ctx, second)
	require.NoError(t, err)

	enrollments, err := f.svc.ListEnrollments(ctx)
	require.NoError(t, err)
	assert.Len(t, enrollments, 2)

	otherCtx, _ := asStudent()
	enrollments, err = f.svc.ListEnrollments(otherCtx)
	require.NoError(t, err)
	assert.Empty(t, enrollments)
}

func TestGetEnrollment(t *testing.T) {
	f := newFixture()
	courseID := f.projectCourse(t, events.CourseStatusApproved)
	ctx, _ := asStudent()

	enrollment, err := f.svc.Enroll(ctx, courseID)
	require.NoError(t, err)

	got, err := f.svc.GetEnrollment(context.Background(), enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, enrollment.ID, got.ID)

	_, err = f.svc.GetEnrollment(context.Background(), uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}
