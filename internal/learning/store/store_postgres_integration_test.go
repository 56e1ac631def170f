//go:build integration

package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questify/internal/learning"
	"questify/pkg/apperrors"
	"questify/pkg/events"
	"questify/pkg/testutil/containers"
)

// The service opens its pool with the pgx stdlib driver, so the unique
// violation mapping sees *pgconn.PgError. The test uses the same driver.
func newIntegrationStore(t *testing.T) *Postgres {
	t.Helper()

	pg := containers.NewPostgresContainer(t)
	t.Cleanup(func() {
		_ = pg.DB.Close()
		_ = pg.Container.Terminate(context.Background())
	})

	db, err := sql.Open("pgx", pg.DSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := NewPostgres(db)
	require.NoError(t, s.EnsureSchema(context.Background()))
	return s
}

func TestPostgresUserCourseRoundTrip(t *testing.T) {
	s := newIntegrationStore(t)
	ctx := context.Background()

	uc := learning.UserCourse{
		ID:               uuid.New(),
		StudentID:        uuid.New(),
		CourseID:         uuid.New(),
		Point:            0,
		CompletionStatus: events.CompletionNotStarted,
		CreatedAt:        time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt:        time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, s.CreateUserCourse(ctx, uc))

	got, err := s.UserCourseByID(ctx, uc.ID)
	require.NoError(t, err)
	assert.Equal(t, uc.StudentID, got.StudentID)
	assert.Equal(t, events.CompletionNotStarted, got.CompletionStatus)

	got.Point = 120
	got.CompletionStatus = events.CompletionInProgress
	got.UpdatedAt = time.Now().UTC()
	require.NoError(t, s.UpdateUserCourse(ctx, got))

	got, err = s.UserCourseByStudentAndCourse(ctx, uc.StudentID, uc.CourseID)
	require.NoError(t, err)
	assert.Equal(t, 120, got.Point)

	listed, err := s.ListUserCoursesByStudent(ctx, uc.StudentID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestPostgresDuplicateEnrollment(t *testing.T) {
	s := newIntegrationStore(t)
	ctx := context.Background()

	uc := learning.UserCourse{
		ID:               uuid.New(),
		StudentID:        uuid.New(),
		CourseID:         uuid.New(),
		CompletionStatus: events.CompletionNotStarted,
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	require.NoError(t, s.CreateUserCourse(ctx, uc))

	uc.ID = uuid.New()
	err := s.CreateUserCourse(ctx, uc)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))
	assert.EqualError(t, err, "Already enrolled in this course")
}

func TestPostgresProjectionUpsert(t *testing.T) {
	s := newIntegrationStore(t)
	ctx := context.Background()

	course := learning.CourseProjection{
		ID:        uuid.New(),
		TeacherID: uuid.New(),
		Name:      "Go from zero",
		Status:    events.CourseStatusDraft,
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.UpsertCourseProjection(ctx, course))

	course.Status = events.CourseStatusApproved
	require.NoError(t, s.UpsertCourseProjection(ctx, course))

	got, err := s.CourseProjectionByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, events.CourseStatusApproved, got.Status)
	assert.Equal(t, "Go from zero", got.Name)

	_, err = s.CourseProjectionByID(ctx, uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}
