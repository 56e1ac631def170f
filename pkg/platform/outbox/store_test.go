package outbox

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questify/pkg/events"
	txcontext "questify/pkg/platform/tx"
)

func TestAppendInsertsSealedEnvelope(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)
	courseID := uuid.New()

	mock.ExpectExec("INSERT INTO outbox").
		WithArgs(sqlmock.AnyArg(), "course", courseID.String(), string(events.SubjectCourseCreated), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	event := events.CourseCreated{
		ID:        courseID,
		TeacherID: uuid.New(),
		Name:      "Algorithms",
		Status:    events.CourseStatusDraft,
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.Append(context.Background(), event, "course", courseID.String()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendJoinsTransactionFromContext(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO outbox").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	store := NewStore(db)
	ctx := context.Background()

	sqlTx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	event := events.UserCreated{
		ID:        uuid.New(),
		Gmail:     "teacher@gmail.com",
		Role:      events.RoleTeacher,
		Status:    events.UserStatusActive,
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.Append(txcontext.With(ctx, sqlTx), event, "user", event.ID.String()))
	require.NoError(t, sqlTx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchPendingScansEntries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	entryID := uuid.New()
	env, err := events.Seal(events.UserCourseCreated{
		ID:               uuid.New(),
		StudentID:        uuid.New(),
		CourseID:         uuid.New(),
		CompletionStatus: events.CompletionNotStarted,
		CreatedAt:        time.Now(),
	})
	require.NoError(t, err)
	envelope, err := json.Marshal(env)
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "aggregate_type", "aggregate_id", "subject", "envelope", "created_at"}).
		AddRow(entryID, "user-course", "abc", string(events.SubjectUserCourseCreated), envelope, time.Now())
	mock.ExpectQuery("SELECT id, aggregate_type, aggregate_id, subject, envelope, created_at").
		WithArgs(50).
		WillReturnRows(rows)

	entries, err := NewStore(db).FetchPending(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entryID, entries[0].ID)
	assert.Equal(t, events.SubjectUserCourseCreated, entries[0].Subject)

	decoded := events.Envelope{}
	require.NoError(t, json.Unmarshal(entries[0].Envelope, &decoded))
	assert.Equal(t, env.EventID, decoded.EventID)
}

func TestMarkPublishedSkipsEmptyBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// No expectations: an empty batch must not hit the database.
	require.NoError(t, NewStore(db).MarkPublished(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
