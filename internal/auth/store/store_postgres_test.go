package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questify/pkg/apperrors"
	txcontext "questify/pkg/platform/tx"
)

func TestPostgresUsersCreateJoinsTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	user := newUser("ada@gmail.com")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(user.ID, user.Gmail, user.PasswordHash, user.FirstName, user.LastName,
			string(user.Role), string(user.Status), false, user.CreatedAt, user.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	users := NewPostgresUsers(db)
	err = txcontext.Run(context.Background(), db, func(ctx context.Context) error {
		return users.Create(ctx, user)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUsersCreateDuplicateGmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "23505"})

	users := NewPostgresUsers(db)
	err = users.Create(context.Background(), newUser("ada@gmail.com"))
	assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))
}

func TestPostgresUsersByIDMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "gmail", "password_hash", "first_name", "last_name",
			"role", "status", "is_deleted", "created_at", "updated_at",
		}))

	users := NewPostgresUsers(db)
	_, err = users.ByID(context.Background(), uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestPostgresUsersUpdateMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	users := NewPostgresUsers(db)
	err = users.Update(context.Background(), newUser("ghost@gmail.com"))
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestPostgresUsersListScans(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "gmail", "password_hash", "first_name", "last_name",
			"role", "status", "is_deleted", "created_at", "updated_at",
		}).AddRow(id, "ada@gmail.com", []byte("hash"), "Ada", "Lovelace",
			"Student", "Active", false, now, now))

	users := NewPostgresUsers(db)
	listed, err := users.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, id, listed[0].ID)
	assert.Equal(t, "Ada", listed[0].FirstName)
}
