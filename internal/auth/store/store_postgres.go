package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"questify/internal/auth"
	"questify/pkg/apperrors"
	"questify/pkg/events"
	txcontext "questify/pkg/platform/tx"
)

const uniqueViolation = "23505"

// PostgresUsers stores accounts with database/sql. Writes join the caller's
// transaction when one is in context, so a user row and its outbox row
// commit together.
type PostgresUsers struct {
	db *sql.DB
}

func NewPostgresUsers(db *sql.DB) *PostgresUsers {
	return &PostgresUsers{db: db}
}

// EnsureSchema creates the users table if missing. Startup only.
func (s *PostgresUsers) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			gmail TEXT NOT NULL,
			password_hash BYTEA NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL,
			status TEXT NOT NULL,
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE UNIQUE INDEX IF NOT EXISTS users_gmail_idx ON users (gmail) WHERE NOT is_deleted`)
	if err != nil {
		return fmt.Errorf("ensure users schema: %w", err)
	}
	return nil
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresUsers) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresUsers) Create(ctx context.Context, user auth.User) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO users (id, gmail, password_hash, first_name, last_name, role, status, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		user.ID, user.Gmail, user.PasswordHash, user.FirstName, user.LastName,
		string(user.Role), string(user.Status), user.IsDeleted, user.CreatedAt, user.UpdatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return apperrors.BadRequest("Email in use")
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresUsers) Update(ctx context.Context, user auth.User) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE users
		SET gmail = $2, password_hash = $3, first_name = $4, last_name = $5,
		    role = $6, status = $7, is_deleted = $8, updated_at = $9
		WHERE id = $1`,
		user.ID, user.Gmail, user.PasswordHash, user.FirstName, user.LastName,
		string(user.Role), string(user.Status), user.IsDeleted, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound()
	}
	return nil
}

const userColumns = `id, gmail, password_hash, first_name, last_name, role, status, is_deleted, created_at, updated_at`

func (s *PostgresUsers) ByID(ctx context.Context, id uuid.UUID) (auth.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 AND NOT is_deleted`, id)
	return scanUser(row)
}

func (s *PostgresUsers) ByGmail(ctx context.Context, gmail string) (auth.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE gmail = $1 AND NOT is_deleted`, gmail)
	return scanUser(row)
}

func (s *PostgresUsers) List(ctx context.Context) ([]auth.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE NOT is_deleted ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []auth.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (auth.User, error) {
	var user auth.User
	var role, status string
	err := row.Scan(&user.ID, &user.Gmail, &user.PasswordHash, &user.FirstName, &user.LastName,
		&role, &status, &user.IsDeleted, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.User{}, apperrors.NotFound()
	}
	if err != nil {
		return auth.User{}, fmt.Errorf("scan user: %w", err)
	}
	user.Role = events.Role(role)
	user.Status = events.UserStatus(status)
	return user, nil
}
