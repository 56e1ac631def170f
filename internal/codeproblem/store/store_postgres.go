package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"questify/internal/codeproblem"
	"questify/pkg/apperrors"
	txcontext "questify/pkg/platform/tx"
)

// Postgres stores problems and attempts with database/sql. Test cases are a
// JSONB column: they are always read and written as a unit. Writes join the
// caller's transaction when one is in context.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the tables if missing. Startup only.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS code_problems (
			id UUID PRIMARY KEY,
			challenge_id UUID NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			starter_code TEXT NOT NULL DEFAULT '',
			test_cases JSONB NOT NULL DEFAULT '[]',
			gold_reward INTEGER NOT NULL DEFAULT 0,
			point_reward INTEGER NOT NULL DEFAULT 0,
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS attempts (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			code_problem_id UUID NOT NULL REFERENCES code_problems (id) ON DELETE CASCADE,
			code TEXT NOT NULL DEFAULT '',
			answer TEXT NOT NULL DEFAULT '',
			gold INTEGER NOT NULL DEFAULT 0,
			point INTEGER NOT NULL DEFAULT 0,
			progress DOUBLE PRECISION NOT NULL DEFAULT 0,
			finished BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS challenge_projections (
			id UUID PRIMARY KEY,
			course_id UUID NOT NULL,
			teacher_id UUID NOT NULL,
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			updated_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure code-problem schema: %w", err)
	}
	return nil
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Postgres) CreateProblem(ctx context.Context, p codeproblem.CodeProblem) error {
	cases, err := json.Marshal(p.TestCases)
	if err != nil {
		return fmt.Errorf("marshal test cases: %w", err)
	}
	_, err = s.execer(ctx).ExecContext(ctx, `
		INSERT INTO code_problems (id, challenge_id, title, description, starter_code, test_cases, gold_reward, point_reward, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.ChallengeID, p.Title, p.Description, p.StarterCode, cases,
		p.GoldReward, p.PointReward, p.IsDeleted, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert code problem: %w", err)
	}
	return nil
}

func (s *Postgres) UpdateProblem(ctx context.Context, p codeproblem.CodeProblem) error {
	cases, err := json.Marshal(p.TestCases)
	if err != nil {
		return fmt.Errorf("marshal test cases: %w", err)
	}
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE code_problems
		SET title = $2, description = $3, starter_code = $4, test_cases = $5,
		    gold_reward = $6, point_reward = $7, is_deleted = $8, updated_at = $9
		WHERE id = $1`,
		p.ID, p.Title, p.Description, p.StarterCode, cases,
		p.GoldReward, p.PointReward, p.IsDeleted, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update code problem: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update code problem: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound()
	}
	return nil
}

const problemColumns = `id, challenge_id, title, description, starter_code, test_cases, gold_reward, point_reward, is_deleted, created_at, updated_at`

func (s *Postgres) ProblemByID(ctx context.Context, id uuid.UUID) (codeproblem.CodeProblem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+problemColumns+` FROM code_problems WHERE id = $1 AND NOT is_deleted`, id)
	return scanProblem(row)
}

func (s *Postgres) ListProblemsByChallenge(ctx context.Context, challengeID uuid.UUID) ([]codeproblem.CodeProblem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+problemColumns+` FROM code_problems WHERE challenge_id = $1 AND NOT is_deleted ORDER BY created_at`,
		challengeID)
	if err != nil {
		return nil, fmt.Errorf("list code problems: %w", err)
	}
	defer rows.Close()

	var out []codeproblem.CodeProblem
	for rows.Next() {
		p, err := scanProblem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Postgres) CreateAttempt(ctx context.Context, a codeproblem.Attempt) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO attempts (id, user_id, code_problem_id, code, answer, gold, point, progress, finished, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		a.ID, a.UserID, a.CodeProblemID, a.Code, a.Answer,
		a.Gold, a.Point, a.Progress, a.Finished, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

func (s *Postgres) UpdateAttempt(ctx context.Context, a codeproblem.Attempt) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE attempts
		SET code = $2, answer = $3, gold = $4, point = $5, progress = $6, finished = $7, updated_at = $8
		WHERE id = $1`,
		a.ID, a.Code, a.Answer, a.Gold, a.Point, a.Progress, a.Finished, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update attempt: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update attempt: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound()
	}
	return nil
}

const attemptColumns = `id, user_id, code_problem_id, code, answer, gold, point, progress, finished, created_at, updated_at`

func (s *Postgres) AttemptByID(ctx context.Context, id uuid.UUID) (codeproblem.Attempt, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+attemptColumns+` FROM attempts WHERE id = $1`, id)
	return scanAttempt(row)
}

func (s *Postgres) ListAttemptsByUserAndProblem(ctx context.Context, userID, problemID uuid.UUID) ([]codeproblem.Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+attemptColumns+` FROM attempts WHERE user_id = $1 AND code_problem_id = $2 ORDER BY created_at`,
		userID, problemID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var out []codeproblem.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Postgres) UpsertChallengeProjection(ctx context.Context, c codeproblem.ChallengeProjection) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO challenge_projections (id, course_id, teacher_id, is_deleted, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET course_id = EXCLUDED.course_id, teacher_id = EXCLUDED.teacher_id,
		    is_deleted = EXCLUDED.is_deleted, updated_at = EXCLUDED.updated_at`,
		c.ID, c.CourseID, c.TeacherID, c.IsDeleted, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert challenge projection: %w", err)
	}
	return nil
}

func (s *Postgres) ChallengeProjectionByID(ctx context.Context, id uuid.UUID) (codeproblem.ChallengeProjection, error) {
	var c codeproblem.ChallengeProjection
	err := s.db.QueryRowContext(ctx, `
		SELECT id, course_id, teacher_id, is_deleted, updated_at
		FROM challenge_projections WHERE id = $1`, id,
	).Scan(&c.ID, &c.CourseID, &c.TeacherID, &c.IsDeleted, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return codeproblem.ChallengeProjection{}, apperrors.NotFound()
	}
	if err != nil {
		return codeproblem.ChallengeProjection{}, fmt.Errorf("scan challenge projection: %w", err)
	}
	return c, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProblem(row rowScanner) (codeproblem.CodeProblem, error) {
	var p codeproblem.CodeProblem
	var cases []byte
	err := row.Scan(&p.ID, &p.ChallengeID, &p.Title, &p.Description, &p.StarterCode, &cases,
		&p.GoldReward, &p.PointReward, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return codeproblem.CodeProblem{}, apperrors.NotFound()
	}
	if err != nil {
		return codeproblem.CodeProblem{}, fmt.Errorf("scan code problem: %w", err)
	}
	if err := json.Unmarshal(cases, &p.TestCases); err != nil {
		return codeproblem.CodeProblem{}, fmt.Errorf("decode test cases: %w", err)
	}
	return p, nil
}

func scanAttempt(row rowScanner) (codeproblem.Attempt, error) {
	var a codeproblem.Attempt
	err := row.Scan(&a.ID, &a.UserID, &a.CodeProblemID, &a.Code, &a.Answer,
		&a.Gold, &a.Point, &a.Progress, &a.Finished, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return codeproblem.Attempt{}, apperrors.NotFound()
	}
	if err != nil {
		return codeproblem.Attempt{}, fmt.Errorf("scan attempt: %w", err)
	}
	return a, nil
}
