package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"questify/internal/learning"
	"questify/pkg/apperrors"
	"questify/pkg/events"
	txcontext "questify/pkg/platform/tx"
)

const uniqueViolation = "23505"

// Postgres stores enrollments, inventories and projections with
// database/sql over the pgx stdlib driver. Writes join the caller's
// transaction when one is in context.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the tables if missing. Startup only. Projections
// carry no FK to each other: they arrive from other services' events in
// arbitrary order.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS user_courses (
			id UUID PRIMARY KEY,
			student_id UUID NOT NULL,
			course_id UUID NOT NULL,
			point INTEGER NOT NULL DEFAULT 0,
			completion_status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			UNIQUE (student_id, course_id)
		);
		CREATE TABLE IF NOT EXISTS inventories (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			course_id UUID NOT NULL,
			gold INTEGER NOT NULL DEFAULT 0,
			gems_in_tree INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			UNIQUE (user_id, course_id)
		);
		CREATE TABLE IF NOT EXISTS course_projections (
			id UUID PRIMARY KEY,
			teacher_id UUID NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT '',
			price DOUBLE PRECISION NOT NULL DEFAULT 0,
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS island_projections (
			id UUID PRIMARY KEY,
			course_id UUID NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL DEFAULT 0,
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS user_projections (
			id UUID PRIMARY KEY,
			gmail TEXT NOT NULL DEFAULT '',
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT '',
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			updated_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure learning schema: %w", err)
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

func (s *Postgres) CreateUserCourse(ctx context.Context, uc learning.UserCourse) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO user_courses (id, student_id, course_id, point, completion_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uc.ID, uc.StudentID, uc.CourseID, uc.Point, string(uc.CompletionStatus), uc.CreatedAt, uc.UpdatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperrors.BadRequest("Already enrolled in this course")
	}
	if err != nil {
		return fmt.Errorf("insert user course: %w", err)
	}
	return nil
}

func (s *Postgres) UpdateUserCourse(ctx context.Context, uc learning.UserCourse) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE user_courses
		SET point = $2, completion_status = $3, updated_at = $4
		WHERE id = $1`,
		uc.ID, uc.Point, string(uc.CompletionStatus), uc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update user course: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user course: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound()
	}
	return nil
}

const userCourseColumns = `id, student_id, course_id, point, completion_status, created_at, updated_at`

func (s *Postgres) UserCourseByID(ctx context.Context, id uuid.UUID) (learning.UserCourse, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userCourseColumns+` FROM user_courses WHERE id = $1`, id)
	return scanUserCourse(row)
}

func (s *Postgres) UserCourseByStudentAndCourse(ctx context.Context, studentID, courseID uuid.UUID) (learning.UserCourse, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userCourseColumns+` FROM user_courses WHERE student_id = $1 AND course_id = $2`,
		studentID, courseID)
	return scanUserCourse(row)
}

func (s *Postgres) ListUserCoursesByStudent(ctx context.Context, studentID uuid.UUID) ([]learning.UserCourse, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userCourseColumns+` FROM user_courses WHERE student_id = $1 ORDER BY created_at`,
		studentID)
	if err != nil {
		return nil, fmt.Errorf("list user courses: %w", err)
	}
	defer rows.Close()

	var out []learning.UserCourse
	for rows.Next() {
		uc, err := scanUserCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, uc)
	}
	return out, rows.Err()
}

func (s *Postgres) CreateInventory(ctx context.Context, inv learning.Inventory) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO inventories (id, user_id, course_id, gold, gems_in_tree, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		inv.ID, inv.UserID, inv.CourseID, inv.Gold, inv.GemsInTree, inv.CreatedAt, inv.UpdatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperrors.BadRequest("Inventory already exists")
	}
	if err != nil {
		return fmt.Errorf("insert inventory: %w", err)
	}
	return nil
}

func (s *Postgres) UpdateInventory(ctx context.Context, inv learning.Inventory) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE inventories
		SET gold = $3, gems_in_tree = $4, updated_at = $5
		WHERE user_id = $1 AND course_id = $2`,
		inv.UserID, inv.CourseID, inv.Gold, inv.GemsInTree, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update inventory: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update inventory: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound()
	}
	return nil
}

func (s *Postgres) InventoryByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (learning.Inventory, error) {
	var inv learning.Inventory
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, course_id, gold, gems_in_tree, created_at, updated_at
		FROM inventories WHERE user_id = $1 AND course_id = $2`,
		userID, courseID,
	).Scan(&inv.ID, &inv.UserID, &inv.CourseID, &inv.Gold, &inv.GemsInTree, &inv.CreatedAt, &inv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return learning.Inventory{}, apperrors.NotFound()
	}
	if err != nil {
		return learning.Inventory{}, fmt.Errorf("scan inventory: %w", err)
	}
	return inv, nil
}

func (s *Postgres) UpsertCourseProjection(ctx context.Context, c learning.CourseProjection) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO course_projections (id, teacher_id, name, status, price, is_deleted, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET teacher_id = EXCLUDED.teacher_id, name = EXCLUDED.name, status = EXCLUDED.status,
		    price = EXCLUDED.price, is_deleted = EXCLUDED.is_deleted, updated_at = EXCLUDED.updated_at`,
		c.ID, c.TeacherID, c.Name, string(c.Status), c.Price, c.IsDeleted, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert course projection: %w", err)
	}
	return nil
}

func (s *Postgres) CourseProjectionByID(ctx context.Context, id uuid.UUID) (learning.CourseProjection, error) {
	var c learning.CourseProjection
	var status string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, teacher_id, name, status, price, is_deleted, updated_at
		FROM course_projections WHERE id = $1`, id,
	).Scan(&c.ID, &c.TeacherID, &c.Name, &status, &c.Price, &c.IsDeleted, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return learning.CourseProjection{}, apperrors.NotFound()
	}
	if err != nil {
		return learning.CourseProjection{}, fmt.Errorf("scan course projection: %w", err)
	}
	c.Status = events.CourseStatus(status)
	return c, nil
}

func (s *Postgres) UpsertIslandProjection(ctx context.Context, i learning.IslandProjection) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO island_projections (id, course_id, name, position, is_deleted, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET course_id = EXCLUDED.course_id, name = EXCLUDED.name, position = EXCLUDED.position,
		    is_deleted = EXCLUDED.is_deleted, updated_at = EXCLUDED.updated_at`,
		i.ID, i.CourseID, i.Name, i.Position, i.IsDeleted, i.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert island projection: %w", err)
	}
	return nil
}

func (s *Postgres) IslandProjectionByID(ctx context.Context, id uuid.UUID) (learning.IslandProjection, error) {
	var i learning.IslandProjection
	err := s.db.QueryRowContext(ctx, `
		SELECT id, course_id, name, position, is_deleted, updated_at
		FROM island_projections WHERE id = $1`, id,
	).Scan(&i.ID, &i.CourseID, &i.Name, &i.Position, &i.IsDeleted, &i.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return learning.IslandProjection{}, apperrors.NotFound()
	}
	if err != nil {
		return learning.IslandProjection{}, fmt.Errorf("scan island projection: %w", err)
	}
	return i, nil
}

func (s *Postgres) UpsertUserProjection(ctx context.Context, u learning.UserProjection) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO user_projections (id, gmail, first_name, last_name, role, status, is_deleted, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET gmail = EXCLUDED.gmail, first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name,
		    role = EXCLUDED.role, status = EXCLUDED.status, is_deleted = EXCLUDED.is_deleted,
		    updated_at = EXCLUDED.updated_at`,
		u.ID, u.Gmail, u.FirstName, u.LastName, string(u.Role), string(u.Status), u.IsDeleted, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert user projection: %w", err)
	}
	return nil
}

func (s *Postgres) UserProjectionByID(ctx context.Context, id uuid.UUID) (learning.UserProjection, error) {
	var u learning.UserProjection
	var role, status string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, gmail, first_name, last_name, role, status, is_deleted, updated_at
		FROM user_projections WHERE id = $1`, id,
	).Scan(&u.ID, &u.Gmail, &u.FirstName, &u.LastName, &role, &status, &u.IsDeleted, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return learning.UserProjection{}, apperrors.NotFound()
	}
	if err != nil {
		return learning.UserProjection{}, fmt.Errorf("scan user projection: %w", err)
	}
	u.Role = events.Role(role)
	u.Status = events.UserStatus(status)
	return u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserCourse(row rowScanner) (learning.UserCourse, error) {
	var uc learning.UserCourse
	var status string
	err := row.Scan(&uc.ID, &uc.StudentID, &uc.CourseID, &uc.Point, &status, &uc.CreatedAt, &uc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return learning.UserCourse{}, apperrors.NotFound()
	}
	if err != nil {
		return learning.UserCourse{}, fmt.Errorf("scan user course: %w", err)
	}
	uc.CompletionStatus = events.CompletionStatus(status)
	return uc, nil
}
