package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"questify/internal/coursemgmt"
	"questify/pkg/apperrors"
	"questify/pkg/events"
	"questify/pkg/platform/relations"
	txcontext "questify/pkg/platform/tx"
)

// Postgres persists the authoring aggregates with database/sql. Writes join
// the caller's transaction when one is in context. FK clauses come from the
// frozen relations schema so cascade behavior is declared in one place.
type Postgres struct {
	db     *sql.DB
	schema relations.Schema
}

func NewPostgres(db *sql.DB, schema relations.Schema) *Postgres {
	return &Postgres{db: db, schema: schema}
}

// table definitions without FK clauses; EnsureSchema appends those from the
// relations schema. Creation order respects references.
var tableDDL = []struct {
	name    string
	columns string
}{
	{"courses", `
		id UUID PRIMARY KEY,
		teacher_id UUID NOT NULL,
		name TEXT NOT NULL,
		status TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		background_image TEXT NOT NULL DEFAULT '',
		thumbnail TEXT NOT NULL DEFAULT '',
		learning_objectives TEXT[] NOT NULL DEFAULT '{}',
		requirements TEXT[] NOT NULL DEFAULT '{}',
		price DOUBLE PRECISION NOT NULL DEFAULT 0,
		is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL`},
	{"island_templates", `
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		image_url TEXT NOT NULL DEFAULT '',
		is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL`},
	{"islands", `
		id UUID PRIMARY KEY,
		course_id UUID NOT NULL,
		template_id UUID,
		name TEXT NOT NULL,
		position INT NOT NULL DEFAULT 0,
		background_image TEXT NOT NULL DEFAULT '',
		is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL`},
	{"prerequisite_islands", `
		island_id UUID NOT NULL,
		prerequisite_island_id UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (island_id, prerequisite_island_id)`},
	{"levels", `
		id UUID PRIMARY KEY,
		island_id UUID NOT NULL,
		name TEXT NOT NULL,
		position INT NOT NULL DEFAULT 0,
		content_type TEXT NOT NULL,
		is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL`},
	{"challenges", `
		id UUID PRIMARY KEY,
		level_id UUID NOT NULL,
		course_id UUID NOT NULL,
		teacher_id UUID NOT NULL,
		is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL`},
	{"slides", `
		id UUID PRIMARY KEY,
		challenge_id UUID NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		slide_index INT NOT NULL DEFAULT 0,
		type TEXT NOT NULL,
		is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
		updated_at TIMESTAMPTZ NOT NULL`},
	{"item_templates", `
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		gold INT NOT NULL DEFAULT 0,
		effect_type TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		img TEXT NOT NULL DEFAULT '',
		is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL`},
	{"course_item_templates", `
		course_id UUID NOT NULL,
		item_template_id UUID NOT NULL,
		is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (course_id, item_template_id)`},
}

// EnsureSchema creates the tables if missing. Startup only.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	for _, table := range tableDDL {
		parts := []string{strings.TrimSpace(table.columns)}
		parts = append(parts, p.schema.ForeignKeyDDL(table.name)...)
		stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table.name, strings.Join(parts, ",\n"))
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure %s schema: %w", table.name, err)
		}
	}
	return nil
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (p *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return p.db
}

func (p *Postgres) exec(ctx context.Context, action, query string, args ...any) error {
	if _, err := p.execer(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	return nil
}

func (p *Postgres) execExisting(ctx context.Context, action, query string, args ...any) error {
	res, err := p.execer(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	if affected == 0 {
		return apperrors.NotFound()
	}
	return nil
}

func (p *Postgres) CreateCourse(ctx context.Context, c coursemgmt.Course) error {
	return p.exec(ctx, "insert course", `
		INSERT INTO courses (id, teacher_id, name, status, description, background_image, thumbnail,
			learning_objectives, requirements, price, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		c.ID, c.TeacherID, c.Name, string(c.Status), c.Description, c.BackgroundImage, c.Thumbnail,
		pq.StringArray(c.LearningObjectives), pq.StringArray(c.Requirements), c.Price, c.IsDeleted, c.CreatedAt, c.UpdatedAt)
}

func (p *Postgres) UpdateCourse(ctx context.Context, c coursemgmt.Course) error {
	return p.execExisting(ctx, "update course", `
		UPDATE courses
		SET name = $2, status = $3, description = $4, background_image = $5, thumbnail = $6,
		    learning_objectives = $7, requirements = $8, price = $9, is_deleted = $10, updated_at = $11
		WHERE id = $1`,
		c.ID, c.Name, string(c.Status), c.Description, c.BackgroundImage, c.Thumbnail,
		pq.StringArray(c.LearningObjectives), pq.StringArray(c.Requirements), c.Price, c.IsDeleted, c.UpdatedAt)
}

const courseColumns = `id, teacher_id, name, status, description, background_image, thumbnail,
	learning_objectives, requirements, price, is_deleted, created_at, updated_at`

func scanCourse(row rowScanner) (coursemgmt.Course, error) {
	var c coursemgmt.Course
	var status string
	var objectives, requirements pq.StringArray
	err := row.Scan(&c.ID, &c.TeacherID, &c.Name, &status, &c.Description, &c.BackgroundImage,
		&c.Thumbnail, &objectives, &requirements, &c.Price, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return coursemgmt.Course{}, apperrors.NotFound()
	}
	if err != nil {
		return coursemgmt.Course{}, fmt.Errorf("scan course: %w", err)
	}
	c.Status = events.CourseStatus(status)
	c.LearningObjectives = objectives
	c.Requirements = requirements
	return c, nil
}

func (p *Postgres) CourseByID(ctx context.Context, id uuid.UUID) (coursemgmt.Course, error) {
	return scanCourse(p.db.QueryRowContext(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = $1 AND NOT is_deleted`, id))
}

func (p *Postgres) ListCourses(ctx context.Context) ([]coursemgmt.Course, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE NOT is_deleted ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []coursemgmt.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

func (p *Postgres) CreateIslandTemplate(ctx context.Context, tpl coursemgmt.IslandTemplate) error {
	return p.exec(ctx, "insert island template", `
		INSERT INTO island_templates (id, name, image_url, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		tpl.ID, tpl.Name, tpl.ImageURL, tpl.IsDeleted, tpl.CreatedAt, tpl.UpdatedAt)
}

func (p *Postgres) UpdateIslandTemplate(ctx context.Context, tpl coursemgmt.IslandTemplate) error {
	return p.execExisting(ctx, "update island template", `
		UPDATE island_templates SET name = $2, image_url = $3, is_deleted = $4, updated_at = $5
		WHERE id = $1`,
		tpl.ID, tpl.Name, tpl.ImageURL, tpl.IsDeleted, tpl.UpdatedAt)
}

func scanIslandTemplate(row rowScanner) (coursemgmt.IslandTemplate, error) {
	var tpl coursemgmt.IslandTemplate
	err := row.Scan(&tpl.ID, &tpl.Name, &tpl.ImageURL, &tpl.IsDeleted, &tpl.CreatedAt, &tpl.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return coursemgmt.IslandTemplate{}, apperrors.NotFound()
	}
	if err != nil {
		return coursemgmt.IslandTemplate{}, fmt.Errorf("scan island template: %w", err)
	}
	return tpl, nil
}

func (p *Postgres) IslandTemplateByID(ctx context.Context, id uuid.UUID) (coursemgmt.IslandTemplate, error) {
	return scanIslandTemplate(p.db.QueryRowContext(ctx, `
		SELECT id, name, image_url, is_deleted, created_at, updated_at
		FROM island_templates WHERE id = $1 AND NOT is_deleted`, id))
}

func (p *Postgres) ListIslandTemplates(ctx context.Context) ([]coursemgmt.IslandTemplate, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, name, image_url, is_deleted, created_at, updated_at
		FROM island_templates WHERE NOT is_deleted ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list island templates: %w", err)
	}
	defer rows.Close()

	var templates []coursemgmt.IslandTemplate
	for rows.Next() {
		tpl, err := scanIslandTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	return templates, rows.Err()
}

func (p *Postgres) CreateIsland(ctx context.Context, island coursemgmt.Island) error {
	return p.exec(ctx, "insert island", `
		INSERT INTO islands (id, course_id, template_id, name, position, background_image, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		island.ID, island.CourseID, island.TemplateID, island.Name, island.Position,
		island.BackgroundImage, island.IsDeleted, island.CreatedAt, island.UpdatedAt)
}

func (p *Postgres) UpdateIsland(ctx context.Context, island coursemgmt.Island) error {
	return p.execExisting(ctx, "update island", `
		UPDATE islands
		SET template_id = $2, name = $3, position = $4, background_image = $5, is_deleted = $6, updated_at = $7
		WHERE id = $1`,
		island.ID, island.TemplateID, island.Name, island.Position,
		island.BackgroundImage, island.IsDeleted, island.UpdatedAt)
}

func scanIsland(row rowScanner) (coursemgmt.Island, error) {
	var island coursemgmt.Island
	err := row.Scan(&island.ID, &island.CourseID, &island.TemplateID, &island.Name, &island.Position,
		&island.BackgroundImage, &island.IsDeleted, &island.CreatedAt, &island.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return coursemgmt.Island{}, apperrors.NotFound()
	}
	if err != nil {
		return coursemgmt.Island{}, fmt.Errorf("scan island: %w", err)
	}
	return island, nil
}

const islandColumns = `id, course_id, template_id, name, position, background_image, is_deleted, created_at, updated_at`

func (p *Postgres) IslandByID(ctx context.Context, id uuid.UUID) (coursemgmt.Island, error) {
	return scanIsland(p.db.QueryRowContext(ctx,
		`SELECT `+islandColumns+` FROM islands WHERE id = $1 AND NOT is_deleted`, id))
}

func (p *Postgres) ListIslands(ctx context.Context, courseID uuid.UUID) ([]coursemgmt.Island, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+islandColumns+` FROM islands WHERE course_id = $1 AND NOT is_deleted ORDER BY position`, courseID)
	if err != nil {
		return nil, fmt.Errorf("list islands: %w", err)
	}
	defer rows.Close()

	var islands []coursemgmt.Island
	for rows.Next() {
		island, err := scanIsland(rows)
		if err != nil {
			return nil, err
		}
		islands = append(islands, island)
	}
	return islands, rows.Err()
}

func (p *Postgres) CreatePrerequisite(ctx context.Context, link coursemgmt.PrerequisiteIsland) error {
	return p.exec(ctx, "insert prerequisite", `
		INSERT INTO prerequisite_islands (island_id, prerequisite_island_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (island_id, prerequisite_island_id) DO NOTHING`,
		link.IslandID, link.PrerequisiteIslandID, link.CreatedAt)
}

func (p *Postgres) DeletePrerequisite(ctx context.Context, islandID, prerequisiteID uuid.UUID) error {
	return p.execExisting(ctx, "delete prerequisite", `
		DELETE FROM prerequisite_islands WHERE island_id = $1 AND prerequisite_island_id = $2`,
		islandID, prerequisiteID)
}

func (p *Postgres) ListPrerequisites(ctx context.Context, islandID uuid.UUID) ([]coursemgmt.PrerequisiteIsland, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT island_id, prerequisite_island_id, created_at
		FROM prerequisite_islands WHERE island_id = $1 ORDER BY created_at`, islandID)
	if err != nil {
		return nil, fmt.Errorf("list prerequisites: %w", err)
	}
	defer rows.Close()

	var links []coursemgmt.PrerequisiteIsland
	for rows.Next() {
		var link coursemgmt.PrerequisiteIsland
		if err := rows.Scan(&link.IslandID, &link.PrerequisiteIslandID, &link.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan prerequisite: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (p *Postgres) CreateLevel(ctx context.Context, level coursemgmt.Level) error {
	return p.exec(ctx, "insert level", `
		INSERT INTO levels (id, island_id, name, position, content_type, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		level.ID, level.IslandID, level.Name, level.Position, string(level.ContentType),
		level.IsDeleted, level.CreatedAt, level.UpdatedAt)
}

func (p *Postgres) UpdateLevel(ctx context.Context, level coursemgmt.Level) error {
	return p.execExisting(ctx, "update level", `
		UPDATE levels SET name = $2, position = $3, content_type = $4, is_deleted = $5, updated_at = $6
		WHERE id = $1`,
		level.ID, level.Name, level.Position, string(level.ContentType), level.IsDeleted, level.UpdatedAt)
}

func scanLevel(row rowScanner) (coursemgmt.Level, error) {
	var level coursemgmt.Level
	var contentType string
	err := row.Scan(&level.ID, &level.IslandID, &level.Name, &level.Position, &contentType,
		&level.IsDeleted, &level.CreatedAt, &level.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return coursemgmt.Level{}, apperrors.NotFound()
	}
	if err != nil {
		return coursemgmt.Level{}, fmt.Errorf("scan level: %w", err)
	}
	level.ContentType = events.LevelContentType(contentType)
	return level, nil
}

func (p *Postgres) LevelByID(ctx context.Context, id uuid.UUID) (coursemgmt.Level, error) {
	return scanLevel(p.db.QueryRowContext(ctx, `
		SELECT id, island_id, name, position, content_type, is_deleted, created_at, updated_at
		FROM levels WHERE id = $1 AND NOT is_deleted`, id))
}

func (p *Postgres) ListLevels(ctx context.Context, islandID uuid.UUID) ([]coursemgmt.Level, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, island_id, name, position, content_type, is_deleted, created_at, updated_at
		FROM levels WHERE island_id = $1 AND NOT is_deleted ORDER BY position`, islandID)
	if err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}
	defer rows.Close()

	var levels []coursemgmt.Level
	for rows.Next() {
		level, err := scanLevel(rows)
		if err != nil {
			return nil, err
		}
		levels = append(levels, level)
	}
	return levels, rows.Err()
}

func (p *Postgres) CreateChallenge(ctx context.Context, challenge coursemgmt.Challenge) error {
	return p.exec(ctx, "insert challenge", `
		INSERT INTO challenges (id, level_id, course_id, teacher_id, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		challenge.ID, challenge.LevelID, challenge.CourseID, challenge.TeacherID,
		challenge.IsDeleted, challenge.CreatedAt, challenge.UpdatedAt)
}

func (p *Postgres) UpdateChallenge(ctx context.Context, challenge coursemgmt.Challenge) error {
	return p.execExisting(ctx, "update challenge", `
		UPDATE challenges SET teacher_id = $2, is_deleted = $3, updated_at = $4 WHERE id = $1`,
		challenge.ID, challenge.TeacherID, challenge.IsDeleted, challenge.UpdatedAt)
}

func (p *Postgres) ChallengeByID(ctx context.Context, id uuid.UUID) (coursemgmt.Challenge, error) {
	var challenge coursemgmt.Challenge
	err := p.db.QueryRowContext(ctx, `
		SELECT id, level_id, course_id, teacher_id, is_deleted, created_at, updated_at
		FROM challenges WHERE id = $1 AND NOT is_deleted`, id).
		Scan(&challenge.ID, &challenge.LevelID, &challenge.CourseID, &challenge.TeacherID,
			&challenge.IsDeleted, &challenge.CreatedAt, &challenge.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return coursemgmt.Challenge{}, apperrors.NotFound()
	}
	if err != nil {
		return coursemgmt.Challenge{}, fmt.Errorf("scan challenge: %w", err)
	}
	return challenge, nil
}

func (p *Postgres) UpsertSlide(ctx context.Context, slide coursemgmt.Slide) error {
	return p.exec(ctx, "upsert slide", `
		INSERT INTO slides (id, challenge_id, title, description, slide_index, type, is_deleted, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title, description = EXCLUDED.description, slide_index = EXCLUDED.slide_index,
		    type = EXCLUDED.type, is_deleted = EXCLUDED.is_deleted, updated_at = EXCLUDED.updated_at`,
		slide.ID, slide.ChallengeID, slide.Title, slide.Description, slide.Index,
		string(slide.Type), slide.IsDeleted, slide.UpdatedAt)
}

func scanSlide(row rowScanner) (coursemgmt.Slide, error) {
	var slide coursemgmt.Slide
	var slideType string
	err := row.Scan(&slide.ID, &slide.ChallengeID, &slide.Title, &slide.Description,
		&slide.Index, &slideType, &slide.IsDeleted, &slide.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return coursemgmt.Slide{}, apperrors.NotFound()
	}
	if err != nil {
		return coursemgmt.Slide{}, fmt.Errorf("scan slide: %w", err)
	}
	slide.Type = events.SlideType(slideType)
	return slide, nil
}

func (p *Postgres) SlideByID(ctx context.Context, id uuid.UUID) (coursemgmt.Slide, error) {
	return scanSlide(p.db.QueryRowContext(ctx, `
		SELECT id, challenge_id, title, description, slide_index, type, is_deleted, updated_at
		FROM slides WHERE id = $1 AND NOT is_deleted`, id))
}

func (p *Postgres) ListSlides(ctx context.Context, challengeID uuid.UUID) ([]coursemgmt.Slide, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, challenge_id, title, description, slide_index, type, is_deleted, updated_at
		FROM slides WHERE challenge_id = $1 AND NOT is_deleted ORDER BY slide_index`, challengeID)
	if err != nil {
		return nil, fmt.Errorf("list slides: %w", err)
	}
	defer rows.Close()

	var slides []coursemgmt.Slide
	for rows.Next() {
		slide, err := scanSlide(rows)
		if err != nil {
			return nil, err
		}
		slides = append(slides, slide)
	}
	return slides, rows.Err()
}

func (p *Postgres) CreateItemTemplate(ctx context.Context, tpl coursemgmt.ItemTemplate) error {
	return p.exec(ctx, "insert item template", `
		INSERT INTO item_templates (id, name, gold, effect_type, description, img, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		tpl.ID, tpl.Name, tpl.Gold, string(tpl.EffectType), tpl.Description, tpl.Img,
		tpl.IsDeleted, tpl.CreatedAt, tpl.UpdatedAt)
}

func (p *Postgres) UpdateItemTemplate(ctx context.Context, tpl coursemgmt.ItemTemplate) error {
	return p.execExisting(ctx, "update item template", `
		UPDATE item_templates
		SET name = $2, gold = $3, effect_type = $4, description = $5, img = $6, is_deleted = $7, updated_at = $8
		WHERE id = $1`,
		tpl.ID, tpl.Name, tpl.Gold, string(tpl.EffectType), tpl.Description, tpl.Img,
		tpl.IsDeleted, tpl.UpdatedAt)
}

func scanItemTemplate(row rowScanner) (coursemgmt.ItemTemplate, error) {
	var tpl coursemgmt.ItemTemplate
	var effect string
	err := row.Scan(&tpl.ID, &tpl.Name, &tpl.Gold, &effect, &tpl.Description, &tpl.Img,
		&tpl.IsDeleted, &tpl.CreatedAt, &tpl.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return coursemgmt.ItemTemplate{}, apperrors.NotFound()
	}
	if err != nil {
		return coursemgmt.ItemTemplate{}, fmt.Errorf("scan item template: %w", err)
	}
	tpl.EffectType = events.ItemEffectType(effect)
	return tpl, nil
}

func (p *Postgres) ItemTemplateByID(ctx context.Context, id uuid.UUID) (coursemgmt.ItemTemplate, error) {
	return scanItemTemplate(p.db.QueryRowContext(ctx, `
		SELECT id, name, gold, effect_type, description, img, is_deleted, created_at, updated_at
		FROM item_templates WHERE id = $1 AND NOT is_deleted`, id))
}

func (p *Postgres) ListItemTemplates(ctx context.Context) ([]coursemgmt.ItemTemplate, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, name, gold, effect_type, description, img, is_deleted, created_at, updated_at
		FROM item_templates WHERE NOT is_deleted ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list item templates: %w", err)
	}
	defer rows.Close()

	var templates []coursemgmt.ItemTemplate
	for rows.Next() {
		tpl, err := scanItemTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	return templates, rows.Err()
}

func (p *Postgres) UpsertCourseItemTemplate(ctx context.Context, link coursemgmt.CourseItemTemplate) error {
	return p.exec(ctx, "upsert course item template", `
		INSERT INTO course_item_templates (course_id, item_template_id, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (course_id, item_template_id) DO UPDATE
		SET is_deleted = EXCLUDED.is_deleted, updated_at = EXCLUDED.updated_at`,
		link.CourseID, link.ItemTemplateID, link.IsDeleted, link.CreatedAt, link.UpdatedAt)
}

func (p *Postgres) ListCourseItemTemplates(ctx context.Context, courseID uuid.UUID) ([]coursemgmt.CourseItemTemplate, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT course_id, item_template_id, is_deleted, created_at, updated_at
		FROM course_item_templates WHERE course_id = $1 AND NOT is_deleted ORDER BY created_at`, courseID)
	if err != nil {
		return nil, fmt.Errorf("list course item templates: %w", err)
	}
	defer rows.Close()

	var links []coursemgmt.CourseItemTemplate
	for rows.Next() {
		var link coursemgmt.CourseItemTemplate
		if err := rows.Scan(&link.CourseID, &link.ItemTemplateID, &link.IsDeleted, &link.CreatedAt, &link.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan course item template: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}
