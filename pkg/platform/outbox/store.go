package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"questify/pkg/events"
	txcontext "questify/pkg/platform/tx"
)

// Store persists outbox rows with database/sql. Appends join the caller's
// transaction when one is in context, so the domain row and its event
// commit or roll back together.
type Store struct {
	db *sql.DB
}

// NewStore creates a PostgreSQL outbox store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the outbox table if missing. Startup only.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS outbox (
			id UUID PRIMARY KEY,
			aggregate_type TEXT NOT NULL,
			aggregate_id TEXT NOT NULL,
			subject TEXT NOT NULL,
			envelope JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			published_at TIMESTAMPTZ
		);
		CREATE INDEX IF NOT EXISTS outbox_pending_idx ON outbox (created_at) WHERE published_at IS NULL`)
	if err != nil {
		return fmt.Errorf("ensure outbox schema: %w", err)
	}
	return nil
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Append seals the event and inserts one pending row. Call inside tx.Run so
// the row commits with the domain change.
func (s *Store) Append(ctx context.Context, event events.Event, aggregateType, aggregateID string) error {
	env, err := events.Seal(event)
	if err != nil {
		return err
	}
	envelope, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal outbox envelope: %w", err)
	}

	_, err = s.execer(ctx).ExecContext(ctx, `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, subject, envelope, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		env.EventID, aggregateType, aggregateID, string(env.Subject), envelope, env.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("append outbox row: %w", err)
	}
	return nil
}

// FetchPending returns up to limit unpublished rows, oldest first.
func (s *Store) FetchPending(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, aggregate_type, aggregate_id, subject, envelope, created_at
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch pending outbox rows: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var subject string
		if err := rows.Scan(&entry.ID, &entry.AggregateType, &entry.AggregateID, &subject, &entry.Envelope, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		entry.Subject = events.Subject(subject)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// MarkPublished stamps the given rows as delivered to the broker.
func (s *Store) MarkPublished(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE outbox SET published_at = now() WHERE id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("mark outbox rows published: %w", err)
	}
	return nil
}

// PendingCount reports the current backlog, for metrics.
func (s *Store) PendingCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM outbox WHERE published_at IS NULL`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pending outbox rows: %w", err)
	}
	return count, nil
}
