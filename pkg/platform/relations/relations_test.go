package relations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationIsIdempotent(t *testing.T) {
	r := NewRegistry()
	r.HasMany("courses", "islands", "course_id", WithOnDelete(Cascade))
	r.BelongsTo("islands", "courses", "course_id", WithOnDelete(Cascade))

	// Declaring the same pair again must overwrite, not duplicate.
	r.BelongsTo("islands", "courses", "course_id", WithOnDelete(Cascade), WithOnUpdate(Cascade))

	schema := r.Freeze()
	require.Len(t, schema.All(), 2)

	island := schema.Of("islands")
	require.Len(t, island, 1)
	assert.Equal(t, Cascade, island[0].OnDelete)
	assert.Equal(t, Cascade, island[0].OnUpdate, "second registration should win")
}

func TestFreezeSealsRegistry(t *testing.T) {
	r := NewRegistry()
	r.BelongsTo("levels", "islands", "island_id")
	r.Freeze()

	assert.Panics(t, func() {
		r.BelongsTo("slides", "challenges", "challenge_id")
	})
}

func TestForeignKeyDDL(t *testing.T) {
	r := NewRegistry()
	r.BelongsTo("islands", "courses", "course_id", WithOnDelete(Cascade))
	r.BelongsTo("islands", "island_templates", "template_id", WithOnDelete(SetNull))
	r.HasMany("courses", "islands", "course_id")
	schema := r.Freeze()

	ddl := schema.ForeignKeyDDL("islands")
	require.Len(t, ddl, 2, "has-many must not render a clause")
	assert.Contains(t, ddl, "FOREIGN KEY (course_id) REFERENCES courses (id) ON DELETE CASCADE")
	assert.Contains(t, ddl, "FOREIGN KEY (template_id) REFERENCES island_templates (id) ON DELETE SET NULL")

	assert.Empty(t, schema.ForeignKeyDDL("courses"))
}
