package coursemgmt

import "questify/pkg/platform/relations"

// Associations declares how the authoring tables relate. The frozen schema
// is handed to the postgres store, which renders the FK clauses from it.
func Associations() relations.Schema {
	r := relations.NewRegistry()

	r.HasMany("courses", "islands", "course_id", relations.WithOnDelete(relations.Cascade))
	r.BelongsTo("islands", "courses", "course_id", relations.WithOnDelete(relations.Cascade))
	r.BelongsTo("islands", "island_templates", "template_id", relations.WithOnDelete(relations.SetNull))

	r.BelongsTo("prerequisite_islands", "islands", "island_id", relations.WithOnDelete(relations.Cascade))
	r.BelongsTo("prerequisite_islands", "islands", "prerequisite_island_id", relations.WithOnDelete(relations.Cascade))

	r.HasMany("islands", "levels", "island_id", relations.WithOnDelete(relations.Cascade))
	r.BelongsTo("levels", "islands", "island_id", relations.WithOnDelete(relations.Cascade))

	r.HasMany("levels", "challenges", "level_id", relations.WithOnDelete(relations.Cascade))
	r.BelongsTo("challenges", "levels", "level_id", relations.WithOnDelete(relations.Cascade))

	r.HasMany("challenges", "slides", "challenge_id", relations.WithOnDelete(relations.Cascade))
	r.BelongsTo("slides", "challenges", "challenge_id", relations.WithOnDelete(relations.Cascade))

	r.HasMany("courses", "course_item_templates", "course_id", relations.WithOnDelete(relations.Cascade))
	r.HasMany("item_templates", "course_item_templates", "item_template_id", relations.WithOnDelete(relations.Cascade))
	r.BelongsTo("course_item_templates", "courses", "course_id", relations.WithOnDelete(relations.Cascade))
	r.BelongsTo("course_item_templates", "item_templates", "item_template_id", relations.WithOnDelete(relations.Cascade))

	return r.Freeze()
}
