// Package relations declares entity relationships as plain data. Each
// service builds a Registry at startup, freezes it into an immutable
// Schema, and hands that to its stores. There are no import-time side
// effects; re-declaring a relationship before Freeze overwrites the
// earlier declaration instead of duplicating it.
package relations

import (
	"fmt"
	"sort"
)

// Kind is the relationship direction.
type Kind string

const (
	BelongsTo Kind = "belongs-to"
	HasMany   Kind = "has-many"
)

// Action is a referential action applied on delete or update of the parent.
type Action string

const (
	Cascade  Action = "CASCADE"
	Restrict Action = "RESTRICT"
	SetNull  Action = "SET NULL"
	NoAction Action = "NO ACTION"
)

// Association is one declared relationship between two entity tables.
type Association struct {
	Kind       Kind
	Source     string // table owning the declaration
	Target     string // related table
	ForeignKey string // column on the belongs-to side
	OnDelete   Action
	OnUpdate   Action
}

func (a Association) key() string {
	return a.Source + "/" + a.Target + "/" + a.ForeignKey + "/" + string(a.Kind)
}

// Option tweaks a declaration.
type Option func(*Association)

// WithOnDelete sets the ON DELETE action.
func WithOnDelete(action Action) Option {
	return func(a *Association) { a.OnDelete = action }
}

// WithOnUpdate sets the ON UPDATE action.
func WithOnUpdate(action Action) Option {
	return func(a *Association) { a.OnUpdate = action }
}

// Registry accumulates declarations until Freeze.
type Registry struct {
	associations map[string]Association
	order        []string
	frozen       bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{associations: make(map[string]Association)}
}

// BelongsTo declares that each source row references one target row via
// foreignKey (a column on source).
func (r *Registry) BelongsTo(source, target, foreignKey string, opts ...Option) {
	r.register(Association{
		Kind:       BelongsTo,
		Source:     source,
		Target:     target,
		ForeignKey: foreignKey,
		OnDelete:   NoAction,
		OnUpdate:   NoAction,
	}, opts)
}

// HasMany declares that one source row owns many target rows; foreignKey is
// the column on target pointing back at source.
func (r *Registry) HasMany(source, target, foreignKey string, opts ...Option) {
	r.register(Association{
		Kind:       HasMany,
		Source:     source,
		Target:     target,
		ForeignKey: foreignKey,
		OnDelete:   NoAction,
		OnUpdate:   NoAction,
	}, opts)
}

func (r *Registry) register(assoc Association, opts []Option) {
	if r.frozen {
		panic("relations: registration after Freeze")
	}
	for _, opt := range opts {
		opt(&assoc)
	}
	key := assoc.key()
	if _, exists := r.associations[key]; !exists {
		r.order = append(r.order, key)
	}
	r.associations[key] = assoc
}

// Freeze returns the immutable schema and seals the registry. Calling
// Freeze twice returns equal schemas.
func (r *Registry) Freeze() Schema {
	r.frozen = true
	associations := make([]Association, 0, len(r.order))
	for _, key := range r.order {
		associations = append(associations, r.associations[key])
	}
	return Schema{associations: associations}
}

// Schema is the frozen relationship table passed to stores.
type Schema struct {
	associations []Association
}

// All returns every association in declaration order.
func (s Schema) All() []Association {
	out := make([]Association, len(s.associations))
	copy(out, s.associations)
	return out
}

// Of returns the associations declared by the given source table.
func (s Schema) Of(source string) []Association {
	var out []Association
	for _, a := range s.associations {
		if a.Source == source {
			out = append(out, a)
		}
	}
	return out
}

// ForeignKeyDDL renders the FOREIGN KEY clauses for a table, derived from
// its belongs-to declarations, in a stable order. Stores append these to
// their CREATE TABLE statements so cascade behavior lives in one place.
func (s Schema) ForeignKeyDDL(table string) []string {
	var clauses []string
	for _, a := range s.associations {
		if a.Kind != BelongsTo || a.Source != table {
			continue
		}
		clause := fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s (id)", a.ForeignKey, a.Target)
		if a.OnDelete != NoAction {
			clause += " ON DELETE " + string(a.OnDelete)
		}
		if a.OnUpdate != NoAction {
			clause += " ON UPDATE " + string(a.OnUpdate)
		}
		clauses = append(clauses, clause)
	}
	sort.Strings(clauses)
	return clauses
}
