package query

import (
	"strings"

	"gorm.io/gorm"
)

// Builder assembles a WHERE clause and its positional parameters as one
// unit. Every predicate is appended together with its bound values in a
// single step, so the parameter list can never drift out of order with
// the placeholders in the clause text. Column names passed to the
// helpers come from package-level allow-lists, never from callers.
type Builder struct {
	clauses []string
	args    []interface{}
}

// Where appends a clause fragment and its bound values atomically.
// Fragments containing OR must arrive pre-parenthesized.
func (b *Builder) Where(clause string, args ...interface{}) *Builder {
	b.clauses = append(b.clauses, clause)
	b.args = append(b.args, args...)
	return b
}

// Empty reports whether no predicates have been added.
func (b *Builder) Empty() bool {
	return len(b.clauses) == 0
}

// Clause returns the AND-combined predicate text.
func (b *Builder) Clause() string {
	return strings.Join(b.clauses, " AND ")
}

// Args returns the bound values in placeholder order.
func (b *Builder) Args() []interface{} {
	return b.args
}

// Apply attaches the accumulated predicates to a gorm query.
func (b *Builder) Apply(db *gorm.DB) *gorm.DB {
	if b.Empty() {
		return db
	}
	return db.Where(b.Clause(), b.args...)
}
