// Package softdelete implements a transparent soft-delete overlay on
// top of the query package: tables registered with an Overlay get
// their "deleted" rows hidden from ordinary queries without every
// call site needing to know the overlay exists.
//
// The overlay does its work in one place - Apply, called once by the
// top-level handle right before a query is rendered and executed -
// rather than teaching query.Where about soft deletes. A query built
// against an overlaid table reads normally; the visibility predicate
// is injected at the last possible moment.
package softdelete

import (
	"fmt"
	"time"

	"github.com/arcflow/pgqb/query"
)

// Overlay tracks which tables are soft-deletable and which column
// marks a row as deleted - non-NULL meaning deleted, holding the
// deletion timestamp.
type Overlay struct {
	column string
	tables map[string]struct{}
}

// New creates an Overlay that marks deletion on column and covers the
// given tables.
func New(column string, tables ...string) *Overlay {
	set := make(map[string]struct{}, len(tables))
	for _, t := range tables {
		set[t] = struct{}{}
	}
	return &Overlay{column: column, tables: set}
}

// Covers reports whether table is under this overlay.
func (o *Overlay) Covers(table string) bool {
	_, ok := o.tables[table]
	return ok
}

// Column returns the deletion-timestamp column name.
func (o *Overlay) Column() string {
	return o.column
}

// Apply injects the visibility predicate matching b's requested scope
// (see query.Scope* and Builder.WithTrashed/OnlyTrashed), if b's table
// is covered. A scope request against an uncovered table is an error:
// there is nothing to include or exclude, and silently ignoring it
// would make WithTrashed/OnlyTrashed a no-op that looks like it did
// something.
func (o *Overlay) Apply(b *query.Builder) (*query.Builder, error) {
	covered := o.Covers(b.TableName())

	switch b.Scope() {
	case query.ScopeWithTrashed:
		if !covered {
			return nil, fmt.Errorf("%w: %q (with_trashed)", ErrOverlayNotEnabled, b.TableName())
		}
		return b, nil
	case query.ScopeOnlyTrashed:
		if !covered {
			return nil, fmt.Errorf("%w: %q (only_trashed)", ErrOverlayNotEnabled, b.TableName())
		}
		return b.InjectPredicate(query.And, o.column, query.Not(nil)), nil
	default:
		if !covered {
			return b, nil
		}
		return b.InjectPredicate(query.And, o.column, query.IsNull()), nil
	}
}

// SoftDelete turns b into an UPDATE that stamps the overlay's column
// with the current time, marking matched rows deleted without
// removing them. b's own predicates (its WHERE clause) are preserved;
// SoftDelete only adds the SET clause.
func (o *Overlay) SoftDelete(b *query.Builder) (*query.Builder, error) {
	if !o.Covers(b.TableName()) {
		return nil, fmt.Errorf("%w: %q (soft_delete)", ErrOverlayNotEnabled, b.TableName())
	}
	return b.Update(query.M{{Key: o.column, Val: time.Now().UTC()}}), nil
}

// Restore turns b into an UPDATE that clears the overlay's column,
// making matched rows visible to ordinary queries again. The UPDATE
// is scoped to trashed rows, so Apply narrows it to rows whose column
// is set.
func (o *Overlay) Restore(b *query.Builder) (*query.Builder, error) {
	if !o.Covers(b.TableName()) {
		return nil, fmt.Errorf("%w: %q (restore)", ErrOverlayNotEnabled, b.TableName())
	}
	return b.Update(query.M{{Key: o.column, Val: nil}}).OnlyTrashed(), nil
}
