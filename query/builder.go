package query

import "fmt"

// Builder is a chainable, immutable query description. Every mutator
// method returns a new *Builder; the receiver is left untouched, so a
// base query can be branched into several variants safely. A method
// that violates an invariant (joining a delete, updating with no
// assignments, ...) records the error instead of panicking; it
// surfaces from Render or Err.
type Builder struct {
	ir  *ir
	err error
}

// Table starts a new query against the given table name.
func Table(name string) *Builder {
	return &Builder{ir: newIR(name)}
}

func (b *Builder) with(fn func(*ir) error) *Builder {
	if b.err != nil {
		return b
	}
	next := b.ir.clone()
	if err := fn(next); err != nil {
		return &Builder{ir: b.ir, err: err}
	}
	return &Builder{ir: next}
}

// Err returns the first error recorded by a chained mutator, if any.
func (b *Builder) Err() error {
	return b.err
}

// Render compiles the builder's accumulated state into a parameterized
// SQL statement and its positional arguments.
func (b *Builder) Render() (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	return render(b.ir)
}

// TableName returns the table the query was built against.
func (b *Builder) TableName() string {
	return b.ir.table
}

// Scope returns the soft-delete visibility scope requested for this
// query. It has no effect when no overlay is active; an active overlay
// that does not cover the table rejects a WithTrashed/OnlyTrashed
// scope.
func (b *Builder) Scope() SoftDeleteScope {
	return b.ir.scope
}

// Operation returns which statement this builder will render.
func (b *Builder) Operation() Operation {
	return b.ir.operation
}

// InjectPredicate appends a predicate directly to the where chain,
// bypassing Where's M-based desugaring. It exists for callers that
// need to add a predicate at render time based on state the builder
// itself doesn't carry, such as a soft-delete overlay's trashed-at
// check; see package softdelete.
func (b *Builder) InjectPredicate(connector Connector, column string, op Op) *Builder {
	return b.with(func(r *ir) error {
		r.predicates = append(r.predicates, Predicate{Connector: connector, Column: column, Op: op})
		return nil
	})
}

// Select marks this as a SELECT query and sets its projection. An
// empty or omitted column list projects "*".
func (b *Builder) Select(columns ...string) *Builder {
	return b.with(func(r *ir) error {
		r.operation = OpSelect
		r.projection = columns
		return nil
	})
}

// Where adds filters joined to the existing chain with AND.
func (b *Builder) Where(filters M) *Builder {
	return b.with(func(r *ir) error {
		if r.operation == opNone {
			r.operation = OpSelect
		}
		r.predicates = desugar(r.predicates, And, filters)
		return nil
	})
}

// OrWhere adds filters joined to the existing chain with OR.
func (b *Builder) OrWhere(filters M) *Builder {
	return b.with(func(r *ir) error {
		if r.operation == opNone {
			r.operation = OpSelect
		}
		r.predicates = desugar(r.predicates, Or, filters)
		return nil
	})
}

// Having adds post-aggregation filters joined with AND.
func (b *Builder) Having(filters M) *Builder {
	return b.with(func(r *ir) error {
		r.having = desugar(r.having, And, filters)
		return nil
	})
}

// OrHaving adds post-aggregation filters joined with OR.
func (b *Builder) OrHaving(filters M) *Builder {
	return b.with(func(r *ir) error {
		r.having = desugar(r.having, Or, filters)
		return nil
	})
}

// Join adds an INNER JOIN against table, matching leftColumn =
// rightColumn.
func (b *Builder) Join(table, leftColumn, rightColumn string) *Builder {
	return b.join(InnerJoin, table, leftColumn, rightColumn)
}

// LeftJoin adds a LEFT JOIN against table.
func (b *Builder) LeftJoin(table, leftColumn, rightColumn string) *Builder {
	return b.join(LeftJoin, table, leftColumn, rightColumn)
}

// RightJoin adds a RIGHT JOIN against table.
func (b *Builder) RightJoin(table, leftColumn, rightColumn string) *Builder {
	return b.join(RightJoin, table, leftColumn, rightColumn)
}

// FullJoin adds a FULL JOIN against table.
func (b *Builder) FullJoin(table, leftColumn, rightColumn string) *Builder {
	return b.join(FullJoin, table, leftColumn, rightColumn)
}

func (b *Builder) join(kind JoinKind, table, left, right string) *Builder {
	return b.with(func(r *ir) error {
		switch r.operation {
		case OpInsert, OpUpdate, OpDelete:
			return ErrJoinOnMutation
		}
		if r.operation == opNone {
			r.operation = OpSelect
		}
		r.joins = append(r.joins, Join{Kind: kind, Table: table, LeftColumn: left, RightColumn: right})
		return nil
	})
}

// OrderBy appends an ORDER BY term.
func (b *Builder) OrderBy(column string, desc bool) *Builder {
	return b.with(func(r *ir) error {
		r.orderBy = append(r.orderBy, OrderEntry{Column: column, Desc: desc})
		return nil
	})
}

// GroupBy appends GROUP BY columns.
func (b *Builder) GroupBy(columns ...string) *Builder {
	return b.with(func(r *ir) error {
		r.groupBy = append(r.groupBy, columns...)
		return nil
	})
}

// Limit sets the LIMIT clause.
func (b *Builder) Limit(n int) *Builder {
	return b.with(func(r *ir) error {
		r.limit = &n
		return nil
	})
}

// Offset sets the OFFSET clause.
func (b *Builder) Offset(n int) *Builder {
	return b.with(func(r *ir) error {
		r.offset = &n
		return nil
	})
}

// First is shorthand for Limit(1), for callers that want a single row
// back rather than a slice.
func (b *Builder) First() *Builder {
	return b.Limit(1)
}

// Count turns the query into "SELECT COUNT(*)" over the same FROM,
// JOIN, WHERE clauses, and soft-delete scope accumulated so far,
// deliberately discarding any projection, ORDER BY, LIMIT, OFFSET,
// GROUP BY, and HAVING, so the result is always a single stable row
// count rather than one row per group. It is a pure IR rewrite; pair
// it with Handle.Count to execute it and coerce the result into an
// int64.
func (b *Builder) Count() *Builder {
	return b.with(func(r *ir) error {
		r.operation = OpSelect
		r.projection = []string{"COUNT(*)"}
		r.orderBy = nil
		r.limit = nil
		r.offset = nil
		r.groupBy = nil
		r.having = nil
		return nil
	})
}

// Insert marks this as an INSERT query. The first row's keys, in
// declaration order, become the column list; every later row must
// carry exactly that same set of keys (order within the row doesn't
// matter). Defaults to "RETURNING *"; call ReturningNone to suppress
// it or Returning to name specific columns.
func (b *Builder) Insert(rows ...M) *Builder {
	return b.with(func(r *ir) error {
		r.operation = OpInsert
		r.returning = ReturningAll
		if len(rows) == 0 || len(rows[0]) == 0 {
			return ErrEmptyInsert
		}
		first := rows[0]
		cols := make([]string, len(first))
		index := make(map[string]int, len(first))
		for i, e := range first {
			cols[i] = e.Key
			index[e.Key] = i
		}
		insertRows := make([][]any, len(rows))
		for ri, row := range rows {
			if len(row) != len(cols) {
				return ErrRowColumnMismatch
			}
			values := make([]any, len(cols))
			seen := make(map[string]bool, len(cols))
			for _, e := range row {
				idx, ok := index[e.Key]
				if !ok {
					return fmt.Errorf("%w: %w", ErrRowColumnMismatch, ErrUnknownColumn)
				}
				values[idx] = e.Val
				seen[e.Key] = true
			}
			if len(seen) != len(cols) {
				return ErrRowColumnMismatch
			}
			insertRows[ri] = values
		}
		r.insertColumns = cols
		r.insertRows = insertRows
		return nil
	})
}

// OnConflict begins an ON CONFLICT clause for an insert, to be
// finished with DoNothing or DoUpdate. columns identifies the conflict
// target; an empty list lets Postgres infer it from any unique
// constraint.
func (b *Builder) OnConflict(columns ...string) *ConflictBuilder {
	return &ConflictBuilder{base: b, columns: columns}
}

// ConflictBuilder finishes an ON CONFLICT clause started by
// Builder.OnConflict.
type ConflictBuilder struct {
	base    *Builder
	columns []string
}

// DoNothing finishes the clause as "ON CONFLICT ... DO NOTHING".
func (c *ConflictBuilder) DoNothing() *Builder {
	return c.base.with(func(r *ir) error {
		if r.operation != OpInsert {
			return ErrOnConflictNotInsert
		}
		r.onConflict = &OnConflictClause{Columns: c.columns, DoNothing: true}
		return nil
	})
}

// DoUpdate finishes the clause as "ON CONFLICT ... DO UPDATE SET ...".
func (c *ConflictBuilder) DoUpdate(assignments M) *Builder {
	return c.base.with(func(r *ir) error {
		if r.operation != OpInsert {
			return ErrOnConflictNotInsert
		}
		if len(assignments) == 0 {
			return ErrOnConflictNoAssignments
		}
		list := make([]Assignment, len(assignments))
		for i, e := range assignments {
			list[i] = Assignment{Column: e.Key, Value: e.Val}
		}
		r.onConflict = &OnConflictClause{Columns: c.columns, Assignments: list}
		return nil
	})
}

// Update marks this as an UPDATE query with the given SET assignments.
// Defaults to "RETURNING *"; call ReturningNone to suppress it or
// Returning to name specific columns.
func (b *Builder) Update(assignments M) *Builder {
	return b.with(func(r *ir) error {
		r.operation = OpUpdate
		r.returning = ReturningAll
		if len(assignments) == 0 {
			return ErrEmptyUpdate
		}
		for _, e := range assignments {
			r.assignments = append(r.assignments, Assignment{Column: e.Key, Value: e.Val})
		}
		return nil
	})
}

// Delete marks this as a DELETE query. Defaults to "RETURNING *"; call
// ReturningNone to suppress it or Returning to name specific columns.
func (b *Builder) Delete() *Builder {
	return b.with(func(r *ir) error {
		r.operation = OpDelete
		r.returning = ReturningAll
		return nil
	})
}

// Returning requests specific columns back from an insert, update, or
// delete.
func (b *Builder) Returning(columns ...string) *Builder {
	return b.with(func(r *ir) error {
		r.returning = ReturningColumns
		r.returningColumns = columns
		return nil
	})
}

// ReturningAll requests "RETURNING *" from an insert, update, or
// delete. Insert/Update/Delete already default to this; it exists for
// callers restoring the default after calling Returning or
// ReturningNone earlier in a chain.
func (b *Builder) ReturningAll() *Builder {
	return b.with(func(r *ir) error {
		r.returning = ReturningAll
		return nil
	})
}

// ReturningNone suppresses the RETURNING clause entirely on an
// insert, update, or delete, overriding the default "RETURNING *".
func (b *Builder) ReturningNone() *Builder {
	return b.with(func(r *ir) error {
		r.returning = ReturningNone
		return nil
	})
}

// WithTrashed includes soft-deleted rows alongside live ones. An
// overlay that does not cover the table rejects the query (see
// softdelete.Overlay.Apply). With no operation chosen yet, the builder
// becomes a SELECT, as with Where.
func (b *Builder) WithTrashed() *Builder {
	return b.with(func(r *ir) error {
		if r.operation == opNone {
			r.operation = OpSelect
		}
		r.scope = ScopeWithTrashed
		return nil
	})
}

// OnlyTrashed restricts results to soft-deleted rows. An overlay that
// does not cover the table rejects the query (see
// softdelete.Overlay.Apply). With no operation chosen yet, the builder
// becomes a SELECT, as with Where.
func (b *Builder) OnlyTrashed() *Builder {
	return b.with(func(r *ir) error {
		if r.operation == opNone {
			r.operation = OpSelect
		}
		r.scope = ScopeOnlyTrashed
		return nil
	})
}
