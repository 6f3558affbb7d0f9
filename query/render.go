package query

import (
	"fmt"
	"strings"
)

// paramList accumulates positional placeholder values in the order
// they are bound, and hands out "$N" references as they're requested.
type paramList struct {
	values []any
}

func (p *paramList) add(v any) string {
	p.values = append(p.values, v)
	return fmt.Sprintf("$%d", len(p.values))
}

// Render turns a fully-desugared ir into a parameterized SQL string
// and its positional argument slice.
func render(r *ir) (string, []any, error) {
	switch r.operation {
	case OpSelect:
		return renderSelect(r)
	case OpInsert:
		return renderInsert(r)
	case OpUpdate:
		return renderUpdate(r)
	case OpDelete:
		return renderDelete(r)
	default:
		return "", nil, ErrNoOperation
	}
}

func renderSelect(r *ir) (string, []any, error) {
	p := &paramList{}
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(r.projection) == 0 {
		sb.WriteString("*")
	} else {
		sb.WriteString(strings.Join(quoteAll(r.projection), ", "))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(quoteColumnRef(r.table))

	for _, j := range r.joins {
		sb.WriteString(" ")
		sb.WriteString(string(j.Kind))
		sb.WriteString(" JOIN ")
		sb.WriteString(quoteColumnRef(j.Table))
		sb.WriteString(" ON ")
		sb.WriteString(quoteColumnRef(j.LeftColumn))
		sb.WriteString(" = ")
		sb.WriteString(quoteColumnRef(j.RightColumn))
	}

	if len(r.predicates) > 0 {
		where, err := renderPredicateChain(r.predicates, p)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}

	if len(r.groupBy) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(quoteAll(r.groupBy), ", "))
	}

	if len(r.having) > 0 {
		having, err := renderPredicateChain(r.having, p)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(" HAVING ")
		sb.WriteString(having)
	}

	if len(r.orderBy) > 0 {
		parts := make([]string, len(r.orderBy))
		for i, o := range r.orderBy {
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			parts[i] = quoteColumnRef(o.Column) + " " + dir
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(parts, ", "))
	}

	if r.limit != nil {
		sb.WriteString(" LIMIT ")
		sb.WriteString(p.add(*r.limit))
	}
	if r.offset != nil {
		sb.WriteString(" OFFSET ")
		sb.WriteString(p.add(*r.offset))
	}

	return sb.String(), p.values, nil
}

func renderInsert(r *ir) (string, []any, error) {
	if len(r.insertColumns) == 0 || len(r.insertRows) == 0 {
		return "", nil, ErrEmptyInsert
	}
	p := &paramList{}
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(quoteColumnRef(r.table))
	sb.WriteString(" (")
	sb.WriteString(strings.Join(quoteAll(r.insertColumns), ", "))
	sb.WriteString(") VALUES ")

	rows := make([]string, len(r.insertRows))
	for i, row := range r.insertRows {
		phs := make([]string, len(row))
		for j, v := range row {
			phs[j] = p.add(v)
		}
		rows[i] = "(" + strings.Join(phs, ", ") + ")"
	}
	sb.WriteString(strings.Join(rows, ", "))

	if r.onConflict != nil {
		sb.WriteString(" ON CONFLICT")
		if len(r.onConflict.Columns) > 0 {
			sb.WriteString(" (")
			sb.WriteString(strings.Join(quoteAll(r.onConflict.Columns), ", "))
			sb.WriteString(")")
		}
		if r.onConflict.DoNothing {
			sb.WriteString(" DO NOTHING")
		} else {
			if len(r.onConflict.Assignments) == 0 {
				return "", nil, ErrOnConflictNoAssignments
			}
			sb.WriteString(" DO UPDATE SET ")
			assigns := make([]string, len(r.onConflict.Assignments))
			for i, a := range r.onConflict.Assignments {
				assigns[i] = quoteColumnRef(a.Column) + " = " + p.add(a.Value)
			}
			sb.WriteString(strings.Join(assigns, ", "))
		}
	}

	writeReturning(&sb, r)
	return sb.String(), p.values, nil
}

func renderUpdate(r *ir) (string, []any, error) {
	if len(r.assignments) == 0 {
		return "", nil, ErrEmptyUpdate
	}
	p := &paramList{}
	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(quoteColumnRef(r.table))
	sb.WriteString(" SET ")

	assigns := make([]string, len(r.assignments))
	for i, a := range r.assignments {
		assigns[i] = quoteColumnRef(a.Column) + " = " + p.add(a.Value)
	}
	sb.WriteString(strings.Join(assigns, ", "))

	if len(r.predicates) > 0 {
		where, err := renderPredicateChain(r.predicates, p)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}

	writeReturning(&sb, r)
	return sb.String(), p.values, nil
}

func renderDelete(r *ir) (string, []any, error) {
	p := &paramList{}
	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(quoteColumnRef(r.table))

	if len(r.predicates) > 0 {
		where, err := renderPredicateChain(r.predicates, p)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}

	writeReturning(&sb, r)
	return sb.String(), p.values, nil
}

func writeReturning(sb *strings.Builder, r *ir) {
	switch r.returning {
	case ReturningAll:
		sb.WriteString(" RETURNING *")
	case ReturningColumns:
		if len(r.returningColumns) > 0 {
			sb.WriteString(" RETURNING ")
			sb.WriteString(strings.Join(quoteAll(r.returningColumns), ", "))
		}
	}
}

// renderPredicateChain joins predicates left to right with their
// declared connectors and no grouping parentheses - see the Predicate
// doc comment.
func renderPredicateChain(preds []Predicate, p *paramList) (string, error) {
	var sb strings.Builder
	for i, pred := range preds {
		piece, err := renderOp(pred.Op, pred.Column, p)
		if err != nil {
			return "", err
		}
		if i > 0 {
			sb.WriteByte(' ')
			sb.WriteString(string(pred.Connector))
			sb.WriteByte(' ')
		}
		sb.WriteString(piece)
	}
	return sb.String(), nil
}

func renderOp(o Op, column string, p *paramList) (string, error) {
	col := quoteColumnRef(column)
	switch o.kind {
	case opEq:
		return col + " = " + p.add(o.a), nil
	case opIsNull:
		return col + " IS NULL", nil
	case opIn:
		if len(o.list) == 0 {
			return "FALSE", nil
		}
		return col + " IN (" + placeholders(o.list, p) + ")", nil
	case opNotIn:
		if len(o.list) == 0 {
			return "TRUE", nil
		}
		return col + " NOT IN (" + placeholders(o.list, p) + ")", nil
	case opLike:
		return col + " LIKE " + p.add(o.a), nil
	case opILike:
		return col + " ILIKE " + p.add(o.a), nil
	case opGt:
		return col + " > " + p.add(o.a), nil
	case opLt:
		return col + " < " + p.add(o.a), nil
	case opGte:
		return col + " >= " + p.add(o.a), nil
	case opLte:
		return col + " <= " + p.add(o.a), nil
	case opNot:
		if o.a == nil {
			return col + " IS NOT NULL", nil
		}
		return col + " != " + p.add(o.a), nil
	case opBetween:
		return col + " BETWEEN " + p.add(o.a) + " AND " + p.add(o.b), nil
	case opInSubquery:
		innerSQL, innerParams, err := render(o.sub.ir)
		if err != nil {
			return "", fmt.Errorf("query: rendering subquery for %q: %w", column, err)
		}
		rebased, vals := rebase(innerSQL, innerParams, len(p.values)+1)
		p.values = append(p.values, vals...)
		return col + " IN (" + rebased + ")", nil
	default:
		return "", fmt.Errorf("query: unknown operator for column %q", column)
	}
}

func placeholders(values []any, p *paramList) string {
	phs := make([]string, len(values))
	for i, v := range values {
		phs[i] = p.add(v)
	}
	return strings.Join(phs, ", ")
}
