package query

// MEntry is one column/value pair in an M. Exported fields let callers
// write positional struct literals: M{{"id", 1}, {"age", Gt(18)}}.
type MEntry struct {
	Key string
	Val any
}

// M is an ordered set of column filters, passed to Where, OrWhere, and
// Having. It exists because Go's map type has no guaranteed iteration
// order, while predicate order is part of the rendered SQL - the same
// shape used by, e.g., the MongoDB driver's bson.D for the same
// reason.
//
// Each entry's value may be:
//   - nil, rendered as "IS NULL"
//   - a scalar, rendered as "= <value>"
//   - an Op (In, NotIn, Like, ILike, Gt, Lt, Gte, Lte, Not, Between,
//     InSubquery), rendered per its operator
//   - a []Op, expanding to multiple predicates against the same
//     column in slice order, all joined with the filter call's own
//     connector
type M []MEntry

func desugar(dst []Predicate, connector Connector, m M) []Predicate {
	for _, entry := range m {
		for _, op := range toOps(entry.Val) {
			dst = append(dst, Predicate{Connector: connector, Column: entry.Key, Op: op})
		}
	}
	return dst
}

func toOps(val any) []Op {
	switch v := val.(type) {
	case nil:
		return []Op{eqOp(nil)}
	case Op:
		return []Op{v}
	case []Op:
		return v
	default:
		return []Op{eqOp(v)}
	}
}
