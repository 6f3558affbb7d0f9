package query

import "strings"

// quoteColumnRef quotes a column reference for use in a rendered
// statement. Unlike schema.quoteIdent, this splits on "." so that
// multi-table statements (joins, subqueries) can reference
// "orders.user_id" and have both parts quoted independently. The
// wildcard "*" and anything that looks like a function call or
// expression ("COUNT(*)", "SUM(amount)"), contains a space (so
// callers can write "COUNT(*) AS total" or "name AS full_name"
// inline), or already starts with a double quote pass through
// unquoted, since quoting any of those would change their meaning or
// break the syntax.
func quoteColumnRef(ref string) string {
	if ref == "*" {
		return "*"
	}
	if strings.ContainsAny(ref, "() ") || strings.HasPrefix(ref, `"`) {
		return ref
	}
	parts := strings.Split(ref, ".")
	for i, p := range parts {
		if p == "*" {
			continue
		}
		parts[i] = quotePart(p)
	}
	return strings.Join(parts, ".")
}

func quotePart(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = quoteColumnRef(n)
	}
	return out
}
