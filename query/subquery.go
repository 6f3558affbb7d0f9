package query

import (
	"regexp"
	"strconv"
)

var placeholderPattern = regexp.MustCompile(`\$(\d+)`)

// rebase renumbers the positional placeholders in a rendered subquery
// so that they continue an outer statement's numbering instead of
// restarting at $1. sql and params come from rendering the subquery in
// isolation; startAt is the next free placeholder number in the outer
// statement.
//
// This matches "$<digits>" textually, so a quoted identifier that
// happens to contain that shape (a column literally named "price$1")
// would be rewritten along with real placeholders. Real schemas don't
// name columns this way; tracking quoted spans to exempt them is not
// worth the complexity it would add here.
func rebase(sql string, params []any, startAt int) (string, []any) {
	out := placeholderPattern.ReplaceAllStringFunc(sql, func(m string) string {
		n, _ := strconv.Atoi(m[1:])
		return "$" + strconv.Itoa(startAt+n-1)
	})
	return out, params
}
