package app

import "strings"

const tracedQueryLimit = 512

// formatDBQueryForTrace collapses whitespace runs so multi-line builder
// output stays readable as a single span attribute, truncating very long
// statements.
func formatDBQueryForTrace(query string) string {
	compact := strings.Join(strings.Fields(query), " ")
	if len(compact) > tracedQueryLimit {
		return compact[:tracedQueryLimit] + "..."
	}
	return compact
}
