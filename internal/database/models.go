package database

import "time"

// QueryResult holds the result of a SQL query execution.
// Columns and each row keep the order the store returned them in. A QueryResult is
// shared between callers once cached and must not be modified.
type QueryResult struct {
	Columns   []string
	Rows      [][]any
	RowCount  int
	Duration  time.Duration
	FetchedAt time.Time
}

// Empty reports whether the query returned no rows.
func (r *QueryResult) Empty() bool {
	return r == nil || len(r.Rows) == 0
}

// Value returns the value at row i for the named column.
func (r *QueryResult) Value(i int, column string) (any, bool) {
	if r == nil || i < 0 || i >= len(r.Rows) {
		return nil, false
	}
	for c, name := range r.Columns {
		if name == column {
			if c < len(r.Rows[i]) {
				return r.Rows[i][c], true
			}
			return nil, false
		}
	}
	return nil, false
}
