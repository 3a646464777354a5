package query

import "strings"

// SortMap is an allow-list from public sort keys to real column
// expressions. Unknown keys fall back to the default column, so a
// caller-supplied sort parameter can never reach the SQL text directly.
type SortMap struct {
	Columns map[string]string
	Default string
}

// Order resolves a client sort spec into a safe ORDER BY expression.
// A leading "-" selects descending order.
func (m SortMap) Order(spec string) string {
	direction := " ASC"
	if rest, ok := strings.CutPrefix(spec, "-"); ok {
		direction = " DESC"
		spec = rest
	}

	column, ok := m.Columns[spec]
	if !ok {
		column = m.Default
	}
	return column + direction
}
