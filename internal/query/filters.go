package query

import (
	"strings"
	"time"

	"workspace-service/internal/tenant"
)

// TenantScope constrains the query to the caller's tenant when row-level
// isolation is active. No predicate is added for trusted contexts with
// isolation disabled.
func (b *Builder) TenantScope(tc *tenant.Context) *Builder {
	if tc == nil || !tc.ApplyRLS {
		return b
	}
	return b.Where("client_id = ? AND app_id = ?", tc.ClientID, tc.AppID)
}

// OwnedOrPublic adds the ownership/visibility predicate for resources
// with a creator and a public flag. It only applies when isolation is
// active and the caller is an authenticated user.
func (b *Builder) OwnedOrPublic(tc *tenant.Context) *Builder {
	if tc == nil || !tc.ApplyRLS || !tc.Authenticated {
		return b
	}
	return b.Where("(created_by = ? OR is_public = true)", tc.UserID)
}

// Overlapping restricts events to those overlapping the inclusive date
// range. All-day events always match the open side of the range.
func (b *Builder) Overlapping(start, end *time.Time) *Builder {
	if start != nil {
		b.Where("(end_time >= ? OR is_all_day = true)", *start)
	}
	if end != nil {
		b.Where("(start_time <= ? OR is_all_day = true)", *end)
	}
	return b
}

// In adds a membership predicate over a caller-supplied set of ids.
func (b *Builder) In(column string, values []string) *Builder {
	if len(values) == 0 {
		return b
	}
	return b.Where(column+" IN ?", values)
}

// Eq adds an exact-match predicate, skipped for an empty value.
func (b *Builder) Eq(column string, value string) *Builder {
	if value == "" {
		return b
	}
	return b.Where(column+" = ?", value)
}

// Search adds a case-insensitive substring match OR-combined across the
// given text columns.
func (b *Builder) Search(term string, columns ...string) *Builder {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return b
	}

	pattern := "%" + strings.ToLower(term) + "%"
	fragments := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		fragments = append(fragments, "LOWER("+col+") LIKE ?")
		args = append(args, pattern)
	}
	return b.Where("("+strings.Join(fragments, " OR ")+")", args...)
}
