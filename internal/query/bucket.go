package query

import (
	"strconv"
	"strings"
)

// EmployeeBucket maps a human-readable company size bucket to a
// predicate on the employee count column: "11-50" becomes a BETWEEN,
// "500+" an open lower bound. Unrecognized buckets are ignored unless
// the whole string is a bare number, which becomes an exact match.
func (b *Builder) EmployeeBucket(column, bucket string) *Builder {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return b
	}

	if rest, ok := strings.CutSuffix(bucket, "+"); ok {
		if v, err := strconv.ParseInt(rest, 10, 64); err == nil {
			return b.Where(column+" >= ?", v)
		}
		return b
	}
	if lo, hi, ok := splitIntRange(bucket); ok {
		return b.Where(column+" BETWEEN ? AND ?", lo, hi)
	}
	if v, err := strconv.ParseInt(bucket, 10, 64); err == nil {
		return b.Where(column+" = ?", v)
	}
	return b
}

// RevenueBucket maps a revenue bucket with K/M/B suffixes to a
// predicate on the revenue column: "100M+" becomes > 100000000,
// "10M-50M" a BETWEEN, a bare amount an exact match. Unrecognized
// buckets are ignored.
func (b *Builder) RevenueBucket(column, bucket string) *Builder {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return b
	}

	if rest, ok := strings.CutSuffix(bucket, "+"); ok {
		if v, ok := parseAmount(rest); ok {
			return b.Where(column+" > ?", v)
		}
		return b
	}
	if lo, hi, ok := splitAmountRange(bucket); ok {
		return b.Where(column+" BETWEEN ? AND ?", lo, hi)
	}
	if v, ok := parseAmount(bucket); ok {
		return b.Where(column+" = ?", v)
	}
	return b
}

// parseAmount reads a number with an optional K/M/B multiplier suffix.
func parseAmount(s string) (float64, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	multiplier := 1.0
	switch {
	case strings.HasSuffix(s, "K"):
		multiplier = 1e3
		s = strings.TrimSuffix(s, "K")
	case strings.HasSuffix(s, "M"):
		multiplier = 1e6
		s = strings.TrimSuffix(s, "M")
	case strings.HasSuffix(s, "B"):
		multiplier = 1e9
		s = strings.TrimSuffix(s, "B")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v * multiplier, true
}

func splitIntRange(s string) (int64, int64, bool) {
	lo, hi, found := strings.Cut(s, "-")
	if !found {
		return 0, 0, false
	}
	low, err := strconv.ParseInt(strings.TrimSpace(lo), 10, 64)
	if err != nil {
		return 0, 0, false
	}
	high, err := strconv.ParseInt(strings.TrimSpace(hi), 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return low, high, true
}

func splitAmountRange(s string) (float64, float64, bool) {
	lo, hi, found := strings.Cut(s, "-")
	if !found {
		return 0, 0, false
	}
	low, ok := parseAmount(lo)
	if !ok {
		return 0, 0, false
	}
	high, ok := parseAmount(hi)
	if !ok {
		return 0, 0, false
	}
	return low, high, true
}
