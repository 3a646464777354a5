package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmployeeBucket(t *testing.T) {
	tests := []struct {
		name       string
		bucket     string
		wantClause string
		wantArgs   []interface{}
	}{
		{
			name:       "range bucket",
			bucket:     "11-50",
			wantClause: "employees_count BETWEEN ? AND ?",
			wantArgs:   []interface{}{int64(11), int64(50)},
		},
		{
			name:       "open upper bucket",
			bucket:     "500+",
			wantClause: "employees_count >= ?",
			wantArgs:   []interface{}{int64(500)},
		},
		{
			name:       "bare number is exact match",
			bucket:     "42",
			wantClause: "employees_count = ?",
			wantArgs:   []interface{}{int64(42)},
		},
		{
			name:   "unrecognized bucket is ignored",
			bucket: "many",
		},
		{
			name:   "empty bucket is ignored",
			bucket: "",
		},
		{
			name:   "garbage open bucket is ignored",
			bucket: "lots+",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := (&Builder{}).EmployeeBucket("employees_count", tt.bucket)
			if tt.wantClause == "" {
				require.True(t, b.Empty())
				return
			}
			require.Equal(t, tt.wantClause, b.Clause())
			require.Equal(t, tt.wantArgs, b.Args())
		})
	}
}

func TestRevenueBucket(t *testing.T) {
	tests := []struct {
		name       string
		bucket     string
		wantClause string
		wantArgs   []interface{}
	}{
		{
			name:       "open upper with multiplier",
			bucket:     "100M+",
			wantClause: "annual_revenue > ?",
			wantArgs:   []interface{}{float64(100000000)},
		},
		{
			name:       "range with multipliers",
			bucket:     "10M-50M",
			wantClause: "annual_revenue BETWEEN ? AND ?",
			wantArgs:   []interface{}{float64(10000000), float64(50000000)},
		},
		{
			name:       "thousands suffix",
			bucket:     "500K+",
			wantClause: "annual_revenue > ?",
			wantArgs:   []interface{}{float64(500000)},
		},
		{
			name:       "billions suffix",
			bucket:     "1B+",
			wantClause: "annual_revenue > ?",
			wantArgs:   []interface{}{float64(1000000000)},
		},
		{
			name:       "bare number is exact match",
			bucket:     "750000",
			wantClause: "annual_revenue = ?",
			wantArgs:   []interface{}{float64(750000)},
		},
		{
			name:       "lowercase suffix accepted",
			bucket:     "5m+",
			wantClause: "annual_revenue > ?",
			wantArgs:   []interface{}{float64(5000000)},
		},
		{
			name:   "unrecognized bucket is ignored",
			bucket: "a-lot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := (&Builder{}).RevenueBucket("annual_revenue", tt.bucket)
			if tt.wantClause == "" {
				require.True(t, b.Empty())
				return
			}
			require.Equal(t, tt.wantClause, b.Clause())
			require.Equal(t, tt.wantArgs, b.Args())
		})
	}
}
