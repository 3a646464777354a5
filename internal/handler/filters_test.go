package handler

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"workspace-service/internal/tenant"
)

func testTenant() *tenant.Context {
	return &tenant.Context{
		ClientID:      "acme",
		AppID:         "crm",
		UserID:        9,
		ApplyRLS:      true,
		Authenticated: true,
	}
}

func TestCompanyFiltersSizeAndSort(t *testing.T) {
	// size=11-50&sort=-revenue from the public listing API.
	b := companyFilters(testTenant(), "", "", "11-50", "", "")

	require.Contains(t, b.Clause(), "employees_count BETWEEN ? AND ?")
	require.Contains(t, b.Args(), int64(11))
	require.Contains(t, b.Args(), int64(50))
	require.Equal(t, strings.Count(b.Clause(), "?"), len(b.Args()))

	require.Equal(t, "annual_revenue DESC", companySortMap.Order("-revenue"))
}

func TestCompanyFiltersFullCombination(t *testing.T) {
	b := companyFilters(testTenant(), "software", "prospect", "51-200", "10M-50M", "globex")

	clause := b.Clause()
	require.Contains(t, clause, "client_id = ? AND app_id = ?")
	require.Contains(t, clause, "(created_by = ? OR is_public = true)")
	require.Contains(t, clause, "industry = ?")
	require.Contains(t, clause, "status = ?")
	require.Contains(t, clause, "employees_count BETWEEN ? AND ?")
	require.Contains(t, clause, "annual_revenue BETWEEN ? AND ?")
	require.Contains(t, clause, "LOWER(name) LIKE ?")
	require.Equal(t, strings.Count(clause, "?"), len(b.Args()))

	// Tenant predicates come first so writes can never outrun the scope.
	require.True(t, strings.HasPrefix(clause, "client_id = ? AND app_id = ?"))
	require.Equal(t, "acme", b.Args()[0])
	require.Equal(t, "crm", b.Args()[1])
}

func TestCompanyFiltersWithoutIsolation(t *testing.T) {
	admin := &tenant.Context{ApplyRLS: false}
	b := companyFilters(admin, "", "active", "", "", "")

	require.Equal(t, "status = ?", b.Clause())
	require.Equal(t, []interface{}{"active"}, b.Args())
}

func TestEventFilters(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 7, 17, 0, 0, 0, time.UTC)

	b := eventFilters(testTenant(), &start, &end, []string{"cal_acme_crm_work"}, "meeting", "standup")

	clause := b.Clause()
	require.Contains(t, clause, "(end_time >= ? OR is_all_day = true)")
	require.Contains(t, clause, "(start_time <= ? OR is_all_day = true)")
	require.Contains(t, clause, "calendar_id IN ?")
	require.Contains(t, clause, "event_type = ?")
	require.Contains(t, clause, "LOWER(title) LIKE ?")
	require.Equal(t, strings.Count(clause, "?"), len(b.Args()))
}

func TestEventSortMapFallback(t *testing.T) {
	require.Equal(t, "start_time ASC", eventSortMap.Order(""))
	require.Equal(t, "start_time DESC", eventSortMap.Order("-start"))
	require.Equal(t, "start_time ASC", eventSortMap.Order("no_such_column"))
}

func TestSplitIDList(t *testing.T) {
	require.Nil(t, splitIDList(""))
	require.Equal(t, []string{"a", "b"}, splitIDList("a,b"))
	require.Equal(t, []string{"a", "b"}, splitIDList(" a , b ,"))
}
