package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T, target string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		wantPage  int
		wantLimit int
	}{
		{name: "defaults", target: "/companies", wantPage: 1, wantLimit: 25},
		{name: "explicit values", target: "/companies?page=3&limit=10", wantPage: 3, wantLimit: 10},
		{name: "zero page falls back", target: "/companies?page=0", wantPage: 1, wantLimit: 25},
		{name: "negative limit falls back", target: "/companies?limit=-5", wantPage: 1, wantLimit: 25},
		{name: "garbage falls back", target: "/companies?page=abc&limit=def", wantPage: 1, wantLimit: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := parsePagination(testContext(t, tt.target))
			require.Equal(t, tt.wantPage, page)
			require.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name          string
		page, limit   int
		total         int64
		wantPageCount int
	}{
		{name: "exact pages", page: 1, limit: 25, total: 50, wantPageCount: 2},
		{name: "partial last page", page: 2, limit: 25, total: 51, wantPageCount: 3},
		{name: "empty result", page: 1, limit: 25, total: 0, wantPageCount: 0},
		{name: "single row", page: 1, limit: 25, total: 1, wantPageCount: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPagination(tt.page, tt.limit, tt.total)
			require.Equal(t, tt.page, p.Page)
			require.Equal(t, tt.limit, p.Limit)
			require.Equal(t, tt.total, p.Total)
			require.Equal(t, tt.wantPageCount, p.PageCount)
		})
	}
}
