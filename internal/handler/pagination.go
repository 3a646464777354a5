package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	defaultPage  = 1
	defaultLimit = 25
)

// Pagination is the listing envelope metadata.
type Pagination struct {
	Page      int   `json:"page"`
	Limit     int   `json:"limit"`
	Total     int64 `json:"total"`
	PageCount int   `json:"page_count"`
}

// parsePagination reads the page/limit query parameters with the
// listing defaults. Out-of-range values fall back to the defaults.
func parsePagination(c echo.Context) (int, int) {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = defaultPage
	}

	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}

	return page, limit
}

// newPagination computes the envelope metadata for a result set.
func newPagination(page, limit int, total int64) Pagination {
	pageCount := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:      page,
		Limit:     limit,
		Total:     total,
		PageCount: pageCount,
	}
}
