package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"workspace-service/pkg/database"
)

// Health reports service and database health
func Health(c echo.Context) error {
	status := "ok"
	dbStatus := "ok"

	if sqlDB, err := database.GetDB().DB(); err != nil || sqlDB.Ping() != nil {
		status = "degraded"
		dbStatus = "unreachable"
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"status":   status,
		"database": dbStatus,
	})
}
