package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"workspace-service/internal/model"
	"workspace-service/internal/query"
	"workspace-service/internal/seed"
	"workspace-service/internal/tenant"
	"workspace-service/pkg/database"
	"workspace-service/pkg/logger"
	"workspace-service/pkg/metrics"
)

const serviceName = "workspace"

// ensureSeeded provisions the tenant's default calendars, logging but
// not failing on error. Read paths stay usable without defaults; an
// empty calendar list is a valid outcome.
func ensureSeeded(c echo.Context, tc *tenant.Context) {
	if err := seed.EnsureDefaultCalendars(database.GetDB(), tc); err != nil {
		logger.FromEcho(c).Error("Failed to seed default calendars",
			zap.String("client_id", tc.ClientID),
			zap.String("app_id", tc.AppID),
			zap.Error(err))
		metrics.SeedFailureCounter.WithLabelValues(serviceName).Inc()
	}
}

// ListCalendars returns the tenant's calendars with the requesting
// user's active flag applied
func ListCalendars(c echo.Context) error {
	log := logger.FromEcho(c)

	tc, ok := tenant.FromEcho(c)
	if !ok {
		log.Error("Tenant context missing from request")
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "tenant context required"})
	}

	ensureSeeded(c, tc)

	db := database.GetDB()
	var calendars []model.Calendar
	b := (&query.Builder{}).TenantScope(tc)
	if err := b.Apply(db).Order("is_default DESC, name ASC").Find(&calendars).Error; err != nil {
		log.Error("Failed to list calendars", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to retrieve calendars"})
	}

	// A missing preference row means active.
	for i := range calendars {
		calendars[i].Active = true
	}
	if tc.Authenticated {
		inactive, err := inactiveCalendarIDs(db, tc)
		if err != nil {
			log.Warn("Failed to load calendar preferences", zap.Error(err))
		} else {
			for i := range calendars {
				if inactive[calendars[i].ID] {
					calendars[i].Active = false
				}
			}
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "calendars": calendars})
}

// inactiveCalendarIDs returns the calendar ids the user switched off.
func inactiveCalendarIDs(db *gorm.DB, tc *tenant.Context) (map[string]bool, error) {
	var prefs []model.CalendarPreference
	if err := db.
		Where("user_id = ? AND client_id = ? AND app_id = ? AND active = false",
			tc.UserID, tc.ClientID, tc.AppID).
		Find(&prefs).Error; err != nil {
		return nil, err
	}

	inactive := make(map[string]bool, len(prefs))
	for _, pref := range prefs {
		inactive[pref.CalendarID] = true
	}
	return inactive, nil
}

// CreateCalendar creates a non-default calendar for the tenant
func CreateCalendar(c echo.Context) error {
	log := logger.FromEcho(c)

	tc, ok := tenant.FromEcho(c)
	if !ok {
		log.Error("Tenant context missing from request")
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "tenant context required"})
	}
	if tc.ClientID == "" || tc.AppID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "tenant context required"})
	}

	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse calendar creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "name is required"})
	}

	// Defaults are provisioned before the first user calendar, so a
	// tenant that owns any calendar always owns the work calendar that
	// deleted calendars hand their events to.
	ensureSeeded(c, tc)

	calendar := model.Calendar{
		ID:       seed.CalendarID(tc.ClientID, tc.AppID, uuid.NewString()[:8]),
		Name:     req.Name,
		Color:    req.Color,
		OwnerID:  tc.UserID,
		ClientID: tc.ClientID,
		AppID:    tc.AppID,
		Active:   true,
	}

	if err := database.GetDB().Create(&calendar).Error; err != nil {
		log.Error("Failed to create calendar", zap.String("name", req.Name), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "calendar creation failed"})
	}

	log.Info("Calendar created",
		zap.String("calendar_id", calendar.ID),
		zap.String("name", calendar.Name),
		zap.String("client_id", tc.ClientID),
		zap.String("app_id", tc.AppID))

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "calendar": calendar})
}

// UpdateCalendar applies a partial update to a non-default calendar
func UpdateCalendar(c echo.Context) error {
	log := logger.FromEcho(c)

	tc, ok := tenant.FromEcho(c)
	if !ok {
		log.Error("Tenant context missing from request")
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "tenant context required"})
	}

	var req struct {
		Name  *string `json:"name"`
		Color *string `json:"color"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse calendar update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request"})
	}

	id := c.Param("id")
	var calendar model.Calendar
	b := (&query.Builder{}).TenantScope(tc).Where("id = ?", id)
	if err := b.Apply(database.GetDB()).First(&calendar).Error; err != nil {
		// Absent and forbidden are indistinguishable to the caller.
		log.Warn("Calendar not found for update", zap.String("calendar_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "calendar not found"})
	}

	if calendar.IsDefault {
		log.Warn("Attempt to modify default calendar", zap.String("calendar_id", id))
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": "default calendars cannot be modified"})
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if *req.Name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "name cannot be empty"})
		}
		updates["name"] = *req.Name
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if len(updates) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "no updatable fields provided"})
	}

	if err := database.GetDB().Model(&calendar).Updates(updates).Error; err != nil {
		log.Error("Failed to update calendar", zap.String("calendar_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "calendar update failed"})
	}

	log.Info("Calendar updated", zap.String("calendar_id", id))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "calendar": calendar})
}

// DeleteCalendar removes a non-default calendar. Its events move to the
// tenant's default work calendar and its preference rows are removed,
// all in one transaction.
func DeleteCalendar(c echo.Context) error {
	log := logger.FromEcho(c)

	tc, ok := tenant.FromEcho(c)
	if !ok {
		log.Error("Tenant context missing from request")
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "tenant context required"})
	}

	id := c.Param("id")
	var calendar model.Calendar
	b := (&query.Builder{}).TenantScope(tc).Where("id = ?", id)
	if err := b.Apply(database.GetDB()).First(&calendar).Error; err != nil {
		log.Warn("Calendar not found for deletion", zap.String("calendar_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "calendar not found"})
	}

	if calendar.IsDefault {
		log.Warn("Attempt to delete default calendar", zap.String("calendar_id", id))
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": "default calendars cannot be deleted"})
	}

	// The reassignment target must exist before events move to it,
	// including for tenants whose calendars predate default seeding.
	rowTenant := &tenant.Context{ClientID: calendar.ClientID, AppID: calendar.AppID, UserID: tc.UserID, ApplyRLS: true}
	if err := seed.EnsureWorkCalendar(database.GetDB(), rowTenant); err != nil {
		log.Error("Failed to provision work calendar for reassignment",
			zap.String("calendar_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "calendar deletion failed"})
	}

	workCalendarID := seed.DefaultCalendarID(calendar.ClientID, calendar.AppID)
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Event{}).
			Where("calendar_id = ? AND client_id = ? AND app_id = ?", calendar.ID, calendar.ClientID, calendar.AppID).
			Update("calendar_id", workCalendarID).Error; err != nil {
			return err
		}
		if err := tx.
			Where("calendar_id = ? AND client_id = ? AND app_id = ?", calendar.ID, calendar.ClientID, calendar.AppID).
			Delete(&model.CalendarPreference{}).Error; err != nil {
			return err
		}
		return tx.Delete(&calendar).Error
	})
	if err != nil {
		log.Error("Failed to delete calendar", zap.String("calendar_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "calendar deletion failed"})
	}

	log.Info("Calendar deleted",
		zap.String("calendar_id", id),
		zap.String("events_moved_to", workCalendarID))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Calendar deleted successfully"})
}
