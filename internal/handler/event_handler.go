package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"workspace-service/internal/model"
	"workspace-service/internal/query"
	"workspace-service/internal/seed"
	"workspace-service/internal/tenant"
	"workspace-service/pkg/database"
	"workspace-service/pkg/logger"
)

var eventSortMap = query.SortMap{
	Columns: map[string]string{
		"start":   "start_time",
		"end":     "end_time",
		"title":   "title",
		"type":    "event_type",
		"created": "created_at",
	},
	Default: "start_time",
}

// eventFilters assembles the list predicates for the events table.
func eventFilters(tc *tenant.Context, start, end *time.Time, calendarIDs []string, eventType, search string) *query.Builder {
	b := (&query.Builder{}).TenantScope(tc)
	b.Overlapping(start, end)
	b.In("calendar_id", calendarIDs)
	b.Eq("event_type", eventType)
	b.Search(search, "title", "description", "location")
	return b
}

// splitIDList turns a comma separated query parameter into a slice.
func splitIDList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}

// ListEvents returns the tenant's events with optional range, calendar,
// type and search filters
func ListEvents(c echo.Context) error {
	log := logger.FromEcho(c)

	tc, ok := tenant.FromEcho(c)
	if !ok {
		log.Error("Tenant context missing from request")
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "tenant context required"})
	}

	var start, end *time.Time
	if raw := c.QueryParam("start"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid start date"})
		}
		start = &parsed
	}
	if raw := c.QueryParam("end"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid end date"})
		}
		end = &parsed
	}

	ensureSeeded(c, tc)

	page, limit := parsePagination(c)
	b := eventFilters(tc, start, end,
		splitIDList(c.QueryParam("calendar_ids")),
		c.QueryParam("type"),
		c.QueryParam("search"))

	db := database.GetDB()
	var total int64
	if err := b.Apply(db.Model(&model.Event{})).Count(&total).Error; err != nil {
		log.Error("Failed to count events", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to retrieve events"})
	}

	var events []model.Event
	if err := b.Apply(db).
		Order(eventSortMap.Order(c.QueryParam("sort"))).
		Limit(limit).
		Offset((page - 1) * limit).
		Preload("Attendees").
		Find(&events).Error; err != nil {
		log.Error("Failed to list events", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to retrieve events"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"events":     events,
		"pagination": newPagination(page, limit, total),
	})
}

// UpcomingEvents returns the next events for the tenant, soonest first
func UpcomingEvents(c echo.Context) error {
	log := logger.FromEcho(c)

	tc, ok := tenant.FromEcho(c)
	if !ok {
		log.Error("Tenant context missing from request")
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "tenant context required"})
	}

	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	b := (&query.Builder{}).TenantScope(tc).Where("start_time >= ?", time.Now())

	var events []model.Event
	if err := b.Apply(database.GetDB()).
		Order("start_time ASC").
		Limit(limit).
		Preload("Attendees").
		Find(&events).Error; err != nil {
		log.Error("Failed to list upcoming events", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to retrieve events"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "events": events})
}

// GetEvent returns a single event scoped to the tenant
func GetEvent(c echo.Context) error {
	log := logger.FromEcho(c)

	tc, ok := tenant.FromEcho(c)
	if !ok {
		log.Error("Tenant context missing from request")
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "tenant context required"})
	}

	id := c.Param("id")
	var event model.Event
	b := (&query.Builder{}).TenantScope(tc).Where("id = ?", id)
	if err := b.Apply(database.GetDB()).Preload("Attendees").First(&event).Error; err != nil {
		log.Warn("Event not found", zap.String("event_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "event not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "event": event})
}

// CreateEvent creates an event and its attendee rows in one transaction
func CreateEvent(c echo.Context) error {
	log := logger.FromEcho(c)

	tc, ok := tenant.FromEcho(c)
	if !ok {
		log.Error("Tenant context missing from request")
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "tenant context required"})
	}
	if !tc.Authenticated {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "authentication required"})
	}

	var req struct {
		Title           string        `json:"title"`
		Description     string        `json:"description"`
		EventType       string        `json:"event_type"`
		StartDate       string        `json:"start_date"`
		EndDate         string        `json:"end_date"`
		IsAllDay        bool          `json:"is_all_day"`
		Location        string        `json:"location"`
		ReminderMinutes int           `json:"reminder_minutes"`
		CalendarID      string        `json:"calendar_id"`
		Attendees       []interface{} `json:"attendees"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse event creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request"})
	}

	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "title is required"})
	}
	if req.StartDate == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "start_date is required"})
	}
	startTime, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid start_date"})
	}

	endTime := startTime.Add(time.Hour)
	if req.EndDate != "" {
		endTime, err = time.Parse(time.RFC3339, req.EndDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid end_date"})
		}
	}

	eventType := req.EventType
	if eventType == "" {
		eventType = "meeting"
	}
	if !model.EventTypes[eventType] {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid event type"})
	}

	db := database.GetDB()

	calendarID := req.CalendarID
	if calendarID == "" {
		// Events without an explicit calendar land in the tenant's
		// default work calendar.
		if err := seed.EnsureDefaultCalendars(db, tc); err != nil {
			log.Error("Failed to seed default calendars", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "event creation failed"})
		}
		calendarID = seed.DefaultCalendarID(tc.ClientID, tc.AppID)
	} else {
		var calendar model.Calendar
		cb := (&query.Builder{}).TenantScope(tc).Where("id = ?", calendarID)
		if err := cb.Apply(db).First(&calendar).Error; err != nil {
			log.Warn("Calendar not found for event", zap.String("calendar_id", calendarID))
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "calendar not found"})
		}
	}

	event := model.Event{
		Title:           req.Title,
		Description:     req.Description,
		EventType:       eventType,
		StartTime:       startTime,
		EndTime:         endTime,
		IsAllDay:        req.IsAllDay,
		Location:        req.Location,
		ReminderMinutes: req.ReminderMinutes,
		CalendarID:      calendarID,
		CreatedBy:       tc.UserID,
		ClientID:        tc.ClientID,
		AppID:           tc.AppID,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		userIDs, err := resolveAttendees(tx, tc, req.Attendees)
		if err != nil {
			return err
		}
		return insertAttendees(tx, event.ID, userIDs)
	})
	if err != nil {
		log.Error("Failed to create event", zap.String("title", req.Title), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "event creation failed"})
	}

	if err := db.Preload("Attendees").First(&event, event.ID).Error; err != nil {
		log.Warn("Failed to reload created event", zap.Uint("event_id", event.ID), zap.Error(err))
	}

	log.Info("Event created",
		zap.Uint("event_id", event.ID),
		zap.String("title", event.Title),
		zap.String("calendar_id", event.CalendarID),
		zap.Int("attendees", len(event.Attendees)))

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "event": event})
}

// UpdateEvent applies a partial update; a supplied attendee list
// replaces the existing one wholesale
func UpdateEvent(c echo.Context) error {
	log := logger.FromEcho(c)

	tc, ok := tenant.FromEcho(c)
	if !ok {
		log.Error("Tenant context missing from request")
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "tenant context required"})
	}

	var req struct {
		Title           *string        `json:"title"`
		Description     *string        `json:"description"`
		EventType       *string        `json:"event_type"`
		StartDate       *string        `json:"start_date"`
		EndDate         *string        `json:"end_date"`
		IsAllDay        *bool          `json:"is_all_day"`
		Location        *string        `json:"location"`
		ReminderMinutes *int           `json:"reminder_minutes"`
		CalendarID      *string        `json:"calendar_id"`
		Attendees       *[]interface{} `json:"attendees"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse event update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request"})
	}

	db := database.GetDB()

	id := c.Param("id")
	var event model.Event
	b := (&query.Builder{}).TenantScope(tc).Where("id = ?", id)
	if err := b.Apply(db).First(&event).Error; err != nil {
		log.Warn("Event not found for update", zap.String("event_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "event not found"})
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		if *req.Title == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "title cannot be empty"})
		}
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.EventType != nil {
		if !model.EventTypes[*req.EventType] {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid event type"})
		}
		updates["event_type"] = *req.EventType
	}
	if req.StartDate != nil {
		startTime, err := time.Parse(time.RFC3339, *req.StartDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid start_date"})
		}
		updates["start_time"] = startTime
	}
	if req.EndDate != nil {
		endTime, err := time.Parse(time.RFC3339, *req.EndDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid end_date"})
		}
		updates["end_time"] = endTime
	}
	if req.IsAllDay != nil {
		updates["is_all_day"] = *req.IsAllDay
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.ReminderMinutes != nil {
		updates["reminder_minutes"] = *req.ReminderMinutes
	}
	if req.CalendarID != nil {
		var calendar model.Calendar
		cb := (&query.Builder{}).TenantScope(tc).Where("id = ?", *req.CalendarID)
		if err := cb.Apply(db).First(&calendar).Error; err != nil {
			log.Warn("Calendar not found for event update", zap.String("calendar_id", *req.CalendarID))
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "calendar not found"})
		}
		updates["calendar_id"] = *req.CalendarID
	}

	if len(updates) == 0 && req.Attendees == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "no updatable fields provided"})
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&event).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Attendees != nil {
			// Replace the attendee set wholesale rather than diffing.
			if err := tx.Where("event_id = ?", event.ID).Delete(&model.EventAttendee{}).Error; err != nil {
				return err
			}
			userIDs, err := resolveAttendees(tx, tc, *req.Attendees)
			if err != nil {
				return err
			}
			return insertAttendees(tx, event.ID, userIDs)
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to update event", zap.String("event_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "event update failed"})
	}

	if err := db.Preload("Attendees").First(&event, event.ID).Error; err != nil {
		log.Warn("Failed to reload updated event", zap.Uint("event_id", event.ID), zap.Error(err))
	}

	log.Info("Event updated", zap.Uint("event_id", event.ID))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "event": event})
}

// DeleteEvent removes an event; attendee rows go with it via the
// foreign key cascade
func DeleteEvent(c echo.Context) error {
	log := logger.FromEcho(c)

	tc, ok := tenant.FromEcho(c)
	if !ok {
		log.Error("Tenant context missing from request")
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "tenant context required"})
	}

	id := c.Param("id")
	var event model.Event
	b := (&query.Builder{}).TenantScope(tc).Where("id = ?", id)
	if err := b.Apply(database.GetDB()).First(&event).Error; err != nil {
		log.Warn("Event not found for deletion", zap.String("event_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "event not found"})
	}

	if err := database.GetDB().Delete(&event).Error; err != nil {
		log.Error("Failed to delete event", zap.String("event_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "event deletion failed"})
	}

	log.Info("Event deleted", zap.Uint("event_id", event.ID))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Event deleted successfully"})
}
