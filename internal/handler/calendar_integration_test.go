//go:build integration

package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"workspace-service/internal/model"
	"workspace-service/internal/seed"
	"workspace-service/internal/tenant"
	"workspace-service/pkg/database"
)

// setupTestDatabase starts a throwaway postgres container, migrates the
// schema and points the global handle at it for the duration of the
// test.
func setupTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(ctx))
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Calendar{}, &model.CalendarPreference{},
		&model.Event{}, &model.EventAttendee{},
		&model.User{},
		&model.Company{}, &model.Contact{}, &model.DealStage{}, &model.Deal{},
	))

	database.DB = db
	return db
}

func handlerContext(t *testing.T, method, target, body string, tc *tenant.Context) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	tenant.Set(c, tc)
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestEnsureDefaultCalendarsIdempotent(t *testing.T) {
	db := setupTestDatabase(t)

	tc := &tenant.Context{ClientID: "acme", AppID: "team-hub", UserID: 7, ApplyRLS: true, Authenticated: true}

	for i := 0; i < 3; i++ {
		require.NoError(t, seed.EnsureDefaultCalendars(db, tc))
	}

	var calendars []model.Calendar
	require.NoError(t, db.Where("client_id = ? AND app_id = ?", tc.ClientID, tc.AppID).
		Order("id").Find(&calendars).Error)
	require.Len(t, calendars, 4)

	ids := make(map[string]bool, len(calendars))
	for _, cal := range calendars {
		require.True(t, cal.IsDefault)
		ids[cal.ID] = true
	}
	// Non-alphanumeric characters in the app id are stripped from ids.
	require.True(t, ids["cal_acme_teamhub_work"])
	require.True(t, ids["cal_acme_teamhub_sales"])
	require.True(t, ids["cal_acme_teamhub_marketing"])
	require.True(t, ids["cal_acme_teamhub_personal"])
}

func TestDefaultCalendarsImmutable(t *testing.T) {
	db := setupTestDatabase(t)

	tc := &tenant.Context{ClientID: "acme", AppID: "crm", UserID: 7, ApplyRLS: true, Authenticated: true}
	require.NoError(t, seed.EnsureDefaultCalendars(db, tc))
	workID := seed.DefaultCalendarID(tc.ClientID, tc.AppID)

	c, rec := handlerContext(t, http.MethodPut, "/calendars/"+workID, `{"name":"Renamed"}`, tc)
	c.SetParamNames("id")
	c.SetParamValues(workID)
	require.NoError(t, UpdateCalendar(c))
	require.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = handlerContext(t, http.MethodDelete, "/calendars/"+workID, "", tc)
	c.SetParamNames("id")
	c.SetParamValues(workID)
	require.NoError(t, DeleteCalendar(c))
	require.Equal(t, http.StatusForbidden, rec.Code)

	var calendar model.Calendar
	require.NoError(t, db.First(&calendar, "id = ?", workID).Error)
	require.Equal(t, "Work", calendar.Name)
}

func TestCalendarTenantIsolation(t *testing.T) {
	db := setupTestDatabase(t)

	tcA := &tenant.Context{ClientID: "acme", AppID: "crm", UserID: 1, ApplyRLS: true, Authenticated: true}
	tcB := &tenant.Context{ClientID: "globex", AppID: "crm", UserID: 2, ApplyRLS: true, Authenticated: true}

	c, rec := handlerContext(t, http.MethodPost, "/calendars", `{"name":"Roadmap","color":"#112233"}`, tcA)
	require.NoError(t, CreateCalendar(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)["calendar"].(map[string]interface{})
	calendarID := created["id"].(string)

	c, rec = handlerContext(t, http.MethodGet, "/calendars", "", tcB)
	require.NoError(t, ListCalendars(c))
	require.Equal(t, http.StatusOK, rec.Code)
	for _, raw := range decodeBody(t, rec)["calendars"].([]interface{}) {
		cal := raw.(map[string]interface{})
		require.NotEqual(t, calendarID, cal["id"])
		require.Equal(t, "globex", cal["client_id"])
	}

	// Cross-tenant deletion reads as not-found, never as forbidden.
	c, rec = handlerContext(t, http.MethodDelete, "/calendars/"+calendarID, "", tcB)
	c.SetParamNames("id")
	c.SetParamValues(calendarID)
	require.NoError(t, DeleteCalendar(c))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var count int64
	require.NoError(t, db.Model(&model.Calendar{}).Where("id = ?", calendarID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestDeleteCalendarReassignsEventsAndPrunesPreferences(t *testing.T) {
	db := setupTestDatabase(t)

	tc := &tenant.Context{ClientID: "acme", AppID: "crm", UserID: 7, ApplyRLS: true, Authenticated: true}

	c, rec := handlerContext(t, http.MethodPost, "/calendars", `{"name":"Launches","color":"#445566"}`, tc)
	require.NoError(t, CreateCalendar(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)["calendar"].(map[string]interface{})
	calendarID := created["id"].(string)

	start := time.Now().Add(24 * time.Hour)
	require.NoError(t, db.Create(&model.Event{
		Title: "Launch review", EventType: "meeting",
		StartTime: start, EndTime: start.Add(time.Hour),
		CalendarID: calendarID, CreatedBy: tc.UserID,
		ClientID: tc.ClientID, AppID: tc.AppID,
	}).Error)
	require.NoError(t, db.Create(&model.CalendarPreference{
		UserID: tc.UserID, CalendarID: calendarID, Active: false,
		ClientID: tc.ClientID, AppID: tc.AppID,
	}).Error)

	c, rec = handlerContext(t, http.MethodDelete, "/calendars/"+calendarID, "", tc)
	c.SetParamNames("id")
	c.SetParamValues(calendarID)
	require.NoError(t, DeleteCalendar(c))
	require.Equal(t, http.StatusOK, rec.Code)

	workID := seed.DefaultCalendarID(tc.ClientID, tc.AppID)
	var event model.Event
	require.NoError(t, db.First(&event, "title = ?", "Launch review").Error)
	require.Equal(t, workID, event.CalendarID)

	var prefCount int64
	require.NoError(t, db.Model(&model.CalendarPreference{}).
		Where("calendar_id = ?", calendarID).Count(&prefCount).Error)
	require.EqualValues(t, 0, prefCount)

	var calCount int64
	require.NoError(t, db.Model(&model.Calendar{}).
		Where("id = ?", calendarID).Count(&calCount).Error)
	require.EqualValues(t, 0, calCount)
}

// A tenant whose rows predate default provisioning still gets a work
// calendar to hand deleted-calendar events to.
func TestDeleteCalendarProvisionsMissingWorkCalendar(t *testing.T) {
	db := setupTestDatabase(t)

	tc := &tenant.Context{ClientID: "initech", AppID: "crm", UserID: 9, ApplyRLS: true, Authenticated: true}

	// Seed a pre-existing custom calendar directly, skipping the
	// handler path that would provision defaults first.
	require.NoError(t, db.Create(&model.Calendar{
		ID: "cal_initech_crm_legacy", Name: "Legacy", Color: "#333333",
		OwnerID: tc.UserID, ClientID: tc.ClientID, AppID: tc.AppID,
	}).Error)
	start := time.Now().Add(2 * time.Hour)
	require.NoError(t, db.Create(&model.Event{
		Title: "Migration sync", EventType: "meeting",
		StartTime: start, EndTime: start.Add(time.Hour),
		CalendarID: "cal_initech_crm_legacy", CreatedBy: tc.UserID,
		ClientID: tc.ClientID, AppID: tc.AppID,
	}).Error)

	c, rec := handlerContext(t, http.MethodDelete, "/calendars/cal_initech_crm_legacy", "", tc)
	c.SetParamNames("id")
	c.SetParamValues("cal_initech_crm_legacy")
	require.NoError(t, DeleteCalendar(c))
	require.Equal(t, http.StatusOK, rec.Code)

	workID := seed.DefaultCalendarID(tc.ClientID, tc.AppID)
	var work model.Calendar
	require.NoError(t, db.First(&work, "id = ?", workID).Error)
	require.True(t, work.IsDefault)

	var event model.Event
	require.NoError(t, db.First(&event, "title = ?", "Migration sync").Error)
	require.Equal(t, workID, event.CalendarID)
}

// Creating a calendar provisions the tenant defaults first, so any
// tenant that owns a calendar also owns the full default set.
func TestCreateCalendarProvisionsDefaults(t *testing.T) {
	db := setupTestDatabase(t)

	tc := &tenant.Context{ClientID: "hooli", AppID: "crm", UserID: 3, ApplyRLS: true, Authenticated: true}

	c, rec := handlerContext(t, http.MethodPost, "/calendars", `{"name":"Board","color":"#000000"}`, tc)
	require.NoError(t, CreateCalendar(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var count int64
	require.NoError(t, db.Model(&model.Calendar{}).
		Where("client_id = ? AND app_id = ?", tc.ClientID, tc.AppID).
		Count(&count).Error)
	require.EqualValues(t, 5, count)

	var work model.Calendar
	require.NoError(t, db.First(&work, "id = ?", seed.DefaultCalendarID(tc.ClientID, tc.AppID)).Error)
	require.True(t, work.IsDefault)
}
