package seed

import (
	"fmt"
	"regexp"

	"gorm.io/gorm"

	"workspace-service/internal/model"
	"workspace-service/internal/tenant"
)

// DefaultCalendar is one entry of the per-tenant provisioning template.
type DefaultCalendar struct {
	Key   string
	Name  string
	Color string
}

// DefaultCalendars is the fixed template every tenant is provisioned
// with on first access. The work calendar doubles as the fallback
// target when events lose their calendar.
var DefaultCalendars = []DefaultCalendar{
	{Key: "work", Name: "Work", Color: "#3174ad"},
	{Key: "sales", Name: "Sales", Color: "#059669"},
	{Key: "marketing", Name: "Marketing", Color: "#d97706"},
	{Key: "personal", Name: "Personal", Color: "#7c3aed"},
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// CalendarID builds the deterministic identifier for a tenant calendar.
// The tenant pair is embedded for debuggability; the app id is stripped
// of non-alphanumeric characters to keep the id readable.
func CalendarID(clientID, appID, key string) string {
	return fmt.Sprintf("cal_%s_%s_%s", clientID, nonAlnum.ReplaceAllString(appID, ""), key)
}

// DefaultCalendarID returns the tenant's default work calendar id.
func DefaultCalendarID(clientID, appID string) string {
	return CalendarID(clientID, appID, "work")
}

// EnsureDefaultCalendars provisions the default calendars for a tenant
// on first access. A tenant that already owns any calendar is left
// untouched, so the call is idempotent and cheap enough to run on every
// request.
func EnsureDefaultCalendars(db *gorm.DB, tc *tenant.Context) error {
	var count int64
	if err := db.Model(&model.Calendar{}).
		Where("client_id = ? AND app_id = ?", tc.ClientID, tc.AppID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	calendars := make([]model.Calendar, 0, len(DefaultCalendars))
	for _, tpl := range DefaultCalendars {
		calendars = append(calendars, model.Calendar{
			ID:        CalendarID(tc.ClientID, tc.AppID, tpl.Key),
			Name:      tpl.Name,
			Color:     tpl.Color,
			OwnerID:   tc.UserID,
			IsDefault: true,
			ClientID:  tc.ClientID,
			AppID:     tc.AppID,
		})
	}
	return db.Create(&calendars).Error
}

// EnsureWorkCalendar guarantees the event reassignment target exists.
// Tenants that created their own calendars before any default was
// provisioned never pass the EnsureDefaultCalendars count check, so the
// work calendar is checked for directly.
func EnsureWorkCalendar(db *gorm.DB, tc *tenant.Context) error {
	id := DefaultCalendarID(tc.ClientID, tc.AppID)
	var count int64
	if err := db.Model(&model.Calendar{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, tpl := range DefaultCalendars {
		if tpl.Key != "work" {
			continue
		}
		return db.Create(&model.Calendar{
			ID:        id,
			Name:      tpl.Name,
			Color:     tpl.Color,
			OwnerID:   tc.UserID,
			IsDefault: true,
			ClientID:  tc.ClientID,
			AppID:     tc.AppID,
		}).Error
	}
	return fmt.Errorf("default calendar template has no work entry")
}

// defaultStages is the starter deal pipeline created once at startup.
var defaultStages = []model.DealStage{
	{Name: "Lead", StageType: "active", SortOrder: 1},
	{Name: "Qualified", StageType: "active", SortOrder: 2},
	{Name: "Proposal", StageType: "active", SortOrder: 3},
	{Name: "Negotiation", StageType: "active", SortOrder: 4},
	{Name: "Closed Won", StageType: "won", SortOrder: 5},
	{Name: "Closed Lost", StageType: "lost", SortOrder: 6},
}

// EnsureDealStages creates the starter pipeline stages if none exist.
// Stages are shared, so this runs once at startup rather than per
// tenant.
func EnsureDealStages(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.DealStage{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Create(&defaultStages).Error
}
