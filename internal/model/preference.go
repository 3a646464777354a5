package model

import "time"

// CalendarPreference stores a per-user visibility flag for a calendar.
// At most one row exists per (user, calendar, tenant); a missing row
// means the calendar is active for that user.
type CalendarPreference struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"uniqueIndex:idx_calendar_prefs_key;not null"`
	CalendarID string    `json:"calendar_id" gorm:"type:varchar(191);uniqueIndex:idx_calendar_prefs_key;not null"`
	Active     bool      `json:"active" gorm:"default:true"`
	ClientID   string    `json:"client_id" gorm:"type:varchar(100);uniqueIndex:idx_calendar_prefs_key;not null"`
	AppID      string    `json:"app_id" gorm:"type:varchar(100);uniqueIndex:idx_calendar_prefs_key;not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
