package model

import "time"

// EventTypes is the allowed set for Event.EventType.
var EventTypes = map[string]bool{
	"meeting":  true,
	"call":     true,
	"deadline": true,
	"reminder": true,
	"personal": true,
}

// Event represents a calendar event. Events are deleted for real (no
// soft delete) so the attendee foreign key cascade can clean up.
type Event struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Title           string    `json:"title" gorm:"type:varchar(255);not null"`
	Description     string    `json:"description" gorm:"type:text"`
	EventType       string    `json:"event_type" gorm:"type:varchar(20);not null;default:'meeting'"`
	StartTime       time.Time `json:"start_time" gorm:"not null;index"`
	EndTime         time.Time `json:"end_time"`
	IsAllDay        bool      `json:"is_all_day" gorm:"default:false"`
	Location        string    `json:"location" gorm:"type:varchar(255)"`
	ReminderMinutes int       `json:"reminder_minutes" gorm:"default:0"`
	CalendarID      string    `json:"calendar_id" gorm:"type:varchar(191);index;not null"`
	CreatedBy       uint      `json:"created_by" gorm:"index"`
	ClientID        string    `json:"client_id" gorm:"type:varchar(100);index:idx_events_tenant;not null"`
	AppID           string    `json:"app_id" gorm:"type:varchar(100);index:idx_events_tenant;not null"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relations
	Attendees []EventAttendee `json:"attendees,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

// EventAttendee associates a tenant user with an event. Rows are owned
// by the event and removed with it.
type EventAttendee struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EventID   uint      `json:"event_id" gorm:"index;not null"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Status    string    `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
