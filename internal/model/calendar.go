package model

import "time"

// Calendar represents a tenant calendar. The id embeds the tenant pair
// for human debuggability (cal_<client>_<app>_<suffix>). Default
// calendars are provisioned once per tenant and can never be modified
// or deleted.
type Calendar struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(191)"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Color     string    `json:"color" gorm:"type:varchar(20)"`
	OwnerID   uint      `json:"owner_id" gorm:"index"`
	IsDefault bool      `json:"is_default" gorm:"default:false"`
	ClientID  string    `json:"client_id" gorm:"type:varchar(100);index:idx_calendars_tenant;not null"`
	AppID     string    `json:"app_id" gorm:"type:varchar(100);index:idx_calendars_tenant;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Active reflects the requesting user's preference row; absence of
	// a row means active. Not stored on the calendar itself.
	Active bool `json:"active" gorm:"-"`
}
