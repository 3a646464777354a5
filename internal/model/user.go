package model

import "time"

// User is the tenant-scoped identity attendee lists resolve against.
// Emails are unique within a tenant, not globally.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"type:varchar(255);uniqueIndex:idx_users_tenant_email;not null"`
	Name      string    `json:"name" gorm:"type:varchar(100)"`
	ClientID  string    `json:"client_id" gorm:"type:varchar(100);uniqueIndex:idx_users_tenant_email;not null"`
	AppID     string    `json:"app_id" gorm:"type:varchar(100);uniqueIndex:idx_users_tenant_email;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
