package model

import (
	"time"

	"gorm.io/gorm"
)

// Contact represents a CRM contact attached to a company.
type Contact struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	FirstName string         `json:"first_name" gorm:"type:varchar(100);not null"`
	LastName  string         `json:"last_name" gorm:"type:varchar(100)"`
	Email     string         `json:"email" gorm:"type:varchar(255)"`
	Phone     string         `json:"phone" gorm:"type:varchar(50)"`
	JobTitle  string         `json:"job_title" gorm:"type:varchar(100)"`
	CompanyID uint           `json:"company_id" gorm:"index"`
	IsPublic  bool           `json:"is_public" gorm:"default:false"`
	CreatedBy uint           `json:"created_by" gorm:"index"`
	ClientID  string         `json:"client_id" gorm:"type:varchar(100);index:idx_contacts_tenant;not null"`
	AppID     string         `json:"app_id" gorm:"type:varchar(100);index:idx_contacts_tenant;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
