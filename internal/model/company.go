package model

import (
	"time"

	"gorm.io/gorm"
)

// CompanyStatuses is the allowed set for Company.Status.
var CompanyStatuses = map[string]bool{
	"active":   true,
	"inactive": true,
	"prospect": true,
	"customer": true,
}

// Company represents a CRM company record. Visibility follows the
// ownership model: rows are readable by their creator or by anyone in
// the tenant when IsPublic is set.
type Company struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	Name           string         `json:"name" gorm:"type:varchar(255);not null"`
	Industry       string         `json:"industry" gorm:"type:varchar(100)"`
	Website        string         `json:"website" gorm:"type:varchar(255)"`
	Phone          string         `json:"phone" gorm:"type:varchar(50)"`
	Address        string         `json:"address" gorm:"type:varchar(255)"`
	City           string         `json:"city" gorm:"type:varchar(100)"`
	Country        string         `json:"country" gorm:"type:varchar(100)"`
	EmployeesCount int            `json:"employees_count" gorm:"default:0"`
	AnnualRevenue  float64        `json:"annual_revenue" gorm:"default:0"`
	Status         string         `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	IsPublic       bool           `json:"is_public" gorm:"default:false"`
	CreatedBy      uint           `json:"created_by" gorm:"index"`
	ClientID       string         `json:"client_id" gorm:"type:varchar(100);index:idx_companies_tenant;not null"`
	AppID          string         `json:"app_id" gorm:"type:varchar(100);index:idx_companies_tenant;not null"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Contacts []Contact `json:"contacts,omitempty" gorm:"foreignKey:CompanyID"`
	Deals    []Deal    `json:"deals,omitempty" gorm:"foreignKey:CompanyID"`
}
