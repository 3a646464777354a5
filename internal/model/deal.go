package model

import (
	"time"

	"gorm.io/gorm"
)

// StageTypes is the allowed set for DealStage.StageType. The stage type
// drives the reporting aggregates, not the stage name.
var StageTypes = map[string]bool{
	"active": true,
	"won":    true,
	"lost":   true,
}

// DealStage is a pipeline stage. Stages are shared across tenants.
type DealStage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null;unique"`
	StageType string    `json:"stage_type" gorm:"type:varchar(20);not null;default:'active'"`
	SortOrder int       `json:"sort_order" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Deal represents a CRM deal attached to a company and a pipeline
// stage, optionally with a primary contact.
type Deal struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Title     string         `json:"title" gorm:"type:varchar(255);not null"`
	Amount    float64        `json:"amount" gorm:"default:0"`
	StageID   uint           `json:"stage_id" gorm:"index;not null"`
	CompanyID uint           `json:"company_id" gorm:"index"`
	ContactID *uint          `json:"contact_id,omitempty" gorm:"index"`
	IsPublic  bool           `json:"is_public" gorm:"default:false"`
	CreatedBy uint           `json:"created_by" gorm:"index"`
	ClientID  string         `json:"client_id" gorm:"type:varchar(100);index:idx_deals_tenant;not null"`
	AppID     string         `json:"app_id" gorm:"type:varchar(100);index:idx_deals_tenant;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Stage DealStage `json:"stage,omitempty" gorm:"foreignKey:StageID"`
}
