package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	MaintenanceStatusPending    = "pending"
	MaintenanceStatusInProgress = "in_progress"
	MaintenanceStatusResolved   = "resolved"
	MaintenanceStatusRejected   = "rejected"
)

type MaintenanceRequest struct {
	gorm.Model
	PropertyID    uint  `json:"propertyID" gorm:"not null;index"`
	TenantID      *uint `json:"tenantID" gorm:"index"`
	OwnerID       uint  `json:"ownerID" gorm:"not null;index"`
	PrestataireID *uint `json:"prestataireID" gorm:"index"`

	Title       string `json:"title"`
	Description string `json:"description" gorm:"type:text"`
	Priority    string `json:"priority" gorm:"size:20;default:'medium'"` // low, medium, high, urgent
	Status      string `json:"status" gorm:"size:20;default:'pending';index"`

	RejectReason string     `json:"rejectReason" gorm:"type:text"`
	StartedAt    *time.Time `json:"startedAt"`
	ResolvedAt   *time.Time `json:"resolvedAt"`

	Property    Property     `json:"property" gorm:"foreignKey:PropertyID;references:ID"`
	Tenant      *Tenant      `json:"tenant,omitempty" gorm:"foreignKey:TenantID;references:ID"`
	Prestataire *Prestataire `json:"prestataire,omitempty" gorm:"foreignKey:PrestataireID;references:ID"`
}
