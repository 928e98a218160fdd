package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	VisitStatusPending  = "pending"
	VisitStatusAccepted = "accepted"
	VisitStatusDeclined = "declined"
)

// VisitRequest is a prospect asking to visit a property. Accepting one
// creates a Tenant record for the property owner.
type VisitRequest struct {
	gorm.Model
	PropertyID uint  `json:"propertyID" gorm:"not null;index"`
	OwnerID    uint  `json:"ownerID" gorm:"not null;index"`
	TenantID   *uint `json:"tenantID" gorm:"index"` // set when the visit is accepted

	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	VisitDate   time.Time `json:"visitDate"`
	Message     string    `json:"message" gorm:"type:text"`
	Status      string    `json:"status" gorm:"size:20;default:'pending';index"`

	Property Property `json:"property" gorm:"foreignKey:PropertyID;references:ID"`
}
