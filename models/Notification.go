package models

import (
	"time"

	"gorm.io/gorm"
)

type Notification struct {
	gorm.Model
	UserID  uint   `json:"userID" gorm:"not null;index"`
	Type    string `json:"type" gorm:"size:50;index"` // lease_terminated, payment_received, visit_accepted, maintenance_update, ...
	Title   string `json:"title" gorm:"size:255"`
	Body    string `json:"body" gorm:"type:text"`
	RefType string `json:"refType" gorm:"size:32"` // lease, payment, visit, maintenance
	RefID   *uint  `json:"refID" gorm:"index"`

	ReadAt *time.Time `json:"readAt"`
}
