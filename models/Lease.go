package models

import (
	"time"

	"gorm.io/gorm"
)

// Lease status values. pending and active may still transition; terminated
// and expired are terminal.
const (
	LeaseStatusPending    = "pending"
	LeaseStatusActive     = "active"
	LeaseStatusTerminated = "terminated"
	LeaseStatusExpired    = "expired"
)

// Lease links exactly one tenant to one property. The unique index over
// (tenant_id, property_id, status) is what guarantees at most one active
// lease per (tenant, property) pair under concurrent creates: the database
// rejects the second insert, there is no check-then-act read.
type Lease struct {
	gorm.Model
	TenantID   uint   `json:"tenantID" gorm:"not null;uniqueIndex:idx_leases_tenant_property_status"`
	PropertyID uint   `json:"propertyID" gorm:"not null;uniqueIndex:idx_leases_tenant_property_status"`
	Status     string `json:"status" gorm:"size:20;default:'active';uniqueIndex:idx_leases_tenant_property_status"`
	OwnerID    uint   `json:"ownerID" gorm:"not null;index"`

	StartDate     time.Time  `json:"startDate"`
	EndDate       *time.Time `json:"endDate"`
	MonthlyRent   float64    `json:"monthlyRent"`
	Deposit       float64    `json:"deposit"`
	PaymentMethod string     `json:"paymentMethod" gorm:"size:50"`

	TerminationReason string     `json:"terminationReason" gorm:"size:255"`
	TerminatedAt      *time.Time `json:"terminatedAt"`

	Tenant   Tenant   `json:"tenant" gorm:"foreignKey:TenantID;references:ID"`
	Property Property `json:"property" gorm:"foreignKey:PropertyID;references:ID"`
}

func (l *Lease) IsTerminal() bool {
	return l.Status == LeaseStatusTerminated || l.Status == LeaseStatusExpired
}
