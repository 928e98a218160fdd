package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ContractStatusDraft      = "draft"
	ContractStatusActive     = "active"
	ContractStatusTerminated = "terminated"
	ContractStatusExpired    = "expired"
)

const (
	ContractTypeRental = "Location"
	ContractTypeSale   = "Vente"
)

// Contract is the formal document layered on top of a lease. It has its own
// lifecycle (draft → active → terminated/expired) and does not require a
// lease: sale contracts ("Vente") never have one.
type Contract struct {
	gorm.Model
	OwnerID    uint  `json:"ownerID" gorm:"not null;index"`
	TenantID   uint  `json:"tenantID" gorm:"not null;index"`
	PropertyID uint  `json:"propertyID" gorm:"not null;index"`
	LeaseID    *uint `json:"leaseID" gorm:"uniqueIndex"`

	ContractType     string         `json:"contractType" gorm:"size:50"` // Location, Vente
	Purpose          string         `json:"purpose" gorm:"type:text"`
	Amount           float64        `json:"amount"` // loyer mensuel ou prix de vente
	SecurityDeposit  string         `json:"securityDeposit" gorm:"size:100"`
	PaymentFrequency string         `json:"paymentFrequency" gorm:"size:50"` // Mensuel, Trimestriel, Semestriel, Annuel
	PaymentMethod    string         `json:"paymentMethod" gorm:"size:50"`
	Clauses          datatypes.JSON `json:"clauses"`

	Status    string     `json:"status" gorm:"size:50;default:'draft';index"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	SignedAt  *time.Time `json:"signedAt"`

	Tenant   Tenant   `json:"tenant" gorm:"foreignKey:TenantID;references:ID"`
	Property Property `json:"property" gorm:"foreignKey:PropertyID;references:ID"`
	Lease    *Lease   `json:"lease,omitempty" gorm:"foreignKey:LeaseID;references:ID"`
}

func (c *Contract) IsTerminal() bool {
	return c.Status == ContractStatusTerminated || c.Status == ContractStatusExpired
}
