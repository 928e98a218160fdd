package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusCancelled = "cancelled"
)

// PaymentMethods are the accepted payment channels.
var PaymentMethods = []string{"orange", "mtn", "moov", "card", "transfer", "cash", "cheque"}

// Payment is a single recorded transaction against a contract. PaymentMonth
// is the human-readable label of the rent month it covers ("Février 2025");
// the reconciler matches scheduled months against it by string equality, so
// the label must always be produced by services.MonthLabel. At most one
// payment per (contract, month).
type Payment struct {
	gorm.Model
	ContractID   uint   `json:"contractID" gorm:"not null;uniqueIndex:idx_payments_contract_month"`
	PaymentMonth string `json:"paymentMonth" gorm:"size:50;not null;uniqueIndex:idx_payments_contract_month"`

	// Denormalized for owner/tenant listings
	TenantID   uint `json:"tenantID" gorm:"not null;index"`
	PropertyID uint `json:"propertyID" gorm:"not null;index"`
	OwnerID    uint `json:"ownerID" gorm:"not null;index"`

	Amount               float64   `json:"amount"`
	PaymentMethod        string    `json:"paymentMethod" gorm:"size:50"` // orange, mtn, moov, card, transfer, cash, cheque
	Status               string    `json:"status" gorm:"size:50;default:'completed';index"`
	AutoPaymentEnabled   bool      `json:"autoPaymentEnabled" gorm:"default:false"`
	TransactionReference string    `json:"transactionReference" gorm:"size:100;uniqueIndex"`
	Notes                string    `json:"notes" gorm:"type:text"`
	PaymentDate          time.Time `json:"paymentDate"`

	Contract Contract `json:"contract" gorm:"foreignKey:ContractID;references:ID"`
	Tenant   Tenant   `json:"tenant" gorm:"foreignKey:TenantID;references:ID"`
	Property Property `json:"property" gorm:"foreignKey:PropertyID;references:ID"`
}
