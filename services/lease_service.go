package services

import (
	"errors"
	"time"

	"github.com/theophane330/HABIPRO-NEW/models"

	"gorm.io/gorm"
)

// LeaseTerms are the contractual values captured when a lease is created.
type LeaseTerms struct {
	StartDate     time.Time
	EndDate       *time.Time
	MonthlyRent   float64
	Deposit       float64
	PaymentMethod string
}

// CreateLease opens an active lease between a tenant and a property and
// marks the property "loué". Both writes commit in one transaction: a
// property can never end up rented without a lease row, or the reverse.
// Duplicate active leases are rejected by the unique index over
// (tenant_id, property_id, status); under two concurrent creates exactly one
// insert commits and the other returns ErrDuplicateActiveLease.
func CreateLease(db *gorm.DB, ownerID, tenantID, propertyID uint, terms LeaseTerms) (*models.Lease, error) {
	lease := models.Lease{
		TenantID:      tenantID,
		PropertyID:    propertyID,
		OwnerID:       ownerID,
		Status:        models.LeaseStatusActive,
		StartDate:     terms.StartDate,
		EndDate:       terms.EndDate,
		MonthlyRent:   terms.MonthlyRent,
		Deposit:       terms.Deposit,
		PaymentMethod: terms.PaymentMethod,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var property models.Property
		if err := tx.First(&property, propertyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPropertyNotFound
			}
			return err
		}
		if property.OwnerID != ownerID {
			return ErrNotOwner
		}

		var tenant models.Tenant
		if err := tx.First(&tenant, tenantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTenantNotFound
			}
			return err
		}
		if tenant.OwnerID != ownerID {
			return ErrNotOwner
		}

		if terms.MonthlyRent == 0 {
			lease.MonthlyRent = property.MonthlyRent
		}

		if err := tx.Create(&lease).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateActiveLease
			}
			return err
		}

		tenantName := tenant.FirstName + " " + tenant.LastName
		return tx.Model(&models.Property{}).Where("id = ?", propertyID).
			Updates(map[string]interface{}{
				"status":         models.PropertyStatusRented,
				"current_tenant": tenantName,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &lease, nil
}

// TerminateLease moves an active lease to a terminal state and re-evaluates
// the property inside the same transaction. A reason of "expired" selects
// the expired state, anything else terminates. The property only reverts to
// "disponible" when no other active lease remains on it; a manual en_vente /
// maintenance status is left alone.
func TerminateLease(db *gorm.DB, ownerID, leaseID uint, reason string) (*models.Lease, error) {
	var lease models.Lease

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&lease, leaseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLeaseNotFound
			}
			return err
		}
		if lease.OwnerID != ownerID {
			return ErrNotOwner
		}

		target := models.LeaseStatusTerminated
		if reason == "expired" {
			target = models.LeaseStatusExpired
		}

		if lease.IsTerminal() {
			return &InvalidTransitionError{Resource: "lease", From: lease.Status, To: target}
		}
		if lease.Status != models.LeaseStatusActive {
			return ErrLeaseNotFound
		}

		now := time.Now()
		lease.Status = target
		lease.TerminationReason = reason
		lease.TerminatedAt = &now
		if err := tx.Save(&lease).Error; err != nil {
			if isUniqueViolation(err) {
				// A lease for the same pair was already closed with this status
				return ErrDuplicateActiveLease
			}
			return err
		}

		// Re-evaluate occupancy: another tenant may still hold the property.
		var activeCount int64
		if err := tx.Model(&models.Lease{}).
			Where("property_id = ? AND status = ? AND id <> ?", lease.PropertyID, models.LeaseStatusActive, lease.ID).
			Count(&activeCount).Error; err != nil {
			return err
		}
		if activeCount > 0 {
			return nil
		}

		return tx.Model(&models.Property{}).
			Where("id = ? AND status = ?", lease.PropertyID, models.PropertyStatusRented).
			Updates(map[string]interface{}{
				"status":         models.PropertyStatusAvailable,
				"current_tenant": "",
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &lease, nil
}
