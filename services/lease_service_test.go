package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/theophane330/HABIPRO-NEW/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Tenant{},
		&models.Lease{},
		&models.Contract{},
		&models.Payment{},
	))

	return db
}

func seedOwner(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	owner := models.User{
		FirstName: "Awa",
		LastName:  "Koné",
		Email:     email,
		Role:      "proprietaire",
	}
	require.NoError(t, db.Create(&owner).Error)
	return &owner
}

func seedProperty(t *testing.T, db *gorm.DB, ownerID uint, rent float64) *models.Property {
	t.Helper()
	property := models.Property{
		OwnerID:     ownerID,
		Title:       "Villa Cocody",
		Status:      models.PropertyStatusAvailable,
		MonthlyRent: rent,
	}
	require.NoError(t, db.Create(&property).Error)
	return &property
}

func seedTenant(t *testing.T, db *gorm.DB, ownerID uint, firstName string) *models.Tenant {
	t.Helper()
	tenant := models.Tenant{
		OwnerID:   ownerID,
		FirstName: firstName,
		LastName:  "Traoré",
		Email:     fmt.Sprintf("%s@example.com", firstName),
	}
	require.NoError(t, db.Create(&tenant).Error)
	return &tenant
}

func TestCreateLeaseMarksPropertyRented(t *testing.T) {
	db := setupTestDB(t)
	owner := seedOwner(t, db, "owner@example.com")
	property := seedProperty(t, db, owner.ID, 150000)
	tenant := seedTenant(t, db, owner.ID, "moussa")

	lease, err := CreateLease(db, owner.ID, tenant.ID, property.ID, LeaseTerms{
		StartDate:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		MonthlyRent:   150000,
		PaymentMethod: "orange",
	})
	require.NoError(t, err)
	assert.Equal(t, models.LeaseStatusActive, lease.Status)

	var refreshed models.Property
	require.NoError(t, db.First(&refreshed, property.ID).Error)
	assert.Equal(t, models.PropertyStatusRented, refreshed.Status)
	assert.Equal(t, "moussa Traoré", refreshed.CurrentTenant)
}

func TestCreateLeaseDefaultsRentFromProperty(t *testing.T) {
	db := setupTestDB(t)
	owner := seedOwner(t, db, "owner@example.com")
	property := seedProperty(t, db, owner.ID, 200000)
	tenant := seedTenant(t, db, owner.ID, "moussa")

	lease, err := CreateLease(db, owner.ID, tenant.ID, property.ID, LeaseTerms{
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, float64(200000), lease.MonthlyRent)
}

func TestCreateLeaseRejectsSecondActiveLease(t *testing.T) {
	db := setupTestDB(t)
	owner := seedOwner(t, db, "owner@example.com")
	property := seedProperty(t, db, owner.ID, 150000)
	tenant := seedTenant(t, db, owner.ID, "moussa")

	terms := LeaseTerms{StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	_, err := CreateLease(db, owner.ID, tenant.ID, property.ID, terms)
	require.NoError(t, err)

	_, err = CreateLease(db, owner.ID, tenant.ID, property.ID, terms)
	assert.ErrorIs(t, err, ErrDuplicateActiveLease)

	// The failed create must not leave a second lease row behind
	var count int64
	require.NoError(t, db.Model(&models.Lease{}).
		Where("tenant_id = ? AND property_id = ?", tenant.ID, property.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateLeaseChecksOwnership(t *testing.T) {
	db := setupTestDB(t)
	owner := seedOwner(t, db, "owner@example.com")
	other := seedOwner(t, db, "other@example.com")
	property := seedProperty(t, db, owner.ID, 150000)
	tenant := seedTenant(t, db, owner.ID, "moussa")

	_, err := CreateLease(db, other.ID, tenant.ID, property.ID, LeaseTerms{
		StartDate: time.Now(),
	})
	assert.ErrorIs(t, err, ErrNotOwner)

	// Property untouched on rollback
	var refreshed models.Property
	require.NoError(t, db.First(&refreshed, property.ID).Error)
	assert.Equal(t, models.PropertyStatusAvailable, refreshed.Status)
}

func TestCreateLeaseMissingRecords(t *testing.T) {
	db := setupTestDB(t)
	owner := seedOwner(t, db, "owner@example.com")
	property := seedProperty(t, db, owner.ID, 150000)
	tenant := seedTenant(t, db, owner.ID, "moussa")

	_, err := CreateLease(db, owner.ID, tenant.ID, 9999, LeaseTerms{StartDate: time.Now()})
	assert.ErrorIs(t, err, ErrPropertyNotFound)

	_, err = CreateLease(db, owner.ID, 9999, property.ID, LeaseTerms{StartDate: time.Now()})
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestTerminateLeaseRevertsProperty(t *testing.T) {
	db := setupTestDB(t)
	owner := seedOwner(t, db, "owner@example.com")
	property := seedProperty(t, db, owner.ID, 150000)
	tenant := seedTenant(t, db, owner.ID, "moussa")

	lease, err := CreateLease(db, owner.ID, tenant.ID, property.ID, LeaseTerms{
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	terminated, err := TerminateLease(db, owner.ID, lease.ID, "départ du locataire")
	require.NoError(t, err)
	assert.Equal(t, models.LeaseStatusTerminated, terminated.Status)
	assert.NotNil(t, terminated.TerminatedAt)

	var refreshed models.Property
	require.NoError(t, db.First(&refreshed, property.ID).Error)
	assert.Equal(t, models.PropertyStatusAvailable, refreshed.Status)
	assert.Empty(t, refreshed.CurrentTenant)
}

func TestTerminateLeaseExpiredReason(t *testing.T) {
	db := setupTestDB(t)
	owner := seedOwner(t, db, "owner@example.com")
	property := seedProperty(t, db, owner.ID, 150000)
	tenant := seedTenant(t, db, owner.ID, "moussa")

	lease, err := CreateLease(db, owner.ID, tenant.ID, property.ID, LeaseTerms{
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	terminated, err := TerminateLease(db, owner.ID, lease.ID, "expired")
	require.NoError(t, err)
	assert.Equal(t, models.LeaseStatusExpired, terminated.Status)
}

func TestTerminateLeaseTerminalIsFinal(t *testing.T) {
	db := setupTestDB(t)
	owner := seedOwner(t, db, "owner@example.com")
	property := seedProperty(t, db, owner.ID, 150000)
	tenant := seedTenant(t, db, owner.ID, "moussa")

	lease, err := CreateLease(db, owner.ID, tenant.ID, property.ID, LeaseTerms{
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = TerminateLease(db, owner.ID, lease.ID, "départ")
	require.NoError(t, err)

	_, err = TerminateLease(db, owner.ID, lease.ID, "départ")
	var transitionErr *InvalidTransitionError
	require.True(t, errors.As(err, &transitionErr))
	assert.Equal(t, models.LeaseStatusTerminated, transitionErr.From)
}

func TestTerminateLeaseKeepsPropertyRentedWhileOthersActive(t *testing.T) {
	db := setupTestDB(t)
	owner := seedOwner(t, db, "owner@example.com")
	property := seedProperty(t, db, owner.ID, 150000)
	first := seedTenant(t, db, owner.ID, "moussa")
	second := seedTenant(t, db, owner.ID, "fatou")

	terms := LeaseTerms{StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	lease1, err := CreateLease(db, owner.ID, first.ID, property.ID, terms)
	require.NoError(t, err)
	_, err = CreateLease(db, owner.ID, second.ID, property.ID, terms)
	require.NoError(t, err)

	_, err = TerminateLease(db, owner.ID, lease1.ID, "départ")
	require.NoError(t, err)

	var refreshed models.Property
	require.NoError(t, db.First(&refreshed, property.ID).Error)
	assert.Equal(t, models.PropertyStatusRented, refreshed.Status)
}

func TestTerminateLeaseLeavesManualStatusAlone(t *testing.T) {
	db := setupTestDB(t)
	owner := seedOwner(t, db, "owner@example.com")
	property := seedProperty(t, db, owner.ID, 150000)
	tenant := seedTenant(t, db, owner.ID, "moussa")

	lease, err := CreateLease(db, owner.ID, tenant.ID, property.ID, LeaseTerms{
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// Owner pulled the property off the market while still leased
	require.NoError(t, db.Model(&models.Property{}).Where("id = ?", property.ID).
		Update("status", models.PropertyStatusMaintenance).Error)

	_, err = TerminateLease(db, owner.ID, lease.ID, "départ")
	require.NoError(t, err)

	var refreshed models.Property
	require.NoError(t, db.First(&refreshed, property.ID).Error)
	assert.Equal(t, models.PropertyStatusMaintenance, refreshed.Status)
}

func TestTerminateLeaseChecksOwnership(t *testing.T) {
	db := setupTestDB(t)
	owner := seedOwner(t, db, "owner@example.com")
	other := seedOwner(t, db, "other@example.com")
	property := seedProperty(t, db, owner.ID, 150000)
	tenant := seedTenant(t, db, owner.ID, "moussa")

	lease, err := CreateLease(db, owner.ID, tenant.ID, property.ID, LeaseTerms{
		StartDate: time.Now(),
	})
	require.NoError(t, err)

	_, err = TerminateLease(db, other.ID, lease.ID, "départ")
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = TerminateLease(db, owner.ID, 9999, "départ")
	assert.ErrorIs(t, err, ErrLeaseNotFound)
}
