package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/theophane330/HABIPRO-NEW/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedRentalContract(t *testing.T, db *gorm.DB, ownerID, tenantID, propertyID uint, amount float64, start time.Time) *models.Contract {
	t.Helper()
	contract := models.Contract{
		OwnerID:      ownerID,
		TenantID:     tenantID,
		PropertyID:   propertyID,
		ContractType: models.ContractTypeRental,
		Amount:       amount,
		Status:       models.ContractStatusActive,
		StartDate:    start,
	}
	require.NoError(t, db.Create(&contract).Error)
	return &contract
}

func seedCompletedPayment(t *testing.T, db *gorm.DB, contract *models.Contract, label string, amount float64) *models.Payment {
	t.Helper()
	payment := models.Payment{
		ContractID:           contract.ID,
		PaymentMonth:         label,
		TenantID:             contract.TenantID,
		PropertyID:           contract.PropertyID,
		OwnerID:              contract.OwnerID,
		Amount:               amount,
		PaymentMethod:        "orange",
		Status:               models.PaymentStatusCompleted,
		TransactionReference: fmt.Sprintf("TXN-%d-%s", contract.ID, label),
		PaymentDate:          time.Now(),
	}
	require.NoError(t, db.Create(&payment).Error)
	return &payment
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Février 2025", MonthLabel(2025, time.February))
	assert.Equal(t, "Août 2024", MonthLabel(2024, time.August))

	year, month, err := ParseMonthLabel("Février 2025")
	require.NoError(t, err)
	assert.Equal(t, 2025, year)
	assert.Equal(t, time.February, month)

	_, _, err = ParseMonthLabel("February 2025")
	assert.Error(t, err)
	_, _, err = ParseMonthLabel("Février")
	assert.Error(t, err)
}

func TestReconcileNoActiveContract(t *testing.T) {
	db := setupTestDB(t)
	owner := seedOwner(t, db, "owner@example.com")
	tenant := seedTenant(t, db, owner.ID, "moussa")

	report, err := ReconcilePayments(db, tenant.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, report.HasActiveContract)
	assert.Empty(t, report.Entries)
	assert.Equal(t, ScheduleStatusCurrent, report.GlobalStatus)
	assert.Zero(t, report.TotalDue)
}

func TestReconcileAllMonthsUnpaid(t *testing.T) {
	db := setupTestDB(t)
	owner := seedOwner(t, db, "owner@example.com")
	property := seedProperty(t, db, owner.ID, 150000)
	tenant := seedTenant(t, db, owner.ID, "moussa")
	seedRentalContract(t, db, owner.ID, tenant.ID, property.ID, 150000,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	now := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	report, err := ReconcilePayments(db, tenant.ID, now)
	require.NoError(t, err)

	assert.True(t, report.HasActiveContract)
	require.Len(t, report.Entries, 4)
	assert.Equal(t, 4, report.UnpaidCount)
	assert.Equal(t, float64(600000), report.TotalDue)
	assert.Equal(t, ScheduleStatusLate, report.GlobalStatus)

	// Newest month first
	assert.Equal(t, "Avril 2025", report.Entries[0].MonthLabel)
	assert.Equal(t, "Janvier 2025", report.Entries[3].MonthLabel)

	assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), report.NextPaymentDate)
	assert.Equal(t, 16, report.DaysRemaining)
}

func TestReconcileMatchesCompletedPayments(t *testing.T) {
	db := setupTestDB(t)
	owner := seedOwner(t, db, "owner@example.com")
	property := seedProperty(t, db, owner.ID, 150000)
	tenant := seedTenant(t, db, owner.ID, "moussa")
	contract := seedRentalContract(t, db, owner.ID, tenant.ID, property.ID, 150000,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	seedCompletedPayment(t, db, contract, "Février 2025", 150000)

	now := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	report, err := ReconcilePayments(db, tenant.ID, now)
	require.NoError(t, err)

	assert.Equal(t, 1, report.PaidCount)
	assert.Equal(t, 3, report.UnpaidCount)
	assert.Equal(t, float64(150000), report.TotalPaid)
	assert.Equal(t, float64(450000), report.TotalDue)
	assert.Equal(t, ScheduleStatusLate, report.GlobalStatus)

	for _, entry := range report.Entries {
		if entry.MonthLabel == "Février 2025" {
			assert.Equal(t, "paid", entry.Status)
			assert.Equal(t, "orange", entry.PaymentMethod)
			assert.NotNil(t, entry.PaymentDate)
		} else {
			assert.Equal(t, "unpaid", entry.Status)
		}
	}
}

func TestReconcileCurrentMonthDueImmediately(t *testing.T) {
	db := setupTestDB(t)
	owner := seedOwner(t, db, "owner@example.com")
	property := seedProperty(t, db, owner.ID, 150000)
	tenant := seedTenant(t, db, owner.ID, "moussa")
	seedRentalContract(t, db, owner.ID, tenant.ID, property.ID, 150000,
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))

	now := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	report, err := ReconcilePayments(db, tenant.ID, now)
	require.NoError(t, err)

	require.Len(t, report.Entries, 1)
	assert.Equal(t, "Avril 2025", report.Entries[0].MonthLabel)
	assert.Equal(t, ScheduleStatusAttention, report.GlobalStatus)
}

func TestReconcileFullyPaid(t *testing.T) {
	db := setupTestDB(t)
	owner := seedOwner(t, db, "owner@example.com")
	property := seedProperty(t, db, owner.ID, 150000)
	tenant := seedTenant(t, db, owner.ID, "moussa")
	contract := seedRentalContract(t, db, owner.ID, tenant.ID, property.ID, 150000,
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	seedCompletedPayment(t, db, contract, "Mars 2025", 150000)
	seedCompletedPayment(t, db, contract, "Avril 2025", 150000)

	now := time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC)
	report, err := ReconcilePayments(db, tenant.ID, now)
	require.NoError(t, err)

	assert.Equal(t, 0, report.UnpaidCount)
	assert.Equal(t, ScheduleStatusCurrent, report.GlobalStatus)
	assert.Equal(t, float64(300000), report.TotalPaid)
}

func TestReconcileIgnoresPendingPayments(t *testing.T) {
	db := setupTestDB(t)
	owner := seedOwner(t, db, "owner@example.com")
	property := seedProperty(t, db, owner.ID, 150000)
	tenant := seedTenant(t, db, owner.ID, "moussa")
	contract := seedRentalContract(t, db, owner.ID, tenant.ID, property.ID, 150000,
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))

	pending := models.Payment{
		ContractID:   contract.ID,
		PaymentMonth: "Avril 2025",
		TenantID:     tenant.ID,
		PropertyID:   property.ID,
		OwnerID:      owner.ID,
		Amount:       150000,
		Status:       models.PaymentStatusPending,
		PaymentDate:  time.Now(),
	}
	require.NoError(t, db.Create(&pending).Error)

	now := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	report, err := ReconcilePayments(db, tenant.ID, now)
	require.NoError(t, err)

	require.Len(t, report.Entries, 1)
	assert.Equal(t, "unpaid", report.Entries[0].Status)
}

func TestReconcileWarnsOnMalformedLabel(t *testing.T) {
	db := setupTestDB(t)
	owner := seedOwner(t, db, "owner@example.com")
	property := seedProperty(t, db, owner.ID, 150000)
	tenant := seedTenant(t, db, owner.ID, "moussa")
	contract := seedRentalContract(t, db, owner.ID, tenant.ID, property.ID, 150000,
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	seedCompletedPayment(t, db, contract, "April 2025", 150000)

	now := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	report, err := ReconcilePayments(db, tenant.ID, now)
	require.NoError(t, err)

	// The mislabeled payment matches nothing: the month stays unpaid
	require.Len(t, report.Entries, 1)
	assert.Equal(t, "unpaid", report.Entries[0].Status)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "April 2025")
}

func TestReconcileIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	owner := seedOwner(t, db, "owner@example.com")
	property := seedProperty(t, db, owner.ID, 150000)
	tenant := seedTenant(t, db, owner.ID, "moussa")
	contract := seedRentalContract(t, db, owner.ID, tenant.ID, property.ID, 150000,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	seedCompletedPayment(t, db, contract, "Janvier 2025", 150000)

	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	first, err := ReconcilePayments(db, tenant.ID, now)
	require.NoError(t, err)
	second, err := ReconcilePayments(db, tenant.ID, now)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestReconcileMultipleContracts(t *testing.T) {
	db := setupTestDB(t)
	owner := seedOwner(t, db, "owner@example.com")
	first := seedProperty(t, db, owner.ID, 150000)
	second := seedProperty(t, db, owner.ID, 90000)
	tenant := seedTenant(t, db, owner.ID, "moussa")
	seedRentalContract(t, db, owner.ID, tenant.ID, first.ID, 150000,
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	seedRentalContract(t, db, owner.ID, tenant.ID, second.ID, 90000,
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))

	now := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	report, err := ReconcilePayments(db, tenant.ID, now)
	require.NoError(t, err)

	// 2 months for the first contract, 1 for the second, newest first with
	// ties broken by contract id
	require.Len(t, report.Entries, 3)
	assert.Equal(t, "Avril 2025", report.Entries[0].MonthLabel)
	assert.Equal(t, "Avril 2025", report.Entries[1].MonthLabel)
	assert.Less(t, report.Entries[0].ContractID, report.Entries[1].ContractID)
	assert.Equal(t, "Mars 2025", report.Entries[2].MonthLabel)
	assert.Equal(t, float64(390000), report.TotalDue)
}

func TestReconcileSkipsSaleContracts(t *testing.T) {
	db := setupTestDB(t)
	owner := seedOwner(t, db, "owner@example.com")
	property := seedProperty(t, db, owner.ID, 150000)
	tenant := seedTenant(t, db, owner.ID, "moussa")

	sale := models.Contract{
		OwnerID:      owner.ID,
		TenantID:     tenant.ID,
		PropertyID:   property.ID,
		ContractType: models.ContractTypeSale,
		Amount:       25000000,
		Status:       models.ContractStatusActive,
		StartDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&sale).Error)

	report, err := ReconcilePayments(db, tenant.ID, time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, report.HasActiveContract)
	assert.Empty(t, report.Entries)
}
