package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/theophane330/HABIPRO-NEW/models"

	"gorm.io/gorm"
)

// Global schedule statuses shown to tenants.
const (
	ScheduleStatusCurrent   = "À jour"
	ScheduleStatusAttention = "Attention"
	ScheduleStatusLate      = "En retard"
)

// frenchMonths is the fixed month-name table shared by the write path
// (payment creation) and the read path (reconciliation). Payments are matched
// to scheduled months by comparing these labels as strings, so both paths
// must go through MonthLabel. Changing a name here orphans every payment
// already stored with the old label.
var frenchMonths = [12]string{
	"Janvier", "Février", "Mars", "Avril", "Mai", "Juin",
	"Juillet", "Août", "Septembre", "Octobre", "Novembre", "Décembre",
}

// MonthLabel renders the canonical label for a rent month, e.g. "Février 2025".
func MonthLabel(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", frenchMonths[month-1], year)
}

// ParseMonthLabel is the inverse of MonthLabel. It is only used to detect
// malformed labels on stored payments; matching itself stays string-based.
func ParseMonthLabel(label string) (int, time.Month, error) {
	parts := strings.Fields(label)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed month label %q", label)
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed month label %q", label)
	}
	for i, name := range frenchMonths {
		if name == parts[0] {
			return year, time.Month(i + 1), nil
		}
	}
	return 0, 0, fmt.Errorf("unknown month name in label %q", label)
}

// ScheduleEntry is one (contract, month) cell of the derived payment
// calendar. Paid entries carry the recorded payment's values; unpaid entries
// carry the contract's monthly amount and nothing else.
type ScheduleEntry struct {
	ContractID           uint       `json:"contractID"`
	PropertyID           uint       `json:"propertyID"`
	Year                 int        `json:"year"`
	Month                int        `json:"month"`
	MonthLabel           string     `json:"monthLabel"`
	Status               string     `json:"status"` // paid, unpaid
	Amount               float64    `json:"amount"`
	PaymentDate          *time.Time `json:"paymentDate,omitempty"`
	PaymentMethod        string     `json:"paymentMethod,omitempty"`
	TransactionReference string     `json:"transactionReference,omitempty"`
}

// PaymentScheduleReport is the derived, non-persisted view of a tenant's
// payment situation. It is recomputed on every call; two calls with the same
// stored data return identical reports.
type PaymentScheduleReport struct {
	HasActiveContract bool            `json:"hasActiveContract"`
	Entries           []ScheduleEntry `json:"entries"`
	TotalPaid         float64         `json:"totalPaid"`
	TotalDue          float64         `json:"totalDue"`
	PaidCount         int             `json:"paidCount"`
	UnpaidCount       int             `json:"unpaidCount"`
	GlobalStatus      string          `json:"globalStatus"`
	NextPaymentDate   time.Time       `json:"nextPaymentDate"`
	DaysRemaining     int             `json:"daysRemaining"`
	Warnings          []string        `json:"warnings,omitempty"`
}

// ReconcilePayments builds the expected monthly payment calendar for every
// active rental contract of the tenant, from each contract's start month
// through the month of now inclusive, and classifies each month as paid or
// unpaid. The current month is due as soon as it starts; there is no grace
// period. Missing contracts or payments are normal empty results, never
// errors. Stored payments whose month label cannot be parsed are reported as
// warnings and otherwise ignored by the schedule they fail to match.
func ReconcilePayments(db *gorm.DB, tenantID uint, now time.Time) (*PaymentScheduleReport, error) {
	report := &PaymentScheduleReport{
		Entries:      []ScheduleEntry{},
		GlobalStatus: ScheduleStatusCurrent,
	}

	report.NextPaymentDate = time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
	report.DaysRemaining = int(report.NextPaymentDate.Sub(now).Hours() / 24)

	var contracts []models.Contract
	if err := db.
		Where("tenant_id = ? AND status = ? AND contract_type = ?",
			tenantID, models.ContractStatusActive, models.ContractTypeRental).
		Find(&contracts).Error; err != nil {
		return nil, err
	}
	if len(contracts) == 0 {
		return report, nil
	}
	report.HasActiveContract = true

	for _, contract := range contracts {
		var payments []models.Payment
		if err := db.Where("contract_id = ?", contract.ID).Find(&payments).Error; err != nil {
			return nil, err
		}

		completed := make(map[string]models.Payment, len(payments))
		for _, p := range payments {
			if _, _, err := ParseMonthLabel(p.PaymentMonth); err != nil {
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("payment %d: %v", p.ID, err))
			}
			if p.Status == models.PaymentStatusCompleted {
				completed[p.PaymentMonth] = p
			}
		}

		year, month := contract.StartDate.Year(), contract.StartDate.Month()
		for year < now.Year() || (year == now.Year() && month <= now.Month()) {
			label := MonthLabel(year, month)
			entry := ScheduleEntry{
				ContractID: contract.ID,
				PropertyID: contract.PropertyID,
				Year:       year,
				Month:      int(month),
				MonthLabel: label,
			}
			if p, ok := completed[label]; ok {
				date := p.PaymentDate
				entry.Status = "paid"
				entry.Amount = p.Amount
				entry.PaymentDate = &date
				entry.PaymentMethod = p.PaymentMethod
				entry.TransactionReference = p.TransactionReference
				report.TotalPaid += p.Amount
				report.PaidCount++
			} else {
				entry.Status = "unpaid"
				entry.Amount = contract.Amount
				report.TotalDue += contract.Amount
				report.UnpaidCount++
			}
			report.Entries = append(report.Entries, entry)

			month++
			if month > time.December {
				month = time.January
				year++
			}
		}
	}

	sort.SliceStable(report.Entries, func(i, j int) bool {
		a, b := report.Entries[i], report.Entries[j]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		if a.Month != b.Month {
			return a.Month > b.Month
		}
		return a.ContractID < b.ContractID
	})

	switch {
	case report.UnpaidCount == 0:
		report.GlobalStatus = ScheduleStatusCurrent
	case report.UnpaidCount == 1:
		report.GlobalStatus = ScheduleStatusAttention
	default:
		report.GlobalStatus = ScheduleStatusLate
	}

	return report, nil
}
