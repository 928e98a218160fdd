package routes

import (
	"strings"
	"time"

	"github.com/theophane330/HABIPRO-NEW/models"
	"github.com/theophane330/HABIPRO-NEW/services"
	"github.com/theophane330/HABIPRO-NEW/storage"
	"github.com/theophane330/HABIPRO-NEW/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/exp/slices"
)

// CreatePayment records a rent payment against one of the calling tenant's
// contracts. The month label is derived from year/month through
// services.MonthLabel so the write path and the reconciler always agree; a
// raw paymentMonth label is still accepted for compatibility with clients
// that send one. At most one payment per (contract, month) — the unique
// index turns duplicates into a 409.
func CreatePayment(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	tenant := tenantForUser(claims.ID, ctx)
	if tenant == nil {
		return
	}

	var input CreatePaymentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !slices.Contains(models.PaymentMethods, input.PaymentMethod) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "unknown payment method", ctx)
		return
	}

	label := input.PaymentMonth
	if label == "" {
		if input.Year == 0 || input.Month < 1 || input.Month > 12 {
			utils.CreateError(iris.StatusBadRequest, "Validation Error",
				"either paymentMonth or year and month are required", ctx)
			return
		}
		label = services.MonthLabel(input.Year, time.Month(input.Month))
	}

	var contract models.Contract
	contractExists := storage.DB.Find(&contract, input.ContractID)
	if contractExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if contractExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}
	if contract.TenantID != tenant.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}
	if contract.Status != models.ContractStatusActive {
		utils.JSONError(ctx, iris.StatusConflict, "conflict", "contract is not active")
		return
	}

	amount := input.Amount
	if amount == 0 {
		amount = contract.Amount
	}

	reference := input.TransactionReference
	if reference == "" {
		reference = "TXN-" + utils.GenerateShortToken(8)
	}

	payment := models.Payment{
		ContractID:           contract.ID,
		PaymentMonth:         label,
		TenantID:             tenant.ID,
		PropertyID:           contract.PropertyID,
		OwnerID:              contract.OwnerID,
		Amount:               amount,
		PaymentMethod:        input.PaymentMethod,
		Status:               models.PaymentStatusCompleted,
		AutoPaymentEnabled:   input.AutoPaymentEnabled,
		TransactionReference: reference,
		Notes:                input.Notes,
		PaymentDate:          time.Now(),
	}

	if err := storage.DB.Create(&payment).Error; err != nil {
		if isDuplicatePayment(err) {
			handleServiceError(services.ErrDuplicatePayment, ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "payment.create", "payment", payment.ID, nil, payment)

	tenantName := tenant.FirstName + " " + tenant.LastName
	services.NotificationServiceInstance.SendPaymentReceivedNotificationToOwner(
		payment.ID, payment.PropertyID, payment.OwnerID, tenantName, label, amount)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&payment)
}

// GetTenantPayments lists the calling tenant's recorded payments
func GetTenantPayments(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	tenant := tenantForUser(claims.ID, ctx)
	if tenant == nil {
		return
	}

	var payments []models.Payment
	if err := storage.DB.Preload("Property").Preload("Contract").
		Where("tenant_id = ?", tenant.ID).Order("payment_date DESC").
		Find(&payments).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(payments)
}

// GetOwnerPayments lists payments received across the owner's properties
func GetOwnerPayments(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var payments []models.Payment
	if err := storage.DB.Preload("Tenant").Preload("Property").
		Where("owner_id = ?", claims.ID).Order("payment_date DESC").
		Find(&payments).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(payments)
}

// GetTenantPaymentStatistics returns the aggregate card values for the
// tenant payments screen.
func GetTenantPaymentStatistics(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	tenant := tenantForUser(claims.ID, ctx)
	if tenant == nil {
		return
	}

	report, err := services.ReconcilePayments(storage.DB, tenant.ID, time.Now())
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"total_paid":      report.TotalPaid,
		"pending_amount":  report.TotalDue,
		"completed_count": report.PaidCount,
		"pending_count":   report.UnpaidCount,
		"global_status":   report.GlobalStatus,
	})
}

// GetTenantPaymentSchedule returns the full reconciled calendar for the
// calling tenant.
func GetTenantPaymentSchedule(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	tenant := tenantForUser(claims.ID, ctx)
	if tenant == nil {
		return
	}

	report, err := services.ReconcilePayments(storage.DB, tenant.ID, time.Now())
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(report)
}

func isDuplicatePayment(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

type CreatePaymentInput struct {
	ContractID           uint    `json:"contractID" validate:"required"`
	PaymentMonth         string  `json:"paymentMonth"`
	Year                 int     `json:"year"`
	Month                int     `json:"month"`
	Amount               float64 `json:"amount" validate:"gte=0"`
	PaymentMethod        string  `json:"paymentMethod" validate:"required"`
	AutoPaymentEnabled   bool    `json:"autoPaymentEnabled"`
	TransactionReference string  `json:"transactionReference" validate:"max=100"`
	Notes                string  `json:"notes"`
}
