package routes

import (
	"time"

	"github.com/theophane330/HABIPRO-NEW/models"
	"github.com/theophane330/HABIPRO-NEW/services"
	"github.com/theophane330/HABIPRO-NEW/storage"
	"github.com/theophane330/HABIPRO-NEW/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func CreateLease(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreateLeaseInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	startDate, err := time.Parse("2006-01-02", input.StartDate)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "startDate must be YYYY-MM-DD", ctx)
		return
	}

	var endDate *time.Time
	if input.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", input.EndDate)
		if err != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "endDate must be YYYY-MM-DD", ctx)
			return
		}
		endDate = &parsed
	}

	terms := services.LeaseTerms{
		StartDate:     startDate,
		EndDate:       endDate,
		MonthlyRent:   input.MonthlyRent,
		Deposit:       input.Deposit,
		PaymentMethod: input.PaymentMethod,
	}

	lease, err := services.CreateLease(storage.DB, claims.ID, input.TenantID, input.PropertyID, terms)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "lease.create", "lease", lease.ID, nil, lease)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(lease)
}

func TerminateLease(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input TerminateLeaseInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	lease, err := services.TerminateLease(storage.DB, claims.ID, id, input.Reason)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "lease.terminate", "lease", lease.ID,
		iris.Map{"status": models.LeaseStatusActive}, iris.Map{"status": lease.Status, "reason": input.Reason})

	// Notify the tenant's linked account, if any
	var tenant models.Tenant
	if err := storage.DB.First(&tenant, lease.TenantID).Error; err == nil && tenant.UserID != nil {
		var property models.Property
		storage.DB.First(&property, lease.PropertyID)
		services.NotificationServiceInstance.SendLeaseTerminatedNotificationToTenant(
			lease.ID, lease.PropertyID, *tenant.UserID, property.Title)
	}

	ctx.JSON(lease)
}

func GetOwnerLeases(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	status := ctx.URLParamDefault("status", "")

	q := storage.DB.Preload("Tenant").Preload("Property").
		Where("owner_id = ?", claims.ID).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var leases []models.Lease
	if err := q.Find(&leases).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(leases)
}

func GetLease(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var lease models.Lease
	leaseExists := storage.DB.Preload("Tenant").Preload("Property").Find(&lease, id)
	if leaseExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if leaseExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	if lease.OwnerID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	ctx.JSON(&lease)
}

type CreateLeaseInput struct {
	TenantID      uint    `json:"tenantID" validate:"required"`
	PropertyID    uint    `json:"propertyID" validate:"required"`
	StartDate     string  `json:"startDate" validate:"required"`
	EndDate       string  `json:"endDate"`
	MonthlyRent   float64 `json:"monthlyRent" validate:"gte=0"`
	Deposit       float64 `json:"deposit" validate:"gte=0"`
	PaymentMethod string  `json:"paymentMethod"`
}

type TerminateLeaseInput struct {
	Reason string `json:"reason" validate:"max=255"`
}
