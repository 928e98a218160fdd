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

func CreateTenant(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreateTenantInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	tenant := models.Tenant{
		OwnerID:     claims.ID,
		UserID:      input.UserID,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		PhoneNumber: utils.FormatPhoneNumber(input.PhoneNumber),
		Profession:  input.Profession,
		Notes:       input.Notes,
	}

	if err := storage.DB.Create(&tenant).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&tenant)
}

func GetOwnerTenants(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var tenants []models.Tenant
	if err := storage.DB.Where("owner_id = ?", claims.ID).Order("created_at DESC").Find(&tenants).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(tenants)
}

func UpdateTenant(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	tenant := getOwnedTenant(id, claims.ID, ctx)
	if tenant == nil {
		return
	}

	var input UpdateTenantInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	tenant.FirstName = input.FirstName
	tenant.LastName = input.LastName
	tenant.Email = input.Email
	tenant.Profession = input.Profession
	tenant.Notes = input.Notes
	if input.PhoneNumber != "" {
		tenant.PhoneNumber = utils.FormatPhoneNumber(input.PhoneNumber)
	}

	if err := storage.DB.Save(tenant).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(tenant)
}

func DeleteTenant(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	tenant := getOwnedTenant(id, claims.ID, ctx)
	if tenant == nil {
		return
	}

	var activeLeases int64
	storage.DB.Model(&models.Lease{}).
		Where("tenant_id = ? AND status = ?", tenant.ID, models.LeaseStatusActive).
		Count(&activeLeases)
	if activeLeases > 0 {
		utils.JSONError(ctx, iris.StatusConflict, "conflict",
			"tenant has an active lease; terminate it first")
		return
	}

	if err := storage.DB.Delete(&models.Tenant{}, tenant.ID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

// GetTenantSchedule returns the reconciled payment calendar for a tenant the
// owner manages.
func GetTenantSchedule(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	tenant := getOwnedTenant(id, claims.ID, ctx)
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

func getOwnedTenant(id, ownerID uint, ctx iris.Context) *models.Tenant {
	var tenant models.Tenant
	tenantExists := storage.DB.Find(&tenant, id)
	if tenantExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}
	if tenantExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return nil
	}
	if tenant.OwnerID != ownerID {
		ctx.StatusCode(iris.StatusForbidden)
		return nil
	}
	return &tenant
}

type CreateTenantInput struct {
	FirstName   string `json:"firstName" validate:"required,max=256"`
	LastName    string `json:"lastName" validate:"required,max=256"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phoneNumber"`
	Profession  string `json:"profession" validate:"max=256"`
	Notes       string `json:"notes"`
	UserID      *uint  `json:"userID"`
}

type UpdateTenantInput struct {
	FirstName   string `json:"firstName" validate:"required,max=256"`
	LastName    string `json:"lastName" validate:"required,max=256"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phoneNumber"`
	Profession  string `json:"profession" validate:"max=256"`
	Notes       string `json:"notes"`
}
