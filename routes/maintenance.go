package routes

import (
	"time"

	"github.com/theophane330/HABIPRO-NEW/models"
	"github.com/theophane330/HABIPRO-NEW/services"
	"github.com/theophane330/HABIPRO-NEW/storage"
	"github.com/theophane330/HABIPRO-NEW/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/exp/slices"
)

var maintenancePriorities = []string{"low", "medium", "high", "urgent"}

// CreateMaintenanceRequest lets a tenant report an issue on a property they
// currently rent. The owner is resolved from the property.
func CreateMaintenanceRequest(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	tenant := tenantForUser(claims.ID, ctx)
	if tenant == nil {
		return
	}

	var input CreateMaintenanceRequestInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	priority := input.Priority
	if priority == "" {
		priority = "medium"
	}
	if !slices.Contains(maintenancePriorities, priority) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "unknown priority", ctx)
		return
	}

	var lease models.Lease
	leaseExists := storage.DB.
		Where("tenant_id = ? AND property_id = ? AND status = ?",
			tenant.ID, input.PropertyID, models.LeaseStatusActive).
		Find(&lease)
	if leaseExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if leaseExists.RowsAffected == 0 {
		utils.CreateError(iris.StatusForbidden, "Forbidden",
			"no active lease on this property", ctx)
		return
	}

	request := models.MaintenanceRequest{
		PropertyID:  input.PropertyID,
		TenantID:    &tenant.ID,
		OwnerID:     lease.OwnerID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    priority,
		Status:      models.MaintenanceStatusPending,
	}

	if err := storage.DB.Create(&request).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&request)
}

// GetOwnerMaintenanceRequests lists requests on the owner's properties,
// optionally filtered by status.
func GetOwnerMaintenanceRequests(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	query := storage.DB.Preload("Property").Preload("Tenant").Preload("Prestataire").
		Where("owner_id = ?", claims.ID)
	if status := ctx.URLParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.MaintenanceRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(requests)
}

// GetTenantMaintenanceRequests lists the calling tenant's own requests
func GetTenantMaintenanceRequests(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	tenant := tenantForUser(claims.ID, ctx)
	if tenant == nil {
		return
	}

	var requests []models.MaintenanceRequest
	if err := storage.DB.Preload("Property").Preload("Prestataire").
		Where("tenant_id = ?", tenant.ID).Order("created_at DESC").
		Find(&requests).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(requests)
}

// AssignMaintenanceProvider attaches one of the owner's prestataires to a
// pending or in-progress request.
func AssignMaintenanceProvider(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	request := getOwnedMaintenanceRequest(claims.ID, ctx)
	if request == nil {
		return
	}

	var input AssignProviderInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if request.Status == models.MaintenanceStatusResolved ||
		request.Status == models.MaintenanceStatusRejected {
		handleServiceError(&services.InvalidTransitionError{
			Resource: "maintenance_request", From: request.Status, To: request.Status,
		}, ctx)
		return
	}

	var prestataire models.Prestataire
	prestataireExists := storage.DB.
		Where("id = ? AND owner_id = ?", input.PrestataireID, claims.ID).
		Find(&prestataire)
	if prestataireExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if prestataireExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	request.PrestataireID = &prestataire.ID
	if err := storage.DB.Save(request).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(request)
}

// StartMaintenanceWork moves a pending request to in_progress
func StartMaintenanceWork(ctx iris.Context) {
	updateMaintenanceStatus(ctx, models.MaintenanceStatusInProgress, "")
}

// ResolveMaintenanceRequest closes a request once the work is done
func ResolveMaintenanceRequest(ctx iris.Context) {
	updateMaintenanceStatus(ctx, models.MaintenanceStatusResolved, "")
}

// RejectMaintenanceRequest declines a pending request with a reason
func RejectMaintenanceRequest(ctx iris.Context) {
	var input RejectMaintenanceInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	updateMaintenanceStatus(ctx, models.MaintenanceStatusRejected, input.Reason)
}

// updateMaintenanceStatus applies the workflow transition rules: pending may
// start, be resolved or rejected; in_progress may only resolve; resolved and
// rejected are final.
func updateMaintenanceStatus(ctx iris.Context, target, rejectReason string) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	request := getOwnedMaintenanceRequest(claims.ID, ctx)
	if request == nil {
		return
	}

	allowed := map[string][]string{
		models.MaintenanceStatusPending: {
			models.MaintenanceStatusInProgress,
			models.MaintenanceStatusResolved,
			models.MaintenanceStatusRejected,
		},
		models.MaintenanceStatusInProgress: {
			models.MaintenanceStatusResolved,
		},
	}
	if !slices.Contains(allowed[request.Status], target) {
		handleServiceError(&services.InvalidTransitionError{
			Resource: "maintenance_request", From: request.Status, To: target,
		}, ctx)
		return
	}

	now := time.Now()
	request.Status = target
	switch target {
	case models.MaintenanceStatusInProgress:
		request.StartedAt = &now
	case models.MaintenanceStatusResolved:
		request.ResolvedAt = &now
	case models.MaintenanceStatusRejected:
		request.RejectReason = rejectReason
	}

	if err := storage.DB.Save(request).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "maintenance."+target, "maintenance_request", request.ID, nil, request)
	notifyMaintenanceTenant(request)

	ctx.JSON(request)
}

// notifyMaintenanceTenant pushes the status change to the tenant's linked
// account, if any. Best effort.
func notifyMaintenanceTenant(request *models.MaintenanceRequest) {
	if request.TenantID == nil {
		return
	}
	var tenant models.Tenant
	if err := storage.DB.First(&tenant, *request.TenantID).Error; err != nil {
		return
	}
	if tenant.UserID == nil {
		return
	}
	services.NotificationServiceInstance.SendMaintenanceStatusNotificationToTenant(
		request.ID, *tenant.UserID, request.Title, request.Status)
}

func getOwnedMaintenanceRequest(ownerID uint, ctx iris.Context) *models.MaintenanceRequest {
	params := ctx.Params()
	id := params.Get("id")

	var request models.MaintenanceRequest
	requestExists := storage.DB.Find(&request, id)
	if requestExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}
	if requestExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return nil
	}
	if request.OwnerID != ownerID {
		ctx.StatusCode(iris.StatusForbidden)
		return nil
	}
	return &request
}

type CreateMaintenanceRequestInput struct {
	PropertyID  uint   `json:"propertyID" validate:"required"`
	Title       string `json:"title" validate:"required,max=256"`
	Description string `json:"description" validate:"required"`
	Priority    string `json:"priority"`
}

type AssignProviderInput struct {
	PrestataireID uint `json:"prestataireID" validate:"required"`
}

type RejectMaintenanceInput struct {
	Reason string `json:"reason" validate:"required"`
}
