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
	"gorm.io/gorm"
)

// CreateVisitRequest is the public entry point for prospects: no account is
// required, contact details are captured on the request itself.
func CreateVisitRequest(ctx iris.Context) {
	var input CreateVisitRequestInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	visitDate, err := time.Parse("2006-01-02T15:04", input.VisitDate)
	if err != nil {
		visitDate, err = time.Parse("2006-01-02", input.VisitDate)
		if err != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error",
				"visitDate must be YYYY-MM-DD or YYYY-MM-DDTHH:MM", ctx)
			return
		}
	}

	var property models.Property
	propertyExists := storage.DB.Find(&property, input.PropertyID)
	if propertyExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if propertyExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	request := models.VisitRequest{
		PropertyID:  property.ID,
		OwnerID:     property.OwnerID,
		FullName:    input.FullName,
		Email:       input.Email,
		PhoneNumber: utils.FormatPhoneNumber(input.PhoneNumber),
		VisitDate:   visitDate,
		Message:     input.Message,
		Status:      models.VisitStatusPending,
	}

	if err := storage.DB.Create(&request).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&request)
}

// GetOwnerVisitRequests lists visit requests on the owner's properties
func GetOwnerVisitRequests(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	query := storage.DB.Preload("Property").Where("owner_id = ?", claims.ID)
	if status := ctx.URLParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.VisitRequest
	if err := query.Order("visit_date ASC").Find(&requests).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(requests)
}

// AcceptVisitRequest confirms the slot and creates a Tenant record from the
// visitor's contact details so the owner can move straight to a lease. The
// visitor may already exist as a tenant of this owner, matched by email.
func AcceptVisitRequest(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	request := getOwnedVisitRequest(claims.ID, ctx)
	if request == nil {
		return
	}

	if request.Status != models.VisitStatusPending {
		handleServiceError(&services.InvalidTransitionError{
			Resource: "visit_request", From: request.Status, To: models.VisitStatusAccepted,
		}, ctx)
		return
	}

	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		var tenant models.Tenant
		tenantExists := tx.
			Where("owner_id = ? AND email = ? AND email <> ''", claims.ID, request.Email).
			Find(&tenant)
		if tenantExists.Error != nil {
			return tenantExists.Error
		}
		if tenantExists.RowsAffected == 0 {
			firstName, lastName := splitFullName(request.FullName)
			tenant = models.Tenant{
				OwnerID:     claims.ID,
				FirstName:   firstName,
				LastName:    lastName,
				Email:       request.Email,
				PhoneNumber: request.PhoneNumber,
			}
			if err := tx.Create(&tenant).Error; err != nil {
				return err
			}
		}

		request.TenantID = &tenant.ID
		request.Status = models.VisitStatusAccepted
		return tx.Save(request).Error
	})
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "visit.accept", "visit_request", request.ID, nil, request)

	var property models.Property
	if err := storage.DB.First(&property, request.PropertyID).Error; err == nil {
		services.NotificationServiceInstance.SendVisitAcceptedNotificationToOwner(
			request.ID, request.PropertyID, request.OwnerID, request.FullName, property.Title)
	}

	ctx.JSON(request)
}

// DeclineVisitRequest turns a pending request down
func DeclineVisitRequest(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	request := getOwnedVisitRequest(claims.ID, ctx)
	if request == nil {
		return
	}

	if request.Status != models.VisitStatusPending {
		handleServiceError(&services.InvalidTransitionError{
			Resource: "visit_request", From: request.Status, To: models.VisitStatusDeclined,
		}, ctx)
		return
	}

	request.Status = models.VisitStatusDeclined
	if err := storage.DB.Save(request).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "visit.decline", "visit_request", request.ID, nil, request)

	ctx.JSON(request)
}

func getOwnedVisitRequest(ownerID uint, ctx iris.Context) *models.VisitRequest {
	params := ctx.Params()
	id := params.Get("id")

	var request models.VisitRequest
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

func splitFullName(fullName string) (string, string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

type CreateVisitRequestInput struct {
	PropertyID  uint   `json:"propertyID" validate:"required"`
	FullName    string `json:"fullName" validate:"required,max=256"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	VisitDate   string `json:"visitDate" validate:"required"`
	Message     string `json:"message"`
}
