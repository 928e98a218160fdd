package routes

import (
	"encoding/json"

	"github.com/theophane330/HABIPRO-NEW/models"
	"github.com/theophane330/HABIPRO-NEW/storage"
	"github.com/theophane330/HABIPRO-NEW/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/exp/slices"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

var propertyTypes = []string{"villa", "appartement", "studio", "duplex", "maison", "bureau", "commerce"}

// manualPropertyStatuses are the statuses an owner may set directly. "loué"
// is excluded: only the lease engine sets and clears it.
var manualPropertyStatuses = []string{
	models.PropertyStatusAvailable,
	models.PropertyStatusForSale,
	models.PropertyStatusMaintenance,
}

func CreateProperty(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreatePropertyInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !slices.Contains(propertyTypes, input.PropertyType) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "unknown property type", ctx)
		return
	}

	// Ensure arrays are never null
	amenities := input.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	amenitiesJSON, _ := json.Marshal(amenities)

	images := input.Images
	if images == nil {
		images = []string{}
	}
	imagesJSON, _ := json.Marshal(images)

	city := input.City
	if city == "" {
		city = "Abidjan"
	}
	currency := input.Currency
	if currency == "" {
		currency = "XOF"
	}

	isActive := true

	property := models.Property{
		OwnerID:        claims.ID,
		Title:          input.Title,
		Description:    input.Description,
		PropertyType:   input.PropertyType,
		Status:         models.PropertyStatusAvailable,
		Address:        input.Address,
		District:       input.District,
		City:           city,
		Lat:            input.Lat,
		Lng:            input.Lng,
		Surface:        input.Surface,
		Bedrooms:       input.Bedrooms,
		Bathrooms:      input.Bathrooms,
		LivingRooms:    input.LivingRooms,
		Floor:          input.Floor,
		Furnished:      input.Furnished,
		MonthlyRent:    input.MonthlyRent,
		SalePrice:      input.SalePrice,
		Deposit:        input.Deposit,
		AgencyFees:     input.AgencyFees,
		MonthlyCharges: input.MonthlyCharges,
		Currency:       currency,
		Amenities:      datatypes.JSON(amenitiesJSON),
		Images:         datatypes.JSON(imagesJSON),
		IsActive:       &isActive,
	}

	result := storage.DB.Create(&property)
	if result.Error != nil {
		utils.CreateError(
			iris.StatusInternalServerError,
			"Error", "Failed to create property", ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&property)
}

func GetProperty(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var property models.Property
	propertyExists := storage.DB.Preload("Leases").Find(&property, id)
	if propertyExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if propertyExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	storage.DB.Model(&property).UpdateColumn("view_count", property.ViewCount+1)

	ctx.JSON(&property)
}

func GetOwnerProperties(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var properties []models.Property
	propertiesExist := storage.DB.Preload(clause.Associations).Where("owner_id = ?", claims.ID).Find(&properties)
	if propertiesExist.Error != nil {
		utils.CreateError(
			iris.StatusInternalServerError,
			"Error", propertiesExist.Error.Error(), ctx)
		return
	}

	ctx.JSON(properties)
}

func UpdateProperty(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	claims := jwt.Get(ctx).(*utils.AccessToken)

	var property models.Property
	propertyExists := storage.DB.Find(&property, id)
	if propertyExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if propertyExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	if property.OwnerID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	var input UpdatePropertyInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	amenitiesJSON, _ := json.Marshal(input.Amenities)
	imagesJSON, _ := json.Marshal(input.Images)

	property.Title = input.Title
	property.Description = input.Description
	property.Address = input.Address
	property.District = input.District
	property.City = input.City
	property.Surface = input.Surface
	property.Bedrooms = input.Bedrooms
	property.Bathrooms = input.Bathrooms
	property.LivingRooms = input.LivingRooms
	property.Floor = input.Floor
	property.Furnished = input.Furnished
	property.MonthlyRent = input.MonthlyRent
	property.SalePrice = input.SalePrice
	property.Deposit = input.Deposit
	property.AgencyFees = input.AgencyFees
	property.MonthlyCharges = input.MonthlyCharges
	property.Amenities = datatypes.JSON(amenitiesJSON)
	property.Images = datatypes.JSON(imagesJSON)

	rowsUpdated := storage.DB.Model(&property).Updates(property)
	if rowsUpdated.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(&property)
}

// UpdatePropertyStatus handles manual status changes (disponible, en_vente,
// maintenance). Switching to or from "loué" goes through the lease routes.
func UpdatePropertyStatus(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	claims := jwt.Get(ctx).(*utils.AccessToken)

	var property models.Property
	propertyExists := storage.DB.Find(&property, id)
	if propertyExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if propertyExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	if property.OwnerID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	var input UpdatePropertyStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !slices.Contains(manualPropertyStatuses, input.Status) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"status must be one of disponible, en_vente, maintenance", ctx)
		return
	}

	if property.Status == models.PropertyStatusRented {
		utils.JSONError(ctx, iris.StatusConflict, "conflict",
			"property has an active lease; terminate it first")
		return
	}

	before := property.Status
	property.Status = input.Status
	if err := storage.DB.Model(&property).Update("status", input.Status).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "property.status", "property", property.ID,
		iris.Map{"status": before}, iris.Map{"status": input.Status})

	ctx.JSON(&property)
}

func DeleteProperty(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var property models.Property
	propertyExists := storage.DB.Find(&property, id)
	if propertyExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if propertyExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)

	if property.OwnerID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	var activeLeases int64
	storage.DB.Model(&models.Lease{}).
		Where("property_id = ? AND status = ?", property.ID, models.LeaseStatusActive).
		Count(&activeLeases)
	if activeLeases > 0 {
		utils.JSONError(ctx, iris.StatusConflict, "conflict",
			"property has an active lease; terminate it first")
		return
	}

	propertyDeleted := storage.DB.Delete(&models.Property{}, id)
	if propertyDeleted.Error != nil {
		utils.CreateError(
			iris.StatusInternalServerError,
			"Error", propertyDeleted.Error.Error(), ctx)
		return
	}

	utils.Audit(ctx, "property.delete", "property", property.ID, property, nil)

	ctx.StatusCode(iris.StatusNoContent)
}

type CreatePropertyInput struct {
	Title          string   `json:"title" validate:"required,max=256"`
	Description    string   `json:"description"`
	PropertyType   string   `json:"propertyType" validate:"required"`
	Address        string   `json:"address" validate:"required,max=512"`
	District       string   `json:"district" validate:"max=256"`
	City           string   `json:"city" validate:"max=256"`
	Lat            float32  `json:"lat"`
	Lng            float32  `json:"lng"`
	Surface        float32  `json:"surface"`
	Bedrooms       int      `json:"bedrooms"`
	Bathrooms      int      `json:"bathrooms"`
	LivingRooms    int      `json:"livingRooms"`
	Floor          *int     `json:"floor"`
	Furnished      bool     `json:"furnished"`
	MonthlyRent    float64  `json:"monthlyRent" validate:"gte=0"`
	SalePrice      *float64 `json:"salePrice"`
	Deposit        float64  `json:"deposit" validate:"gte=0"`
	AgencyFees     float64  `json:"agencyFees" validate:"gte=0"`
	MonthlyCharges float64  `json:"monthlyCharges" validate:"gte=0"`
	Currency       string   `json:"currency"`
	Amenities      []string `json:"amenities"`
	Images         []string `json:"images"`
}

type UpdatePropertyInput struct {
	Title          string   `json:"title" validate:"required,max=256"`
	Description    string   `json:"description"`
	Address        string   `json:"address" validate:"required,max=512"`
	District       string   `json:"district" validate:"max=256"`
	City           string   `json:"city" validate:"max=256"`
	Surface        float32  `json:"surface"`
	Bedrooms       int      `json:"bedrooms"`
	Bathrooms      int      `json:"bathrooms"`
	LivingRooms    int      `json:"livingRooms"`
	Floor          *int     `json:"floor"`
	Furnished      bool     `json:"furnished"`
	MonthlyRent    float64  `json:"monthlyRent" validate:"gte=0"`
	SalePrice      *float64 `json:"salePrice"`
	Deposit        float64  `json:"deposit" validate:"gte=0"`
	AgencyFees     float64  `json:"agencyFees" validate:"gte=0"`
	MonthlyCharges float64  `json:"monthlyCharges" validate:"gte=0"`
	Amenities      []string `json:"amenities"`
	Images         []string `json:"images"`
}

type UpdatePropertyStatusInput struct {
	Status string `json:"status" validate:"required"`
}
