package routes

import (
	"github.com/theophane330/HABIPRO-NEW/models"
	"github.com/theophane330/HABIPRO-NEW/storage"
	"github.com/theophane330/HABIPRO-NEW/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

// CreatePrestataire registers a service provider in the owner's address book
func CreatePrestataire(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input PrestataireInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	available := true
	if input.Available != nil {
		available = *input.Available
	}

	prestataire := models.Prestataire{
		OwnerID:     claims.ID,
		Name:        input.Name,
		Specialty:   input.Specialty,
		PhoneNumber: utils.FormatPhoneNumber(input.PhoneNumber),
		Email:       input.Email,
		Rating:      input.Rating,
		Available:   &available,
	}

	if err := storage.DB.Create(&prestataire).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&prestataire)
}

// GetOwnerPrestataires lists the owner's providers, optionally by specialty
func GetOwnerPrestataires(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	query := storage.DB.Where("owner_id = ?", claims.ID)
	if specialty := ctx.URLParam("specialty"); specialty != "" {
		query = query.Where("specialty = ?", specialty)
	}

	var prestataires []models.Prestataire
	if err := query.Order("name ASC").Find(&prestataires).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(prestataires)
}

// UpdatePrestataire edits contact details, rating or availability
func UpdatePrestataire(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	prestataire := getOwnedPrestataire(claims.ID, ctx)
	if prestataire == nil {
		return
	}

	var input PrestataireInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	prestataire.Name = input.Name
	prestataire.Specialty = input.Specialty
	prestataire.PhoneNumber = utils.FormatPhoneNumber(input.PhoneNumber)
	prestataire.Email = input.Email
	prestataire.Rating = input.Rating
	if input.Available != nil {
		prestataire.Available = input.Available
	}

	if err := storage.DB.Save(prestataire).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(prestataire)
}

// DeletePrestataire removes a provider. Requests already assigned to them
// keep their history but lose the reference.
func DeletePrestataire(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	prestataire := getOwnedPrestataire(claims.ID, ctx)
	if prestataire == nil {
		return
	}

	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.MaintenanceRequest{}).
			Where("prestataire_id = ?", prestataire.ID).
			Update("prestataire_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(prestataire).Error
	})
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

func getOwnedPrestataire(ownerID uint, ctx iris.Context) *models.Prestataire {
	params := ctx.Params()
	id := params.Get("id")

	var prestataire models.Prestataire
	prestataireExists := storage.DB.Find(&prestataire, id)
	if prestataireExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}
	if prestataireExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return nil
	}
	if prestataire.OwnerID != ownerID {
		ctx.StatusCode(iris.StatusForbidden)
		return nil
	}
	return &prestataire
}

type PrestataireInput struct {
	Name        string  `json:"name" validate:"required,max=256"`
	Specialty   string  `json:"specialty" validate:"required,max=100"`
	PhoneNumber string  `json:"phoneNumber" validate:"required"`
	Email       string  `json:"email" validate:"omitempty,email"`
	Rating      float32 `json:"rating" validate:"gte=0,lte=5"`
	Available   *bool   `json:"available"`
}
