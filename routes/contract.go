package routes

import (
	"encoding/json"
	"time"

	"github.com/theophane330/HABIPRO-NEW/models"
	"github.com/theophane330/HABIPRO-NEW/services"
	"github.com/theophane330/HABIPRO-NEW/storage"
	"github.com/theophane330/HABIPRO-NEW/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/exp/slices"
	"gorm.io/datatypes"
)

var contractTypes = []string{models.ContractTypeRental, models.ContractTypeSale}
var paymentFrequencies = []string{"Mensuel", "Trimestriel", "Semestriel", "Annuel"}

func CreateContract(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreateContractInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !slices.Contains(contractTypes, input.ContractType) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "contractType must be Location or Vente", ctx)
		return
	}
	if input.PaymentFrequency != "" && !slices.Contains(paymentFrequencies, input.PaymentFrequency) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "unknown payment frequency", ctx)
		return
	}

	startDate, err := time.Parse("2006-01-02", input.StartDate)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "startDate must be YYYY-MM-DD", ctx)
		return
	}

	tenant := getOwnedTenant(input.TenantID, claims.ID, ctx)
	if tenant == nil {
		return
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
	if property.OwnerID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	// Optional one-to-one lease link
	if input.LeaseID != nil {
		var lease models.Lease
		leaseExists := storage.DB.Find(&lease, *input.LeaseID)
		if leaseExists.RowsAffected == 0 {
			utils.CreateNotFound(ctx)
			return
		}
		if lease.OwnerID != claims.ID {
			ctx.StatusCode(iris.StatusForbidden)
			return
		}
	}

	clauses := input.Clauses
	if clauses == nil {
		clauses = []string{}
	}
	clausesJSON, _ := json.Marshal(clauses)

	contract := models.Contract{
		OwnerID:          claims.ID,
		TenantID:         input.TenantID,
		PropertyID:       input.PropertyID,
		LeaseID:          input.LeaseID,
		ContractType:     input.ContractType,
		Purpose:          input.Purpose,
		Amount:           input.Amount,
		SecurityDeposit:  input.SecurityDeposit,
		PaymentFrequency: input.PaymentFrequency,
		PaymentMethod:    input.PaymentMethod,
		Clauses:          datatypes.JSON(clausesJSON),
		Status:           models.ContractStatusDraft,
		StartDate:        startDate,
	}

	if err := storage.DB.Create(&contract).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "contract.create", "contract", contract.ID, nil, contract)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&contract)
}

// SignContract activates a draft contract
func SignContract(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	contract := getOwnedContract(claims.ID, ctx)
	if contract == nil {
		return
	}

	if contract.IsTerminal() {
		handleServiceError(&services.InvalidTransitionError{
			Resource: "contract", From: contract.Status, To: models.ContractStatusActive}, ctx)
		return
	}
	if contract.Status == models.ContractStatusActive {
		utils.JSONError(ctx, iris.StatusConflict, "conflict", "contract is already active")
		return
	}

	now := time.Now()
	contract.Status = models.ContractStatusActive
	contract.SignedAt = &now
	if err := storage.DB.Save(contract).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "contract.sign", "contract", contract.ID,
		iris.Map{"status": models.ContractStatusDraft}, iris.Map{"status": contract.Status})

	ctx.JSON(contract)
}

// TerminateContract closes an active contract (terminated or expired)
func TerminateContract(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	contract := getOwnedContract(claims.ID, ctx)
	if contract == nil {
		return
	}

	var input TerminateContractInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	target := models.ContractStatusTerminated
	if input.Reason == "expired" {
		target = models.ContractStatusExpired
	}

	if contract.IsTerminal() {
		handleServiceError(&services.InvalidTransitionError{
			Resource: "contract", From: contract.Status, To: target}, ctx)
		return
	}

	before := contract.Status
	now := time.Now()
	contract.Status = target
	contract.EndDate = &now
	if err := storage.DB.Save(contract).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "contract.terminate", "contract", contract.ID,
		iris.Map{"status": before}, iris.Map{"status": contract.Status, "reason": input.Reason})

	ctx.JSON(contract)
}

func GetOwnerContracts(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	status := ctx.URLParamDefault("status", "")

	q := storage.DB.Preload("Tenant").Preload("Property").
		Where("owner_id = ?", claims.ID).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var contracts []models.Contract
	if err := q.Find(&contracts).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(contracts)
}

// GetTenantContracts lists the contracts of the calling tenant account
func GetTenantContracts(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	tenant := tenantForUser(claims.ID, ctx)
	if tenant == nil {
		return
	}

	var contracts []models.Contract
	if err := storage.DB.Preload("Property").
		Where("tenant_id = ?", tenant.ID).Order("created_at DESC").
		Find(&contracts).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(contracts)
}

func getOwnedContract(ownerID uint, ctx iris.Context) *models.Contract {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return nil
	}

	var contract models.Contract
	contractExists := storage.DB.Find(&contract, id)
	if contractExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}
	if contractExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return nil
	}
	if contract.OwnerID != ownerID {
		ctx.StatusCode(iris.StatusForbidden)
		return nil
	}
	return &contract
}

// tenantForUser resolves the Tenant record linked to a locataire account
func tenantForUser(userID uint, ctx iris.Context) *models.Tenant {
	var tenant models.Tenant
	tenantExists := storage.DB.Where("user_id = ?", userID).Limit(1).Find(&tenant)
	if tenantExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}
	if tenantExists.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "No tenant record linked to this account", ctx)
		return nil
	}
	return &tenant
}

type CreateContractInput struct {
	TenantID         uint     `json:"tenantID" validate:"required"`
	PropertyID       uint     `json:"propertyID" validate:"required"`
	LeaseID          *uint    `json:"leaseID"`
	ContractType     string   `json:"contractType" validate:"required"`
	Purpose          string   `json:"purpose"`
	Amount           float64  `json:"amount" validate:"gte=0"`
	SecurityDeposit  string   `json:"securityDeposit" validate:"max=100"`
	PaymentFrequency string   `json:"paymentFrequency"`
	PaymentMethod    string   `json:"paymentMethod"`
	Clauses          []string `json:"clauses"`
	StartDate        string   `json:"startDate" validate:"required"`
}

type TerminateContractInput struct {
	Reason string `json:"reason" validate:"max=255"`
}
