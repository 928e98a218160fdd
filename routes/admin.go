package routes

import (
	"strconv"

	"github.com/theophane330/HABIPRO-NEW/models"
	"github.com/theophane330/HABIPRO-NEW/storage"
	"github.com/theophane330/HABIPRO-NEW/utils"

	"github.com/kataras/iris/v12"
)

// AdminListUsers pages through all accounts
func AdminListUsers(ctx iris.Context) {
	page, perPage := pageParams(ctx)

	var total int64
	if err := storage.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var users []models.User
	if err := storage.DB.Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&users).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, users, page, perPage, total)
}

// AdminListAuditLogs pages through the audit trail, optionally filtered by
// action or resource type.
func AdminListAuditLogs(ctx iris.Context) {
	page, perPage := pageParams(ctx)

	query := storage.DB.Model(&models.AuditLog{})
	if action := ctx.URLParam("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if resourceType := ctx.URLParam("resource_type"); resourceType != "" {
		query = query.Where("resource_type = ?", resourceType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var logs []models.AuditLog
	if err := query.Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&logs).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, logs, page, perPage, total)
}

func pageParams(ctx iris.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.URLParamDefault("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(ctx.URLParamDefault("per_page", "50"))
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}
	return page, perPage
}
