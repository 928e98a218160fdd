package routes

import (
	"time"

	"github.com/theophane330/HABIPRO-NEW/models"
	"github.com/theophane330/HABIPRO-NEW/storage"
	"github.com/theophane330/HABIPRO-NEW/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// GetNotifications lists the caller's in-app notifications, newest first.
// Pass unread=true to only return unread ones.
func GetNotifications(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	query := storage.DB.Where("user_id = ?", claims.ID)
	if ctx.URLParam("unread") == "true" {
		query = query.Where("read_at IS NULL")
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Limit(100).Find(&notifications).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var unreadCount int64
	if err := storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", claims.ID).
		Count(&unreadCount).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"notifications": notifications,
		"unread_count":  unreadCount,
	})
}

// MarkNotificationRead stamps a single notification as read
func MarkNotificationRead(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	params := ctx.Params()
	id := params.Get("id")

	var notification models.Notification
	notificationExists := storage.DB.
		Where("user_id = ?", claims.ID).Find(&notification, id)
	if notificationExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if notificationExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	if notification.ReadAt == nil {
		now := time.Now()
		notification.ReadAt = &now
		if err := storage.DB.Save(&notification).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	ctx.JSON(&notification)
}

// MarkAllNotificationsRead stamps every unread notification of the caller
func MarkAllNotificationsRead(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	now := time.Now()
	result := storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", claims.ID).
		Update("read_at", &now)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"marked": result.RowsAffected})
}
