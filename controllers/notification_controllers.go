package controllers

import (
	"strconv"

	"codereview/config"
	"codereview/dto"
	"codereview/middleware"
	"codereview/models"
	"codereview/response"

	"github.com/gin-gonic/gin"
)

// GetNotifications lists the caller's notifications, newest first.
func GetNotifications(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	var notifications []models.Notification
	err := config.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(50).
		Find(&notifications).Error
	if err != nil {
		response.ServerError(c)
		return
	}

	var unread int64
	err = config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unread).Error
	if err != nil {
		response.ServerError(c)
		return
	}

	items := make([]dto.NotificationItem, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, dto.NotificationItem{
			ID:        n.ID,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}

	response.Success(c, dto.NotificationList{
		Notifications: items,
		UnreadCount:   int(unread),
	})
}

// MarkNotificationRead marks one of the caller's notifications as read.
func MarkNotificationRead(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid notification id.")
		return
	}

	var notification models.Notification
	if err := config.DB.Where("id = ? AND user_id = ?", id, userID).First(&notification).Error; err != nil {
		response.NotFound(c)
		return
	}

	if !notification.IsRead {
		if err := config.DB.Model(&notification).Update("is_read", true).Error; err != nil {
			response.ServerError(c)
			return
		}
	}

	response.Success(c, gin.H{"message": "Notification marked as read."})
}
