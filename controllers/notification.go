package controllers

import (
	"net/http"
	"strconv"
	"time"

	"report-workflow-api/config"
	"report-workflow-api/models"

	"github.com/gin-gonic/gin"
)

// GetNotifications lists the caller's notifications, newest first. Rows
// are scoped by (id, recipient type): a portal user never sees the staff
// user sharing their numeric id.
func GetNotifications(c *gin.Context) {
	userID, userType, ok := actingActor(c)
	if !ok {
		return
	}

	var notifications []models.Notification
	err := config.DB.
		Where("user_id = ? AND recipient_type = ?", userID, userType).
		Order("create_at DESC").
		Limit(100).
		Find(&notifications).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	unread := 0
	for _, n := range notifications {
		if !n.IsRead {
			unread++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"notifications": notifications,
		"unread":        unread,
	})
}

// MarkNotificationRead marks one of the caller's notifications as read.
func MarkNotificationRead(c *gin.Context) {
	notificationID, err := strconv.Atoi(c.Param("id"))
	if err != nil || notificationID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	userID, userType, ok := actingActor(c)
	if !ok {
		return
	}

	now := time.Now()
	res := config.DB.Model(&models.Notification{}).
		Where("notification_id = ? AND user_id = ? AND recipient_type = ?", notificationID, userID, userType).
		Updates(map[string]interface{}{
			"is_read":   true,
			"update_at": now,
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
