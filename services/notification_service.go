package services

import (
	"fmt"
	"log"
	"time"

	"report-workflow-api/config"
	"report-workflow-api/models"

	"gorm.io/gorm"
)

// NotificationService is the in-process notification dispatcher: it stores
// an in-app notification row and mails the recipient. The recipient's email
// is resolved against the table matching the actor type, since staff and
// portal ids are separate namespaces. Delivery runs in a goroutine and is
// best-effort; failures are logged and never reach the workflow caller.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

func (n *NotificationService) Send(recipientID int, recipientType, title, message string, reportID int) {
	go n.deliver(recipientID, recipientType, title, message, reportID)
}

func (n *NotificationService) deliver(recipientID int, recipientType, title, message string, reportID int) {
	related := uint(reportID)
	notification := models.Notification{
		UserID:          uint(recipientID),
		RecipientType:   recipientType,
		Title:           title,
		Message:         message,
		Type:            "info",
		RelatedReportID: &related,
		CreateAt:        time.Now(),
	}
	if err := n.db.Create(&notification).Error; err != nil {
		log.Printf("notification: failed to store for %s user %d: %v", recipientType, recipientID, err)
	}

	email, err := n.recipientEmail(recipientID, recipientType)
	if err != nil {
		log.Printf("notification: recipient %s/%d not found for email delivery: %v", recipientType, recipientID, err)
		return
	}

	html := fmt.Sprintf("<p>%s</p><p>Report ID: %d</p>", message, reportID)
	if err := config.SendMail([]string{email}, title, html); err != nil {
		log.Printf("notification: failed to mail %s user %d: %v", recipientType, recipientID, err)
	}
}

func (n *NotificationService) recipientEmail(recipientID int, recipientType string) (string, error) {
	if recipientType == models.UserTypePortal {
		var portalUser models.PortalUser
		err := n.db.Select("email").
			Where("portal_user_id = ? AND delete_at IS NULL", recipientID).
			First(&portalUser).Error
		return portalUser.Email, err
	}

	var user models.User
	err := n.db.Select("email").
		Where("user_id = ? AND delete_at IS NULL", recipientID).
		First(&user).Error
	return user.Email, err
}
