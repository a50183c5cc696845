package models

import "time"

// Notification is an in-app message for a staff or portal actor. Staff and
// portal ids overlap, so rows carry the recipient type alongside the id.
type Notification struct {
	NotificationID  uint       `gorm:"primaryKey;column:notification_id" json:"notification_id"`
	UserID          uint       `gorm:"column:user_id" json:"user_id"`
	RecipientType   string     `gorm:"column:recipient_type" json:"recipient_type"` // staff|portal
	Title           string     `gorm:"column:title" json:"title"`
	Message         string     `gorm:"column:message" json:"message"`
	Type            string     `gorm:"column:type" json:"type"` // info|success|warning|error
	RelatedReportID *uint      `gorm:"column:related_report_id" json:"related_report_id,omitempty"`
	IsRead          bool       `gorm:"column:is_read" json:"is_read"`
	CreateAt        time.Time  `gorm:"column:create_at" json:"created_at"`
	UpdateAt        *time.Time `gorm:"column:update_at" json:"-"`
}

func (Notification) TableName() string { return "notifications" }
