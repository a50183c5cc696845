package models

import "time"

// ReportStatusHistory tracks historical status changes for reports.
type ReportStatusHistory struct {
	HistoryID int          `gorm:"primaryKey;column:history_id" json:"history_id"`
	ReportID  int          `gorm:"column:report_id" json:"report_id"`
	OldStatus ReportStatus `gorm:"column:old_status" json:"old_status"`
	NewStatus ReportStatus `gorm:"column:new_status" json:"new_status"`
	ChangedBy int          `gorm:"column:changed_by" json:"changed_by"`
	Reason    *string      `gorm:"column:reason" json:"reason"`
	Notes     *string      `gorm:"column:notes" json:"notes"`
	CreatedAt time.Time    `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table for ReportStatusHistory.
func (ReportStatusHistory) TableName() string {
	return "report_status_history"
}
