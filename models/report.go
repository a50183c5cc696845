package models

import "time"

// ReportStatus is the workflow status of a report / publication request.
type ReportStatus string

const (
	StatusPendingDepartmentAssignment ReportStatus = "PENDING_DEPARTMENT_ASSIGNMENT"
	StatusPendingApproval             ReportStatus = "PENDING_APPROVAL"
	StatusPending                     ReportStatus = "PENDING"
	StatusInitialApproval             ReportStatus = "INITIAL_APPROVAL"
	StatusPaymentPending              ReportStatus = "PAYMENT_PENDING"
	StatusPaymentVerified             ReportStatus = "PAYMENT_VERIFIED"
	StatusDeputyApproved              ReportStatus = "DEPUTY_APPROVED"
	StatusFinalApproval               ReportStatus = "FINAL_APPROVAL"
	StatusApproved                    ReportStatus = "APPROVED"
	StatusRejected                    ReportStatus = "Rejected"
	StatusPublished                   ReportStatus = "PUBLISHED"
)

var reportStatuses = map[ReportStatus]bool{
	StatusPendingDepartmentAssignment: true,
	StatusPendingApproval:             true,
	StatusPending:                     true,
	StatusInitialApproval:             true,
	StatusPaymentPending:              true,
	StatusPaymentVerified:             true,
	StatusDeputyApproved:              true,
	StatusFinalApproval:               true,
	StatusApproved:                    true,
	StatusRejected:                    true,
	StatusPublished:                   true,
}

// IsValid reports whether s is a member of the status enumeration.
func (s ReportStatus) IsValid() bool {
	return reportStatuses[s]
}

// IsTerminal reports whether no further workflow transition is defined from s.
func (s ReportStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusPublished
}

// Report represents the reports table. A report and a publication request
// are the same trackable entity moving through the approval workflow.
type Report struct {
	ReportID        int          `gorm:"primaryKey;column:report_id" json:"report_id"`
	ReportNumber    string       `gorm:"column:report_number;unique" json:"report_number"`
	Title           string       `gorm:"column:title" json:"title"`
	Description     *string      `gorm:"column:description" json:"description,omitempty"`
	Status          ReportStatus `gorm:"column:status" json:"status"`
	DepartmentID    *int         `gorm:"column:department_id" json:"department_id,omitempty"`
	AuthorID        int          `gorm:"column:author_id" json:"author_id"`
	AuthorType      string       `gorm:"column:author_type" json:"author_type"` // staff|portal
	Category        *string      `gorm:"column:category" json:"category,omitempty"`
	AdminUnits      *string      `gorm:"column:admin_units" json:"admin_units,omitempty"`
	PaymentRequired bool         `gorm:"column:payment_required" json:"payment_required"`
	PaymentID       *int         `gorm:"column:payment_id" json:"payment_id,omitempty"`
	CreateAt        time.Time    `gorm:"column:create_at" json:"create_at"`
	UpdateAt        time.Time    `gorm:"column:update_at" json:"update_at"`
	DeleteAt        *time.Time   `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Author     *User       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Payment    *Payment    `gorm:"foreignKey:PaymentID" json:"payment,omitempty"`
}

// TableName overrides
func (Report) TableName() string {
	return "reports"
}
