package models

import "time"

// Payment status values set by the external payment-processing actor.
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusConfirmed = "CONFIRMED"
	PaymentStatusCompleted = "COMPLETED"
)

// Payment represents the payments table. Zero-or-one payment per report;
// the row is created when a report is routed into PAYMENT_PENDING and its
// lifetime is owned by that report.
type Payment struct {
	PaymentID     int        `gorm:"primaryKey;column:payment_id" json:"payment_id"`
	ReportID      int        `gorm:"column:report_id;index" json:"report_id"`
	Reference     string     `gorm:"column:reference;unique" json:"reference"`
	Price         *float64   `gorm:"column:price" json:"price,omitempty"` // unset until an admin sets it
	PaymentStatus string     `gorm:"column:payment_status" json:"payment_status"`
	AuthorID      int        `gorm:"column:author_id" json:"author_id"`
	CreateAt      time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt      time.Time  `gorm:"column:update_at" json:"update_at"`
	ConfirmedAt   *time.Time `gorm:"column:confirmed_at" json:"confirmed_at,omitempty"`
}

// TableName overrides
func (Payment) TableName() string {
	return "payments"
}
