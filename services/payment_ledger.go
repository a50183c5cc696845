package services

import (
	"errors"
	"fmt"
	"time"

	"report-workflow-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPaymentLedger stores payment records in MySQL. A payment is created
// PENDING when its report is routed into PAYMENT_PENDING; an external
// payment-processing actor later confirms it.
type GormPaymentLedger struct {
	db *gorm.DB
}

func NewGormPaymentLedger(db *gorm.DB) *GormPaymentLedger {
	return &GormPaymentLedger{db: db}
}

func (l *GormPaymentLedger) Get(paymentID int) (*models.Payment, error) {
	var payment models.Payment
	err := l.db.Where("payment_id = ?", paymentID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to load payment %d: %w", paymentID, err)
	}
	return &payment, nil
}

// GetByReport returns the report's payment, or (nil, nil) when none exists.
func (l *GormPaymentLedger) GetByReport(reportID int) (*models.Payment, error) {
	var payment models.Payment
	err := l.db.Where("report_id = ?", reportID).Order("payment_id DESC").First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load payment for report %d: %w", reportID, err)
	}
	return &payment, nil
}

func (l *GormPaymentLedger) Create(reportID, authorID int) (*models.Payment, error) {
	now := time.Now()
	payment := models.Payment{
		ReportID:      reportID,
		Reference:     uuid.NewString(),
		PaymentStatus: models.PaymentStatusPending,
		AuthorID:      authorID,
		CreateAt:      now,
		UpdateAt:      now,
	}
	if err := l.db.Create(&payment).Error; err != nil {
		return nil, fmt.Errorf("failed to create payment for report %d: %w", reportID, err)
	}
	return &payment, nil
}

// SetPrice records the amount due. The price may stay unset until an admin
// fills it in.
func (l *GormPaymentLedger) SetPrice(paymentID int, price float64) (*models.Payment, error) {
	res := l.db.Model(&models.Payment{}).
		Where("payment_id = ?", paymentID).
		Updates(map[string]interface{}{
			"price":     price,
			"update_at": time.Now(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to set price for payment %d: %w", paymentID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrPaymentNotFound
	}
	return l.Get(paymentID)
}

// MarkConfirmed flips a PENDING payment to CONFIRMED. Confirming an already
// confirmed payment is a no-op returning the current record.
func (l *GormPaymentLedger) MarkConfirmed(paymentID int) (*models.Payment, error) {
	now := time.Now()
	res := l.db.Model(&models.Payment{}).
		Where("payment_id = ? AND payment_status = ?", paymentID, models.PaymentStatusPending).
		Updates(map[string]interface{}{
			"payment_status": models.PaymentStatusConfirmed,
			"confirmed_at":   now,
			"update_at":      now,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to confirm payment %d: %w", paymentID, res.Error)
	}
	return l.Get(paymentID)
}
