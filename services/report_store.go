package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"report-workflow-api/models"

	"gorm.io/gorm"
)

// GormReportStore persists reports in MySQL. Status writes go through a
// conditional UPDATE (status must still be one of the expected values) so
// concurrent transition attempts on the same report serialize instead of
// losing updates.
type GormReportStore struct {
	db *gorm.DB
}

func NewGormReportStore(db *gorm.DB) *GormReportStore {
	return &GormReportStore{db: db}
}

func (s *GormReportStore) Get(reportID int) (*models.Report, error) {
	var report models.Report
	err := s.db.Preload("Department").Preload("Payment").
		Where("report_id = ? AND delete_at IS NULL", reportID).
		First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to load report %d: %w", reportID, err)
	}
	return &report, nil
}

// Transition applies the compare-and-swap status update together with the
// status-history and audit rows in one transaction. RowsAffected == 0 on
// the guarded update means the report either vanished or is no longer in
// an expected status.
func (s *GormReportStore) Transition(reportID int, from []models.ReportStatus, to models.ReportStatus, changedBy int, reason string, extra map[string]interface{}) (*models.Report, error) {
	if !to.IsValid() {
		return nil, fmt.Errorf("unknown report status %q", to)
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var current models.Report
	if err := tx.Where("report_id = ? AND delete_at IS NULL", reportID).First(&current).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to load report %d: %w", reportID, err)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":    to,
		"update_at": now,
	}
	for k, v := range extra {
		updates[k] = v
	}

	res := tx.Model(&models.Report{}).
		Where("report_id = ? AND status IN ? AND delete_at IS NULL", reportID, from).
		Updates(updates)
	if res.Error != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update report %d: %w", reportID, res.Error)
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return nil, &InvalidTransitionError{Current: current.Status, Attempted: to}
	}

	history := models.ReportStatusHistory{
		ReportID:  reportID,
		OldStatus: current.Status,
		NewStatus: to,
		ChangedBy: changedBy,
		CreatedAt: now,
	}
	if reason != "" {
		history.Reason = &reason
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to log status history: %w", err)
	}

	serialized, _ := json.Marshal(map[string]interface{}{
		"old_status": current.Status,
		"new_status": to,
	})
	entityID := reportID
	values := string(serialized)
	audit := models.AuditLog{
		UserID:     changedBy,
		Action:     "transition",
		EntityType: "report",
		EntityID:   &entityID,
		NewValues:  &values,
		CreatedAt:  now,
	}
	if reason != "" {
		audit.Description = &reason
	}
	if current.ReportNumber != "" {
		number := current.ReportNumber
		audit.EntityNumber = &number
	}
	if err := tx.Create(&audit).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to write audit log: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit transition: %w", err)
	}

	return s.Get(reportID)
}

// OpenAction records an outstanding request-for-response marker. At most
// one open marker exists per (report, action type); a repeated request
// while one is already open reports false instead of stacking duplicates.
func (s *GormReportStore) OpenAction(reportID int, actionType string, requestedBy, assigneeID int) (bool, error) {
	var existing models.PendingAction
	err := s.db.Where("report_id = ? AND action_type = ? AND state = ?", reportID, actionType, models.ActionOpen).
		First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to check pending action: %w", err)
	}

	action := models.PendingAction{
		ReportID:    reportID,
		ActionType:  actionType,
		RequestedBy: requestedBy,
		AssigneeID:  assigneeID,
		State:       models.ActionOpen,
		CreatedAt:   time.Now(),
	}
	if err := s.db.Create(&action).Error; err != nil {
		return false, fmt.Errorf("failed to open pending action: %w", err)
	}
	return true, nil
}

// ConsumeAction closes any open marker of the given type for the report.
// A missing marker is not an error: the response may follow a request that
// was delivered out of band.
func (s *GormReportStore) ConsumeAction(reportID int, actionType string) error {
	now := time.Now()
	err := s.db.Model(&models.PendingAction{}).
		Where("report_id = ? AND action_type = ? AND state = ?", reportID, actionType, models.ActionOpen).
		Updates(map[string]interface{}{
			"state":       models.ActionConsumed,
			"consumed_at": now,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to consume pending action: %w", err)
	}
	return nil
}
