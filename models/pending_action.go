package models

import "time"

// Pending action types and states. A pending action is the persisted
// request-for-response marker created by requestInitialApproval and
// requestSecondApproval; the matching response operation consumes it.
const (
	ActionInitialApproval = "initial_approval"
	ActionSecondApproval  = "second_approval"

	ActionOpen     = "open"
	ActionConsumed = "consumed"
)

// PendingAction represents an outstanding request awaiting an approver's
// response.
type PendingAction struct {
	ActionID    int        `gorm:"primaryKey;column:action_id" json:"action_id"`
	ReportID    int        `gorm:"column:report_id;index" json:"report_id"`
	ActionType  string     `gorm:"column:action_type" json:"action_type"`
	RequestedBy int        `gorm:"column:requested_by" json:"requested_by"`
	AssigneeID  int        `gorm:"column:assignee_id" json:"assignee_id"`
	State       string     `gorm:"column:state" json:"state"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	ConsumedAt  *time.Time `gorm:"column:consumed_at" json:"consumed_at,omitempty"`
}

// TableName specifies the table for PendingAction.
func (PendingAction) TableName() string {
	return "pending_actions"
}
