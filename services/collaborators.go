package services

import "report-workflow-api/models"

// ReportStore is the persisted report/request state the workflow engine
// mutates. Transition is the only status write path: it performs an atomic
// conditional update (status must still be one of from) and appends the
// status-history and audit rows in the same transaction.
type ReportStore interface {
	Get(reportID int) (*models.Report, error)
	Transition(reportID int, from []models.ReportStatus, to models.ReportStatus, changedBy int, reason string, extra map[string]interface{}) (*models.Report, error)
	// OpenAction records a request-for-response marker. At most one open
	// marker exists per (report, action type); the boolean reports whether
	// this call opened a new one.
	OpenAction(reportID int, actionType string, requestedBy, assigneeID int) (bool, error)
	ConsumeAction(reportID int, actionType string) error
}

// DepartmentDirectory resolves departments, their heads, and a user's own
// department. Lookups that can legitimately come up empty return (nil, nil);
// callers decide whether that makes the operation unavailable.
type DepartmentDirectory interface {
	GetDepartment(departmentID int) (*models.Department, error)
	GetHead(departmentID int) (*models.User, error)
	GetDepartmentOfUser(userID int) (*models.Department, error)
	HeadOfUsersDepartment(userID int) (*models.User, error)
	IsDepartmentHead(userID int) (bool, error)
	DisseminationHead() (*models.User, error)
}

// PaymentLedger records payment state for payment-required requests.
type PaymentLedger interface {
	Get(paymentID int) (*models.Payment, error)
	GetByReport(reportID int) (*models.Payment, error)
	Create(reportID, authorID int) (*models.Payment, error)
	MarkConfirmed(paymentID int) (*models.Payment, error)
}

// NotificationDispatcher delivers status-change messages. Staff and portal
// actors live in separate id namespaces, so the recipient is identified by
// (id, actor type). Delivery is asynchronous, at-most-once and best-effort:
// implementations must never block the caller or propagate failures.
type NotificationDispatcher interface {
	Send(recipientID int, recipientType, title, message string, reportID int)
}
