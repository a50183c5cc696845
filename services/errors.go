package services

import (
	"errors"
	"fmt"

	"report-workflow-api/models"
)

// Workflow error taxonomy. Controllers translate these to HTTP statuses;
// none of them is retried internally.
var (
	ErrReportNotFound     = errors.New("report not found")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrForbidden          = errors.New("forbidden")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrPaymentNotVerified = errors.New("payment not verified")
)

// InvalidTransitionError reports an operation that is not valid from the
// report's current status. Both statuses are carried for diagnostics.
type InvalidTransitionError struct {
	Current   models.ReportStatus
	Attempted models.ReportStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: report is %s, attempted %s", e.Current, e.Attempted)
}

// IsInvalidTransition reports whether err wraps an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var target *InvalidTransitionError
	return errors.As(err, &target)
}
