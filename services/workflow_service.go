package services

import (
	"errors"
	"fmt"
	"log"

	"report-workflow-api/models"
)

// SystemActorID marks status changes driven by external events (payment
// confirmation) rather than a logged-in user.
const SystemActorID = 0

// WorkflowService enforces the publication-request approval state machine.
// Every operation takes the acting user explicitly, validates before any
// write, and persists transitions through the store's conditional update.
//
// Staff and portal users carry independent integer ids, so every identity
// comparison pairs the id with the actor type. Approver roles (department
// head, dissemination head, deputy) are always staff.
type WorkflowService struct {
	reports  ReportStore
	dir      DepartmentDirectory
	ledger   PaymentLedger
	notifier NotificationDispatcher
}

func NewWorkflowService(reports ReportStore, dir DepartmentDirectory, ledger PaymentLedger, notifier NotificationDispatcher) *WorkflowService {
	return &WorkflowService{
		reports:  reports,
		dir:      dir,
		ledger:   ledger,
		notifier: notifier,
	}
}

// AssignDepartment routes a freshly created request to its owning
// department. PENDING_DEPARTMENT_ASSIGNMENT -> PENDING_APPROVAL.
func (s *WorkflowService) AssignDepartment(reportID, departmentID, actingUserID int) (*models.Report, error) {
	dept, err := s.dir.GetDepartment(departmentID)
	if err != nil {
		return nil, err
	}

	report, err := s.reports.Transition(reportID,
		[]models.ReportStatus{models.StatusPendingDepartmentAssignment},
		models.StatusPendingApproval,
		actingUserID,
		fmt.Sprintf("assigned to department %s", dept.DepartmentName),
		map[string]interface{}{"department_id": dept.DepartmentID},
	)
	if err != nil {
		return nil, err
	}

	s.notifier.Send(report.AuthorID, report.AuthorType, "Report routed",
		fmt.Sprintf("Report %s was assigned to %s and is awaiting department approval", report.ReportNumber, dept.DepartmentName),
		report.ReportID)
	return report, nil
}

// RequestInitialApproval asks the head of the report's department for the
// first-stage decision. It records an open pending action and notifies the
// head; the status changes only when the head responds. Repeating the
// request while a marker is already open is a no-op.
func (s *WorkflowService) RequestInitialApproval(reportID, fromUserID int, fromUserType string) error {
	report, err := s.reports.Get(reportID)
	if err != nil {
		return err
	}
	if report.AuthorID != fromUserID || report.AuthorType != fromUserType {
		return ErrForbidden
	}
	if report.Status != models.StatusPendingApproval {
		return &InvalidTransitionError{Current: report.Status, Attempted: models.StatusInitialApproval}
	}
	if report.DepartmentID == nil {
		return fmt.Errorf("%w: report has no department assigned", ErrPreconditionFailed)
	}

	head, err := s.dir.GetHead(*report.DepartmentID)
	if err != nil {
		return err
	}
	if head == nil {
		return fmt.Errorf("%w: department has no head assigned", ErrPreconditionFailed)
	}

	opened, err := s.reports.OpenAction(reportID, models.ActionInitialApproval, fromUserID, head.UserID)
	if err != nil {
		return err
	}
	if !opened {
		return nil
	}

	s.notifier.Send(head.UserID, models.UserTypeStaff, "Initial approval requested",
		fmt.Sprintf("Report %s is awaiting your department's initial approval", report.ReportNumber),
		report.ReportID)
	return nil
}

// IsReportDepartmentHead reports whether the actor is the head of the
// department handling the report. Heads are staff; portal actors are never
// heads regardless of id. Pure query, no side effects.
func (s *WorkflowService) IsReportDepartmentHead(reportID, userID int, userType string) (bool, error) {
	report, err := s.reports.Get(reportID)
	if err != nil {
		return false, err
	}
	if userType != models.UserTypeStaff {
		return false, nil
	}
	if report.DepartmentID == nil {
		return false, nil
	}
	head, err := s.dir.GetHead(*report.DepartmentID)
	if err != nil {
		return false, err
	}
	return head != nil && head.UserID == userID, nil
}

// InitialRequestResponse is the department head's decision on an initial
// approval request. Accept moves the report to INITIAL_APPROVAL, deny to
// Rejected; only the head of the report's department may respond.
func (s *WorkflowService) InitialRequestResponse(status models.ReportStatus, reportID, fromUserID int, fromUserType string) (*models.Report, error) {
	report, err := s.reports.Get(reportID)
	if err != nil {
		return nil, err
	}

	if status != models.StatusInitialApproval && status != models.StatusRejected {
		return nil, &InvalidTransitionError{Current: report.Status, Attempted: status}
	}

	isHead, err := s.IsReportDepartmentHead(reportID, fromUserID, fromUserType)
	if err != nil {
		return nil, err
	}
	if !isHead {
		return nil, ErrForbidden
	}

	updated, err := s.reports.Transition(reportID,
		[]models.ReportStatus{models.StatusPendingApproval},
		status, fromUserID, "department head decision", nil)
	if err != nil {
		return nil, err
	}

	if err := s.reports.ConsumeAction(reportID, models.ActionInitialApproval); err != nil {
		log.Printf("workflow: failed to consume pending action for report %d: %v", reportID, err)
	}

	title := "Initial approval granted"
	if status == models.StatusRejected {
		title = "Request rejected"
	}
	s.notifier.Send(updated.AuthorID, updated.AuthorType, title,
		fmt.Sprintf("Report %s is now %s", updated.ReportNumber, updated.Status),
		updated.ReportID)
	return updated, nil
}

// RequestSecondApproval forwards an initially approved request to the
// dissemination head. Response-driven like the initial request: no status
// change here, and an already-open marker is not re-notified.
func (s *WorkflowService) RequestSecondApproval(reportID, fromUserID int) error {
	report, err := s.reports.Get(reportID)
	if err != nil {
		return err
	}
	if report.Status != models.StatusInitialApproval {
		return &InvalidTransitionError{Current: report.Status, Attempted: models.StatusApproved}
	}

	head, err := s.dir.DisseminationHead()
	if err != nil {
		return err
	}
	if head == nil {
		return fmt.Errorf("%w: no dissemination head configured", ErrPreconditionFailed)
	}

	opened, err := s.reports.OpenAction(reportID, models.ActionSecondApproval, fromUserID, head.UserID)
	if err != nil {
		return err
	}
	if !opened {
		return nil
	}

	s.notifier.Send(head.UserID, models.UserTypeStaff, "Second approval requested",
		fmt.Sprintf("Report %s passed initial approval and awaits your decision", report.ReportNumber),
		report.ReportID)
	return nil
}

// DisseminationDeptResponse applies the second-stage decision. Accepting a
// payment-required request routes it into PAYMENT_PENDING (creating the
// linked payment if absent); otherwise it goes straight to APPROVED. The
// current status is validated before the payment row is written so a
// rejected transition leaves no orphan payment behind.
func (s *WorkflowService) DisseminationDeptResponse(reportID int, status models.ReportStatus, fromUserID int, fromUserType string) (*models.Report, error) {
	report, err := s.reports.Get(reportID)
	if err != nil {
		return nil, err
	}

	head, err := s.dir.DisseminationHead()
	if err != nil {
		return nil, err
	}
	if fromUserType != models.UserTypeStaff || head == nil || head.UserID != fromUserID {
		return nil, ErrForbidden
	}

	var target models.ReportStatus
	switch status {
	case models.StatusRejected:
		target = models.StatusRejected
	case models.StatusApproved, models.StatusPaymentPending:
		target = models.StatusApproved
		if report.PaymentRequired {
			target = models.StatusPaymentPending
		}
	default:
		return nil, &InvalidTransitionError{Current: report.Status, Attempted: status}
	}

	if report.Status != models.StatusInitialApproval {
		return nil, &InvalidTransitionError{Current: report.Status, Attempted: target}
	}

	extra := map[string]interface{}{}
	if target == models.StatusPaymentPending && report.PaymentID == nil {
		payment, err := s.ledger.Create(report.ReportID, report.AuthorID)
		if err != nil {
			return nil, err
		}
		extra["payment_id"] = payment.PaymentID
	}

	updated, err := s.reports.Transition(reportID,
		[]models.ReportStatus{models.StatusInitialApproval},
		target, fromUserID, "dissemination department decision", extra)
	if err != nil {
		return nil, err
	}

	if err := s.reports.ConsumeAction(reportID, models.ActionSecondApproval); err != nil {
		log.Printf("workflow: failed to consume pending action for report %d: %v", reportID, err)
	}

	message := fmt.Sprintf("Report %s is now %s", updated.ReportNumber, updated.Status)
	if updated.Status == models.StatusPaymentPending {
		message = fmt.Sprintf("Report %s requires payment before it can proceed", updated.ReportNumber)
	}
	s.notifier.Send(updated.AuthorID, updated.AuthorType, "Dissemination decision", message, updated.ReportID)
	return updated, nil
}

// Approve is the administrative override. From DEPUTY_APPROVED it acts as
// the final sign-off (FINAL_APPROVAL); from any other non-terminal state it
// sets APPROVED. Payment gating is deliberately bypassed.
func (s *WorkflowService) Approve(reportID, actingUserID int) (*models.Report, error) {
	report, err := s.reports.Get(reportID)
	if err != nil {
		return nil, err
	}
	if report.Status.IsTerminal() {
		return nil, &InvalidTransitionError{Current: report.Status, Attempted: models.StatusApproved}
	}

	target := models.StatusApproved
	if report.Status == models.StatusDeputyApproved {
		target = models.StatusFinalApproval
	}

	updated, err := s.reports.Transition(reportID,
		[]models.ReportStatus{report.Status}, target, actingUserID, "administrative approval", nil)
	if err != nil {
		return nil, err
	}

	s.notifier.Send(updated.AuthorID, updated.AuthorType, "Report approved",
		fmt.Sprintf("Report %s is now %s", updated.ReportNumber, updated.Status),
		updated.ReportID)
	return updated, nil
}

// Reject is the administrative override into the terminal Rejected state.
func (s *WorkflowService) Reject(reportID, actingUserID int) (*models.Report, error) {
	report, err := s.reports.Get(reportID)
	if err != nil {
		return nil, err
	}
	if report.Status.IsTerminal() {
		return nil, &InvalidTransitionError{Current: report.Status, Attempted: models.StatusRejected}
	}

	updated, err := s.reports.Transition(reportID,
		[]models.ReportStatus{report.Status}, models.StatusRejected, actingUserID, "administrative rejection", nil)
	if err != nil {
		return nil, err
	}

	s.notifier.Send(updated.AuthorID, updated.AuthorType, "Report rejected",
		fmt.Sprintf("Report %s was rejected", updated.ReportNumber),
		updated.ReportID)
	return updated, nil
}

// DeputyApproval moves a fully gated request to DEPUTY_APPROVED. The
// payment gate is checked first: a payment-required report whose payment is
// not CONFIRMED fails with ErrPaymentNotVerified and keeps its status.
func (s *WorkflowService) DeputyApproval(reportID, actingUserID int) (*models.Report, error) {
	report, err := s.reports.Get(reportID)
	if err != nil {
		return nil, err
	}
	if err := s.checkPaymentGate(report); err != nil {
		return nil, err
	}

	updated, err := s.reports.Transition(reportID,
		[]models.ReportStatus{models.StatusPaymentVerified, models.StatusApproved},
		models.StatusDeputyApproved, actingUserID, "deputy approval", nil)
	if err != nil {
		return nil, err
	}

	s.notifier.Send(updated.AuthorID, updated.AuthorType, "Deputy approval",
		fmt.Sprintf("Report %s was approved by the deputy", updated.ReportNumber),
		updated.ReportID)
	return updated, nil
}

// Publish sets the terminal PUBLISHED state. Irreversible; publishing an
// already published report fails with InvalidTransition.
func (s *WorkflowService) Publish(reportID, actingUserID int) (*models.Report, error) {
	report, err := s.reports.Get(reportID)
	if err != nil {
		return nil, err
	}
	if err := s.checkPaymentGate(report); err != nil {
		return nil, err
	}

	updated, err := s.reports.Transition(reportID,
		[]models.ReportStatus{models.StatusDeputyApproved, models.StatusFinalApproval},
		models.StatusPublished, actingUserID, "published", nil)
	if err != nil {
		return nil, err
	}

	s.notifier.Send(updated.AuthorID, updated.AuthorType, "Report published",
		fmt.Sprintf("Report %s has been published", updated.ReportNumber),
		updated.ReportID)
	return updated, nil
}

// HandlePaymentConfirmed is invoked by the payment-update path when the
// ledger confirms a payment. The owning report advances PAYMENT_PENDING ->
// PAYMENT_VERIFIED as a side effect of the payment update; a report that
// already moved on is logged, not failed.
func (s *WorkflowService) HandlePaymentConfirmed(paymentID int) (*models.Payment, error) {
	payment, err := s.ledger.MarkConfirmed(paymentID)
	if err != nil {
		return nil, err
	}

	updated, err := s.reports.Transition(payment.ReportID,
		[]models.ReportStatus{models.StatusPaymentPending},
		models.StatusPaymentVerified, SystemActorID, "payment confirmed", nil)
	if err != nil {
		if IsInvalidTransition(err) || errors.Is(err, ErrReportNotFound) {
			log.Printf("workflow: payment %d confirmed but report %d not advanced: %v", paymentID, payment.ReportID, err)
			return payment, nil
		}
		return nil, err
	}

	s.notifier.Send(updated.AuthorID, updated.AuthorType, "Payment verified",
		fmt.Sprintf("Payment for report %s was confirmed", updated.ReportNumber),
		updated.ReportID)
	return payment, nil
}

// GetReportParentDepartment returns the department handling the report, or
// nil when the report has not been routed yet.
func (s *WorkflowService) GetReportParentDepartment(reportID int) (*models.Department, error) {
	report, err := s.reports.Get(reportID)
	if err != nil {
		return nil, err
	}
	if report.DepartmentID == nil {
		return nil, nil
	}
	return s.dir.GetDepartment(*report.DepartmentID)
}

func (s *WorkflowService) checkPaymentGate(report *models.Report) error {
	if !report.PaymentRequired {
		return nil
	}
	payment, err := s.ledger.GetByReport(report.ReportID)
	if err != nil {
		return err
	}
	if payment == nil {
		return ErrPaymentNotVerified
	}
	switch payment.PaymentStatus {
	case models.PaymentStatusConfirmed, models.PaymentStatusCompleted:
		return nil
	}
	return ErrPaymentNotVerified
}
