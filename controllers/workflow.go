package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"report-workflow-api/models"
	"report-workflow-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	workflow  *services.WorkflowService
	directory *services.GormDepartmentDirectory
	ledger    *services.GormPaymentLedger
)

// InitServices wires the workflow engine and its collaborators. Called once
// from main after the database connection is up.
func InitServices(db *gorm.DB) {
	store := services.NewGormReportStore(db)
	directory = services.NewGormDepartmentDirectory(db)
	ledger = services.NewGormPaymentLedger(db)
	notifier := services.NewNotificationService(db)
	workflow = services.NewWorkflowService(store, directory, ledger, notifier)
}

func reportIDParam(c *gin.Context) (int, bool) {
	reportID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reportID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return 0, false
	}
	return reportID, true
}

func actingUserID(c *gin.Context) (int, bool) {
	userIDValue, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return 0, false
	}
	userID, ok := userIDValue.(int)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user context"})
		return 0, false
	}
	return userID, true
}

// actingActor returns the caller's id together with the actor type. Staff
// and portal ids overlap, so identity-sensitive operations need both.
func actingActor(c *gin.Context) (int, string, bool) {
	userID, ok := actingUserID(c)
	if !ok {
		return 0, "", false
	}
	userTypeValue, _ := c.Get("userType")
	userType, _ := userTypeValue.(string)
	if userType == "" {
		userType = models.UserTypeStaff
	}
	return userID, userType, true
}

func respondWorkflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrReportNotFound),
		errors.Is(err, services.ErrDepartmentNotFound),
		errors.Is(err, services.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to perform this action"})
	case errors.Is(err, services.ErrPaymentNotVerified):
		c.JSON(http.StatusConflict, gin.H{"error": "Payment has not been verified"})
	case errors.Is(err, services.ErrPreconditionFailed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case services.IsInvalidTransition(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// AssignDepartment routes a request to its owning department (admin only).
func AssignDepartment(c *gin.Context) {
	reportID, ok := reportIDParam(c)
	if !ok {
		return
	}

	var req struct {
		DepartmentID int `json:"department_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	report, err := workflow.AssignDepartment(reportID, req.DepartmentID, userID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Department assigned",
		"report":  report,
	})
}

// RequestInitialApproval asks the department head for the first-stage
// decision. Status is unchanged until the head responds.
func RequestInitialApproval(c *gin.Context) {
	reportID, ok := reportIDParam(c)
	if !ok {
		return
	}
	userID, userType, ok := actingActor(c)
	if !ok {
		return
	}

	if err := workflow.RequestInitialApproval(reportID, userID, userType); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Initial approval requested",
	})
}

// InitialRequestResponse records the department head's decision.
func InitialRequestResponse(c *gin.Context) {
	reportID, ok := reportIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID, userType, ok := actingActor(c)
	if !ok {
		return
	}

	report, err := workflow.InitialRequestResponse(models.ReportStatus(req.Status), reportID, userID, userType)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Decision recorded",
		"report":  report,
	})
}

// IsReportDepartmentHead tells the client whether head-only actions apply.
func IsReportDepartmentHead(c *gin.Context) {
	reportID, ok := reportIDParam(c)
	if !ok {
		return
	}
	userID, userType, ok := actingActor(c)
	if !ok {
		return
	}

	isHead, err := workflow.IsReportDepartmentHead(reportID, userID, userType)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"is_department_head": isHead,
	})
}

// RequestSecondApproval forwards the request to the dissemination head.
func RequestSecondApproval(c *gin.Context) {
	reportID, ok := reportIDParam(c)
	if !ok {
		return
	}
	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	if err := workflow.RequestSecondApproval(reportID, userID); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Second approval requested",
	})
}

// DisseminationDeptResponse records the second-stage decision.
func DisseminationDeptResponse(c *gin.Context) {
	reportID, ok := reportIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID, userType, ok := actingActor(c)
	if !ok {
		return
	}

	report, err := workflow.DisseminationDeptResponse(reportID, models.ReportStatus(req.Status), userID, userType)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Decision recorded",
		"report":  report,
	})
}

// ApproveReport is the administrative override (admin only).
func ApproveReport(c *gin.Context) {
	reportID, ok := reportIDParam(c)
	if !ok {
		return
	}
	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	report, err := workflow.Approve(reportID, userID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Report approved",
		"report":  report,
	})
}

// RejectReport is the administrative override (admin only).
func RejectReport(c *gin.Context) {
	reportID, ok := reportIDParam(c)
	if !ok {
		return
	}
	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	report, err := workflow.Reject(reportID, userID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Report rejected",
		"report":  report,
	})
}

// DeputyApproval moves a payment-verified request to DEPUTY_APPROVED.
func DeputyApproval(c *gin.Context) {
	reportID, ok := reportIDParam(c)
	if !ok {
		return
	}
	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	report, err := workflow.DeputyApproval(reportID, userID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Deputy approval recorded",
		"report":  report,
	})
}

// PublishReport sets the terminal PUBLISHED state (admin only).
func PublishReport(c *gin.Context) {
	reportID, ok := reportIDParam(c)
	if !ok {
		return
	}
	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	report, err := workflow.Publish(reportID, userID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Report published",
		"report":  report,
	})
}

// GetReportParentDepartment returns the department handling the report.
func GetReportParentDepartment(c *gin.Context) {
	reportID, ok := reportIDParam(c)
	if !ok {
		return
	}

	dept, err := workflow.GetReportParentDepartment(reportID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"department": dept,
	})
}
