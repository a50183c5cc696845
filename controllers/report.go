package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"report-workflow-api/config"
	"report-workflow-api/models"
	"report-workflow-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateReportRequest struct {
	Title           string  `json:"title" binding:"required"`
	Description     *string `json:"description"`
	Category        *string `json:"category"`
	AdminUnits      *string `json:"admin_units"`
	PaymentRequired bool    `json:"payment_required"`
	// Routed requests enter the department-assignment queue; simple reports
	// go straight to the administrative approve/reject flow.
	Routed bool `json:"routed"`
}

// CreateReport creates a report/publication request owned by the caller.
func CreateReport(c *gin.Context) {
	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, authorType, ok := actingActor(c)
	if !ok {
		return
	}

	status := models.StatusPending
	if req.Routed {
		status = models.StatusPendingDepartmentAssignment
	}

	now := time.Now()
	report := models.Report{
		ReportNumber:    generateReportNumber(),
		Title:           utils.SanitizeInput(req.Title),
		Description:     req.Description,
		Status:          status,
		AuthorID:        userID,
		AuthorType:      authorType,
		Category:        req.Category,
		AdminUnits:      req.AdminUnits,
		PaymentRequired: req.PaymentRequired,
		CreateAt:        now,
		UpdateAt:        now,
	}

	if err := config.DB.Create(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create report"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"report":  report,
	})
}

// GetReport returns a single report with its department and payment.
func GetReport(c *gin.Context) {
	reportID, ok := reportIDParam(c)
	if !ok {
		return
	}

	var report models.Report
	err := config.DB.Preload("Department").Preload("Payment").Preload("Author").
		Where("report_id = ? AND delete_at IS NULL", reportID).
		First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"report":  report,
	})
}

// GetMyReports lists the caller's own reports, newest first. Authorship is
// (id, actor type) since staff and portal ids overlap.
func GetMyReports(c *gin.Context) {
	userID, userType, ok := actingActor(c)
	if !ok {
		return
	}

	var reports []models.Report
	err := config.DB.Preload("Department").Preload("Payment").
		Where("author_id = ? AND author_type = ? AND delete_at IS NULL", userID, userType).
		Order("create_at DESC").
		Find(&reports).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reports": reports,
		"total":   len(reports),
	})
}

// GetDeptHeadReviewReports lists reports currently waiting for the calling
// department head's action.
func GetDeptHeadReviewReports(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	dept, err := directory.GetDepartmentOfUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve department"})
		return
	}
	if dept == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"reports": []models.Report{},
			"total":   0,
		})
		return
	}

	var reports []models.Report
	err = config.DB.Preload("Department").Preload("Author").
		Where("department_id = ? AND status = ? AND delete_at IS NULL", dept.DepartmentID, models.StatusPendingApproval).
		Order("create_at DESC").
		Find(&reports).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reports": reports,
		"total":   len(reports),
	})
}

func generateReportNumber() string {
	return "RPT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}
