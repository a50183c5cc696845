package routes

import (
	"report-workflow-api/controllers"
	"report-workflow-api/middleware"
	"report-workflow-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)
			public.POST("/portal/login", controllers.PortalLogin)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Report Workflow API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Notifications
			protected.GET("/notifications", controllers.GetNotifications)
			protected.PUT("/notifications/:id/read", controllers.MarkNotificationRead)

			// Reports / publication requests
			reports := protected.Group("/reports")
			{
				reports.POST("", controllers.CreateReport)
				reports.GET("", controllers.GetMyReports)
				reports.GET("/:id", controllers.GetReport)
				reports.GET("/:id/department", controllers.GetReportParentDepartment)
				reports.GET("/:id/is-department-head", controllers.IsReportDepartmentHead)

				// Two-phase approval chain
				reports.POST("/:id/request-initial-approval", controllers.RequestInitialApproval)
				reports.POST("/:id/initial-response", controllers.InitialRequestResponse)
				reports.POST("/:id/request-second-approval", controllers.RequestSecondApproval)
				reports.POST("/:id/dissemination-response", controllers.DisseminationDeptResponse)

				// Department routing and administrative overrides
				reports.POST("/:id/assign-department", middleware.RequireRole(models.RoleAdmin), controllers.AssignDepartment)
				reports.POST("/:id/approve", middleware.RequireRole(models.RoleAdmin), controllers.ApproveReport)
				reports.POST("/:id/reject", middleware.RequireRole(models.RoleAdmin), controllers.RejectReport)

				// Deputy sign-off and publication
				reports.POST("/:id/deputy-approval", middleware.RequireRole(models.RoleDeputy, models.RoleAdmin), controllers.DeputyApproval)
				reports.POST("/:id/publish", middleware.RequireRole(models.RoleAdmin), controllers.PublishReport)
			}

			// Department head work queue
			deptHead := protected.Group("/dept-head")
			{
				deptHead.GET("/reports", controllers.GetDeptHeadReviewReports)
			}

			// Payments
			payments := protected.Group("/payments")
			{
				payments.GET("/:id", controllers.GetPayment)
				payments.PUT("/:id/price", middleware.RequireRole(models.RoleAdmin), controllers.SetPaymentPrice)
				payments.POST("/:id/confirm", middleware.RequireRole(models.RoleAdmin), controllers.ConfirmPayment)
			}
		}
	}
}
