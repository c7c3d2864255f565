package routes

import (
	"github.com/gin-gonic/gin"

	"franchise-backoffice-api/controllers"
	"franchise-backoffice-api/middleware"
	"franchise-backoffice-api/models"
)

func SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)

			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Franchise Back Office API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/profile", controllers.GetProfile)

			// Payouts: finance computes and settles; admin can too
			investments := protected.Group("/investments")
			investments.Use(middleware.RequireRole(models.RoleFinance, models.RoleAdmin))
			{
				investments.GET("/:id/payouts/preview", controllers.PreviewPayout)
				investments.GET("/:id/payouts", controllers.ListPayouts)
				investments.POST("/:id/payouts", controllers.CreatePayout)
			}

			payouts := protected.Group("/payouts")
			payouts.Use(middleware.RequireRole(models.RoleFinance, models.RoleAdmin))
			{
				payouts.POST("/:id/pay", controllers.MarkPayoutPaid)
			}

			// Notification feeds: any authenticated back-office user; the
			// requested role is validated by the service
			notifications := protected.Group("/notifications")
			{
				notifications.GET("/:role/summary", controllers.GetNotificationSummary)
				notifications.GET("/:role", controllers.GetNotificationList)
			}
		}
	}
}
