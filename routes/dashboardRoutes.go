package routes

import (
	"civictrack-be/controllers"
	"civictrack-be/middlewares"

	"github.com/gin-gonic/gin"
)

// DashboardRoutes sets up the citizen dashboard routes
func DashboardRoutes(r *gin.Engine) {
	dashboard := r.Group("/api/dashboard", middlewares.AuthMiddleware())
	{
		dashboard.GET("", controllers.GetDashboard)
	}
}
