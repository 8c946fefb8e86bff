package routes

import (
	"civictrack-be/controllers"
	"civictrack-be/middlewares"

	"github.com/gin-gonic/gin"
)

// OfficialRoutes sets up the official console routes
func OfficialRoutes(r *gin.Engine) {
	official := r.Group("/api/official", middlewares.AuthMiddleware(), middlewares.RequireOfficial())
	{
		official.GET("/queue", controllers.OfficialQueue)
		official.POST("/updateStatus", controllers.UpdateIssueStatus)
	}
}
