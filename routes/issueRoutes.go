package routes

import (
	"civictrack-be/controllers"
	"civictrack-be/middlewares"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the citizen-facing issue routes
func IssueRoutes(r *gin.Engine) {
	issue := r.Group("/api/issue")
	{
		issue.POST("/report", middlewares.AuthMiddleware(), middlewares.IssueRateLimiter(10), controllers.ReportIssue)
		issue.GET("/mine", middlewares.AuthMiddleware(), controllers.MyIssues)
		issue.GET("/:id/events", middlewares.AuthMiddleware(), controllers.GetIssueTimeline)
	}
}
