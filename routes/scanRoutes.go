package routes

import (
	"civictrack-be/controllers"

	"github.com/gin-gonic/gin"
)

// ScanRoutes sets up the QR scan flow. Deliberately unauthenticated: field
// crews scan stickers on-site without accounts; the token is the capability.
func ScanRoutes(r *gin.Engine) {
	scan := r.Group("/api/scan")
	{
		scan.GET("/:token", controllers.GetScanIssue)
		scan.POST("/:token/event", controllers.PostFieldEvent)
	}
}
