package routes

import (
	"civictrack-be/controllers"
	"civictrack-be/middlewares"

	"github.com/gin-gonic/gin"
)

// AuthRoutes sets up the authentication routes
func AuthRoutes(r *gin.Engine) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", controllers.RegisterCitizen)
		auth.POST("/login", controllers.LoginCitizen)
		auth.POST("/official/login", controllers.LoginOfficial)
		auth.GET("/me", middlewares.AuthMiddleware(), controllers.GetMe)
		auth.POST("/logout", controllers.LogoutUser)
	}
}
