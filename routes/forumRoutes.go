package routes

import (
	"civictrack-be/controllers"
	"civictrack-be/middlewares"

	"github.com/gin-gonic/gin"
)

// ForumRoutes sets up the constituency forum routes
func ForumRoutes(r *gin.Engine) {
	forum := r.Group("/api/forum", middlewares.AuthMiddleware())
	{
		forum.GET("", controllers.ListPosts)
		forum.POST("/new", controllers.CreatePost)
		forum.POST("/:postId/upvote", controllers.UpvotePost)
		forum.POST("/:postId/unvote", controllers.UnvotePost)
	}
}
