package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"civictrack-be/config"
	"civictrack-be/models"
	"civictrack-be/routes"
	"civictrack-be/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	db := config.ConnectDB()
	if db == nil {
		log.Fatal("Failed to connect to MongoDB")
	}

	log.Println("MongoDB connection established successfully!")

	config.ConnectRedis()

	if err := models.EnsureQRTokenIndex(config.GetCollection("issues")); err != nil {
		log.Fatalf("Failed to create QR token index: %v", err)
	}
	if err := models.EnsureUpvoteIndex(config.GetCollection("forum_upvotes")); err != nil {
		log.Fatalf("Failed to create upvote index: %v", err)
	}
	if err := models.EnsureSLAIndex(config.GetCollection("issue_sla")); err != nil {
		log.Fatalf("Failed to create SLA index: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := services.SeedSLATable(ctx); err != nil {
		log.Println("SLA seed failed:", err)
	}
	cancel()

	// Due dates missed at creation (no SLA entry yet) get picked up here
	interval := 10 * time.Minute
	if raw := os.Getenv("SLA_RECONCILE_INTERVAL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			interval = parsed
		} else {
			log.Println("Invalid SLA_RECONCILE_INTERVAL, using default:", err)
		}
	}
	services.StartDueDateReconciler(context.Background(), interval)

	r := gin.Default()

	routes.AuthRoutes(r)
	routes.IssueRoutes(r)
	routes.OfficialRoutes(r)
	routes.ScanRoutes(r)
	routes.ForumRoutes(r)
	routes.DashboardRoutes(r)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
