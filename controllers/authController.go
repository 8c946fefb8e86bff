package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"civictrack-be/config"
	"civictrack-be/models"
	authUtils "civictrack-be/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var citizenCollection *mongo.Collection = config.GetCollection("citizens")
var officialCollection *mongo.Collection = config.GetCollection("officials")

// RegisterCitizen handles citizen registration
func RegisterCitizen(c *gin.Context) {
	var input struct {
		FirstName    string  `json:"firstName" binding:"required,max=50"`
		LastName     string  `json:"lastName" binding:"required,max=50"`
		Email        string  `json:"email" binding:"required,email"`
		Phone        string  `json:"phone" binding:"required,max=20"`
		Address      *string `json:"address,omitempty"`
		Constituency string  `json:"constituency" binding:"required,max=100"`
		Password     string  `json:"password" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := citizenCollection.CountDocuments(ctx, bson.M{"email": input.Email})
	if err != nil {
		log.Println("Error checking existing citizen:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Citizen with this email already exists"})
		return
	}

	citizen := models.Citizen{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Phone:        input.Phone,
		Address:      input.Address,
		Constituency: input.Constituency,
		Password:     input.Password,
		Points:       0,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := citizen.HashPassword(); err != nil {
		log.Println("Error hashing password:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	result, err := citizenCollection.InsertOne(ctx, citizen)
	if err != nil {
		log.Println("Error inserting citizen:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":           result.InsertedID,
		"firstName":    citizen.FirstName,
		"lastName":     citizen.LastName,
		"email":        citizen.Email,
		"constituency": citizen.Constituency,
		"createdAt":    citizen.CreatedAt,
	})
}

// LoginCitizen handles citizen login and issues a role=citizen token
func LoginCitizen(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var citizen models.Citizen
	err := citizenCollection.FindOne(ctx, bson.M{"email": input.Email}).Decode(&citizen)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if !citizen.ComparePassword(input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := authUtils.GenerateAndSetToken(citizen.ID.Hex(), "citizen")
	if err != nil {
		log.Println("Error generating token:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	setAuthCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"id":           citizen.ID,
		"firstName":    citizen.FirstName,
		"lastName":     citizen.LastName,
		"email":        citizen.Email,
		"constituency": citizen.Constituency,
		"points":       citizen.Points,
		"token":        token,
	})
}

// LoginOfficial handles official login and issues a role=official token
func LoginOfficial(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var official models.Official
	err := officialCollection.FindOne(ctx, bson.M{"email": input.Email}).Decode(&official)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if !official.ComparePassword(input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := authUtils.GenerateAndSetToken(official.ID.Hex(), "official")
	if err != nil {
		log.Println("Error generating token:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	setAuthCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"id":           official.ID,
		"firstName":    official.FirstName,
		"lastName":     official.LastName,
		"email":        official.Email,
		"department":   official.Department,
		"constituency": official.Constituency,
		"token":        token,
	})
}

// GetMe retrieves the authenticated citizen's profile
func GetMe(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	objectID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var citizen models.Citizen
	err = citizenCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&citizen)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           citizen.ID,
		"firstName":    citizen.FirstName,
		"lastName":     citizen.LastName,
		"email":        citizen.Email,
		"constituency": citizen.Constituency,
		"points":       citizen.Points,
		"createdAt":    citizen.CreatedAt,
	})
}

// LogoutUser clears the auth_token cookie
func LogoutUser(c *gin.Context) {
	environment := os.Getenv("GO_ENV")
	domain := os.Getenv("DOMAIN")

	c.SetCookie("auth_token", "", -1, "/", domain, environment == "production", true)
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

func setAuthCookie(c *gin.Context, token string) {
	environment := os.Getenv("GO_ENV")
	domain := os.Getenv("DOMAIN")

	// For production, don't set domain to allow cross-origin cookies
	if environment == "production" {
		domain = ""
	}

	cookie := &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		MaxAge:   3600, // 1 hour
		Path:     "/",
		Domain:   domain,
		Secure:   environment == "production",
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	}
	http.SetCookie(c.Writer, cookie)
}
