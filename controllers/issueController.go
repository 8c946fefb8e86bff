package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"civictrack-be/models"
	"civictrack-be/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportIssue handles a citizen submitting a new issue
func ReportIssue(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	reporterID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var input struct {
		Title       string   `json:"title" binding:"max=200"`
		IssueType   string   `json:"issueType" binding:"required,max=100"`
		Description string   `json:"description" binding:"required,max=1000"`
		Location    string   `json:"location" binding:"required,max=200"`
		Department  string   `json:"department" binding:"required"`
		ImageURL    *string  `json:"imageUrl,omitempty"`
		Latitude    *float64 `json:"latitude,omitempty"`
		Longitude   *float64 `json:"longitude,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidDepartment(input.Department) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid department"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issue, err := services.CreateIssue(ctx, services.NewIssueInput{
		ReportedBy:  reporterID,
		Title:       input.Title,
		IssueType:   input.IssueType,
		Description: input.Description,
		Location:    input.Location,
		Department:  models.Department(input.Department),
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		ImageURL:    input.ImageURL,
	})
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create issue"})
		return
	}

	c.JSON(http.StatusCreated, issue)
}

// MyIssues lists the caller's active and past issues, each with its status
// timeline
func MyIssues(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	reporterID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	active, err := services.ListIssuesByReporter(ctx, reporterID, []models.IssueStatus{models.Pending, models.InProgress})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load active issues"})
		return
	}

	past, err := services.ListIssuesByReporter(ctx, reporterID, []models.IssueStatus{models.Resolved, models.Closed})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load past issues"})
		return
	}

	ids := make([]primitive.ObjectID, 0, len(active)+len(past))
	for _, issue := range active {
		ids = append(ids, issue.ID)
	}
	for _, issue := range past {
		ids = append(ids, issue.ID)
	}

	eventsByIssue, err := services.ListEventsForIssues(ctx, ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load issue timelines"})
		return
	}

	timelines := make(map[string][]models.IssueEvent, len(eventsByIssue))
	for id, events := range eventsByIssue {
		timelines[id.Hex()] = events
	}

	c.JSON(http.StatusOK, gin.H{
		"active":        active,
		"past":          past,
		"eventsByIssue": timelines,
	})
}

// GetIssueTimeline returns the full status ledger for one issue, oldest
// first
func GetIssueTimeline(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := services.GetIssueByID(ctx, issueID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	events, err := services.ListEventsForIssue(ctx, issueID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load timeline"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}
