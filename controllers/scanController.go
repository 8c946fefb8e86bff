package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"civictrack-be/models"
	"civictrack-be/services"

	"github.com/gin-gonic/gin"
)

// GetScanIssue resolves a QR token to its issue plus recent crew events.
// Hit by field crews on their phones right after scanning a sticker.
func GetScanIssue(c *gin.Context) {
	token := c.Param("token")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issue, err := services.GetIssueByToken(ctx, token)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid QR"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	events, err := services.ListFieldEvents(ctx, issue.ID, 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load field events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"issue": gin.H{
			"id":        issue.ID,
			"title":     issue.Title,
			"issueType": issue.IssueType,
			"location":  issue.Location,
			"status":    issue.Status,
			"latitude":  issue.Latitude,
			"longitude": issue.Longitude,
			"createdAt": issue.CreatedAt,
			"dueAt":     issue.DueAt,
		},
		"events": events,
	})
}

// PostFieldEvent logs a crew check-in (ARRIVED, STARTED or COMPLETED)
// against the scanned issue. Field events never change issue status.
func PostFieldEvent(c *gin.Context) {
	token := c.Param("token")

	var input struct {
		Event     string   `json:"event" binding:"required"`
		Latitude  *float64 `json:"latitude,omitempty"`
		Longitude *float64 `json:"longitude,omitempty"`
		Photo     *string  `json:"photo,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kind := models.FieldEventKind(input.Event)
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issue, err := services.GetIssueByToken(ctx, token)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid QR"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	event, err := services.AppendFieldEvent(ctx, issue.ID, kind, input.Latitude, input.Longitude, input.Photo)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save event"})
		}
		return
	}

	c.JSON(http.StatusCreated, event)
}
